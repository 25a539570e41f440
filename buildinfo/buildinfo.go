package buildinfo

// Build Infos, set with -ldflags "-X github.com/chronophylos/locfinder/buildinfo.version=..."
var (
	version   string
	commit    string
	buildDate string
)

const devVersion = "dev"

func Version() string {
	if version == "" {
		return devVersion
	}
	return version
}

func Commit() string {
	return commit
}

func BuildDate() string {
	return buildDate
}

// UserAgent identifies the application to web services.
func UserAgent() string {
	return "LocationFinder/" + Version()
}
