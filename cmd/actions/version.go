package actions

import (
	"regexp"

	"github.com/chronophylos/locfinder/buildinfo"
)

type versionAction struct {
	options *Options
}

func newVersionAction() *versionAction {
	return &versionAction{
		options: &Options{
			Name:  "version",
			Re:    regexp.MustCompile(`(?i)^~version$`),
			Usage: "~version",
		},
	}
}

func (a versionAction) GetOptions() *Options {
	return a.options
}

func (a versionAction) Run(e *Event) error {
	e.Sayf("locfinder %s", buildinfo.Version())

	if commit := buildinfo.Commit(); commit != "" {
		e.Sayf("commit %s built %s", commit, buildinfo.BuildDate())
	}

	return nil
}
