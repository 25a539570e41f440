package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/akamensky/argparse"
	"github.com/chronophylos/locfinder/buildinfo"
	"github.com/chronophylos/locfinder/cmd"
	"github.com/chronophylos/locfinder/cmd/view"
	"github.com/chronophylos/locfinder/config"
	"github.com/chronophylos/locfinder/history"
	"github.com/chronophylos/locfinder/logging"
	"github.com/chronophylos/locfinder/mapview"
	"github.com/chronophylos/locfinder/nominatim"
	"github.com/chronophylos/locfinder/osmmap"
	"github.com/chronophylos/locfinder/search"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Flags
var (
	showSecrets *bool
	debug       *bool
	configFile  *string
)

func main() {
	// Commandline Flags {{{
	parser := argparse.NewParser("locfinder", "Find places by name or on the map")

	debug = parser.Flag("", "debug",
		&argparse.Options{Help: "Enable debugging. Sets the log level to debug."})

	showSecrets = parser.Flag("", "show-secrets",
		&argparse.Options{Help: "Show secrets in log (eg. your redis password)."})

	configFile = parser.String("c", "config",
		&argparse.Options{Help: "Read this config file instead of looking for config.toml."})

	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}
	// }}}

	logging.Setup(os.Stderr, *debug)

	if err = config.LoadEnvFile(".env"); err != nil {
		log.Fatal().Err(err).Msg("Error loading .env")
	}

	conf, err := config.Load(*configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Error reading config")
	}

	log.Info().Msgf("Starting locfinder %s", buildinfo.Version())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Startup {{{
	var (
		backend   history.Backend
		osmClient *nominatim.Client
		analytics *logging.Analytics
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		backend, err = openBackend(gctx, conf.History)
		return err
	})

	g.Go(func() error {
		osmClient = nominatim.NewClient(nominatim.Options{
			BaseURL:   conf.Nominatim.BaseURL,
			UserAgent: buildinfo.UserAgent(),
			Language:  conf.Nominatim.Language,
			Timeout:   conf.Nominatim.Timeout,
			RateLimit: conf.Nominatim.RateLimit,
			Log:       log.Logger,
		})
		log.Info().
			Str("url", conf.Nominatim.BaseURL).
			Str("user-agent", buildinfo.UserAgent()).
			Msg("Created OpenStreetMaps Client")
		return nil
	})

	if conf.Analytics.Enabled {
		g.Go(func() error {
			var err error
			analytics, err = logging.OpenAnalytics(conf.Analytics.File)
			if err == nil {
				log.Info().Str("filename", conf.Analytics.File).Msg("Opened analytics log")
			}
			return err
		})
	}

	if err = g.Wait(); err != nil {
		if backend != nil {
			backend.Close()
		}
		log.Fatal().Err(err).Msg("Error starting up")
	}
	// }}}

	store := history.NewStore(backend, conf.History.Key, log.Logger)
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Closing history backend")
		}
	}()

	coordinator := search.New(ctx, osmClient, store, search.Options{
		Debounce:       conf.Search.Debounce,
		MinQueryLength: conf.Search.MinQueryLength,
		Log:            log.Logger,
	})
	defer coordinator.Close()

	if analytics != nil {
		defer analytics.Close()
		defer coordinator.Subscribe(trackSelections(analytics.Logger()))()
	}

	factory := osmmap.NewFactory(osmmap.Options{
		Subdomains: conf.Map.Subdomains,
	})
	adapter := mapview.New(factory.Load, osmClient, coordinator, mapview.Options{
		TileURL:     conf.Map.TileURL,
		Attribution: conf.Map.Attribution,
		Log:         log.Logger,
	})

	// a map that does not load is shown as an error, the search still works
	if err = adapter.Mount(ctx); err != nil {
		log.Warn().Err(err).Msg("Running without map")
	}
	defer adapter.Unmount()

	out := zerolog.SyncWriter(os.Stdout)
	defer coordinator.Subscribe(view.NewRenderer(out).OnStateChange)()

	manager := cmd.NewManager(log.Logger, out, coordinator, cmd.NewMap(adapter, factory))

	fmt.Fprintln(out, "Type a place to search, ~help for commands.")
	view.State(out, coordinator.State())

	runConsole(ctx, os.Stdin, manager)

	log.Info().Msg("Quitting")
}

// runConsole feeds lines from in to manager until EOF, ~quit or ctx is done.
func runConsole(ctx context.Context, in io.Reader, manager *cmd.Manager) {
	lines := make(chan string)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			log.Error().Err(err).Msg("Reading console")
		}
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Received signal")
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if manager.RunActions(line) {
				return
			}
		}
	}
}

// vim: set foldmarker={{{,}}} foldmethod=marker:
