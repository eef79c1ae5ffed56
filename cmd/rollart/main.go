package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/abrezinsky/rollart/internal/app"
	"github.com/abrezinsky/rollart/internal/auth"
	"github.com/abrezinsky/rollart/internal/catalog"
	"github.com/abrezinsky/rollart/internal/config"
	"github.com/abrezinsky/rollart/internal/logger"
	"github.com/abrezinsky/rollart/web"
)

var version = "dev"

const (
	flagConfig       = "config"
	flagPort         = "port"
	flagDB           = "db"
	flagPassword     = "password"
	flagLogLevel     = "log-level"
	flagLogFormat    = "log-format"
	flagCatalog      = "catalog"
	flagBaseURL      = "base-url"
	flagLiveScoreURL = "livescore-url"
	flagHTTPLog      = "http-log"
)

func newCLI(stdout io.Writer) *cli.App {
	return &cli.App{
		Name:    "rollart",
		Usage:   "Live scoring for artistic roller skating competitions",
		Version: version,
		Writer:  stdout,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the scoring server",
				Flags:  serveFlags(),
				Action: serve,
			},
			{
				Name:  "catalog",
				Usage: "Inspect element catalogs",
				Subcommands: []*cli.Command{
					{
						Name:      "check",
						Usage:     "Validate a catalog file",
						ArgsUsage: "<file>",
						Action:    checkCatalog,
					},
					{
						Name:   "export",
						Usage:  "Print the built-in catalog with every value label expanded",
						Action: exportCatalog,
					},
				},
			},
		},
	}
}

func serveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: flagConfig, Aliases: []string{"c"}, Usage: "config file (default ./rollart.yaml)"},
		&cli.IntFlag{Name: flagPort, Aliases: []string{"p"}, Usage: "HTTP server port"},
		&cli.StringFlag{Name: flagDB, Usage: "SQLite database path"},
		&cli.StringFlag{Name: flagPassword, Usage: "operator password (generated if not set)"},
		&cli.StringFlag{Name: flagLogLevel, Usage: "log level: debug, info, warn, error"},
		&cli.StringFlag{Name: flagLogFormat, Usage: "log format: text or json"},
		&cli.StringFlag{Name: flagCatalog, Usage: "element catalog YAML (built-in when not set)"},
		&cli.StringFlag{Name: flagBaseURL, Usage: "public base URL for the scoreboard link"},
		&cli.StringFlag{Name: flagLiveScoreURL, Usage: "live scoreboard endpoint"},
		&cli.BoolFlag{Name: flagHTTPLog, Usage: "log every HTTP request"},
	}
}

// loadConfig reads the config file and environment, then applies the flags
// that were given on the command line
func loadConfig(c *cli.Context) (*config.Config, error) {
	opts := config.DefaultOptions()
	opts.ConfigFile = c.String(flagConfig)
	cfg, err := config.Load(opts)
	if err != nil {
		return nil, err
	}

	if c.IsSet(flagPort) {
		cfg.Port = c.Int(flagPort)
	}
	overrides := map[string]*string{
		flagDB:           &cfg.DBPath,
		flagPassword:     &cfg.Password,
		flagLogLevel:     &cfg.LogLevel,
		flagLogFormat:    &cfg.LogFormat,
		flagCatalog:      &cfg.CatalogPath,
		flagBaseURL:      &cfg.BaseURL,
		flagLiveScoreURL: &cfg.LiveScoreURL,
	}
	for name, field := range overrides {
		if c.IsSet(name) {
			*field = c.String(name)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func serve(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	appLog := logger.NewWithOptions(os.Stdout, logger.ParseLevel(cfg.LogLevel), cfg.LogFormat)
	if c.Bool(flagHTTPLog) {
		appLog.EnableHTTPLogging()
	}

	password := cfg.Password
	if password == "" {
		password = auth.GeneratePassword()
		appLog.Info("Operator password", "password", password)
	}
	operatorAuth, err := auth.New(password)
	if err != nil {
		return err
	}

	a, err := app.New(appLog, app.Options{
		Config:   cfg,
		Auth:     operatorAuth,
		StaticFS: web.GetStaticFS(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.Run(ctx, cfg.Addr())
}

func checkCatalog(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return cli.Exit("catalog file is required", 2)
	}
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%s: %d elements OK\n", path, len(cat.Elements()))
	return nil
}

func exportCatalog(c *cli.Context) error {
	return catalog.Default().Encode(c.App.Writer)
}

func main() {
	if err := newCLI(os.Stdout).RunContext(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
