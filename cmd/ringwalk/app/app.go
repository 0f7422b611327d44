package app

import (
	"context"
	"errors"

	"github.com/purehyperbole/ringwalk/internal/config"
	"github.com/purehyperbole/ringwalk/internal/flagutil"
	"github.com/purehyperbole/ringwalk/internal/observability"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const envPrefix = config.EnvPrefix

// env is what the global flags resolve to, shared with every command
type env struct {
	cfg    *config.Config
	logger *zap.Logger
}

func Instance() *cli.App {
	st := &env{}

	var configPath, logLevel, logFormat string
	var logOutputs cli.StringSlice

	return &cli.App{
		Name:  "ringwalk",
		Usage: "Relay counted pings between UDP nodes until they find their way home",
		Commands: []*cli.Command{
			nodeCmd(st),
			ringCmd(st),
			sendCmd(st),
		},
		Flags: []cli.Flag{
			flagutil.String(&configPath, "config", []string{"c"}, "", "YAML config file, defaults to ringwalk.yaml in ., ./configs or ~/.ringwalk", false),
			flagutil.String(&logLevel, "log-level", nil, envPrefix, "Verbosity of log, valid values are: debug, info, warn, error", false),
			flagutil.String(&logFormat, "log-format", nil, envPrefix, "Log encoding, console or json", false),
			flagutil.StringSlice(&logOutputs, "log-output", nil, envPrefix, "Log destinations: stdout, stderr or a file path", false),
		},
		Before: func(ctx *cli.Context) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			if ctx.IsSet("log-level") {
				cfg.Log.Level = logLevel
			}
			if ctx.IsSet("log-format") {
				cfg.Log.Format = logFormat
			}
			if ctx.IsSet("log-output") {
				cfg.Log.Outputs = logOutputs.Value()
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := observability.SetupLogger(cfg.Log)
			if err != nil {
				return err
			}

			st.cfg = cfg
			st.logger = logger

			return nil
		},
		After: func(ctx *cli.Context) error {
			if st.logger != nil {
				st.logger.Sync()
			}
			return nil
		},
	}
}

func Run(ctx context.Context, args []string) error {
	app := Instance()
	return app.RunContext(ctx, args)
}

// interrupts are the normal way a node ends
func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
