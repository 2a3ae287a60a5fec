package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"ghostodon/dal"
	"ghostodon/logic"
	"ghostodon/server"
	"ghostodon/shared"
	"ghostodon/texts"
)

type initErrorHandler struct {
}

func (*initErrorHandler) HandleError(err error) {
	fmt.Fprintf(os.Stderr, "Failed to initialize dependency injection\n%v", err)
}

var logger *log.Logger

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "ghostodon",
		Short:        "A small Mastodon client: local web UI, JSON API and command line",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(
		newServeCmd(),
		newLoginCmd(),
		newConnectCmd(),
		newWhoamiCmd(),
		newLogoutCmd(),
		newTimelineCmd(),
		newResolveCmd(),
		newStreamCmd(),
	)
	return rootCmd
}

// Everything except the HTTP surface. Shared by the server and the CLI commands.
func coreOptions(cfg *shared.Config, lg *log.Logger) fx.Option {
	provideConfig := func() *shared.Config {
		return cfg
	}
	provideLogger := func() shared.ILogger {
		return lg
	}
	return fx.Options(
		fx.NopLogger,
		fx.Provide(
			provideConfig,
			provideLogger,
			shared.NewUserAgent,
			logic.NewMetrics,
			logic.NewRestFactory,
			logic.NewStreamer,
			logic.NewClientFactory,
			logic.NewSessionManager,
			logic.NewAuthFlow,
			logic.NewFeeds,
			logic.NewBlockedInstances,
			logic.NewProfiler,
			texts.NewTexts,
			dal.NewRepo,
		),
		fx.Invoke(
			func(repo dal.IRepo) { repo.InitUpdateDb() },
		),
		fx.ErrorHook(&initErrorHandler{}),
	)
}

func asHandlerGroupDef(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(server.IHandlerGroup)),
		fx.ResultTags(`group:"handler_group"`),
	)
}

// initLogger writes to the configured log file, and also to console if it is not nil.
func initLogger(cfg *shared.Config, console io.Writer) *log.Logger {

	var writers []io.Writer
	if console != nil {
		writers = append(writers, console)
	}
	if cfg.LogFile != "" {
		logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0666)
		if err != nil {
			msg := fmt.Sprintf("Failed to open log file '%v': %v", cfg.LogFile, err)
			log.Fatal(msg)
		}
		writers = append(writers, logFile)
	}
	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}

	logger := log.New(io.MultiWriter(writers...))
	logger.SetReportTimestamp(true)
	logger.SetTimeFormat("2006-01-02 15:04:05.000")
	switch cfg.LogLevel {
	case "Debug":
		logger.SetLevel(log.DebugLevel)
	case "Info":
		logger.SetLevel(log.InfoLevel)
	case "Warn":
		logger.SetLevel(log.WarnLevel)
	case "Error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.ErrorLevel)
	}
	logger.SetReportCaller(true)

	return logger
}

func registerHooks(lc fx.Lifecycle, metrics logic.IMetrics, repo dal.IRepo, prof logic.IProfiler) {
	lc.Append(
		fx.Hook{
			OnStart: func(context.Context) error {
				logger.Printf("Application starting up")
				metrics.ServiceStarted()
				prof.Start()
				return nil
			},
			OnStop: func(context.Context) error {
				logger.Printf("Application shutting down")
				prof.Stop()
				return repo.Close()
			},
		},
	)
}
