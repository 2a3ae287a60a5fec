package main

import (
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"ghostodon/server"
	"ghostodon/shared"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the local web UI and JSON API",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cfg := shared.LoadConfig()
			logger = initLogger(cfg, os.Stdout)
			app := fx.New(
				coreOptions(cfg, logger),
				fx.Provide(
					server.NewHTTPServer,
					fx.Annotate(server.NewMux, fx.ParamTags(`group:"handler_group"`)),
					asHandlerGroupDef(server.NewAuthHandlerGroup),
					asHandlerGroupDef(server.NewApiHandlerGroup),
					asHandlerGroupDef(server.NewStreamHandlerGroup),
					asHandlerGroupDef(server.NewWebHandlerGroup),
					asHandlerGroupDef(server.NewMetricsHandlerGroup),
				),
				fx.Invoke(
					registerHooks,
					func(*http.Server) {},
				),
			)
			app.Run()
		},
	}
}
