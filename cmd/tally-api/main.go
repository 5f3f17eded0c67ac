// @title         Tally API
// @version       0.1.0
// @description   Contribution registry reads and action submission

package main

import (
	"context"

	"tally/internal/platform/config"
	"tally/internal/platform/logger"
	phttp "tally/internal/platform/net/http"
	"tally/internal/platform/store"

	"tally/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_")      // pgCfg lives under SERVICE_PGSQL_*
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_") // chCfg lives under SERVICE_CLICKHOUSE_*
	// bring up logging early
	l := logger.Get()

	// open the platform store (postgres + CH audit sink)
	st, err := store.Open(
		context.Background(),
		store.Config{
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", true),
			},
			CH: store.CHConfig{
				Enabled:    chCfg.MayBool("ENABLED", false),
				URL:        chCfg.MayString("DBURL", ""),
				ClientName: "tally",
				ClientTag:  "api",
			},
		},
		store.WithLogger(*logger.Get()),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// http server (reads CORE_API_PORT / CORE_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	// mount our API; the reconciler worker module comes back out so we can drive it
	ports := api.Mount(
		srv.Router(),
		api.Options{
			Config:        root,
			Store:         st,
			Logger:        l,
			EnableSwagger: apiCfg.MayBool("SWAGGER", true),
		},
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// surface anything left unconfirmed by a previous run before accepting work
	if n, err := ports.Worker.Recover(ctx); err != nil {
		l.Panic().Err(err).Msg("recovery scan failed")
	} else if n > 0 {
		l.Warn().Int("count", n).Msg("unconfirmed contributions found at startup")
	}

	go func() {
		if err := ports.Worker.Run(ctx); err != nil && ctx.Err() == nil {
			l.Error().Err(err).Msg("reconciliation worker stopped")
		}
	}()

	// run
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
