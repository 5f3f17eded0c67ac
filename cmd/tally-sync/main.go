package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"tally/internal/modkit"
	"tally/internal/modkit/module"
	"tally/internal/platform/config"
	"tally/internal/platform/logger"
	"tally/internal/platform/store"

	dom "tally/internal/services/sync/domain"
	syncmod "tally/internal/services/sync/module"
)

func mustSetEnv(key, val string) {
	if val != "" {
		_ = os.Setenv(key, val)
	}
}

func main() {
	root := config.New()
	dbCfg := root.Prefix("SERVICE_PGSQL_")

	l := logger.Get()

	st, err := store.Open(context.Background(), store.Config{
		PG: store.PGConfig{
			Enabled:     true,
			URL:         dbCfg.MustString("DBURL"),
			MaxConns:    int32(dbCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: dbCfg.MayInt("SLOW_MS", 500),
			LogSQL:      dbCfg.MayBool("LOG_SQL", false),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// Flags
	var (
		fOwner  = flag.String("owner", "", "limit the run to one repository owner (requires -name)")
		fName   = flag.String("name", "", "limit the run to one repository name (requires -owner)")
		fConc   = flag.Int("concurrency", 4, "ledger submission concurrency")
		fTokens = flag.String("tokens", "", "comma-separated GitHub tokens (optional; can also come from env)")
		fStale  = flag.Int("stale_days", 0, "also report cached items not ledger-logged for N days (0 disables)")
	)
	flag.Parse()

	if (*fOwner == "") != (*fName == "") {
		l.Fatal().Msg("-owner and -name must be given together")
	}

	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		Log: *l,
	}

	// Export as env so the module can also read via FromConfig
	mustSetEnv("SYNC_CONCURRENCY", fmt.Sprintf("%d", *fConc))
	mustSetEnv("SYNC_GH_TOKENS", *fTokens)

	mod := syncmod.New(deps, syncmod.Options{
		Concurrency: *fConc,
		TokensCSV:   *fTokens,
	})
	module.Register(mod.Name(), mod.Ports())

	ports := module.MustPortsOf[syncmod.Ports](mod)

	rep, err := ports.Sync.FetchAndLog(context.Background(), dom.Filter{
		Owner: *fOwner,
		Name:  *fName,
	})
	if err != nil {
		l.Fatal().Err(err).Msg("sync run failed")
	}

	l.Info().
		Int("succeeded", rep.Succeeded).
		Int("total", rep.Total).
		Dur("elapsed", rep.Elapsed).
		Msg("sync run complete")

	if *fStale > 0 {
		stale, err := ports.Sync.StaleWorkItems(context.Background(), *fStale)
		if err != nil {
			l.Error().Err(err).Msg("stale scan failed")
		}
		for _, w := range stale {
			l.Warn().
				Int64("project", w.ProjectID).
				Int("number", w.Number).
				Str("status", w.Status).
				Msgf("work item not ledger-logged for over %d days", *fStale)
		}
	}

	if rep.Succeeded < rep.Total {
		os.Exit(1)
	}
}
