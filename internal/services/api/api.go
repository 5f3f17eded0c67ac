// Package api provides the HTTP API for the application
package api

import (
	"tally/internal/platform/config"
	"tally/internal/platform/logger"
	phttp "tally/internal/platform/net/http"
	"tally/internal/platform/store"

	"tally/internal/modkit"
	"tally/internal/modkit/httpkit"
	"tally/internal/modkit/module"
	"tally/internal/modkit/swaggerkit"

	contribmod "tally/internal/services/api/contributions/module"
	metamod "tally/internal/services/api/meta/module"
	registrymod "tally/internal/services/api/registry/module"

	catalogmod "tally/internal/services/catalog/module"
	reconcilermod "tally/internal/services/reconciler/module"
)

// Options are the API options
type Options struct {
	Config        config.Conf
	Store         *store.Store
	Logger        *logger.Logger
	EnableSwagger bool
}

// Mount mounts the API service onto the given router and returns the
// reconciler ports so the caller can run the worker loop
func Mount(r phttp.Router, opt Options) reconcilermod.Ports {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
	}
	// Construct the WORKER reconciler module first and extract its ports
	reconciler := reconcilermod.New(deps, reconcilermod.Options{})
	rPorts := module.MustPortsOf[reconcilermod.Ports](reconciler)

	catalog := catalogmod.New(deps)
	query := module.MustPortsOf[catalogmod.Ports](catalog).Query

	// queue depth probe for the health payload when the service exposes one
	var pending func() int
	if p, ok := rPorts.Enqueuer.(interface{ Pending() int }); ok {
		pending = p.Pending
	}

	// mutating routes sit behind the api key; empty key disables the check
	apiKey := opt.Config.Prefix("CORE_API_").MayString("KEY", "")

	mods := []module.Module{
		metamod.New(deps, modkit.WithPorts(metamod.Ports{Pending: pending})),
		registrymod.New(deps, modkit.WithPorts(registrymod.Ports{Query: query})),
		contribmod.New(deps,
			modkit.WithPorts(contribmod.Ports{Enqueuer: rPorts.Enqueuer}),
			modkit.WithMiddlewares(httpkit.APIKey(apiKey)),
		),
		reconciler, // include worker so its ports are registered
		catalog,
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		swaggerkit.Mount(r, opt.EnableSwagger)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its own prefix
			m.MountRoutes(api)
		}
	})

	return rPorts
}
