// Package module wires the registry reads into the API using modkit
package module

import (
	"net/http"

	modkit "tally/internal/modkit"
	"tally/internal/modkit/httpkit"

	rhttp "tally/internal/services/api/registry/http"
	cdom "tally/internal/services/catalog/domain"
)

// Module implements the registry API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws   []func(http.Handler) http.Handler
	ports any

	query cdom.QueryPort
}

// Ports declares the required injected catalog port for this API module
type Ports struct {
	Query cdom.QueryPort
}

// New constructs the registry module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("registry"),
	}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Query == nil {
		panic("registry API module requires Query port (from services/catalog)")
	}

	return &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		ports:  injected,
		query:  injected.Query,
	}
}

// MountRoutes mounts the module routes on the given router.
// The registry owns top-level read paths so there is no shared prefix
func (m *Module) MountRoutes(r httpkit.Router) {
	if m.prefix == "" {
		rhttp.Register(r, m.query)
		return
	}
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		rhttp.Register(rr, m.query)
	})
}

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return m.prefix }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
