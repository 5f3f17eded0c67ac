// Package module wires contributions into the API using modkit
package module

import (
	"net/http"

	modkit "tally/internal/modkit"
	"tally/internal/modkit/httpkit"

	chttp "tally/internal/services/api/contributions/http"
	rdom "tally/internal/services/reconciler/domain"
)

// Module implements the contributions API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws   []func(http.Handler) http.Handler
	ports any

	enq rdom.EnqueuePort
}

// Ports declares the required injected worker port for this API module
type Ports struct {
	Enqueuer rdom.EnqueuePort
}

// New constructs the contributions module (config-driven, parity with other API modules)
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("contributions"),
		modkit.WithPrefix("/contributions"),
	}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Enqueuer == nil {
		panic("contributions API module requires Enqueuer port (from services/reconciler)")
	}

	return &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		ports:  injected,
		enq:    injected.Enqueuer,
	}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		chttp.Register(rr, m.enq)
	})
}

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return m.prefix }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
