// Package module implements the catalog service module
package module

import (
	"tally/internal/modkit"
	"tally/internal/modkit/httpkit"
	"tally/internal/services/catalog/domain"
	"tally/internal/services/catalog/repo"
	"tally/internal/services/catalog/service"
)

// Ports exposed by the catalog module
type Ports struct {
	Query domain.QueryPort
}

// Module implements the catalog service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new catalog module
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	svc := service.New(deps.PG, repo.NewPG(), service.Config{
		HardLimit: opts.HardLimit,
	})

	m := &Module{deps: deps}
	m.ports = Ports{Query: svc}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "catalog" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
