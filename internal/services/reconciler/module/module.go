// Package module wires the reconciliation worker and exposes its ports
package module

import (
	"context"

	"tally/internal/adapters/ledger"
	"tally/internal/core/contribution"
	"tally/internal/modkit"
	"tally/internal/modkit/httpkit"

	dom "tally/internal/services/reconciler/domain"
	"tally/internal/services/reconciler/service"
)

// Module defines the reconciler worker module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the reconciler module with its ports
func New(deps modkit.Deps, overrides Options) *Module {
	// Load defaults, then apply non-zero overrides
	opts := FromConfig(deps.Cfg)

	if overrides.TickMs != 0 {
		opts.TickMs = overrides.TickMs
	}
	if overrides.MaxAttempts != 0 {
		opts.MaxAttempts = overrides.MaxAttempts
	}
	if overrides.RetryBaseMs != 0 {
		opts.RetryBaseMs = overrides.RetryBaseMs
	}
	if overrides.GatewayURL != "" {
		opts.GatewayURL = overrides.GatewayURL
	}
	if overrides.ContractAddress != "" {
		opts.ContractAddress = overrides.ContractAddress
	}

	led := ledger.NewClient(ledger.Options{
		GatewayURL:      opts.GatewayURL,
		ContractAddress: opts.ContractAddress,
		AccountAddress:  opts.AccountAddress,
		Timeout:         opts.GatewayTimeout,
	})

	svc := service.New(deps, ledgerPort{led}, service.Config{
		TickMs:      opts.TickMs,
		MaxAttempts: opts.MaxAttempts,
		RetryBaseMs: opts.RetryBaseMs,
	})

	m := &Module{deps: deps}
	m.ports = Ports{
		Worker:   svc,
		Enqueuer: svc,
	}
	return m
}

// ledgerPort narrows the gateway client to the domain port
type ledgerPort struct{ c *ledger.Client }

func (p ledgerPort) Submit(ctx context.Context, act contribution.Action) (dom.TxRef, error) {
	ref, err := p.c.Submit(ctx, act)
	return dom.TxRef(ref), err
}

// Ports returns the module ports (Worker, Enqueuer)
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "reconciler" }

// Prefix returns the module config prefix (none for worker-only service)
func (m *Module) Prefix() string { return "" }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
