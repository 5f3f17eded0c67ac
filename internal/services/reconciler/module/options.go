package module

import (
	"time"

	"tally/internal/platform/config"
)

// Options controls the reconciliation worker and its ledger gateway
type Options struct {
	TickMs      int
	MaxAttempts int
	RetryBaseMs int

	GatewayURL      string
	ContractAddress string
	AccountAddress  string
	GatewayTimeout  time.Duration
}

// FromConfig reads worker knobs with RECONCILER_ and gateway knobs with LEDGER_
func FromConfig(cfg config.Conf) Options {
	w := cfg.Prefix("RECONCILER_")
	l := cfg.Prefix("LEDGER_")
	return Options{
		TickMs:      int(w.MayDuration("TICK", 500*time.Millisecond).Milliseconds()),
		MaxAttempts: w.MayInt("MAX_ATTEMPTS", 5),
		RetryBaseMs: int(w.MayDuration("RETRY_BASE", 500*time.Millisecond).Milliseconds()),

		GatewayURL:      l.MustString("GATEWAY_URL"),
		ContractAddress: l.MustString("CONTRACT_ADDRESS"),
		AccountAddress:  l.MayString("ACCOUNT_ADDRESS", ""),
		GatewayTimeout:  l.MayDuration("TIMEOUT", 15*time.Second),
	}
}
