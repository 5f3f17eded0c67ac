package module

import "tally/internal/platform/config"

// Options controls the sync pipeline
type Options struct {
	Concurrency int
	TokensCSV   string
	MaxRetries  int

	GatewayURL      string
	ContractAddress string
	AccountAddress  string
}

// FromConfig reads sync knobs with SYNC_ and gateway knobs with LEDGER_
func FromConfig(cfg config.Conf) Options {
	s := cfg.Prefix("SYNC_")
	l := cfg.Prefix("LEDGER_")
	return Options{
		Concurrency: s.MayInt("CONCURRENCY", 4),
		TokensCSV:   s.MayString("GH_TOKENS", ""),
		MaxRetries:  s.MayInt("GH_MAX_RETRIES", 5),

		GatewayURL:      l.MustString("GATEWAY_URL"),
		ContractAddress: l.MustString("CONTRACT_ADDRESS"),
		AccountAddress:  l.MayString("ACCOUNT_ADDRESS", ""),
	}
}
