package urgency

import (
	"github.com/posentinel/sentinel/internal/model"
)

// FromAppConfig builds an engine Config from the application settings.
// A custom tier list takes precedence over the named built-in table;
// its last entry is treated as the catch-all regardless of threshold.
func FromAppConfig(cfg model.UrgencyConfig) Config {
	table := tableFor(cfg)

	return Config{
		Table:             table,
		OverdueAfterDays:  cfg.OverdueAfterDays,
		PendingEscalation: cfg.PendingEscalation,
		PendingAfterDays:  cfg.PendingAfterDays,
	}
}

// CriticalTiersFromAppConfig resolves the alert-raising tier set:
// the configured labels when present, otherwise the defaults for the
// active table.
func CriticalTiersFromAppConfig(cfg model.AppConfig) map[string]bool {
	if len(cfg.Alerts.CriticalTiers) > 0 {
		set := make(map[string]bool, len(cfg.Alerts.CriticalTiers))
		for _, label := range cfg.Alerts.CriticalTiers {
			set[label] = true
		}
		return set
	}
	return DefaultCriticalTiers(tableFor(cfg.Urgency))
}

func tableFor(cfg model.UrgencyConfig) TierTable {
	if len(cfg.Tiers) > 0 {
		table := make(TierTable, len(cfg.Tiers))
		for i, tier := range cfg.Tiers {
			table[i] = Tier{Label: tier.Label, MinDays: tier.MinDays}
		}
		table[len(table)-1].MinDays = minAge
		return table
	}

	switch cfg.Table {
	case "extended":
		return ExtendedTable()
	default:
		return StandardTable()
	}
}
