package parser

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"docschema/internal/config"
	"docschema/internal/port"
)

// ProviderFactory is a function that creates a DocumentParser from a provider config.
type ProviderFactory func(cfg *config.ParserProviderConfig) (port.DocumentParser, error)

// registry of parser provider factories, populated by init() in each provider package
// or explicitly via RegisterProvider.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a parser provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// Providers returns the registered provider names, sorted.
func Providers() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewParser creates a DocumentParser from a provider config using the registered factory.
func NewParser(cfg *config.ParserProviderConfig) (port.DocumentParser, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown parser provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// Build assembles the parser chain described by cfg. Single mode uses only the
// primary provider; fallback chains every configured tier; merge runs the
// primary and secondary side by side.
func Build(cfg *config.ParserConfig, log *zap.Logger) (port.DocumentParser, error) {
	tiers := []*config.ParserProviderConfig{cfg.PrimaryConfig()}
	if s := cfg.SecondaryConfig(); s != nil {
		tiers = append(tiers, s)
	}
	if t := cfg.TertiaryConfig(); t != nil {
		tiers = append(tiers, t)
	}

	built := make([]port.DocumentParser, 0, len(tiers))
	names := make([]string, 0, len(tiers))
	for _, tier := range tiers {
		p, err := NewParser(tier)
		if err != nil {
			return nil, fmt.Errorf("parser.Build: %w", err)
		}
		built = append(built, p)
		names = append(names, tier.Provider)
	}

	switch cfg.Mode {
	case config.ParserModeFallback:
		if len(built) == 1 {
			return built[0], nil
		}
		return NewFallbackParser(built, names, log), nil
	case config.ParserModeMerge:
		if len(built) < 2 {
			return nil, fmt.Errorf("parser.Build: merge mode requires a secondary provider")
		}
		return NewMergeParser(built[0], built[1], log), nil
	default:
		return built[0], nil
	}
}
