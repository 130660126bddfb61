package understanding

import (
	"fmt"

	"noteflow/internal/config"
	"noteflow/internal/port"
)

// ProviderFactory is a function that creates a SessionUnderstander from a
// provider config.
type ProviderFactory func(cfg *config.UnderstandingProviderConfig) (port.SessionUnderstander, error)

// registry of understanding provider factories, populated explicitly via
// RegisterProvider at startup.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers an understanding provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewUnderstander creates a SessionUnderstander from a provider config using
// the registered factory.
func NewUnderstander(cfg *config.UnderstandingProviderConfig) (port.SessionUnderstander, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown understanding provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
