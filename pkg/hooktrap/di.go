package hooktrap

import (
	"go.uber.org/dig"
	"go.uber.org/zap"
)

// DIParams holds dependencies needed to create a Receiver via DI.
type DIParams struct {
	dig.In

	Logger *zap.Logger
	Config *Config `optional:"true"`
}

// ProvideReceiver creates a Receiver for dependency injection.
// Use this when integrating hooktrap into an app that uses uber-go/dig.
//
// Example:
//
//	container := dig.New()
//	container.Provide(hooktrap.ProvideReceiver)
//	container.Invoke(func(r *hooktrap.Receiver) {
//	    mux.Handle("/hooks/", http.StripPrefix("/hooks", r.Handler()))
//	})
func ProvideReceiver(params DIParams) (*Receiver, error) {
	cfg := params.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}

	// Use the provided logger
	cfg.Logger = params.Logger

	return New(cfg)
}

// RegisterWithContainer registers the Receiver with a dig container.
//
// Example:
//
//	container := dig.New()
//	if err := hooktrap.RegisterWithContainer(container); err != nil {
//	    log.Fatal(err)
//	}
func RegisterWithContainer(container *dig.Container) error {
	return container.Provide(ProvideReceiver)
}
