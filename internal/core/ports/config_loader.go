package ports

import "go.trai.ch/baler/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration starting from the given working
	// directory, walking upwards until a configuration file is found,
	// and returns it validated with defaults applied.
	Load(cwd string) (*domain.Config, error)
}
