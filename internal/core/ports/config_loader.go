package ports

import "go.trai.ch/lucifer/internal/core/domain"

// ConfigLoader defines the interface for loading the server configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration file at path and returns the merged configuration.
	// An empty path looks for lucifer.yaml in the working directory.
	Load(path string) (*domain.Config, error)
}
