package swagdesk

import "github.com/goliatone/go-swagdesk/service"

// Re-export the service package entry point so consumers can do
// `swagdesk.New(...)` without importing internal wiring helpers.
type (
	Service  = service.Service
	Config   = service.Config
	Commands = service.Commands
	Queries  = service.Queries
)

// New constructs the go-swagdesk runtime using the provided configuration.
func New(cfg Config) (*Service, error) {
	return service.New(cfg)
}
