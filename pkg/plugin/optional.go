package plugin

import (
	"context"
	"database/sql"
)

// HTTPProvider is implemented by modules that expose REST routes.
type HTTPProvider interface {
	Routes() []Route
}

// HealthChecker is implemented by modules that report health on /readyz.
type HealthChecker interface {
	Health(ctx context.Context) HealthStatus
}

// EventSubscriber is implemented by modules that consume bus events. The
// server subscribes the returned handlers after InitAll.
type EventSubscriber interface {
	Subscriptions() []Subscription
}

// Validator is implemented by modules that verify their configuration after
// Init. A failing required module aborts startup.
type Validator interface {
	ValidateConfig() error
}

// Store is the shared relational database handed to modules.
type Store interface {
	DB() *sql.DB
	Tx(ctx context.Context, fn func(tx *sql.Tx) error) error
	Migrate(ctx context.Context, module string, migrations []Migration) error
}

// Migration is one forward-only schema step owned by a module. Versions
// must be ascending within a module.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}
