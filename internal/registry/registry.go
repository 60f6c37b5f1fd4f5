// Package registry owns module lifecycle: registration, dependency ordering,
// Init/Start/Stop and route collection.
package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/plugin"
	"go.uber.org/zap"
)

var _ plugin.PluginResolver = (*Registry)(nil)

// Registry holds every registered module. Optional modules that fail
// validation, Init or Start are disabled; required ones abort the server.
type Registry struct {
	mu       sync.RWMutex
	modules  map[string]plugin.Plugin
	infos    map[string]plugin.PluginInfo
	order    []string
	disabled map[string]bool
	logger   *zap.Logger
}

// New returns an empty registry.
func New(logger *zap.Logger) *Registry {
	return &Registry{
		modules:  make(map[string]plugin.Plugin),
		infos:    make(map[string]plugin.PluginInfo),
		disabled: make(map[string]bool),
		logger:   logger,
	}
}

// Register adds p. Names must be unique and non-empty.
func (r *Registry) Register(p plugin.Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	info := p.Info()
	if info.Name == "" {
		return fmt.Errorf("module has empty name")
	}
	if _, dup := r.modules[info.Name]; dup {
		return fmt.Errorf("module %q already registered", info.Name)
	}
	r.modules[info.Name] = p
	r.infos[info.Name] = info
	r.logger.Info("module registered",
		zap.String("name", info.Name),
		zap.String("version", info.Version),
	)
	return nil
}

// Validate checks API versions and dependencies, disables what cannot run
// and computes the start order.
func (r *Registry) Validate() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range r.sortedNames() {
		info := r.infos[name]
		if err := checkAPIVersion(info); err != nil {
			if err := r.disable(name, "incompatible API version", err); err != nil {
				return err
			}
		}
	}

	// Disable modules with missing or disabled dependencies until stable.
	for changed := true; changed; {
		changed = false
		for _, name := range r.sortedNames() {
			if r.disabled[name] {
				continue
			}
			for _, dep := range r.infos[name].Dependencies {
				_, known := r.modules[dep]
				if known && !r.disabled[dep] {
					continue
				}
				reason := fmt.Errorf("dependency %q is missing or disabled", dep)
				if err := r.disable(name, "unsatisfied dependency", reason); err != nil {
					return err
				}
				changed = true
				break
			}
		}
	}

	order, err := r.topologicalSort()
	if err != nil {
		return err
	}
	r.order = order
	r.logger.Info("module order resolved",
		zap.Strings("order", order),
		zap.Int("disabled", len(r.disabled)),
	)
	return nil
}

// InitAll initializes active modules in dependency order.
func (r *Registry) InitAll(ctx context.Context, depsFn func(name string) plugin.Dependencies) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range r.order {
		p := r.modules[name]
		r.logger.Info("initializing module", zap.String("name", name))
		if err := p.Init(ctx, depsFn(name)); err != nil {
			if err := r.disable(name, "init failed", err); err != nil {
				return err
			}
			continue
		}
		if v, ok := p.(plugin.Validator); ok {
			if err := v.ValidateConfig(); err != nil {
				if err := r.disable(name, "invalid configuration", err); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// StartAll starts active modules in dependency order.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range r.order {
		if r.disabled[name] {
			continue
		}
		r.logger.Info("starting module", zap.String("name", name))
		if err := r.modules[name].Start(ctx); err != nil {
			if err := r.disable(name, "start failed", err); err != nil {
				return err
			}
		}
	}
	return nil
}

// StopAll stops active modules in reverse order. Errors are logged.
func (r *Registry) StopAll(ctx context.Context) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := len(r.order) - 1; i >= 0; i-- {
		name := r.order[i]
		if r.disabled[name] {
			continue
		}
		if err := r.modules[name].Stop(ctx); err != nil {
			r.logger.Error("module stop failed", zap.String("name", name), zap.Error(err))
		}
	}
}

// All returns active modules in dependency order.
func (r *Registry) All() []plugin.Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]plugin.Plugin, 0, len(r.order))
	for _, name := range r.order {
		if !r.disabled[name] {
			out = append(out, r.modules[name])
		}
	}
	return out
}

// AllRoutes collects routes of active HTTPProvider modules keyed by name.
func (r *Registry) AllRoutes() map[string][]plugin.Route {
	routes := make(map[string][]plugin.Route)
	for _, p := range r.All() {
		hp, ok := p.(plugin.HTTPProvider)
		if !ok {
			continue
		}
		if rs := hp.Routes(); len(rs) > 0 {
			routes[p.Info().Name] = rs
		}
	}
	return routes
}

// Subscribe wires the handlers of active EventSubscriber modules onto bus
// and returns a function removing all of them.
func (r *Registry) Subscribe(bus plugin.EventBus) (unsubscribe func()) {
	var unsubs []func()
	for _, p := range r.All() {
		es, ok := p.(plugin.EventSubscriber)
		if !ok {
			continue
		}
		for _, sub := range es.Subscriptions() {
			unsubs = append(unsubs, bus.Subscribe(sub.Topic, sub.Handler))
			r.logger.Debug("module subscribed",
				zap.String("name", p.Info().Name),
				zap.String("topic", sub.Topic),
			)
		}
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// Resolve returns an active module by name.
func (r *Registry) Resolve(name string) (plugin.Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.modules[name]
	if !ok || r.disabled[name] {
		return nil, false
	}
	return p, true
}

// ResolveByRole returns active modules declaring role, in start order.
func (r *Registry) ResolveByRole(role string) []plugin.Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []plugin.Plugin
	for _, name := range r.order {
		if r.disabled[name] {
			continue
		}
		for _, got := range r.infos[name].Roles {
			if got == role {
				out = append(out, r.modules[name])
				break
			}
		}
	}
	return out
}

// IsDisabled reports whether name was disabled.
func (r *Registry) IsDisabled(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.disabled[name]
}

// disable marks name disabled, or returns an error when it is required.
// Caller holds r.mu.
func (r *Registry) disable(name, what string, cause error) error {
	if r.infos[name].Required {
		return fmt.Errorf("required module %q: %s: %w", name, what, cause)
	}
	r.logger.Warn("disabling optional module",
		zap.String("name", name),
		zap.String("reason", what),
		zap.Error(cause),
	)
	r.disabled[name] = true
	return nil
}

func (r *Registry) sortedNames() []string {
	names := make([]string, 0, len(r.infos))
	for name := range r.infos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// topologicalSort orders active modules with Kahn's algorithm. Ties are
// broken by name so the order is deterministic.
func (r *Registry) topologicalSort() ([]string, error) {
	inDegree := make(map[string]int)
	dependents := make(map[string][]string)
	var active []string
	for _, name := range r.sortedNames() {
		if !r.disabled[name] {
			active = append(active, name)
			inDegree[name] = 0
		}
	}
	for _, name := range active {
		for _, dep := range r.infos[name].Dependencies {
			inDegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var queue, order []string
	for _, name := range active {
		if inDegree[name] == 0 {
			queue = append(queue, name)
		}
	}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		order = append(order, name)
		for _, d := range dependents[name] {
			inDegree[d]--
			if inDegree[d] == 0 {
				queue = append(queue, d)
			}
		}
	}

	if len(order) != len(active) {
		var cycle []string
		for _, name := range active {
			if inDegree[name] > 0 {
				cycle = append(cycle, name)
			}
		}
		return nil, fmt.Errorf("dependency cycle among modules: %v", cycle)
	}
	return order, nil
}

func checkAPIVersion(info plugin.PluginInfo) error {
	if info.APIVersion < plugin.APIVersionMin || info.APIVersion > plugin.APIVersionCurrent {
		return fmt.Errorf("module %q targets API v%d, server supports v%d..v%d",
			info.Name, info.APIVersion, plugin.APIVersionMin, plugin.APIVersionCurrent)
	}
	return nil
}
