package plugins

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.uber.org/fx"

	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/action-plugin/domain"
)

// ActionRegistry is the single aggregation point for per-entity action
// plugins. It merges their partial kind -> Action maps into one flat map
// consumed by the execution coordinator. Adding a new entity's action set
// requires registering one more plugin and nothing else.
type ActionRegistry struct {
	plugins map[string]domain.ActionPlugin
	actions map[domain.ActionKind]domain.Action
	mu      sync.RWMutex
	logger  *slog.Logger
}

type ActionRegistryParams struct {
	fx.In
	Logger        *slog.Logger
	ActionPlugins []domain.ActionPlugin `group:"action_plugins"`
}

// NewActionRegistry creates a registry pre-loaded with the fx-supplied plugins.
func NewActionRegistry(params ActionRegistryParams) (*ActionRegistry, error) {
	r := &ActionRegistry{
		plugins: make(map[string]domain.ActionPlugin),
		actions: make(map[domain.ActionKind]domain.Action),
		logger:  params.Logger,
	}
	for _, plugin := range params.ActionPlugins {
		if err := r.Register(context.Background(), plugin); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// NewEmptyActionRegistry creates a registry with no plugins registered.
func NewEmptyActionRegistry(logger *slog.Logger) *ActionRegistry {
	return &ActionRegistry{
		plugins: make(map[string]domain.ActionPlugin),
		actions: make(map[domain.ActionKind]domain.Action),
		logger:  logger,
	}
}

// Register registers an action plugin and merges its actions into the
// flat kind map. Two plugins claiming the same kind is a wiring bug and
// fails registration.
func (r *ActionRegistry) Register(ctx context.Context, plugin domain.ActionPlugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.plugins[plugin.ID()] = plugin

	provider, ok := plugin.(domain.ActionProvider)
	if !ok {
		r.logger.Debug("ActionPlugin provides no actions",
			"plugin", plugin.ID())
		return nil
	}

	actions, err := provider.GetActions(ctx)
	if err != nil {
		return fmt.Errorf("failed to get actions from plugin %s: %w", plugin.ID(), err)
	}

	for _, action := range actions {
		if existing, exists := r.actions[action.Kind]; exists {
			return fmt.Errorf("action kind %q already registered (title %q)", action.Kind, existing.Title)
		}
		r.actions[action.Kind] = action
		r.logger.Debug("Action registered",
			"plugin", plugin.ID(),
			"kind", action.Kind.String(),
			"executable", action.IsExecutable())
	}

	r.logger.Info("ActionPlugin registered",
		"plugin", plugin.ID(),
		"name", plugin.Name(),
		"action_count", len(actions))
	return nil
}

// Resolve looks up the registry entry for a kind. A miss is not a
// validation failure: the proposal parsed fine but this build carries no
// handler for it, so callers must treat it as a non-actionable
// "unknown action" and never execute it.
func (r *ActionRegistry) Resolve(kind domain.ActionKind) (domain.Action, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	action, ok := r.actions[kind]
	return action, ok
}

// Kinds returns all registered action kinds.
func (r *ActionRegistry) Kinds() []domain.ActionKind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]domain.ActionKind, 0, len(r.actions))
	for kind := range r.actions {
		kinds = append(kinds, kind)
	}
	return kinds
}

// Plugins returns the registered plugins.
func (r *ActionRegistry) Plugins() []domain.ActionPlugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plugins := make([]domain.ActionPlugin, 0, len(r.plugins))
	for _, plugin := range r.plugins {
		plugins = append(plugins, plugin)
	}
	return plugins
}

// ActionResolver is the narrow view of the registry the coordinator needs.
type ActionResolver interface {
	Resolve(kind domain.ActionKind) (domain.Action, bool)
}

var Module = fx.Module("action-registry",
	fx.Provide(NewActionRegistry),
	fx.Provide(
		fx.Annotate(
			func(r *ActionRegistry) ActionResolver { return r },
			fx.As(new(ActionResolver)),
		),
	),
)
