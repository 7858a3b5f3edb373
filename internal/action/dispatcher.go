package action

import (
	"context"
	"fmt"
	"log"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/plugin"
)

// Dispatcher performs the side effect bound to a stabilized label.
// Dispatch is synchronous; a label with no binding is a no-op.
type Dispatcher interface {
	Dispatch(ctx context.Context, label gesture.Label) error
}

// DispatchFunc adapts a function to the Dispatcher interface.
type DispatchFunc func(ctx context.Context, label gesture.Label) error

// Dispatch calls f(ctx, label).
func (f DispatchFunc) Dispatch(ctx context.Context, label gesture.Label) error {
	return f(ctx, label)
}

// PluginFinder resolves plugins by name.
type PluginFinder interface {
	Get(name string) (*plugin.Plugin, error)
}

// PluginRunner executes a plugin request.
type PluginRunner interface {
	Execute(ctx context.Context, p *plugin.Plugin, req *plugin.Request) (*plugin.Response, error)
}

// PluginDispatcher runs bound actions through external plugins.
type PluginDispatcher struct {
	table   Table
	plugins PluginFinder
	runner  PluginRunner
}

// NewPluginDispatcher creates a PluginDispatcher over table.
func NewPluginDispatcher(table Table, plugins PluginFinder, runner PluginRunner) *PluginDispatcher {
	return &PluginDispatcher{
		table:   table,
		plugins: plugins,
		runner:  runner,
	}
}

// Dispatch runs the plugin action bound to label.
func (d *PluginDispatcher) Dispatch(ctx context.Context, label gesture.Label) error {
	b, ok := d.table.Lookup(label)
	if !ok {
		log.Printf("No action bound to gesture %s", label)
		return nil
	}

	p, err := d.plugins.Get(b.Plugin)
	if err != nil {
		return fmt.Errorf("gesture %s: plugin %s: %w", label, b.Plugin, err)
	}
	if !p.Manifest.Supports(b.Action) {
		return fmt.Errorf("gesture %s: plugin %s does not support action %q", label, b.Plugin, b.Action)
	}

	resp, err := d.runner.Execute(ctx, p, &plugin.Request{
		Action:  b.Action,
		Gesture: string(label),
		Params:  b.Params,
	})
	if err != nil {
		return fmt.Errorf("gesture %s: %w", label, err)
	}
	if !resp.Success {
		return fmt.Errorf("gesture %s: plugin %s reported: %s", label, b.Plugin, resp.Error)
	}

	log.Printf("Executed %s/%s for gesture %s", b.Plugin, b.Action, label)
	return nil
}

// Validate reports bindings whose plugin is missing or lacks the action.
func (d *PluginDispatcher) Validate() []error {
	var errs []error
	for _, b := range d.table.Bindings() {
		p, err := d.plugins.Get(b.Plugin)
		if err != nil {
			errs = append(errs, fmt.Errorf("gesture %s: plugin %s: %w", b.Gesture, b.Plugin, err))
			continue
		}
		if !p.Manifest.Supports(b.Action) {
			errs = append(errs, fmt.Errorf("gesture %s: plugin %s does not support action %q", b.Gesture, b.Plugin, b.Action))
		}
	}
	return errs
}

// LogDispatcher only logs what would run. Used for dry runs.
type LogDispatcher struct {
	table Table
}

// NewLogDispatcher creates a LogDispatcher over table.
func NewLogDispatcher(table Table) *LogDispatcher {
	return &LogDispatcher{table: table}
}

// Dispatch logs the binding for label.
func (d *LogDispatcher) Dispatch(_ context.Context, label gesture.Label) error {
	b, ok := d.table.Lookup(label)
	if !ok {
		log.Printf("No action bound to gesture %s", label)
		return nil
	}
	log.Printf("Dry run: %s/%s %s for gesture %s", b.Plugin, b.Action, b.Params, label)
	return nil
}
