package action

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

// SeedDefaults stores DefaultBindings when the repository is empty.
// It returns how many bindings were written.
func SeedDefaults(repo *store.BindingRepository) (int, error) {
	n, err := repo.Count()
	if err != nil {
		return 0, fmt.Errorf("failed to count bindings: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	defaults := DefaultBindings()
	for _, b := range defaults {
		rec := &store.Binding{
			ID:         uuid.New().String(),
			Gesture:    string(b.Gesture),
			PluginName: b.Plugin,
			ActionName: b.Action,
			Params:     b.Params,
			Enabled:    true,
		}
		if err := repo.Create(rec); err != nil {
			return 0, fmt.Errorf("failed to seed binding for %s: %w", b.Gesture, err)
		}
	}

	return len(defaults), nil
}

// LoadTable builds a Table from the enabled bindings in repo.
// Rows naming an unrecognized gesture are skipped with a log line.
func LoadTable(repo *store.BindingRepository) (Table, error) {
	records, err := repo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list bindings: %w", err)
	}

	bindings := make([]Binding, 0, len(records))
	for _, rec := range records {
		if !rec.Enabled {
			continue
		}
		label, ok := gesture.ParseLabel(rec.Gesture)
		if !ok {
			log.Printf("Skipping binding %s: unknown gesture %q", rec.ID, rec.Gesture)
			continue
		}
		bindings = append(bindings, Binding{
			Gesture: label,
			Plugin:  rec.PluginName,
			Action:  rec.ActionName,
			Params:  rec.Params,
		})
	}

	return NewTable(bindings)
}
