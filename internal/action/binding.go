// Package action maps stabilized gesture labels to side effects.
package action

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/ayusman/mudra/internal/gesture"
)

// ErrInvalidBinding is returned when a binding cannot be placed in a Table.
var ErrInvalidBinding = errors.New("invalid binding")

// KeyboardPlugin is the plugin that presses keys on the host.
const KeyboardPlugin = "keyboard"

// KeyAction is the keyboard plugin's single action.
const KeyAction = "key"

// Binding ties a gesture to one plugin action.
type Binding struct {
	Gesture gesture.Label
	Plugin  string
	Action  string
	Params  json.RawMessage
}

// KeyParams is the parameter shape understood by the keyboard plugin.
type KeyParams struct {
	Key       string   `json:"key"`
	Modifiers []string `json:"modifiers,omitempty"`
}

func keyBinding(label gesture.Label, key string, modifiers ...string) Binding {
	params, _ := json.Marshal(KeyParams{Key: key, Modifiers: modifiers})
	return Binding{
		Gesture: label,
		Plugin:  KeyboardPlugin,
		Action:  KeyAction,
		Params:  params,
	}
}

// DefaultBindings returns the presentation-control bindings.
func DefaultBindings() []Binding {
	return []Binding{
		keyBinding(gesture.LabelNext, "right"),
		keyBinding(gesture.LabelPrevious, "left"),
		keyBinding(gesture.LabelPalm, "esc"),
		keyBinding(gesture.LabelFist, "b"),
		keyBinding(gesture.LabelPoint, "l", "ctrl"),
		keyBinding(gesture.LabelCall, "tab", "alt"),
	}
}

// Table is the immutable label to binding lookup built at startup.
type Table map[gesture.Label]Binding

// NewTable builds a Table. A label may be bound once; none cannot be bound.
func NewTable(bindings []Binding) (Table, error) {
	t := make(Table, len(bindings))
	for _, b := range bindings {
		if _, ok := gesture.ParseLabel(string(b.Gesture)); !ok || b.Gesture == gesture.LabelNone {
			return nil, fmt.Errorf("%w: gesture %q cannot be bound", ErrInvalidBinding, b.Gesture)
		}
		if b.Plugin == "" || b.Action == "" {
			return nil, fmt.Errorf("%w: %s needs a plugin and an action", ErrInvalidBinding, b.Gesture)
		}
		if _, dup := t[b.Gesture]; dup {
			return nil, fmt.Errorf("%w: %s bound twice", ErrInvalidBinding, b.Gesture)
		}
		if len(b.Params) > 0 && !json.Valid(b.Params) {
			return nil, fmt.Errorf("%w: %s params are not valid JSON", ErrInvalidBinding, b.Gesture)
		}
		t[b.Gesture] = b
	}
	return t, nil
}

// Lookup returns the binding for label.
func (t Table) Lookup(label gesture.Label) (Binding, bool) {
	b, ok := t[label]
	return b, ok
}

// Bindings returns the table's bindings sorted by gesture.
func (t Table) Bindings() []Binding {
	out := make([]Binding, 0, len(t))
	for _, b := range t {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Gesture < out[j].Gesture })
	return out
}
