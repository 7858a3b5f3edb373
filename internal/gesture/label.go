// Package gesture turns hand landmarks into debounced gesture decisions.
//
// A frame flows through ExtractFingers, Classify, a Smoother and a
// CooldownGate; only labels that survive all four reach an action.
package gesture

// Label identifies a recognized hand pose.
type Label string

const (
	// LabelNone means no hand is visible.
	LabelNone Label = "none"
	// LabelUnknown means a hand is visible but matches no pattern.
	LabelUnknown  Label = "unknown"
	LabelFist     Label = "fist"
	LabelPoint    Label = "point"
	LabelNext     Label = "next"
	LabelPrevious Label = "previous"
	LabelPalm     Label = "palm"
	LabelCall     Label = "call"
)

// Labels lists every label in declaration order.
var Labels = []Label{
	LabelFist,
	LabelPoint,
	LabelNext,
	LabelPrevious,
	LabelPalm,
	LabelCall,
	LabelUnknown,
	LabelNone,
}

// ParseLabel returns the label named s and whether it exists.
func ParseLabel(s string) (Label, bool) {
	for _, l := range Labels {
		if string(l) == s {
			return l, true
		}
	}
	return "", false
}

// String implements fmt.Stringer.
func (l Label) String() string {
	return string(l)
}
