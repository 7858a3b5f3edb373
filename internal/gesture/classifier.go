package gesture

// rule maps one exact finger pattern to a label.
type rule struct {
	label Label
	match func(Fingers) bool
}

// exactly returns a matcher accepting only the given vector.
func exactly(want Fingers) func(Fingers) bool {
	return func(f Fingers) bool { return f == want }
}

// rules are evaluated in order; the first match wins.
var rules = []rule{
	{LabelFist, exactly(Fingers{})},
	{LabelPoint, exactly(Fingers{Index: true})},
	{LabelNext, exactly(Fingers{Index: true, Middle: true})},
	{LabelPrevious, exactly(Fingers{Index: true, Middle: true, Ring: true})},
	{LabelPalm, exactly(Fingers{true, true, true, true, true})},
	{LabelCall, func(f Fingers) bool {
		return f[Thumb] && f[Pinky] && !f[Index] && !f[Middle] && !f[Ring]
	}},
}

// Classify maps a finger vector to a gesture label.
// Vectors matching no rule are LabelUnknown.
func Classify(f Fingers) Label {
	for _, r := range rules {
		if r.match(f) {
			return r.label
		}
	}
	return LabelUnknown
}
