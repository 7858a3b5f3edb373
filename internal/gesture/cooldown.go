package gesture

import (
	"fmt"
	"time"
)

// CooldownGate rate-limits stabilized labels and drops repeats of the
// gesture that is currently held.
type CooldownGate struct {
	interval  time.Duration
	active    Label
	lastFired time.Time
}

// NewCooldownGate creates a gate whose cooldown starts running at start.
func NewCooldownGate(interval time.Duration, start time.Time) (*CooldownGate, error) {
	if interval < 0 {
		return nil, fmt.Errorf("cooldown interval %v must not be negative", interval)
	}

	return &CooldownGate{
		interval:  interval,
		active:    LabelNone,
		lastFired: start,
	}, nil
}

// Admit reports whether label should be dispatched at now.
// An admitted label becomes the active gesture and restarts the cooldown.
// Rejected labels are dropped, not queued.
func (g *CooldownGate) Admit(label Label, now time.Time) bool {
	if label == g.active {
		return false
	}
	if now.Sub(g.lastFired) < g.interval {
		return false
	}

	g.active = label
	g.lastFired = now
	return true
}

// HandLost clears the active gesture so the same pose can fire again once the
// hand returns. The cooldown timer is left running.
func (g *CooldownGate) HandLost() {
	g.active = LabelNone
}

// Active returns the most recently admitted label, or LabelNone.
func (g *CooldownGate) Active() Label {
	return g.active
}

// LastFired returns the time of the last admitted label.
func (g *CooldownGate) LastFired() time.Time {
	return g.lastFired
}
