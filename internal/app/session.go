package app

import (
	"fmt"
	"time"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

// Session owns the temporal state of one detection run.
// It is confined to the goroutine running the detection loop.
type Session struct {
	smoother *gesture.Smoother
	gate     *gesture.CooldownGate
}

// NewSession builds the smoother and gate described by cfg. start counts as
// the most recent dispatch, so nothing fires within one cooldown of it.
func NewSession(cfg config.Config, start time.Time) (*Session, error) {
	smoother, err := gesture.NewSmoother(cfg.BufferSize, cfg.Threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to create smoother: %w", err)
	}
	gate, err := gesture.NewCooldownGate(cfg.Cooldown(), start)
	if err != nil {
		return nil, fmt.Errorf("failed to create cooldown gate: %w", err)
	}
	return &Session{smoother: smoother, gate: gate}, nil
}

// Decision is the outcome of observing one frame.
type Decision struct {
	// Raw is the per-frame label, LabelNone when no hand was seen.
	Raw     gesture.Label
	Fingers gesture.Fingers
	// Stable is the smoothed label; empty when the smoother made no decision.
	Stable gesture.Label
	// Fire reports that Stable passed the cooldown gate and should be dispatched.
	Fire bool
}

// Observe advances the session by one frame. Only the first hand is used.
// A frame without hands leaves the smoother untouched and clears the
// active gesture so it can fire again once the hand returns.
func (s *Session) Observe(hands []detector.HandLandmarks, now time.Time) Decision {
	if len(hands) == 0 {
		s.gate.HandLost()
		return Decision{Raw: gesture.LabelNone}
	}

	fingers := gesture.ExtractFingers(&hands[0])
	d := Decision{
		Raw:     gesture.Classify(fingers),
		Fingers: fingers,
	}

	stable, ok := s.smoother.Observe(d.Raw)
	if !ok {
		return d
	}
	d.Stable = stable
	d.Fire = s.gate.Admit(stable, now)
	return d
}

// Active returns the gesture the gate considers currently held.
func (s *Session) Active() gesture.Label {
	return s.gate.Active()
}
