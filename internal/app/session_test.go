package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func at(seconds float64) time.Time {
	return epoch.Add(time.Duration(seconds * float64(time.Second)))
}

func hand(h detector.HandLandmarks) []detector.HandLandmarks {
	return []detector.HandLandmarks{h}
}

func testConfig(capacity, threshold int, cooldown float64) config.Config {
	cfg := config.Default()
	cfg.BufferSize = capacity
	cfg.Threshold = threshold
	cfg.CooldownSeconds = cooldown
	return cfg
}

func newTestSession(t *testing.T, cfg config.Config) *Session {
	t.Helper()
	s, err := NewSession(cfg, epoch)
	require.NoError(t, err)
	return s
}

func TestNewSession_InvalidConfig(t *testing.T) {
	_, err := NewSession(testConfig(3, 4, 1), epoch)
	assert.ErrorIs(t, err, gesture.ErrInvalidWindow)

	_, err = NewSession(testConfig(3, 3, -1), epoch)
	assert.Error(t, err)
}

func TestSession_Observe_NoHand(t *testing.T) {
	s := newTestSession(t, testConfig(3, 3, 0))

	d := s.Observe(nil, at(1))
	assert.Equal(t, gesture.LabelNone, d.Raw)
	assert.Empty(t, d.Stable)
	assert.False(t, d.Fire)
}

func TestSession_Observe_RawClassification(t *testing.T) {
	s := newTestSession(t, testConfig(10, 7, 1.5))

	d := s.Observe(hand(detector.TwoFingerLandmarks()), at(0.1))
	assert.Equal(t, gesture.LabelNext, d.Raw)
	assert.Equal(t, gesture.Fingers{false, true, true, false, false}, d.Fingers)
	assert.Empty(t, d.Stable, "no decision before the window fills")
}

func TestSession_Observe_UsesFirstHand(t *testing.T) {
	s := newTestSession(t, testConfig(1, 1, 0))

	d := s.Observe([]detector.HandLandmarks{detector.FistLandmarks(), detector.OpenPalmLandmarks()}, at(1))
	assert.Equal(t, gesture.LabelFist, d.Raw)
	assert.True(t, d.Fire)
}

func TestSession_StartCountsAsDispatch(t *testing.T) {
	s := newTestSession(t, testConfig(10, 7, 1.5))

	var fired []float64
	for i := 1; i <= 20; i++ {
		now := float64(i) * 0.1
		if d := s.Observe(hand(detector.OpenPalmLandmarks()), at(now)); d.Fire {
			fired = append(fired, now)
		}
	}

	// The window is full at 1.0s but the gate stays shut until 1.5s.
	require.Len(t, fired, 1)
	assert.InDelta(t, 1.5, fired[0], 1e-9)
}

func TestSession_HeldGestureFiresOnce(t *testing.T) {
	s := newTestSession(t, testConfig(3, 2, 0.5))

	fires := 0
	for i := 1; i <= 100; i++ {
		if s.Observe(hand(detector.FistLandmarks()), at(float64(i))).Fire {
			fires++
		}
	}
	assert.Equal(t, 1, fires)
	assert.Equal(t, gesture.LabelFist, s.Active())
}

func TestSession_HandLostRearms(t *testing.T) {
	s := newTestSession(t, testConfig(3, 3, 1))

	for i := 1; i <= 3; i++ {
		s.Observe(hand(detector.PointLandmarks()), at(float64(i)))
	}
	require.Equal(t, gesture.LabelPoint, s.Active())

	d := s.Observe(nil, at(4))
	assert.False(t, d.Fire)
	assert.Equal(t, gesture.LabelNone, s.Active())

	// The window still holds three points, so the returning hand fires at once.
	d = s.Observe(hand(detector.PointLandmarks()), at(5))
	assert.Equal(t, gesture.LabelPoint, d.Stable)
	assert.True(t, d.Fire)
}

func TestSession_HandLostKeepsCooldown(t *testing.T) {
	s := newTestSession(t, testConfig(1, 1, 1.5))

	require.True(t, s.Observe(hand(detector.PointLandmarks()), at(2)).Fire)
	s.Observe(nil, at(2.5))

	assert.False(t, s.Observe(hand(detector.PointLandmarks()), at(3)).Fire, "cooldown still applies")
	assert.True(t, s.Observe(hand(detector.PointLandmarks()), at(3.5)).Fire)
}

func TestSession_NoHandDoesNotFillWindow(t *testing.T) {
	s := newTestSession(t, testConfig(3, 3, 0))

	s.Observe(hand(detector.OpenPalmLandmarks()), at(1))
	s.Observe(hand(detector.OpenPalmLandmarks()), at(2))
	s.Observe(nil, at(3))

	d := s.Observe(hand(detector.OpenPalmLandmarks()), at(4))
	assert.Equal(t, gesture.LabelPalm, d.Stable)
	assert.True(t, d.Fire)
}

func TestSession_UnknownCanStabilize(t *testing.T) {
	s := newTestSession(t, testConfig(2, 2, 0))

	// Thumb and index only matches no rule.
	odd := detector.PoseLandmarks(true, true, false, false, false)
	s.Observe(hand(odd), at(1))
	d := s.Observe(hand(odd), at(2))

	assert.Equal(t, gesture.LabelUnknown, d.Stable)
	assert.True(t, d.Fire)
}
