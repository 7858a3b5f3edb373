package gesture

import (
	"errors"
	"fmt"
)

// ErrInvalidWindow is returned when a smoothing window is misconfigured.
var ErrInvalidWindow = errors.New("invalid smoothing window")

// Smoother stabilizes per-frame labels with a sliding majority vote.
//
// It keeps the last capacity labels. Once the window is full, the most
// frequent label is reported if it occurs at least threshold times. Ties go
// to the label whose first occurrence is earliest in the window.
type Smoother struct {
	capacity  int
	threshold int
	window    []Label
}

// NewSmoother creates a Smoother. threshold must be in [1, capacity].
func NewSmoother(capacity, threshold int) (*Smoother, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: capacity %d must be at least 1", ErrInvalidWindow, capacity)
	}
	if threshold < 1 || threshold > capacity {
		return nil, fmt.Errorf("%w: threshold %d must be between 1 and capacity %d", ErrInvalidWindow, threshold, capacity)
	}

	return &Smoother{
		capacity:  capacity,
		threshold: threshold,
		window:    make([]Label, 0, capacity),
	}, nil
}

// Observe pushes label into the window and returns the stabilized label, if any.
func (s *Smoother) Observe(label Label) (Label, bool) {
	if len(s.window) == s.capacity {
		copy(s.window, s.window[1:])
		s.window = s.window[:s.capacity-1]
	}
	s.window = append(s.window, label)

	if len(s.window) < s.capacity {
		return "", false
	}

	winner, count := s.majority()
	if count < s.threshold {
		return "", false
	}
	return winner, true
}

// majority returns the most frequent label in the window and its count.
func (s *Smoother) majority() (Label, int) {
	counts := make(map[Label]int, len(s.window))
	for _, l := range s.window {
		counts[l]++
	}

	var best Label
	bestCount := 0
	// Scan in window order so the earliest label wins a tie.
	for _, l := range s.window {
		if c := counts[l]; c > bestCount {
			best, bestCount = l, c
		}
	}
	return best, bestCount
}

// Len returns the number of labels currently held.
func (s *Smoother) Len() int {
	return len(s.window)
}

// Capacity returns the window size.
func (s *Smoother) Capacity() int {
	return s.capacity
}

// Threshold returns the minimum count a label needs to win.
func (s *Smoother) Threshold() int {
	return s.threshold
}
