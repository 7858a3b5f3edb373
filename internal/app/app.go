// Package app runs the detection loop: camera frames in, dispatched gestures out.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime/debug"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

// ErrFrameSource is returned by Run when the camera cannot deliver frames.
var ErrFrameSource = errors.New("frame source failed")

// Event describes one dispatch.
type Event struct {
	Gesture gesture.Label `json:"gesture"`
	Time    time.Time     `json:"time"`
	Error   string        `json:"error,omitempty"`
}

// Status is a point-in-time snapshot of the loop.
type Status struct {
	Enabled        bool          `json:"enabled"`
	Running        bool          `json:"running"`
	LastRaw        gesture.Label `json:"last_raw"`
	LastDispatched gesture.Label `json:"last_dispatched,omitempty"`
	LastDispatchAt time.Time     `json:"last_dispatch_at"`
	Dispatches     int           `json:"dispatches"`
	Frames         int64         `json:"frames"`
}

// App is the main application that orchestrates gesture detection and action execution.
type App struct {
	config     config.Config
	camera     capture.Camera
	detector   detector.Detector
	dispatcher action.Dispatcher
	now        func() time.Time

	mu        sync.RWMutex
	enabled   bool
	status    Status
	listeners []func(Event)
}

// New creates a new App. Detection starts enabled.
func New(cfg config.Config, camera capture.Camera, det detector.Detector, dispatcher action.Dispatcher) *App {
	return &App{
		config:     cfg,
		camera:     camera,
		detector:   det,
		dispatcher: dispatcher,
		now:        time.Now,
		enabled:    true,
		status:     Status{LastRaw: gesture.LabelNone},
	}
}

// SetClock replaces the wall clock. It must be called before Run.
func (a *App) SetClock(now func() time.Time) {
	a.now = now
}

// SetEnabled enables or disables gesture detection.
// While disabled, frames are still read but not processed.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.enabled != enabled {
		log.Printf("Gesture detection enabled: %v", enabled)
	}
	a.enabled = enabled
}

// IsEnabled returns whether gesture detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Status returns a snapshot of the loop's counters.
func (a *App) Status() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s := a.status
	s.Enabled = a.enabled
	return s
}

// OnDispatch registers fn to be called after every dispatch.
// fn runs on the detection goroutine and must not block.
func (a *App) OnDispatch(fn func(Event)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
}

// Run opens the camera and processes frames until ctx is cancelled or the
// camera fails. The camera and detector are closed on return.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}()

	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("%w: %w", ErrFrameSource, err)
	}
	defer func() {
		if err := a.camera.Close(); err != nil {
			log.Printf("Error closing camera: %v", err)
		}
		a.setRunning(false)
	}()

	sess, err := NewSession(a.config, a.now())
	if err != nil {
		return err
	}

	a.setRunning(true)
	log.Println("Detection loop started")

	for {
		select {
		case <-ctx.Done():
			log.Println("Detection loop stopped")
			return nil
		default:
		}

		frame, err := a.camera.ReadFrame()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFrameSource, err)
		}

		if !a.IsEnabled() {
			frame.Close()
			continue
		}

		a.processFrame(ctx, sess, frame)
	}
}

// processFrame runs one frame through detection and the session.
// Detector failures and panics drop the frame.
func (a *App) processFrame(ctx context.Context, sess *Session, frame *gocv.Mat) {
	defer frame.Close()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Dropped frame after panic: %v\n%s", r, debug.Stack())
		}
	}()

	if a.config.Mirror {
		capture.Mirror(frame)
	}

	hands, err := a.detector.Detect(frame)
	if err != nil {
		log.Printf("Error detecting hands: %v", err)
		return
	}

	a.ProcessHands(ctx, sess, hands, a.now())
}

// ProcessHands advances sess with one frame's hands and dispatches the
// result when the session says so. Dispatch errors are logged.
func (a *App) ProcessHands(ctx context.Context, sess *Session, hands []detector.HandLandmarks, now time.Time) Decision {
	d := sess.Observe(hands, now)

	if a.config.Debug {
		if d.Raw == gesture.LabelNone {
			log.Println("No hand detected")
		} else {
			log.Printf("Fingers %s -> %s (stable %q)", d.Fingers, d.Raw, d.Stable)
		}
	}

	a.mu.Lock()
	a.status.Frames++
	a.status.LastRaw = d.Raw
	a.mu.Unlock()

	if !d.Fire {
		return d
	}

	ev := Event{Gesture: d.Stable, Time: now}
	if err := a.dispatcher.Dispatch(ctx, d.Stable); err != nil {
		log.Printf("Error dispatching %s: %v", d.Stable, err)
		ev.Error = err.Error()
	} else {
		log.Printf("Gesture %s", d.Stable)
	}

	a.mu.Lock()
	a.status.LastDispatched = d.Stable
	a.status.LastDispatchAt = now
	a.status.Dispatches++
	listeners := append([]func(Event){}, a.listeners...)
	a.mu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}

	return d
}

func (a *App) setRunning(running bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.status.Running = running
}
