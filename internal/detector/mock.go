package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It returns either a fixed set of hands or, when a sequence is configured,
// one entry of the sequence per call.
type MockDetector struct {
	mu       sync.Mutex
	hands    []HandLandmarks
	sequence [][]HandLandmarks
	calls    int
	err      error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetSequence scripts the result of successive Detect calls.
// Once the sequence is exhausted, Detect falls back to the hands set by SetHands.
func (m *MockDetector) SetSequence(seq [][]HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sequence = seq
	m.calls = 0
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.calls
	m.calls++

	if m.err != nil {
		return nil, m.err
	}
	if i < len(m.sequence) {
		return m.sequence[i], nil
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// PoseLandmarks builds a mirrored-frame hand with the given fingers extended,
// in thumb, index, middle, ring, pinky order.
// An extended thumb tip lies left of the thumb IP joint; an extended finger
// tip lies above its PIP joint.
func PoseLandmarks(thumb, index, middle, ring, pinky bool) HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.50, Y: 0.80, Z: 0.0}

	landmarks.Points[ThumbCMC] = Point3D{X: 0.44, Y: 0.75, Z: 0.0}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	landmarks.Points[ThumbIP] = Point3D{X: 0.37, Y: 0.66, Z: 0.0}
	if thumb {
		landmarks.Points[ThumbTip] = Point3D{X: 0.32, Y: 0.62, Z: 0.0}
	} else {
		// Folded across the palm
		landmarks.Points[ThumbTip] = Point3D{X: 0.45, Y: 0.66, Z: -0.03}
	}

	fingers := []struct {
		mcp, pip, dip, tip int
		x                  float64
		up                 bool
	}{
		{IndexMCP, IndexPIP, IndexDIP, IndexTip, 0.44, index},
		{MiddleMCP, MiddlePIP, MiddleDIP, MiddleTip, 0.50, middle},
		{RingMCP, RingPIP, RingDIP, RingTip, 0.56, ring},
		{PinkyMCP, PinkyPIP, PinkyDIP, PinkyTip, 0.61, pinky},
	}

	for _, f := range fingers {
		landmarks.Points[f.mcp] = Point3D{X: f.x, Y: 0.66, Z: 0.0}
		landmarks.Points[f.pip] = Point3D{X: f.x, Y: 0.56, Z: 0.0}
		if f.up {
			landmarks.Points[f.dip] = Point3D{X: f.x, Y: 0.47, Z: 0.0}
			landmarks.Points[f.tip] = Point3D{X: f.x, Y: 0.39, Z: 0.0}
		} else {
			landmarks.Points[f.dip] = Point3D{X: f.x, Y: 0.60, Z: -0.04}
			landmarks.Points[f.tip] = Point3D{X: f.x, Y: 0.64, Z: -0.02}
		}
	}

	return landmarks
}

// FistLandmarks returns a hand with every finger curled.
func FistLandmarks() HandLandmarks { return PoseLandmarks(false, false, false, false, false) }

// PointLandmarks returns a hand with only the index finger raised.
func PointLandmarks() HandLandmarks { return PoseLandmarks(false, true, false, false, false) }

// TwoFingerLandmarks returns a hand with index and middle fingers raised.
func TwoFingerLandmarks() HandLandmarks { return PoseLandmarks(false, true, true, false, false) }

// ThreeFingerLandmarks returns a hand with index, middle and ring fingers raised.
func ThreeFingerLandmarks() HandLandmarks { return PoseLandmarks(false, true, true, true, false) }

// OpenPalmLandmarks returns a hand with all five fingers extended.
func OpenPalmLandmarks() HandLandmarks { return PoseLandmarks(true, true, true, true, true) }

// CallLandmarks returns the "call me" pose: thumb and pinky out, the rest curled.
func CallLandmarks() HandLandmarks { return PoseLandmarks(true, false, false, false, true) }
