package gesture

import "github.com/ayusman/mudra/internal/detector"

// Finger positions within a Fingers vector.
const (
	Thumb = iota
	Index
	Middle
	Ring
	Pinky
	NumFingers
)

// Fingers records which fingers are extended, in thumb-to-pinky order.
type Fingers [NumFingers]bool

// fingerJoints pairs each non-thumb fingertip with its PIP joint.
var fingerJoints = [...]struct{ tip, pip int }{
	Index:  {detector.IndexTip, detector.IndexPIP},
	Middle: {detector.MiddleTip, detector.MiddlePIP},
	Ring:   {detector.RingTip, detector.RingPIP},
	Pinky:  {detector.PinkyTip, detector.PinkyPIP},
}

// ExtractFingers reports which fingers of hand are extended.
//
// The frame is mirrored before detection, so a raised thumb has its tip to the
// left of the IP joint. The other fingers are extended when the tip sits above
// the PIP joint; image Y grows downward.
func ExtractFingers(hand *detector.HandLandmarks) Fingers {
	var f Fingers

	f[Thumb] = hand.Points[detector.ThumbTip].X < hand.Points[detector.ThumbIP].X

	for i := Index; i <= Pinky; i++ {
		j := fingerJoints[i]
		f[i] = hand.Points[j.tip].Y < hand.Points[j.pip].Y
	}

	return f
}

// Count returns the number of extended fingers.
func (f Fingers) Count() int {
	n := 0
	for _, up := range f {
		if up {
			n++
		}
	}
	return n
}

// String renders the vector as five digits, e.g. "01100".
func (f Fingers) String() string {
	b := make([]byte, NumFingers)
	for i, up := range f {
		b[i] = '0'
		if up {
			b[i] = '1'
		}
	}
	return string(b)
}
