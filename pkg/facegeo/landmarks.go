// Package facegeo computes face geometry metrics from landmark points:
// eye aspect ratio, mouth aspect ratio and head pose.
package facegeo

// Point is a 2D landmark position in pixel coordinates.
type Point struct {
	X float64
	Y float64
}

// Landmark indices follow the 68-point convention: points 36-41 outline
// the left eye, 42-47 the right eye, 48-67 the mouth. The six pose points
// (nose tip, chin, eye corners, mouth corners) are 30, 8, 36, 45, 48, 54.
const (
	NumLandmarks = 68

	leftEyeStart  = 36
	rightEyeStart = 42
	mouthStart    = 48

	noseTipIdx       = 30
	chinIdx          = 8
	leftEyeCornerIdx = 36
	rightEyeCornerIdx = 45
	leftMouthIdx     = 48
	rightMouthIdx    = 54
)

// LandmarkSet holds one frame's detected landmarks. It is produced once
// per frame by the landmark detector and discarded after metrics are
// derived; nothing retains it across frames.
type LandmarkSet struct {
	Points [NumLandmarks]Point
}

// LeftEye returns the six left-eye contour points.
func (l *LandmarkSet) LeftEye() [6]Point {
	var eye [6]Point
	copy(eye[:], l.Points[leftEyeStart:leftEyeStart+6])
	return eye
}

// RightEye returns the six right-eye contour points.
func (l *LandmarkSet) RightEye() [6]Point {
	var eye [6]Point
	copy(eye[:], l.Points[rightEyeStart:rightEyeStart+6])
	return eye
}

// Mouth returns the twenty mouth contour points.
func (l *LandmarkSet) Mouth() [20]Point {
	var mouth [20]Point
	copy(mouth[:], l.Points[mouthStart:mouthStart+20])
	return mouth
}

// SixPoints is the subset of landmarks used for the head pose solve.
type SixPoints struct {
	NoseTip        Point
	Chin           Point
	LeftEyeCorner  Point
	RightEyeCorner Point
	LeftMouth      Point
	RightMouth     Point
}

// PosePoints returns the six landmarks used for the head pose solve.
func (l *LandmarkSet) PosePoints() SixPoints {
	return SixPoints{
		NoseTip:        l.Points[noseTipIdx],
		Chin:           l.Points[chinIdx],
		LeftEyeCorner:  l.Points[leftEyeCornerIdx],
		RightEyeCorner: l.Points[rightEyeCornerIdx],
		LeftMouth:      l.Points[leftMouthIdx],
		RightMouth:     l.Points[rightMouthIdx],
	}
}
