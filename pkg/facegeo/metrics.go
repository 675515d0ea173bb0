package facegeo

import "math"

// epsilon guards the denominators against division by zero.
const epsilon = 1e-8

func dist(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// EyeAspectRatio computes the 6-point symmetric eye aspect ratio:
//
//	(|p1-p5| + |p2-p4|) / (2·|p0-p3| + ε)
//
// Lower values indicate a more closed eye. This is the 6-point convention;
// the threshold constants in pkg/driver are tuned for it and must not be
// mixed with the 68-point-subset formula.
func EyeAspectRatio(eye [6]Point) float64 {
	a := dist(eye[1], eye[5])
	b := dist(eye[2], eye[4])
	c := dist(eye[0], eye[3])
	return (a + b) / (2.0*c + epsilon)
}

// MouthAspectRatio computes the mouth aspect ratio from the 20 mouth
// contour points: the mean of three inner-lip vertical openings over the
// horizontal inner-lip width. Higher values indicate a wider mouth opening.
func MouthAspectRatio(mouth [20]Point) float64 {
	a := dist(mouth[13], mouth[19])
	b := dist(mouth[14], mouth[18])
	c := dist(mouth[15], mouth[17])
	d := dist(mouth[12], mouth[16]) + epsilon
	return (a + b + c) / (3.0 * d)
}

// AverageEAR returns the mean of the left and right eye aspect ratios.
func AverageEAR(left, right [6]Point) float64 {
	return (EyeAspectRatio(left) + EyeAspectRatio(right)) / 2.0
}
