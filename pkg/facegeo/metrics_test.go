package facegeo

import (
	"math"
	"testing"
)

func openEye() [6]Point {
	// Roughly almond-shaped open eye, width 40px, height ~12px.
	return [6]Point{
		{X: 0, Y: 0},
		{X: 10, Y: -6},
		{X: 30, Y: -6},
		{X: 40, Y: 0},
		{X: 30, Y: 6},
		{X: 10, Y: 6},
	}
}

func translate6(pts [6]Point, dx, dy float64) [6]Point {
	for i := range pts {
		pts[i].X += dx
		pts[i].Y += dy
	}
	return pts
}

func TestEyeAspectRatio_OpenVsClosed(t *testing.T) {
	open := EyeAspectRatio(openEye())

	closed := openEye()
	for i := range closed {
		closed[i].Y = 0 // flatten vertically
	}
	shut := EyeAspectRatio(closed)

	if open <= shut {
		t.Errorf("expected open eye EAR > closed eye EAR, got open=%v closed=%v", open, shut)
	}
	if shut > 1e-6 {
		t.Errorf("expected near-zero EAR for flat eye, got %v", shut)
	}
}

func TestEyeAspectRatio_TranslationInvariant(t *testing.T) {
	base := EyeAspectRatio(openEye())
	moved := EyeAspectRatio(translate6(openEye(), 123.4, -56.7))

	if math.Abs(base-moved) > 1e-12 {
		t.Errorf("EAR changed under translation: %v vs %v", base, moved)
	}
}

func TestEyeAspectRatio_ZeroWidthDoesNotPanic(t *testing.T) {
	var degenerate [6]Point // all points coincident
	got := EyeAspectRatio(degenerate)
	if math.IsNaN(got) || math.IsInf(got, 0) {
		t.Errorf("expected finite EAR for degenerate eye, got %v", got)
	}
}

func yawningMouth() [20]Point {
	var mouth [20]Point
	// Outer contour 0-11, inner lip 12-19. Only the indices used by the
	// ratio matter: 12/16 horizontal, (13,19) (14,18) (15,17) vertical.
	mouth[12] = Point{X: 0, Y: 0}
	mouth[16] = Point{X: 30, Y: 0}
	mouth[13] = Point{X: 8, Y: -12}
	mouth[19] = Point{X: 8, Y: 12}
	mouth[14] = Point{X: 15, Y: -14}
	mouth[18] = Point{X: 15, Y: 14}
	mouth[15] = Point{X: 22, Y: -12}
	mouth[17] = Point{X: 22, Y: 12}
	return mouth
}

func TestMouthAspectRatio_TranslationInvariant(t *testing.T) {
	base := MouthAspectRatio(yawningMouth())

	moved := yawningMouth()
	for i := range moved {
		moved[i].X += 400
		moved[i].Y += 300
	}
	got := MouthAspectRatio(moved)

	if math.Abs(base-got) > 1e-12 {
		t.Errorf("MAR changed under translation: %v vs %v", base, got)
	}
}

func TestMouthAspectRatio_WideOpenExceedsClosed(t *testing.T) {
	open := MouthAspectRatio(yawningMouth())

	closed := yawningMouth()
	for _, i := range []int{13, 14, 15, 17, 18, 19} {
		closed[i].Y = 0
	}
	shut := MouthAspectRatio(closed)

	if open <= shut {
		t.Errorf("expected open mouth MAR > closed, got open=%v closed=%v", open, shut)
	}
}

func TestPoseSmoother(t *testing.T) {
	s := NewPoseSmoother(0.4)

	if got := s.Current(); got != (Pose{}) {
		t.Errorf("expected zero pose before first solve, got %+v", got)
	}

	first := s.Update(Pose{PitchDeg: 10, YawDeg: -20, RollDeg: 5})
	if first.YawDeg != -20 {
		t.Errorf("first update should prime the smoother, got yaw %v", first.YawDeg)
	}

	second := s.Update(Pose{PitchDeg: 0, YawDeg: 0, RollDeg: 0})
	wantYaw := 0.4*0 + 0.6*(-20)
	if math.Abs(second.YawDeg-wantYaw) > 1e-9 {
		t.Errorf("expected smoothed yaw %v, got %v", wantYaw, second.YawDeg)
	}
}

func TestLandmarkSetAccessors(t *testing.T) {
	var ls LandmarkSet
	for i := range ls.Points {
		ls.Points[i] = Point{X: float64(i), Y: float64(i)}
	}

	if got := ls.LeftEye()[0].X; got != 36 {
		t.Errorf("expected left eye to start at landmark 36, got %v", got)
	}
	if got := ls.RightEye()[5].X; got != 47 {
		t.Errorf("expected right eye to end at landmark 47, got %v", got)
	}
	if got := ls.Mouth()[19].X; got != 67 {
		t.Errorf("expected mouth to end at landmark 67, got %v", got)
	}

	pose := ls.PosePoints()
	if pose.NoseTip.X != 30 || pose.Chin.X != 8 || pose.RightMouth.X != 54 {
		t.Errorf("unexpected pose point selection: %+v", pose)
	}
}
