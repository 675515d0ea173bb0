package facegeo

import (
	"fmt"
	"math"

	"gocv.io/x/gocv"
)

// Pose holds head orientation as Euler angles in degrees.
type Pose struct {
	PitchDeg float64
	YawDeg   float64
	RollDeg  float64
}

// Generic 3D face model in millimeter-scale arbitrary units, nose tip at
// the origin. The same model the calibration literature uses for a
// six-point perspective solve.
var modelPoints = []gocv.Point3f{
	{X: 0.0, Y: 0.0, Z: 0.0},          // nose tip
	{X: 0.0, Y: -330.0, Z: -65.0},     // chin
	{X: -225.0, Y: 170.0, Z: -135.0},  // left eye corner
	{X: 225.0, Y: 170.0, Z: -135.0},   // right eye corner
	{X: -150.0, Y: -150.0, Z: -125.0}, // left mouth corner
	{X: 150.0, Y: -150.0, Z: -125.0},  // right mouth corner
}

// SolvePose estimates head orientation from the six pose landmarks using a
// perspective-n-point solve against the generic face model. The camera
// intrinsics are approximated from the frame size: focal length = frame
// width, principal point = frame center, zero distortion.
//
// Returns (nil, nil) when the numeric solver fails to converge; that is a
// valid per-frame outcome, not an error.
func SolvePose(pts SixPoints, frameWidth, frameHeight int) (*Pose, error) {
	if frameWidth <= 0 || frameHeight <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", frameWidth, frameHeight)
	}

	imagePoints := []gocv.Point2f{
		{X: float32(pts.NoseTip.X), Y: float32(pts.NoseTip.Y)},
		{X: float32(pts.Chin.X), Y: float32(pts.Chin.Y)},
		{X: float32(pts.LeftEyeCorner.X), Y: float32(pts.LeftEyeCorner.Y)},
		{X: float32(pts.RightEyeCorner.X), Y: float32(pts.RightEyeCorner.Y)},
		{X: float32(pts.LeftMouth.X), Y: float32(pts.LeftMouth.Y)},
		{X: float32(pts.RightMouth.X), Y: float32(pts.RightMouth.Y)},
	}

	objVec := gocv.NewPoint3fVectorFromPoints(modelPoints)
	defer objVec.Close()
	imgVec := gocv.NewPoint2fVectorFromPoints(imagePoints)
	defer imgVec.Close()

	focal := float64(frameWidth)
	cx := float64(frameWidth) / 2.0
	cy := float64(frameHeight) / 2.0

	cameraMatrix := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV64F)
	defer cameraMatrix.Close()
	cameraMatrix.SetDoubleAt(0, 0, focal)
	cameraMatrix.SetDoubleAt(0, 2, cx)
	cameraMatrix.SetDoubleAt(1, 1, focal)
	cameraMatrix.SetDoubleAt(1, 2, cy)
	cameraMatrix.SetDoubleAt(2, 2, 1.0)

	distCoeffs := gocv.NewMatWithSize(4, 1, gocv.MatTypeCV64F)
	defer distCoeffs.Close()

	rvec := gocv.NewMat()
	defer rvec.Close()
	tvec := gocv.NewMat()
	defer tvec.Close()

	if ok := gocv.SolvePnP(objVec, imgVec, cameraMatrix, distCoeffs, &rvec, &tvec, false, 0); !ok {
		return nil, nil
	}

	rmat := gocv.NewMat()
	defer rmat.Close()
	gocv.Rodrigues(rvec, &rmat)

	pitch, yaw, roll := eulerFromRotation(rmat)
	return &Pose{PitchDeg: pitch, YawDeg: yaw, RollDeg: roll}, nil
}

// eulerFromRotation decomposes a 3x3 rotation matrix into Euler angles in
// degrees (pitch about X, yaw about Y, roll about Z).
func eulerFromRotation(r gocv.Mat) (pitch, yaw, roll float64) {
	r00 := r.GetDoubleAt(0, 0)
	r10 := r.GetDoubleAt(1, 0)
	r20 := r.GetDoubleAt(2, 0)
	r21 := r.GetDoubleAt(2, 1)
	r22 := r.GetDoubleAt(2, 2)

	sy := math.Sqrt(r00*r00 + r10*r10)
	if sy > 1e-6 {
		pitch = math.Atan2(r21, r22)
		yaw = math.Atan2(-r20, sy)
		roll = math.Atan2(r10, r00)
	} else {
		// Gimbal lock: roll is unobservable, fold it into pitch.
		pitch = math.Atan2(-r.GetDoubleAt(1, 2), r.GetDoubleAt(1, 1))
		yaw = math.Atan2(-r20, sy)
		roll = 0
	}

	const radToDeg = 180.0 / math.Pi
	return pitch * radToDeg, yaw * radToDeg, roll * radToDeg
}

// PoseSmoother applies exponential smoothing to successive pose solves:
// smoothed = α·new + (1-α)·smoothed. Values are defined only after the
// first successful solve; before that they read as zero.
type PoseSmoother struct {
	Alpha  float64
	pose   Pose
	primed bool
}

// NewPoseSmoother creates a smoother with the given alpha (0-1, higher =
// more weight on new readings).
func NewPoseSmoother(alpha float64) *PoseSmoother {
	return &PoseSmoother{Alpha: alpha}
}

// Update folds a new pose solve into the smoothed estimate and returns it.
func (s *PoseSmoother) Update(p Pose) Pose {
	if !s.primed {
		s.pose = p
		s.primed = true
		return s.pose
	}
	a := s.Alpha
	s.pose.PitchDeg = a*p.PitchDeg + (1-a)*s.pose.PitchDeg
	s.pose.YawDeg = a*p.YawDeg + (1-a)*s.pose.YawDeg
	s.pose.RollDeg = a*p.RollDeg + (1-a)*s.pose.RollDeg
	return s.pose
}

// Current returns the smoothed pose (zero before the first solve).
func (s *PoseSmoother) Current() Pose {
	return s.pose
}
