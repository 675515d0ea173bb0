package landmark

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"github.com/vigilanceai/go-vigilance/pkg/facegeo"
)

// DNNDetector chains a YuNet face detector with a 68-point landmark
// regression net. The face detector gates the (more expensive) landmark
// net: when no face clears the confidence threshold, Detect reports NoFace
// without running the regressor.
type DNNDetector struct {
	faces     gocv.FaceDetectorYN
	landmarks gocv.Net
	config    Config
	inputSize image.Point
	mu        sync.Mutex // protects inference
}

// NewDNN creates a landmark detector from ONNX model files.
// Missing model files are a startup error naming the path.
func NewDNN(cfg Config) (*DNNDetector, error) {
	if _, err := os.Stat(cfg.FaceModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", cfg.FaceModelPath)
	}
	if _, err := os.Stat(cfg.LandmarkModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", cfg.LandmarkModelPath)
	}

	faces := gocv.NewFaceDetectorYNWithParams(
		cfg.FaceModelPath,
		"", // no config file needed for ONNX
		image.Pt(cfg.InputWidth, cfg.InputHeight),
		float32(cfg.ConfidenceThresh),
		0.3,  // NMS threshold
		5000, // top K
		int(gocv.NetBackendDefault),
		int(gocv.NetTargetCPU),
	)

	net := gocv.ReadNetFromONNX(cfg.LandmarkModelPath)
	if net.Empty() {
		faces.Close()
		return nil, fmt.Errorf("failed to load landmark model from %s", cfg.LandmarkModelPath)
	}
	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	return &DNNDetector{
		faces:     faces,
		landmarks: net,
		config:    cfg,
		inputSize: image.Pt(cfg.LandmarkInputSize, cfg.LandmarkInputSize),
	}, nil
}

// Detect finds the most confident face in the JPEG image and regresses
// its 68 landmarks. Returns (nil, nil) when no face is found.
func (d *DNNDetector) Detect(jpeg []byte) (*facegeo.LandmarkSet, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	img, err := gocv.IMDecode(jpeg, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	defer img.Close()

	if img.Empty() {
		return nil, fmt.Errorf("empty image")
	}

	rect, found := d.bestFace(img)
	if !found {
		return nil, nil
	}

	crop := img.Region(rect)
	defer crop.Close()

	blob := gocv.BlobFromImage(crop, 1.0/255.0, d.inputSize, gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.landmarks.SetInput(blob, "")
	output := d.landmarks.Forward("")
	defer output.Close()

	data, err := output.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read landmark output: %w", err)
	}
	if len(data) < facegeo.NumLandmarks*2 {
		return nil, fmt.Errorf("landmark output too short: %d values", len(data))
	}

	// Output is 136 normalized (x, y) pairs relative to the face crop.
	var set facegeo.LandmarkSet
	w := float64(rect.Dx())
	h := float64(rect.Dy())
	for i := 0; i < facegeo.NumLandmarks; i++ {
		set.Points[i] = facegeo.Point{
			X: float64(rect.Min.X) + float64(data[i*2])*w,
			Y: float64(rect.Min.Y) + float64(data[i*2+1])*h,
		}
	}
	return &set, nil
}

// bestFace runs YuNet and returns the bounding box of the highest-scoring
// face, clipped to the image bounds.
func (d *DNNDetector) bestFace(img gocv.Mat) (image.Rectangle, bool) {
	d.faces.SetInputSize(image.Pt(img.Cols(), img.Rows()))

	out := gocv.NewMat()
	defer out.Close()
	d.faces.Detect(img, &out)

	best := image.Rectangle{}
	bestScore := float32(0)
	for r := 0; r < out.Rows(); r++ {
		// YuNet rows: x, y, w, h, 5 landmark pairs, score at column 14.
		score := out.GetFloatAt(r, 14)
		if score < float32(d.config.ConfidenceThresh) || score <= bestScore {
			continue
		}
		x := int(out.GetFloatAt(r, 0))
		y := int(out.GetFloatAt(r, 1))
		w := int(out.GetFloatAt(r, 2))
		h := int(out.GetFloatAt(r, 3))
		best = image.Rect(x, y, x+w, y+h).Intersect(image.Rect(0, 0, img.Cols(), img.Rows()))
		bestScore = score
	}
	if bestScore == 0 || best.Empty() {
		return image.Rectangle{}, false
	}
	return best, true
}

// Close releases both models.
func (d *DNNDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.landmarks.Close()
	d.faces.Close()
	return nil
}

var _ Detector = (*DNNDetector)(nil)
