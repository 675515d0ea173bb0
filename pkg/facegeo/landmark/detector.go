// Package landmark provides face landmark detection backends.
package landmark

import "github.com/vigilanceai/go-vigilance/pkg/facegeo"

// Detector is the interface for landmark detection backends.
// Detect returns (nil, nil) when no face is found in the frame; callers
// must treat that as a NoFace observation, not an error.
type Detector interface {
	// Detect finds a face in the JPEG image and returns its landmarks
	Detect(jpeg []byte) (*facegeo.LandmarkSet, error)

	// Close releases resources
	Close() error
}

// Config holds detector configuration
type Config struct {
	FaceModelPath     string  // Path to YuNet face detection ONNX model
	LandmarkModelPath string  // Path to 68-point landmark ONNX model
	ConfidenceThresh  float64 // Minimum face confidence (default 0.5)
	InputWidth        int     // Face model input width
	InputHeight       int     // Face model input height
	LandmarkInputSize int     // Landmark model input size (square)
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		FaceModelPath:     "models/face_detection_yunet.onnx",
		LandmarkModelPath: "models/face_landmarks_68.onnx",
		ConfidenceThresh:  0.5,
		InputWidth:        320,
		InputHeight:       320,
		LandmarkInputSize: 112,
	}
}
