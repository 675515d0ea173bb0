// Package config provides configuration helpers for go-vigilance commands.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Default monitor configuration.
const (
	DefaultWebPort       = "8080"
	DefaultLandmarkModel = "models/face_landmarks_68.onnx"
	DefaultFaceModel     = "models/face_detection_yunet.onnx"
)

func init() {
	// Best-effort: a missing .env is not an error.
	_ = godotenv.Load()
}

// Env returns the value of an environment variable, falling back to
// the provided default if not set.
func Env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// EnvRequired returns the value of an environment variable.
// Exits with a usage message if not set.
func EnvRequired(key, usage string) string {
	v := os.Getenv(key)
	if v == "" {
		fmt.Fprintf(os.Stderr, "Error: %s environment variable is required\n", key)
		fmt.Fprintf(os.Stderr, "Usage: %s\n", usage)
		os.Exit(1)
	}
	return v
}

// WebPort returns the dashboard port from VIGILANCE_PORT or the default.
func WebPort() string {
	return Env("VIGILANCE_PORT", DefaultWebPort)
}

// LandmarkModelPath returns the 68-point landmark model path.
func LandmarkModelPath() string {
	return Env("LANDMARK_MODEL", DefaultLandmarkModel)
}

// FaceModelPath returns the face detection model path.
func FaceModelPath() string {
	return Env("FACE_MODEL", DefaultFaceModel)
}

// RequireFile fails fast when a required asset is missing, naming it.
func RequireFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("required file not found: %s", path)
	}
	return nil
}
