package driver

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPClassifier calls an external emotion-analysis service over HTTP.
// The service accepts a base64 JPEG and returns the dominant emotion:
//
//	POST {url}  {"image": "<base64>"}
//	200         {"dominant_emotion": "angry"}
type HTTPClassifier struct {
	URL    string
	client *http.Client
}

// NewHTTPClassifier creates a classifier client with a bounded timeout so
// a stalled service cannot wedge the sampling path.
func NewHTTPClassifier(url string) *HTTPClassifier {
	return &HTTPClassifier{
		URL: url,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type classifyRequest struct {
	Image string `json:"image"`
}

type classifyResponse struct {
	DominantEmotion string `json:"dominant_emotion"`
}

// Classify sends the frame to the emotion service.
func (c *HTTPClassifier) Classify(jpeg []byte) (string, error) {
	reqBody, err := json.Marshal(classifyRequest{
		Image: base64.StdEncoding.EncodeToString(jpeg),
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	resp, err := c.client.Post(c.URL, "application/json", bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("emotion service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("emotion service returned %d", resp.StatusCode)
	}

	var out classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if out.DominantEmotion == "" {
		return "", fmt.Errorf("emotion service returned empty label")
	}
	return out.DominantEmotion, nil
}

var _ Classifier = (*HTTPClassifier)(nil)
