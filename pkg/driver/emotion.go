package driver

import (
	"github.com/vigilanceai/go-vigilance/internal/log"
)

// Classifier is the interface to the external emotion classifier.
// Implementations may be slow or flaky; the sampler shields the frame
// loop from both.
type Classifier interface {
	// Classify returns the dominant emotion label for the frame
	Classify(jpeg []byte) (string, error)
}

// Labels treated as stress indicators.
var stressedLabels = map[string]bool{
	"angry":   true,
	"fear":    true,
	"sad":     true,
	"disgust": true,
}

// EmotionSampler rate-limits calls to the emotion classifier. Between
// samples, and whenever the classifier fails, the last classified label
// is held unchanged.
type EmotionSampler struct {
	classifier Classifier
	interval   int

	lastLabel    string
	lastStressed bool
	lastFrame    int
	sampled      bool
}

// NewEmotionSampler creates a sampler that invokes the classifier at most
// once every interval frames.
func NewEmotionSampler(classifier Classifier, interval int) *EmotionSampler {
	return &EmotionSampler{
		classifier: classifier,
		interval:   interval,
		lastLabel:  "unknown",
	}
}

// Sample returns the current emotion label and stress flag, invoking the
// classifier only when the sampling interval has elapsed. Calls within
// the interval return the held values unchanged.
func (s *EmotionSampler) Sample(frameIndex int, jpeg []byte) (string, bool) {
	if s.classifier == nil {
		return s.lastLabel, s.lastStressed
	}
	if s.sampled && frameIndex-s.lastFrame < s.interval {
		return s.lastLabel, s.lastStressed
	}

	s.lastFrame = frameIndex
	s.sampled = true

	label, err := s.classifier.Classify(jpeg)
	if err != nil {
		// Fail-soft: keep the previous label.
		log.Debug("emotion classify failed", "error", err)
		return s.lastLabel, s.lastStressed
	}

	s.lastLabel = label
	s.lastStressed = stressedLabels[label]
	return s.lastLabel, s.lastStressed
}

// Last returns the held label and stress flag without sampling.
func (s *EmotionSampler) Last() (string, bool) {
	return s.lastLabel, s.lastStressed
}
