package driver

import (
	"context"
	"sync"
	"time"

	"github.com/vigilanceai/go-vigilance/internal/log"
	"github.com/vigilanceai/go-vigilance/pkg/facegeo"
	"github.com/vigilanceai/go-vigilance/pkg/facegeo/landmark"
)

// Frame is one captured camera frame handed to the monitor.
type Frame struct {
	Width  int
	Height int
	JPEG   []byte
}

// Monitor owns all per-frame mutable driver state. Exactly one worker
// goroutine calls ProcessFrame; everyone else reads immutable State
// snapshots through Snapshot or the OnState callback.
type Monitor struct {
	cfg       Config
	detector  landmark.Detector
	emotions  *EmotionSampler
	attention *AttentionTracker

	eye   EyeState
	mouth MouthState

	frameIndex   int
	sessionStart time.Time

	// OnState, when set, receives every produced snapshot. It must not
	// block; slow sinks belong behind their own queue.
	OnState func(State)

	last   State
	lastMu sync.RWMutex

	now func() time.Time
}

// NewMonitor creates a driver monitor. classifier may be nil, in which
// case the emotion fields hold "unknown".
func NewMonitor(cfg Config, detector landmark.Detector, classifier Classifier) *Monitor {
	return &Monitor{
		cfg:          cfg,
		detector:     detector,
		emotions:     NewEmotionSampler(classifier, cfg.EmotionIntervalFrames),
		attention:    NewAttentionTracker(cfg),
		sessionStart: time.Now(),
		now:          time.Now,
	}
}

// ProcessFrame runs the full per-frame estimation chain and returns the
// resulting snapshot. A frame with no detectable face yields the NoFace /
// FaceNotDetected states rather than an error; only the landmark pipeline
// reaching an unusable frame is logged, and even then the loop continues.
func (m *Monitor) ProcessFrame(frame Frame) State {
	m.frameIndex++
	now := m.now()

	state := State{
		FrameIndex: m.frameIndex,
		Timestamp:  now,
	}

	set, err := m.detector.Detect(frame.JPEG)
	if err != nil {
		log.Warn("landmark detection failed", "frame", m.frameIndex, "error", err)
		set = nil
	}

	if set == nil {
		state.Drowsiness = DrowsinessNoFace
		state.Fatigue = ClassifyFatigue(m.frameIndex, m.eye.BlinkCount, m.cfg)
		state.Attention = AttentionFaceNotDetected
		state.BlinkCount = m.eye.BlinkCount
		state.BlinkRate = m.blinkRate(now)
		state.Emotion, state.Stressed = m.emotions.Last()
		state.Pose = m.attention.Pose()
		m.publish(&state)
		return state
	}

	state.FaceDetected = true

	ear := facegeo.AverageEAR(set.LeftEye(), set.RightEye())
	mar := facegeo.MouthAspectRatio(set.Mouth())
	m.eye.Observe(ear, m.cfg)
	m.mouth.Observe(mar, m.cfg)

	state.EAR = ear
	state.MAR = mar
	state.BlinkCount = m.eye.BlinkCount
	state.BlinkRate = m.blinkRate(now)
	state.YawnDetected = m.mouth.YawnDetected

	state.Drowsiness = ClassifyDrowsiness(m.eye, m.mouth, m.cfg)
	state.Fatigue = ClassifyFatigue(m.frameIndex, m.eye.BlinkCount, m.cfg)

	pose, perr := facegeo.SolvePose(set.PosePoints(), frame.Width, frame.Height)
	if perr != nil {
		log.Debug("pose solve rejected frame", "frame", m.frameIndex, "error", perr)
	}
	state.Attention, state.DistractionEvent = m.attention.Observe(pose, true, now)
	state.Pose = m.attention.Pose()

	state.Emotion, state.Stressed = m.emotions.Sample(m.frameIndex, frame.JPEG)

	m.publish(&state)
	return state
}

func (m *Monitor) publish(s *State) {
	s.fillLabels()

	m.lastMu.Lock()
	m.last = *s
	m.lastMu.Unlock()

	if m.OnState != nil {
		m.OnState(*s)
	}
}

// ResetSession re-bases the frame and blink counters, undoing the
// fatigue ratchet. Honored only when Config.FatigueReset is set; call it
// from the goroutine that owns ProcessFrame.
func (m *Monitor) ResetSession() {
	if !m.cfg.FatigueReset {
		return
	}
	m.frameIndex = 0
	m.eye = EyeState{}
	m.mouth = MouthState{}
	m.sessionStart = m.now()
	log.Info("session counters reset")
}

// blinkRate is the session-average blink frequency in blinks per minute.
// The window is floored at one minute so the first few blinks do not
// read as an extreme rate.
func (m *Monitor) blinkRate(now time.Time) float64 {
	mins := now.Sub(m.sessionStart).Minutes()
	if mins < 1 {
		mins = 1
	}
	return float64(m.eye.BlinkCount) / mins
}

// Snapshot returns the most recent state. Safe from any goroutine.
func (m *Monitor) Snapshot() State {
	m.lastMu.RLock()
	defer m.lastMu.RUnlock()
	return m.last
}

// Run drains frames from the channel until it closes or the context is
// cancelled. This is the consumer half of the producer/consumer split:
// a push-based frame source feeds the channel at capture cadence and the
// monitor processes at its own pace.
func (m *Monitor) Run(ctx context.Context, frames <-chan Frame) {
	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-frames:
			if !ok {
				return
			}
			m.ProcessFrame(frame)
		}
	}
}

// Offer pushes a frame into the bounded queue, dropping the oldest queued
// frame when full so capture never blocks on processing.
func Offer(queue chan Frame, frame Frame) {
	select {
	case queue <- frame:
	default:
		select {
		case <-queue:
		default:
		}
		select {
		case queue <- frame:
		default:
		}
	}
}
