// Vigilance telemetry server - vehicle behavior aggregation and the
// emergency safety state machine.
//
// Polls the vehicle at 10 Hz, folds readings into behavior snapshots,
// drives the safety machine, and publishes everything to the dashboard
// websocket, the fleet uplink and the session database.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/vigilanceai/go-vigilance/internal/config"
	"github.com/vigilanceai/go-vigilance/internal/log"
	"github.com/vigilanceai/go-vigilance/internal/recorder"
	"github.com/vigilanceai/go-vigilance/pkg/behavior"
	"github.com/vigilanceai/go-vigilance/pkg/safety"
	"github.com/vigilanceai/go-vigilance/pkg/telemetry"
	"github.com/vigilanceai/go-vigilance/pkg/uplink"
	"github.com/vigilanceai/go-vigilance/pkg/web"
)

func main() {
	var (
		port        = flag.String("port", config.Env("VIGILANCE_TELEMETRY_PORT", "8081"), "API port")
		dbPath      = flag.String("db", "session.db", "session database path")
		uplinkURL   = flag.String("uplink", os.Getenv("VIGILANCE_UPLINK_URL"), "fleet uplink URL (empty disables)")
		driverState = flag.String("driver-state", "driver_state.json", "driver state file from the monitor")
		pollHz      = flag.Int("hz", 10, "vehicle poll rate")
		logLevel    = flag.String("log-level", "info", "log level")
	)
	flag.Parse()
	log.Init(*logLevel)

	db, err := recorder.NewDB(*dbPath)
	if err != nil {
		log.Error("session db init failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	vehicle := telemetry.NewSim()
	defer vehicle.Close()

	machine := safety.NewMachine(safety.DefaultConfig())
	analyzer := behavior.NewAnalyzer(behavior.DefaultConfig())

	var (
		snapMu   sync.RWMutex
		lastSnap behavior.Snapshot
	)
	setSnap := func(s behavior.Snapshot) {
		snapMu.Lock()
		lastSnap = s
		snapMu.Unlock()
	}
	server := web.NewServer(*port, web.Sources{
		Behavior: func() behavior.Snapshot {
			snapMu.RLock()
			defer snapMu.RUnlock()
			return lastSnap
		},
		Safety:   machine.Snapshot,
		Override: machine.Override,
	})

	sinks := []web.MessageSink{server}
	ctx, cancel := context.WithCancel(context.Background())
	if *uplinkURL != "" {
		up := uplink.NewClient(*uplinkURL)
		go up.Run(ctx)
		sinks = append(sinks, up)
	}
	broadcaster := web.NewBroadcaster(5*time.Second, sinks...)

	machine.OnTransition = func(snap safety.Snapshot) {
		broadcaster.PublishSafety(snap)
		if err := db.RecordSafetyEvent(snap); err != nil {
			log.Warn("safety event not recorded", "error", err)
		}
		actCtx, actCancel := context.WithTimeout(context.Background(), time.Second)
		defer actCancel()
		if err := vehicle.SetLights(actCtx, snap.LightsOn); err != nil {
			log.Warn("light command failed", "error", err)
		}
		if snap.DoorsOpened {
			if err := vehicle.OpenDoors(actCtx); err != nil {
				log.Warn("door release failed", "error", err)
			}
		}
	}

	go func() {
		if err := server.Start(); err != nil {
			log.Error("web server stopped", "error", err)
		}
	}()

	go func() {
		for c := range vehicle.Collisions() {
			machine.ReportCollision(c)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("shutting down")
		cancel()
	}()

	log.Info("telemetry server started", "port", *port, "hz", *pollHz)
	run(ctx, vehicle, vehicle, machine, analyzer, broadcaster, db, setSnap, *driverState, *pollHz)

	// Leave the vehicle in a safe, released state.
	neutralCtx, neutralCancel := context.WithTimeout(context.Background(), time.Second)
	vehicle.Apply(neutralCtx, telemetry.Neutral())
	vehicle.SetLights(neutralCtx, false)
	neutralCancel()
	server.Shutdown()
}

func run(
	ctx context.Context,
	provider telemetry.Provider,
	actuator telemetry.Actuator,
	machine *safety.Machine,
	analyzer *behavior.Analyzer,
	broadcaster *web.Broadcaster,
	db *recorder.DB,
	setSnap func(behavior.Snapshot),
	driverStatePath string,
	pollHz int,
) {
	anomalyCfg := telemetry.DefaultAnomalyConfig()
	ticker := time.NewTicker(time.Second / time.Duration(pollHz))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		state, err := provider.State(ctx)
		if err != nil {
			log.Warn("vehicle poll failed", "error", err)
			continue
		}

		if state.Throttle > 0 || state.Brake > 0 || state.Steer != 0 {
			machine.NoteDriverInput()
		}
		machine.ReportRoll(state.Rotation.RollDeg)

		control, commanded := machine.Tick(state.SpeedKmh)
		if commanded {
			if err := actuator.Apply(ctx, control); err != nil {
				log.Error("actuation failed", "error", err)
			}
		}

		effective := control
		if !commanded {
			effective = telemetry.Control{
				Throttle: state.Throttle,
				Brake:    state.Brake,
				Steer:    state.Steer,
			}
		}
		if anomaly := telemetry.DetectAnomaly(effective, state.SpeedKmh, anomalyCfg); anomaly != telemetry.AnomalyNone {
			log.Warn("driving anomaly", "kind", anomaly.String(), "speed_kmh", state.SpeedKmh)
		}

		snap := analyzer.Update(state, loadVision(driverStatePath))
		setSnap(snap)

		if broadcaster.Offer(snap, machine.Snapshot()) {
			if err := db.RecordSnapshot(snap); err != nil {
				log.Warn("snapshot not recorded", "error", err)
			}
		}
	}
}

// visionFile mirrors the monitor's state file contract.
type visionFile struct {
	Drowsiness string    `json:"drowsiness"`
	Fatigue    string    `json:"fatigue"`
	Attention  string    `json:"attention"`
	Emotion    string    `json:"emotion"`
	Stressed   bool      `json:"stressed"`
	EAR        float64   `json:"ear"`
	MAR        float64   `json:"mar"`
	BlinkRate  float64   `json:"blink_rate"`
	Timestamp  time.Time `json:"timestamp"`
}

// loadVision reads the monitor's state file. Stale or unreadable files
// return nil, which drops the aggregator back to its simulated path.
func loadVision(path string) *behavior.VisionSignals {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var vf visionFile
	if err := json.Unmarshal(data, &vf); err != nil {
		return nil
	}
	if time.Since(vf.Timestamp) > 2*time.Second {
		return nil
	}

	gaze := "forward"
	headPose := "centered"
	if vf.Attention == "Distracted" {
		gaze = "away"
		headPose = "off-axis"
	}
	return &behavior.VisionSignals{
		EyeClosure:    behavior.EyeClosureFromEAR(vf.EAR),
		YawnDetected:  vf.MAR > 0.65,
		HeadPose:      headPose,
		GazeDirection: gaze,
		BlinkRate:     vf.BlinkRate,
		Emotion:       vf.Emotion,
		Stressed:      vf.Stressed,
		Fatigued:      vf.Fatigue == "Fatigued",
	}
}
