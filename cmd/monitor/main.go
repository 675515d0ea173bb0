// Vigilance monitor - realtime driver-state estimation from a camera.
//
// Captures frames, detects facial landmarks, derives drowsiness,
// fatigue, attention and stress, and publishes the results to the state
// file, the session CSV and the web dashboard.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gocv.io/x/gocv"

	"github.com/vigilanceai/go-vigilance/internal/config"
	"github.com/vigilanceai/go-vigilance/internal/log"
	"github.com/vigilanceai/go-vigilance/pkg/driver"
	"github.com/vigilanceai/go-vigilance/pkg/facegeo/landmark"
	"github.com/vigilanceai/go-vigilance/pkg/sink"
	"github.com/vigilanceai/go-vigilance/pkg/web"
)

func main() {
	var (
		device     = flag.String("device", "0", "camera device ID or video file")
		port       = flag.String("port", config.WebPort(), "dashboard port")
		stateFile  = flag.String("state-file", "driver_state.json", "state file path")
		csvPath    = flag.String("csv", "session_log.csv", "session CSV path")
		emotionURL = flag.String("emotion-url", os.Getenv("EMOTION_SERVICE_URL"), "emotion service URL (empty disables)")
		logLevel   = flag.String("log-level", "info", "log level")
	)
	flag.Parse()
	log.Init(*logLevel)

	faceModel := config.FaceModelPath()
	landmarkModel := config.LandmarkModelPath()
	for _, path := range []string{faceModel, landmarkModel} {
		if err := config.RequireFile(path); err != nil {
			log.Error("missing model", "error", err)
			os.Exit(1)
		}
	}

	detCfg := landmark.DefaultConfig()
	detCfg.FaceModelPath = faceModel
	detCfg.LandmarkModelPath = landmarkModel
	detector, err := landmark.NewDNN(detCfg)
	if err != nil {
		log.Error("landmark detector init failed", "error", err)
		os.Exit(1)
	}
	defer detector.Close()

	var classifier driver.Classifier
	if *emotionURL != "" {
		classifier = driver.NewHTTPClassifier(*emotionURL)
		log.Info("emotion classification enabled", "url", *emotionURL)
	}

	monitor := driver.NewMonitor(driver.DefaultConfig(), detector, classifier)

	stateSink := sink.NewStateFile(*stateFile)
	csvLog, err := sink.NewCSVLog(*csvPath)
	if err != nil {
		log.Error("session log init failed", "error", err)
		os.Exit(1)
	}
	defer csvLog.Close()

	monitor.OnState = func(state driver.State) {
		if err := stateSink.Write(state); err != nil {
			log.Debug("state file write failed", "error", err)
		}
		if err := csvLog.Append(state); err != nil {
			log.Debug("session log append failed", "error", err)
		}
	}

	server := web.NewServer(*port, web.Sources{
		DriverState: monitor.Snapshot,
	})
	go func() {
		if err := server.Start(); err != nil {
			log.Error("web server stopped", "error", err)
		}
	}()

	capture, err := gocv.OpenVideoCapture(*device)
	if err != nil {
		log.Error("camera open failed", "device", *device, "error", err)
		os.Exit(1)
	}
	defer capture.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("shutting down")
		cancel()
	}()

	frames := make(chan driver.Frame, 4)
	go monitor.Run(ctx, frames)

	log.Info("monitor started", "device", *device, "port", *port)
	captureLoop(ctx, capture, frames)

	server.Shutdown()
}

// captureLoop reads frames at camera cadence and offers them to the
// processing queue, dropping the oldest when processing falls behind.
func captureLoop(ctx context.Context, capture *gocv.VideoCapture, frames chan driver.Frame) {
	img := gocv.NewMat()
	defer img.Close()

	for ctx.Err() == nil {
		if ok := capture.Read(&img); !ok {
			log.Warn("camera read failed, stopping capture")
			return
		}
		if img.Empty() {
			continue
		}

		buf, err := gocv.IMEncode(gocv.JPEGFileExt, img)
		if err != nil {
			log.Debug("frame encode failed", "error", err)
			continue
		}
		jpeg := make([]byte, len(buf.GetBytes()))
		copy(jpeg, buf.GetBytes())
		buf.Close()

		driver.Offer(frames, driver.Frame{
			Width:  img.Cols(),
			Height: img.Rows(),
			JPEG:   jpeg,
		})

		// Pace slightly below typical camera rates to keep CPU headroom.
		time.Sleep(10 * time.Millisecond)
	}
}
