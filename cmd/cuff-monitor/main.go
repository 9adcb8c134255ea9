// Command cuff-monitor runs one blood-pressure measurement session: it
// calibrates the MPR sensor, records the deflation cycle, estimates
// systolic/diastolic pressure and pulse, and publishes the result to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/keenan/cuff-monitor/internal/config"
	"github.com/keenan/cuff-monitor/internal/gpio"
	"github.com/keenan/cuff-monitor/internal/logic"
	"github.com/keenan/cuff-monitor/internal/mqtt"
	"github.com/keenan/cuff-monitor/internal/sensor"
	"github.com/keenan/cuff-monitor/internal/status"
	"github.com/keenan/cuff-monitor/internal/stream"
	"github.com/keenan/cuff-monitor/internal/web"
)

func main() {
	cfgPath := flag.String("config", "", "YAML config file (optional)")
	broker := flag.String("broker", "", "MQTT broker address (overrides config)")
	sample := flag.Duration("sample", 0, "sampling interval (overrides config)")
	monitor := flag.Duration("monitor", 0, "release-rate monitor interval (overrides config)")
	httpAddr := flag.String("http", "", "HTTP status address (overrides config)")
	spiPort := flag.String("spi", "", "SPI port for the MPR sensor (overrides config)")
	natsURL := flag.String("nats", "", "NATS URL for the live waveform (overrides config, enables stream)")
	printOffset := flag.Bool("print-offset", false, "calibrate, print the zero offset, and exit")

	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	if *broker != "" {
		cfg.MQTT.Broker = *broker
	}
	if *sample > 0 {
		cfg.Sampling.Interval = *sample
	}
	if *monitor > 0 {
		cfg.Sampling.MonitorInterval = *monitor
	}
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}
	if *spiPort != "" {
		cfg.Sensor.SPIPort = *spiPort
	}
	if *natsURL != "" {
		cfg.Stream.Enabled = true
		cfg.Stream.URL = *natsURL
	}

	if err := run(cfg, *printOffset); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg config.Config, printOffset bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dev, err := sensor.NewRealDevice(cfg.Sensor.SPIPort)
	if err != nil {
		return fmt.Errorf("init sensor: %w", err)
	}
	defer dev.Close()

	// Calibrate-only mode
	if printOffset {
		offset, err := sensor.Calibrate(ctx, dev, sensor.CalibrationSamples, sensor.CalibrationInterval)
		if err != nil {
			return fmt.Errorf("calibrate: %w", err)
		}
		fmt.Printf("zero offset: %d counts\n", offset)
		return nil
	}

	panel, err := gpio.NewRealPanel(cfg.Pins.Button, cfg.Pins.CaptureLED, cfg.Pins.MaxLED, cfg.Pins.WarnLED)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer panel.Close()

	var publisher mqtt.Publisher = noopPublisher{}
	var connStatus mqtt.ConnectionStatus
	if cfg.MQTT.Enabled {
		real, err := mqtt.NewRealPublisher(cfg.MQTT.Broker)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		publisher = real
		connStatus = real
	}
	defer publisher.Close()

	var wave *stream.WavePublisher
	if cfg.Stream.Enabled {
		nc, err := stream.Connect(cfg.Stream.URL)
		if err != nil {
			// A dead waveform feed must not block a measurement.
			log.Printf("nats connect failed, waveform disabled: %v", err)
		} else {
			defer nc.Drain()
			wave = stream.NewWavePublisher(nc, cfg.Stream.Subject, cfg.Stream.Batch)
		}
	}

	tracker := status.NewTracker(time.Now(), status.Config{
		SampleMs:  cfg.Sampling.Interval.Milliseconds(),
		MonitorMs: cfg.Sampling.MonitorInterval.Milliseconds(),
		Broker:    cfg.MQTT.Broker,
		HTTPAddr:  cfg.HTTPAddr,
		StreamURL: streamURL(cfg),
	})

	if connStatus != nil {
		tracker.SetMQTTConnected(connStatus.IsConnected())
		go watchConnection(ctx, connStatus, tracker)
	}

	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	}

	session := logic.NewSession()

	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker, func() []logic.EnvelopePoint {
			return session.Envelope().Points()
		})
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTPAddr)
	}

	// Calibration: the cuff must be unpressurised here.
	session.BeginCalibration()
	tracker.SetState(logic.StateCalibrating)
	log.Printf("calibrating sensor (%d samples)...", sensor.CalibrationSamples)
	offset, err := sensor.Calibrate(ctx, dev, sensor.CalibrationSamples, sensor.CalibrationInterval)
	if err != nil {
		reportAbort(publisher, tracker, "SENSOR_UNAVAILABLE")
		return fmt.Errorf("calibrate: %w", err)
	}
	log.Printf("calibration complete: zero offset %d counts", offset)
	reader := sensor.NewReader(dev, offset)

	session.StartRecording()
	tracker.SetState(logic.StateRecording)
	log.Printf("recording: press the capture button once the cuff is inflated")

	// Arm the release-rate monitor on its own cadence.
	monCtx, cancelMonitor := context.WithCancel(ctx)
	defer cancelMonitor()
	monTicker := time.NewTicker(cfg.Sampling.MonitorInterval)
	defer monTicker.Stop()
	go monitorLoop(monCtx, logic.NewReleaseMonitor(session), panel, publisher, tracker, time.Now, monTicker.C)

	ticker := time.NewTicker(cfg.Sampling.Interval)
	defer ticker.Stop()

	finished, err := runLoop(ctx, session, reader, panel, publisher, tracker, wave, time.Now, ticker.C)
	cancelMonitor()
	if err != nil {
		reportAbort(publisher, tracker, "SENSOR_UNAVAILABLE")
		return err
	}
	if !finished {
		// Interrupted before the deflation cycle completed.
		reportShutdown(publisher, tracker, "SIGNAL")
		return nil
	}

	bp, pulse, err := session.Finalize()
	if err != nil {
		return fmt.Errorf("finalize: %w", err)
	}

	results := status.Results{
		MAP:       session.MAP(),
		BP:        bp,
		Pulse:     pulse,
		Saturated: session.Envelope().Saturated(),
	}
	tracker.SetResults(results)
	logResults(results)

	event := mqtt.MeasurementEvent{
		Timestamp: time.Now(),
		MAP:       results.MAP,
		BP:        bp,
		Pulse:     pulse,
		Saturated: results.Saturated,
	}
	if err := publisher.PublishMeasurement(event); err != nil {
		log.Printf("failed to publish measurement: %v", err)
	} else {
		log.Printf("published measurement")
	}

	// Keep serving status until asked to exit.
	<-ctx.Done()
	reportShutdown(publisher, tracker, "SIGNAL")
	return nil
}

// runLoop drives the sampling cycle until the session finishes or the context
// is cancelled. Returns whether the session reached the finished state.
func runLoop(ctx context.Context, session *logic.Session, reader *sensor.Reader, panel gpio.Panel, publisher mqtt.Publisher, tracker *status.Tracker, wave *stream.WavePublisher, now func() time.Time, tick <-chan time.Time) (bool, error) {
	start := now()
	lastLog := start
	maxPressure := false

	for {
		select {
		case <-ctx.Done():
			return false, nil

		case <-tick:
			t := now()

			raw, err := reader.Read(ctx)
			if err != nil {
				return false, fmt.Errorf("read sensor: %w", err)
			}

			pressed, err := panel.ButtonPressed()
			if err != nil {
				log.Printf("button read error: %v", err)
				pressed = false
			}

			cycle := session.Feed(raw, float64(t.Sub(start).Milliseconds()), pressed)

			if err := panel.SetCaptureActive(cycle.CaptureActive); err != nil {
				log.Printf("capture LED: %v", err)
			}
			if err := panel.SetMaxPressure(cycle.MaxPressure); err != nil {
				log.Printf("max-pressure LED: %v", err)
			}
			if cycle.MaxPressure != maxPressure {
				maxPressure = cycle.MaxPressure
				warn := mqtt.WarningEvent{Timestamp: t, Kind: mqtt.WarningMaxPressure, Active: maxPressure}
				if err := publisher.PublishWarning(warn); err != nil {
					log.Printf("publish max-pressure warning: %v", err)
				}
			}

			env := session.Envelope()
			tracker.UpdateCycle(cycle, len(env.Points()), len(env.PeakTimes()))

			if wave != nil {
				if err := wave.Push(cycle.Smoothed); err != nil {
					log.Printf("waveform publish: %v", err)
				}
			}

			if t.Sub(lastLog) >= time.Second {
				log.Printf("pressure=%.1f mmHg capture=%v envelope=%d", cycle.Smoothed, cycle.CaptureActive, len(env.Points()))
				lastLog = t
			}

			if cycle.State == logic.StateFinished {
				if wave != nil {
					wave.Flush()
				}
				return true, nil
			}
		}
	}
}

// monitorLoop ticks the release-rate monitor until the context is cancelled,
// driving the warning LED and publishing state changes.
func monitorLoop(ctx context.Context, mon *logic.ReleaseMonitor, panel gpio.Panel, publisher mqtt.Publisher, tracker *status.Tracker, now func() time.Time, tick <-chan time.Time) {
	prev := false
	for {
		select {
		case <-ctx.Done():
			if err := panel.SetReleaseWarning(false); err != nil {
				log.Printf("warning LED: %v", err)
			}
			return

		case <-tick:
			warning := mon.Tick()
			if err := panel.SetReleaseWarning(warning); err != nil {
				log.Printf("warning LED: %v", err)
			}
			tracker.SetMonitor(mon.Rate(), warning)

			if warning != prev {
				prev = warning
				event := mqtt.WarningEvent{Timestamp: now(), Kind: mqtt.WarningReleaseRate, Active: warning, Rate: mon.Rate()}
				if err := publisher.PublishWarning(event); err != nil {
					log.Printf("publish release-rate warning: %v", err)
				}
				if warning {
					log.Printf("release rate too fast: %.1f mmHg/interval", mon.Rate())
				}
			}
		}
	}
}

// watchConnection mirrors the broker connection state into the tracker so the
// status page reflects outages.
func watchConnection(ctx context.Context, conn mqtt.ConnectionStatus, tracker *status.Tracker) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tracker.SetMQTTConnected(conn.IsConnected())
		}
	}
}

func logResults(r status.Results) {
	log.Printf("MAP: %.1f mmHg", r.MAP)
	if r.BP.SystolicOK() && r.BP.DiastolicOK() {
		log.Printf("blood pressure: %.1f / %.1f mmHg (match errors %.2f / %.2f)",
			r.BP.Systolic, r.BP.Diastolic, r.BP.SystolicError, r.BP.DiastolicError)
	} else {
		log.Printf("measurement unreliable, perform again (match errors %.2f / %.2f)",
			r.BP.SystolicError, r.BP.DiastolicError)
	}
	if r.Pulse.OK() {
		log.Printf("pulse: %.1f bpm over %d intervals", r.Pulse.Rate, r.Pulse.SampleCount)
	} else {
		log.Printf("no reliable pulse detected")
	}
	if r.Saturated {
		log.Printf("warning: envelope buffers saturated during recording")
	}
}

func reportAbort(publisher mqtt.Publisher, tracker *status.Tracker, reason string) {
	snap := tracker.Snapshot()
	event := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "SESSION_ABORTED",
		Reason:     reason,
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "SESSION_ABORTED", reason),
	}
	if err := publisher.PublishSystem(event); err != nil {
		log.Printf("failed to publish abort event: %v", err)
	}
}

func reportShutdown(publisher mqtt.Publisher, tracker *status.Tracker, reason string) {
	snap := tracker.Snapshot()
	event := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "SHUTDOWN",
		Reason:     reason,
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", reason),
	}
	if err := publisher.PublishSystem(event); err != nil {
		log.Printf("failed to publish shutdown event: %v", err)
	} else {
		log.Printf("published shutdown event")
	}
}

func streamURL(cfg config.Config) string {
	if !cfg.Stream.Enabled {
		return ""
	}
	return cfg.Stream.URL
}

// noopPublisher satisfies mqtt.Publisher when MQTT is disabled.
type noopPublisher struct{}

func (noopPublisher) PublishMeasurement(mqtt.MeasurementEvent) error { return nil }
func (noopPublisher) PublishWarning(mqtt.WarningEvent) error         { return nil }
func (noopPublisher) PublishSystem(mqtt.SystemEvent) error           { return nil }
func (noopPublisher) Close() error                                   { return nil }
