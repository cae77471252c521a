// Command hall-sensor polls a Hall-effect sensor on a GPIO line and prints
// "Magnet Detected!" or "No Magnet." to a serial console every poll interval.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/hall-sensor/internal/console"
	"github.com/sweeney/hall-sensor/internal/gpio"
	"github.com/sweeney/hall-sensor/internal/logic"
	"github.com/sweeney/hall-sensor/internal/mqtt"
	"github.com/sweeney/hall-sensor/internal/status"
	"github.com/sweeney/hall-sensor/internal/web"
)

// defaultPoll is the delay between sensor reads.
const defaultPoll = 500 * time.Millisecond

// options holds the parsed command-line configuration.
type options struct {
	backend    string
	chip       string
	pin        int
	serialPort string
	baud       int
	poll       time.Duration
	broker     string
	heartbeat  time.Duration
	httpAddr   string
	printState bool
}

func main() {
	var o options
	flag.StringVar(&o.backend, "backend", gpio.BackendCdev, `GPIO backend ("gpiocdev" or "periph")`)
	flag.StringVar(&o.chip, "chip", gpio.DefaultChip, "GPIO chip name (gpiocdev backend)")
	flag.IntVar(&o.pin, "pin", gpio.DefaultPin, "GPIO line the sensor output is wired to")
	flag.StringVar(&o.serialPort, "serial", "", "Serial port for output (empty writes to stdout)")
	flag.IntVar(&o.baud, "baud", console.DefaultBaud, "Serial baud rate")
	flag.DurationVar(&o.poll, "poll", defaultPoll, "Polling interval")
	flag.StringVar(&o.broker, "broker", "", "MQTT broker address (empty to disable)")
	flag.DurationVar(&o.heartbeat, "heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	flag.StringVar(&o.httpAddr, "http", "", "HTTP status address (empty to disable)")
	flag.BoolVar(&o.printState, "print-state", false, "Print current state and exit")

	flag.Parse()

	if err := run(o); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(o options) error {
	if o.poll <= 0 {
		return fmt.Errorf("poll interval must be positive, got %v", o.poll)
	}

	// Initialize GPIO
	reader, err := gpio.Open(o.backend, o.chip, o.pin)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer reader.Close()

	// Print state mode
	if o.printState {
		high, err := reader.Read()
		if err != nil {
			return fmt.Errorf("read gpio: %w", err)
		}
		level := logic.LevelOf(high)
		fmt.Printf("%s: %s\n", level, logic.Classify(level))
		return nil
	}

	// Initialize output channel
	var out *console.Console
	if o.serialPort != "" {
		out, err = console.OpenSerial(o.serialPort, o.baud)
		if err != nil {
			return fmt.Errorf("init console: %w", err)
		}
	} else {
		out = console.New(os.Stdout)
	}
	defer out.Close()

	tracker := status.NewTracker(time.Now(), status.Config{
		Backend:     o.backend,
		Chip:        o.chip,
		Pin:         o.pin,
		Serial:      o.serialPort,
		Baud:        o.baud,
		PollMs:      o.poll.Milliseconds(),
		HeartbeatMs: o.heartbeat.Milliseconds(),
		Broker:      o.broker,
		HTTPAddr:    o.httpAddr,
	})

	// Initialize MQTT (optional). Interfaces stay nil when disabled.
	var publisher mqtt.Publisher
	var mqttStatus mqtt.ConnectionStatus
	if o.broker != "" {
		p, err := mqtt.NewRealPublisher(o.broker)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		defer p.Close()
		publisher, mqttStatus = p, p
		tracker.SetMQTTConnected(p.IsConnected())

		snap := tracker.Snapshot()
		startupEvent := mqtt.SystemEvent{
			Timestamp:  snap.Now,
			Event:      "STARTUP",
			Retained:   true,
			RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
		}
		if err := publisher.PublishSystem(startupEvent); err != nil {
			log.Printf("failed to publish startup event: %v", err)
		} else {
			log.Printf("published startup event")
		}
	}

	// Start HTTP status server
	if o.httpAddr != "" {
		srv := web.New(o.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", o.httpAddr)
	}

	log.Printf("started: %s", startupSummary(o))

	ticker := time.NewTicker(o.poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(reader, out, publisher, mqttStatus, tracker, o.heartbeat, time.Now, ticker.C, sigCh)
}

// startupSummary describes the effective configuration. Baud only applies to
// a serial port, so it is left out for stdout.
func startupSummary(o options) string {
	output := "output=stdout"
	if o.serialPort != "" {
		output = fmt.Sprintf("output=%s baud=%d", o.serialPort, o.baud)
	}
	return fmt.Sprintf("backend=%s chip=%s pin=%d %s poll=%v", o.backend, o.chip, o.pin, output, o.poll)
}

// lineWriter is the output channel the loop prints messages to.
type lineWriter interface {
	Println(msg string) error
}

// runLoop polls the sensor once immediately and then once per tick, writing
// one message line per successful read. It returns only when a signal arrives.
// publisher, mqttStatus and tracker may be nil.
func runLoop(reader gpio.Reader, out lineWriter, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	startTime := now()
	monitor := logic.NewMonitor(startTime)

	syncMQTT := func() {
		if tracker != nil && mqttStatus != nil {
			tracker.SetMQTTConnected(mqttStatus.IsConnected())
		}
	}

	poll := func() {
		t := now()
		high, err := reader.Read()
		if err != nil {
			log.Printf("gpio read error: %v", err)
			if tracker != nil {
				tracker.RecordReadError()
			}
			return
		}

		reading, events := monitor.Process(logic.Input{High: high, Time: t})

		if err := out.Println(string(reading.Message)); err != nil {
			log.Printf("console write error: %v", err)
		}

		if tracker != nil {
			tracker.Update(reading, monitor.CountsSnapshot())
			syncMQTT()
		}

		if publisher == nil {
			return
		}

		for _, event := range events {
			if err := publisher.Publish(event); err != nil {
				log.Printf("publish error: %v", err)
				// Don't crash on publish failure
			}
		}

		if hb := monitor.CheckHeartbeat(t, heartbeat); hb != nil {
			log.Printf("heartbeat: uptime=%v detected=%d clear=%d changes=%d",
				hb.Uptime, hb.Counts.Detected, hb.Counts.Clear, hb.Counts.Changes)

			hbEvent := mqtt.SystemEvent{
				Timestamp: hb.Timestamp,
				Event:     "HEARTBEAT",
			}
			if tracker != nil {
				hbEvent.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "HEARTBEAT", "")
			}
			if err := publisher.PublishSystem(hbEvent); err != nil {
				log.Printf("heartbeat publish error: %v", err)
			}
		}
	}

	poll()

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			if publisher == nil {
				return nil
			}

			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				syncMQTT()
				event.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-tick:
			poll()
		}
	}
}
