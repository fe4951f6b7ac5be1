// Command aircond is the control daemon for a retrofitted mechanical air
// conditioner: it validates one-wire temperature readings, runs the
// appliance state machine against external commands, sequences the fan and
// compressor relays, and exposes command/status over HTTP plus MQTT
// telemetry.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/aircon-controller/internal/actuate"
	"github.com/sweeney/aircon-controller/internal/config"
	"github.com/sweeney/aircon-controller/internal/control"
	"github.com/sweeney/aircon-controller/internal/gpio"
	"github.com/sweeney/aircon-controller/internal/kernel"
	"github.com/sweeney/aircon-controller/internal/logger"
	"github.com/sweeney/aircon-controller/internal/mqtt"
	"github.com/sweeney/aircon-controller/internal/persist"
	"github.com/sweeney/aircon-controller/internal/sensors"
	"github.com/sweeney/aircon-controller/internal/shared"
	"github.com/sweeney/aircon-controller/internal/status"
	"github.com/sweeney/aircon-controller/internal/watchdog"
	"github.com/sweeney/aircon-controller/internal/web"
)

func main() {
	configPath := flag.String("config", "configs/config.yml", "Path to YAML config")
	httpAddr := flag.String("http", "", "HTTP listen address (overrides config)")
	broker := flag.String("broker", "", "MQTT broker address (overrides config)")
	printTemps := flag.Bool("print-temps", false, "Read each sensor once, print, and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *httpAddr != "" {
		cfg.HTTP.Addr = *httpAddr
	}
	if *broker != "" {
		cfg.MQTT.Broker = *broker
	}

	log := logger.Get(cfg.LogLevel)
	if err := run(cfg, *printTemps, log); err != nil {
		log.Fatalw("fatal", "err", err)
	}
}

func run(cfg *config.Config, printTemps bool, log *logger.Logger) error {
	// The monotonic millisecond counter every scheduler and timer uses.
	start := time.Now()
	clock := func() int64 { return time.Since(start).Milliseconds() }

	bus := sensors.NewOneWireBus()

	// Print mode: raw bus readings, no validation.
	if printTemps {
		for name, addr := range map[string]string{
			"evaporator": cfg.Sensors.EvaporatorAddr,
			"outlet":     cfg.Sensors.OutletAddr,
		} {
			t, err := bus.ReadTemp(addr)
			if err != nil {
				fmt.Printf("%s (%s): %v\n", name, addr, err)
				continue
			}
			fmt.Printf("%s (%s): %.2f C\n", name, addr, t)
		}
		return nil
	}

	outputs, err := gpio.NewRealOutputs(gpio.Pins{
		Compressor: cfg.Pins.Compressor,
		FanLow:     cfg.Pins.FanLow,
		FanMed:     cfg.Pins.FanMed,
		FanHigh:    cfg.Pins.FanHigh,
	})
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer outputs.Close()

	store := persist.NewStore(cfg.Persist.Path)
	region, firstBoot, err := store.Load()
	if err != nil {
		return fmt.Errorf("load persist region: %w", err)
	}
	if firstBoot {
		log.Infow("first boot after power-on, counters zeroed")
	} else {
		log.Infow("soft restart survived", "ping_failures", region.PingFailures,
			"disconnects", region.Disconnects, "powered_base_ms", region.PoweredBaseMs)
	}

	st := shared.New()

	act := actuate.New(outputs, st,
		time.Duration(cfg.Actuation.SettleMs)*time.Millisecond,
		time.Duration(cfg.Actuation.WindingGapMs)*time.Millisecond, log)

	validator := sensors.New(bus, sensors.Params{
		ToleranceC:  cfg.Sensors.ToleranceC,
		MinC:        cfg.Sensors.MinC,
		MaxC:        cfg.Sensors.MaxC,
		SentinelC:   cfg.Sensors.SentinelC,
		JumpC:       cfg.Sensors.JumpC,
		JumpRetries: cfg.Sensors.JumpRetries,
	}, cfg.Sensors.EvaporatorAddr, cfg.Sensors.OutletAddr, st, log)

	machine := &control.Machine{
		Thresholds: control.Thresholds{
			EvapMinOn:    cfg.Thermal.EvapMinOnC,
			EvapMinOff:   cfg.Thermal.EvapMinOffC,
			OutletMinOn:  cfg.Thermal.OutletMinOnC,
			OutletMinOff: cfg.Thermal.OutletMinOffC,
			Off:          cfg.Thermal.OffC,
			On:           cfg.Thermal.OnC,
			MinRange:     cfg.Thermal.MinRangeC,
			MinEvapDelta: cfg.Thermal.MinEvapDeltaC,
			MaxEvapDelta: cfg.Thermal.MaxEvapDeltaC,
		},
		Decay: control.Decay{
			HighToMedMs: cfg.Decay.HighToMedSeconds * 1000,
			MedToLowMs:  cfg.Decay.MedToLowSeconds * 1000,
			LowToOffMs:  cfg.Decay.LowToOffSeconds * 1000,
		},
	}
	ctl := newControlLoop(machine, st, act, clock, log)

	// Telemetry is best-effort: a missing broker never stops the appliance.
	var pub *mqtt.RealPublisher
	if p, err := mqtt.NewRealPublisher(cfg.MQTT.Broker); err != nil {
		log.Warnw("mqtt unavailable, telemetry disabled", "broker", cfg.MQTT.Broker, "err", err)
	} else {
		pub = p
		defer pub.Close()
	}

	var connected func() bool
	if pub != nil {
		connected = pub.IsConnected
	}
	collector := status.NewCollector(st, region, clock, status.Config{
		SensorPollMs:     cfg.Sensors.PollMs,
		ControllerTickMs: cfg.Kernel.ControllerTickMs,
		Broker:           cfg.MQTT.Broker,
		HTTPAddr:         cfg.HTTP.Addr,
	}, connected)

	if pub != nil {
		snap := collector.Snapshot()
		event := mqtt.SystemEvent{
			Timestamp:  snap.Now,
			Event:      "STARTUP",
			Retained:   true,
			RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
		}
		if err := pub.PublishSystem(event); err != nil {
			log.Warnw("publish startup event", "err", err)
		}
	}

	srv := web.New(cfg.HTTP.Addr, st, collector, cfg.HTTP.RateLimitPerSec, cfg.HTTP.RateLimitBurst, log)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorw("http server", "err", err)
		}
	}()
	defer srv.Shutdown(context.Background())
	log.Infow("http listening", "addr", cfg.HTTP.Addr)

	wd := watchdog.New(
		&watchdog.PingProber{Gateway: cfg.Watchdog.Gateway},
		&watchdog.SysfsLink{Iface: cfg.Watchdog.Iface},
		&watchdog.SystemRebooter{Log: log},
		store, region, clock,
		cfg.Watchdog.PingFailThreshold,
		time.Duration(cfg.Watchdog.ProbeTimeoutMs)*time.Millisecond, log)
	if pub != nil {
		wd.SetNotify(func(reason string) {
			snap := collector.Snapshot()
			event := mqtt.SystemEvent{
				Timestamp:  snap.Now,
				Event:      "REBOOT",
				Reason:     reason,
				Retained:   true,
				RawPayload: status.FormatStatusEvent(snap, "REBOOT", reason),
			}
			if err := pub.PublishSystem(event); err != nil {
				log.Warnw("publish reboot event", "err", err)
			}
		})
	}

	// Control context: sensor validation and the appliance state machine.
	controlKernel := kernel.New(clock)
	controlKernel.Register(validator.Poll, cfg.Sensors.PollMs)
	controlKernel.Register(ctl.tick, cfg.Kernel.ControllerTickMs)

	// Network context: liveness checks and telemetry.
	netKernel := kernel.New(clock)
	netKernel.Register(wd.CheckReachability, cfg.Watchdog.ProbeSeconds*1000)
	netKernel.Register(wd.CheckLink, cfg.Watchdog.LinkSeconds*1000)
	if pub != nil {
		tele := newTelemetryLoop(st, pub, collector, clock, cfg.MQTT.HeartbeatInterval().Milliseconds(), log)
		netKernel.Register(tele.tick, 1000)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	poll := time.Duration(cfg.Kernel.PollMs) * time.Millisecond
	go controlKernel.Run(ctx, poll)
	go netKernel.Run(ctx, poll)

	log.Infow("started",
		"sensor_poll_ms", cfg.Sensors.PollMs,
		"controller_tick_ms", cfg.Kernel.ControllerTickMs,
		"broker", cfg.MQTT.Broker)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigCh
	log.Infow("shutting down", "signal", s.String())

	if pub != nil {
		snap := collector.Snapshot()
		event := mqtt.SystemEvent{
			Timestamp:  snap.Now,
			Event:      "SHUTDOWN",
			Reason:     s.String(),
			Retained:   true,
			RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", s.String()),
		}
		if err := pub.PublishSystem(event); err != nil {
			log.Warnw("publish shutdown event", "err", err)
		}
	}
	return nil
}
