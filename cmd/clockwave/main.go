package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"clockwave/internal/alarms"
	"clockwave/internal/api"
	"clockwave/internal/config"
	database "clockwave/internal/db"
	"clockwave/internal/models"
	"clockwave/internal/player"
	"clockwave/internal/settings"
	"clockwave/internal/stations"
	"clockwave/internal/storage"
)

func main() {
	// 1. Parse Flags
	listen := flag.String("listen", "", "Override the configured listen address")
	noAutostart := flag.Bool("no-autostart", false, "Skip resume-on-boot even if enabled")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// 2. Load Config
	cfg := config.Load()
	if *listen != "" {
		cfg.Server.ListenAddr = *listen
	}

	log.Println("🚀 Starting Clockwave...")

	// 3. Init Infrastructure
	db := database.New(cfg)
	store, err := storage.New(db)
	if err != nil {
		log.Fatalf("❌ Storage init: %v", err)
	}

	// 4. Load Persistent State
	audio := settings.NewManager(store, time.Duration(cfg.Audio.SaveDebounceMs)*time.Millisecond)
	if err := audio.Load(); err != nil {
		log.Printf("⚠️ Audio settings load: %v (using defaults)", err)
	}

	registry := stations.NewRegistry(store, models.MaxStations)
	if err := registry.Load(); err != nil {
		log.Printf("⚠️ Station load: %v", err)
	}

	alarmStore := alarms.NewStore(store, cfg.Alarms.MaxAlarms)
	if err := alarmStore.Load(); err != nil {
		log.Printf("⚠️ Alarm load: %v", err)
	}
	log.Printf("⏰ %d alarms loaded", alarmStore.Count())

	// 5. Clock
	clock := &alarms.RealClock{}
	if loc, err := time.LoadLocation(cfg.Alarms.Timezone); err == nil {
		clock.Loc = loc
	} else {
		log.Printf("⚠️ Unknown timezone %q, using system local", cfg.Alarms.Timezone)
	}
	// The host OS keeps NTP in sync; on an appliance this flip waits for
	// the first SNTP answer.
	clock.MarkSynchronized()

	// 6. Playback
	pipeline := &player.SimPipeline{}
	controller := player.NewController(pipeline, player.SimCodec{}, audio, player.Config{
		MinVolume:       cfg.Audio.MinVolume,
		MaxVolume:       cfg.Audio.MaxVolume,
		PrebufferTicks:  cfg.Player.PrebufferTicks,
		MonitorInterval: time.Duration(cfg.Player.MonitorIntervalMs) * time.Millisecond,
		ReconnectDelay:  time.Duration(cfg.Player.ReconnectDelayMs) * time.Millisecond,
		VolumeDebounce:  time.Duration(cfg.Audio.VolumeDebounceMs) * time.Millisecond,
	})
	controller.SetNextStation(func(current string) (string, string, bool) {
		next, ok := registry.NextAfter(current)
		return next.Name, next.URL, ok
	})

	// EQ and balance changes go to the pipeline equalizer on real hardware;
	// the simulated chain just surfaces them.
	audio.OnApply(func(s models.AudioSettings) {
		log.Printf("🎚️ EQ applied: preset %d, balance %d", s.Preset, s.Balance)
	})

	// 7. Alarm Scheduler
	scheduler := alarms.NewScheduler(clock, alarmStore, alarms.SchedulerConfig{
		CheckInterval: time.Duration(cfg.Alarms.CheckIntervalSeconds) * time.Second,
		AutoStop:      time.Duration(cfg.Alarms.AutoStopMinutes) * time.Minute,
		DefaultSnooze: time.Duration(cfg.Alarms.DefaultSnoozeMinutes) * time.Minute,
	})
	scheduler.OnTrigger(func(a models.Alarm) {
		controller.SetVolume(a.Volume)
		var err error
		switch a.Source {
		case models.AlarmSourceRadio, models.AlarmSourceService:
			uri := a.SourceURI
			if uri == "" {
				uri = audio.LastURL()
			}
			if uri == "" {
				err = controller.PlayTone("alarm")
			} else {
				err = controller.Play(uri)
			}
		case models.AlarmSourceFile:
			err = controller.PlayFile(a.SourceURI)
		default:
			err = controller.PlayTone("alarm")
		}
		if err != nil {
			log.Printf("❌ Alarm playback failed: %v - falling back to tone", err)
			if err := controller.PlayTone("alarm"); err != nil {
				log.Printf("❌ Tone fallback failed: %v", err)
			}
		}
	})

	// 8. Metrics
	alarms.RegisterMetrics()
	player.RegisterMetrics()

	// 9. API + Status Push
	server := api.New(cfg, controller, scheduler, alarmStore, registry, audio)
	hub := server.Hub()
	controller.Subscribe(hub.BroadcastStatus)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go hub.Run(ctx)
	go scheduler.Run(ctx)
	go controller.Run(ctx)

	// 10. Autostart
	if !*noAutostart && audio.Autostart() && audio.LastURL() != "" {
		log.Printf("▶️ Autostart: resuming %s", audio.LastURL())
		if err := controller.Play(audio.LastURL()); err != nil {
			log.Printf("⚠️ Autostart failed: %v", err)
		}
	}

	go func() {
		log.Printf("🌐 API listening on %s", cfg.Server.ListenAddr)
		if err := server.Start(cfg.Server.ListenAddr); err != nil {
			log.Fatalf("❌ Server error: %v", err)
		}
	}()

	<-ctx.Done()

	// Flush pending debounced writes before the process dies, the same
	// way the firmware flushes NVS before a planned reboot.
	log.Println("👋 Shutting down - flushing settings")
	audio.Flush()
	controller.Close()
	if err := controller.Stop(); err != nil {
		log.Printf("⚠️ Pipeline stop: %v", err)
	}
}
