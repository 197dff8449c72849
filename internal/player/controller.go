package player

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"clockwave/internal/debounce"
	"clockwave/internal/models"
	"clockwave/internal/settings"
)

var (
	ErrEmptyURL       = errors.New("empty url")
	ErrNotInitialized = errors.New("pipeline not initialized")
)

// StatusFunc receives a status snapshot after every transition.
type StatusFunc func(models.PlaybackStatus)

// NextStationFunc resolves the station to play after the given URL.
type NextStationFunc func(current string) (name, url string, ok bool)

// Config carries the playback tunables. Zero values fall back to the
// firmware defaults.
type Config struct {
	MinVolume       int
	MaxVolume       int
	PrebufferTicks  int           // monitor ticks before output is unmuted
	MonitorInterval time.Duration // buffer monitor period
	ReconnectDelay  time.Duration // wait before replaying a dropped stream
	VolumeDebounce  time.Duration // codec write coalescing window
}

// Controller owns the play/pause/stop lifecycle of the single current
// audio source. It hides pipeline pre-roll behind the buffering state and
// transparently replays dropped network streams.
type Controller struct {
	pipeline Pipeline
	codec    Codec
	settings *settings.Manager
	cfg      Config

	volSaver *debounce.Debouncer

	mu           sync.Mutex
	status       models.PlaybackStatus
	bufferTicks  int
	reconnecting bool
	observers    []StatusFunc
	nextStation  NextStationFunc
}

func NewController(pipeline Pipeline, codec Codec, st *settings.Manager, cfg Config) *Controller {
	if cfg.MaxVolume <= 0 {
		cfg.MaxVolume = 100
	}
	if cfg.PrebufferTicks <= 0 {
		cfg.PrebufferTicks = 30
	}
	if cfg.MonitorInterval <= 0 {
		cfg.MonitorInterval = 100 * time.Millisecond
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = 500 * time.Millisecond
	}
	if cfg.VolumeDebounce <= 0 {
		cfg.VolumeDebounce = 50 * time.Millisecond
	}
	c := &Controller{
		pipeline: pipeline,
		codec:    codec,
		settings: st,
		cfg:      cfg,
		volSaver: debounce.New(cfg.VolumeDebounce),
	}
	c.status.State = models.StateIdle
	c.status.Volume = models.DefaultVolume
	if st != nil {
		c.status.Volume = st.Volume()
	}
	return c
}

// Subscribe registers a status observer. Observers are called outside the
// controller lock, in registration order.
func (c *Controller) Subscribe(fn StatusFunc) {
	c.mu.Lock()
	c.observers = append(c.observers, fn)
	c.mu.Unlock()
}

// SetNextStation installs the station-cycling hook.
func (c *Controller) SetNextStation(fn NextStationFunc) {
	c.mu.Lock()
	c.nextStation = fn
	c.mu.Unlock()
}

// notifyLocked snapshots the status and fans it out after unlocking.
func (c *Controller) notifyLocked() {
	snapshot := c.status.ForWire()
	observers := make([]StatusFunc, len(c.observers))
	copy(observers, c.observers)
	c.mu.Unlock()
	for _, fn := range observers {
		fn(snapshot)
	}
	c.mu.Lock()
}

// Play starts streaming from a network URL. Any current playback is
// replaced; the state moves to buffering until the pipeline has pre-filled.
func (c *Controller) Play(url string) error {
	if url == "" {
		return ErrEmptyURL
	}
	return c.start(models.SourceNetwork, url)
}

// PlayFile starts playback of a local file path.
func (c *Controller) PlayFile(path string) error {
	if path == "" {
		return ErrEmptyURL
	}
	return c.start(models.SourceLocalFile, path)
}

// PlayTone plays a built-in tone, used for alarms without a stream source.
func (c *Controller) PlayTone(name string) error {
	if name == "" {
		name = "alarm"
	}
	return c.start(models.SourceLocalFile, "tone://"+name)
}

func (c *Controller) start(source models.AudioSource, uri string) error {
	if c.pipeline == nil {
		return ErrNotInitialized
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	log.Printf("▶️ Play request: %s", uri)

	// Stopping an already-stopped pipeline is not an error; the chain
	// must be quiet before it can be repointed.
	if err := c.pipeline.Stop(); err != nil {
		log.Printf("⚠️ Pipeline stop before restart: %v", err)
	}
	if err := c.pipeline.ResetBuffers(); err != nil {
		return fmt.Errorf("reset buffers: %w", err)
	}
	if err := c.pipeline.Configure(source, uri); err != nil {
		return fmt.Errorf("configure source: %w", err)
	}
	// Hold the audible end closed so the reader can pre-fill.
	if err := c.pipeline.PauseOutput(); err != nil {
		return fmt.Errorf("pause output: %w", err)
	}
	if err := c.pipeline.Start(); err != nil {
		return fmt.Errorf("start pipeline: %w", err)
	}

	c.status.State = models.StateBuffering
	c.status.Source = source
	c.status.CurrentURL = uri
	c.status.CurrentTitle = ""
	c.status.CurrentArtist = ""
	c.status.BufferPercent = 0
	c.bufferTicks = 0

	if source == models.SourceNetwork && c.settings != nil {
		c.settings.SetLastURL(uri)
	}
	playsStarted.Inc()
	c.notifyLocked()
	return nil
}

// Run drives the buffer monitor until the context ends.
func (c *Controller) Run(ctx context.Context) {
	ticker := time.NewTicker(c.cfg.MonitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.MonitorTick()
		}
	}
}

// MonitorTick advances the buffer monitor by one period. While buffering
// it decides when enough audio is queued to open the output; while playing
// it tracks the fill level. In any other state it idles.
func (c *Controller) MonitorTick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.status.State {
	case models.StateBuffering:
		c.bufferTicks++
		pct := c.fillPercent()
		c.status.BufferPercent = pct
		bufferLevel.Set(float64(pct))
		if c.bufferTicks >= c.cfg.PrebufferTicks || pct >= 100 {
			if err := c.pipeline.ResumeOutput(); err != nil {
				log.Printf("⚠️ Resume output: %v", err)
				return
			}
			log.Printf("🔊 Buffer ready (%d%%) - playback started", pct)
			c.status.State = models.StatePlaying
			c.notifyLocked()
		}
	case models.StatePlaying:
		pct := c.fillPercent()
		c.status.BufferPercent = pct
		bufferLevel.Set(float64(pct))
		if pct > 0 && pct < 30 {
			log.Printf("⚠️ Buffer running low: %d%%", pct)
		}
	default:
		c.bufferTicks = 0
		c.status.BufferPercent = 0
	}
}

// fillPercent prefers the pipeline's real occupancy and falls back to a
// linear time estimate when the chain cannot report one.
func (c *Controller) fillPercent() int {
	filled, total := c.pipeline.BufferFill()
	if total > 0 {
		return filled * 100 / total
	}
	pct := c.bufferTicks * 100 / c.cfg.PrebufferTicks
	if pct > 100 {
		pct = 100
	}
	return pct
}

// HandleEvent consumes an asynchronous pipeline notification. It never
// blocks: the reconnect path runs on its own goroutine so a slow replay
// cannot starve the event loop.
func (c *Controller) HandleEvent(ev Event) {
	switch ev.Type {
	case EventUpstreamFinished, EventDownstreamFinished:
		c.handleFinished()
	case EventError:
		c.mu.Lock()
		log.Printf("❌ Pipeline error (code %d)", ev.Code)
		c.status.State = models.StateError
		playbackErrors.Inc()
		c.notifyLocked()
		c.mu.Unlock()
	case EventMusicInfo:
		c.mu.Lock()
		c.status.CurrentTitle = ev.Title
		c.status.CurrentArtist = ev.Artist
		c.notifyLocked()
		c.mu.Unlock()
	}
}

// handleFinished treats upstream and downstream completion as the same
// thing: for a playing network stream it is a disconnect worth one replay
// attempt, for anything else it is a natural end.
func (c *Controller) handleFinished() {
	c.mu.Lock()

	if c.status.Source == models.SourceNetwork && c.status.State == models.StatePlaying {
		if c.reconnecting {
			c.mu.Unlock()
			return
		}
		c.reconnecting = true
		url := c.status.CurrentURL
		c.mu.Unlock()

		log.Printf("🔁 Stream ended - reconnecting to %s", url)
		reconnects.Inc()
		go func() {
			time.Sleep(c.cfg.ReconnectDelay)
			if err := c.Play(url); err != nil {
				log.Printf("❌ Reconnect failed: %v", err)
			}
			c.mu.Lock()
			c.reconnecting = false
			c.mu.Unlock()
		}()
		return
	}

	if c.status.State == models.StatePlaying || c.status.State == models.StateBuffering {
		log.Println("⏹️ Playback finished")
		c.status.State = models.StateStopped
		c.notifyLocked()
	}
	c.mu.Unlock()
}

func (c *Controller) Stop() error {
	if c.pipeline == nil {
		return ErrNotInitialized
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.pipeline.Stop(); err != nil {
		return err
	}
	c.status.State = models.StateStopped
	c.status.BufferPercent = 0
	c.bufferTicks = 0
	c.notifyLocked()
	return nil
}

func (c *Controller) Pause() error {
	if c.pipeline == nil {
		return ErrNotInitialized
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.pipeline.Pause(); err != nil {
		return err
	}
	c.status.State = models.StatePaused
	c.notifyLocked()
	return nil
}

func (c *Controller) Resume() error {
	if c.pipeline == nil {
		return ErrNotInitialized
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.pipeline.Resume(); err != nil {
		return err
	}
	c.status.State = models.StatePlaying
	c.notifyLocked()
	return nil
}

// SetVolume clamps and records the new level. The durable save is
// coalesced by the settings layer; the codec write is coalesced here and
// skipped entirely while muted.
func (c *Controller) SetVolume(volume int) {
	if volume < c.cfg.MinVolume {
		volume = c.cfg.MinVolume
	}
	if volume > c.cfg.MaxVolume {
		volume = c.cfg.MaxVolume
	}

	c.mu.Lock()
	c.status.Volume = volume
	muted := c.status.Muted
	if c.settings != nil {
		c.settings.SetVolume(volume)
	}
	c.notifyLocked()
	c.mu.Unlock()

	if muted || c.codec == nil {
		return
	}
	v := volume
	c.volSaver.Trigger(func() {
		if err := c.codec.SetVolume(v); err != nil {
			log.Printf("⚠️ Codec volume write: %v", err)
		}
	})
}

// Mute toggles the codec directly, bypassing the debounce so the cut is
// instant.
func (c *Controller) Mute(on bool) {
	c.mu.Lock()
	c.status.Muted = on
	volume := c.status.Volume
	c.notifyLocked()
	c.mu.Unlock()

	if c.codec == nil {
		return
	}
	target := volume
	if on {
		target = 0
	}
	if err := c.codec.SetVolume(target); err != nil {
		log.Printf("⚠️ Codec mute write: %v", err)
	}
}

// NextStation plays the station following the current URL in the registry.
func (c *Controller) NextStation() error {
	c.mu.Lock()
	fn := c.nextStation
	current := c.status.CurrentURL
	c.mu.Unlock()

	if fn == nil {
		return ErrNotInitialized
	}
	name, url, ok := fn(current)
	if !ok {
		return errors.New("no stations configured")
	}
	log.Printf("⏭️ Next station: %s", name)
	return c.Play(url)
}

// Status returns a wire-ready snapshot.
func (c *Controller) Status() models.PlaybackStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status.ForWire()
}

// Close flushes the pending codec write.
func (c *Controller) Close() {
	c.volSaver.Stop()
}
