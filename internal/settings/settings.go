// Package settings owns the persisted audio configuration: volume, the
// 10-band equalizer, balance, effect toggles and autostart. Mutations are
// cheap in-memory writes; the flash write behind them is debounced so a
// slider drag costs one commit, not one per tick.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"clockwave/internal/debounce"
	"clockwave/internal/models"
	"clockwave/internal/storage"
)

const (
	nsAudio     = "audio_settings"
	keySettings = "settings"
)

var (
	ErrBadBand   = errors.New("eq band out of range")
	ErrBadSlot   = errors.New("custom preset slot out of range")
	ErrBadPreset = errors.New("unknown eq preset")
	ErrSlotEmpty = errors.New("custom preset slot is empty")
)

// ApplyFunc receives a settings snapshot whenever EQ or balance changed,
// so the playback layer can push gains to the pipeline equalizer.
type ApplyFunc func(models.AudioSettings)

type Manager struct {
	store storage.Store
	saver *debounce.Debouncer
	apply ApplyFunc

	mu    sync.Mutex
	cur   models.AudioSettings
	dirty bool
}

func NewManager(store storage.Store, saveWindow time.Duration) *Manager {
	return &Manager{
		store: store,
		saver: debounce.New(saveWindow),
		cur:   models.DefaultAudioSettings(),
	}
}

// OnApply registers the callback invoked after EQ/balance changes.
func (m *Manager) OnApply(fn ApplyFunc) {
	m.mu.Lock()
	m.apply = fn
	m.mu.Unlock()
}

// Get returns a snapshot of the current settings.
func (m *Manager) Get() models.AudioSettings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cur
}

// scheduleSave marks the settings dirty and restarts the save window.
// Callers hold no lock; the actual write happens on the timer goroutine.
func (m *Manager) scheduleSave() {
	m.mu.Lock()
	m.dirty = true
	m.mu.Unlock()
	m.saver.Trigger(m.saveNow)
}

func (m *Manager) saveNow() {
	m.mu.Lock()
	if !m.dirty {
		m.mu.Unlock()
		return
	}
	m.dirty = false
	snapshot := m.cur
	m.mu.Unlock()

	data, err := json.Marshal(snapshot)
	if err != nil {
		log.Printf("⚠️ Settings marshal failed: %v", err)
		return
	}
	if err := m.store.Set(nsAudio, keySettings, data); err != nil {
		log.Printf("⚠️ Settings save failed: %v", err)
		return
	}
	if err := m.store.Commit(); err != nil {
		log.Printf("⚠️ Settings commit failed: %v", err)
		return
	}
	log.Println("💾 Audio settings saved")
}

// Flush stops the pending timer and, if dirty, writes synchronously.
// Call before a planned shutdown or reboot.
func (m *Manager) Flush() {
	m.saver.Flush()
	m.saveNow()
}

// Load replaces the in-memory settings with the persisted blob. Missing
// storage is not an error; factory defaults stay in effect.
func (m *Manager) Load() error {
	data, err := m.store.Get(nsAudio, keySettings)
	if errors.Is(err, storage.ErrKeyNotFound) {
		log.Println("ℹ️ No saved audio settings, using defaults")
		return nil
	}
	if err != nil {
		return err
	}

	loaded := models.DefaultAudioSettings()
	if err := json.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("parse audio settings: %w", err)
	}

	m.mu.Lock()
	m.cur = loaded
	fn := m.apply
	snapshot := m.cur
	m.mu.Unlock()

	if fn != nil {
		fn(snapshot)
	}
	log.Println("✅ Audio settings loaded")
	return nil
}

func (m *Manager) fireApply() {
	m.mu.Lock()
	fn := m.apply
	snapshot := m.cur
	m.mu.Unlock()
	if fn != nil {
		fn(snapshot)
	}
}

func (m *Manager) SetVolume(volume int) {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	m.mu.Lock()
	m.cur.Volume = volume
	m.mu.Unlock()
	m.scheduleSave()
}

func (m *Manager) Volume() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cur.Volume
}

// SetBand sets one EQ band level (0-24, 12 = 0 dB) and flips the active
// preset to Custom.
func (m *Manager) SetBand(band int, level uint8) error {
	if band < 0 || band >= models.EQBands {
		return fmt.Errorf("%w: %d", ErrBadBand, band)
	}
	if level > models.EQMax {
		level = models.EQMax
	}

	m.mu.Lock()
	m.cur.Bands[band] = level
	m.cur.Preset = models.PresetCustom
	m.mu.Unlock()

	log.Printf("🎚️ EQ Band %s: %+d dB", models.EQBandLabels[band], int(level)-models.EQCenter)
	m.fireApply()
	m.scheduleSave()
	return nil
}

func (m *Manager) SetAllBands(levels [models.EQBands]uint8) {
	m.mu.Lock()
	for i, l := range levels {
		if l > models.EQMax {
			l = models.EQMax
		}
		m.cur.Bands[i] = l
	}
	m.cur.Preset = models.PresetCustom
	m.mu.Unlock()

	m.fireApply()
	m.scheduleSave()
}

func (m *Manager) ApplyPreset(preset models.EQPreset) error {
	if preset < 0 || int(preset) >= len(models.EQPresets) {
		return fmt.Errorf("%w: %d", ErrBadPreset, preset)
	}

	info := models.EQPresets[preset]
	m.mu.Lock()
	m.cur.Bands = info.Bands
	m.cur.Preset = preset
	m.mu.Unlock()

	log.Printf("🎚️ Applied preset: %s", info.Name)
	m.fireApply()
	m.scheduleSave()
	return nil
}

func (m *Manager) SetBalance(balance int) {
	if balance < -100 {
		balance = -100
	}
	if balance > 100 {
		balance = 100
	}
	m.mu.Lock()
	m.cur.Balance = balance
	m.mu.Unlock()

	m.fireApply()
	m.scheduleSave()
}

func (m *Manager) SetBassBoost(enable bool) {
	m.mu.Lock()
	m.cur.BassBoost = enable
	m.mu.Unlock()
	m.scheduleSave()
}

func (m *Manager) SetLoudness(enable bool) {
	m.mu.Lock()
	m.cur.Loudness = enable
	m.mu.Unlock()
	m.scheduleSave()
}

func (m *Manager) SetStereoWide(enable bool) {
	m.mu.Lock()
	m.cur.StereoWide = enable
	m.mu.Unlock()
	m.scheduleSave()
}

// SaveCustomPreset captures the current bands into a user slot.
func (m *Manager) SaveCustomPreset(slot int, name string) error {
	if slot < 0 || slot >= models.CustomPresetSlots {
		return fmt.Errorf("%w: %d", ErrBadSlot, slot)
	}
	if len(name) > models.CustomPresetNameLen {
		name = name[:models.CustomPresetNameLen]
	}

	m.mu.Lock()
	m.cur.CustomPresets[slot] = models.CustomPreset{
		Used:  true,
		Name:  name,
		Bands: m.cur.Bands,
	}
	m.mu.Unlock()

	log.Printf("💾 Saved custom preset %d: %s", slot, name)
	m.scheduleSave()
	return nil
}

func (m *Manager) LoadCustomPreset(slot int) error {
	if slot < 0 || slot >= models.CustomPresetSlots {
		return fmt.Errorf("%w: %d", ErrBadSlot, slot)
	}

	m.mu.Lock()
	p := m.cur.CustomPresets[slot]
	if !p.Used {
		m.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrSlotEmpty, slot)
	}
	m.cur.Bands = p.Bands
	m.cur.Preset = models.PresetCustom
	m.cur.CustomPreset = slot
	m.mu.Unlock()

	log.Printf("🎚️ Loaded custom preset %d: %s", slot, p.Name)
	m.fireApply()
	m.scheduleSave()
	return nil
}

func (m *Manager) DeleteCustomPreset(slot int) error {
	if slot < 0 || slot >= models.CustomPresetSlots {
		return fmt.Errorf("%w: %d", ErrBadSlot, slot)
	}

	m.mu.Lock()
	m.cur.CustomPresets[slot] = models.CustomPreset{Bands: models.EQPresets[models.PresetFlat].Bands}
	if m.cur.CustomPreset == slot {
		m.cur.CustomPreset = -1
	}
	m.mu.Unlock()

	m.scheduleSave()
	return nil
}

func (m *Manager) SetAutostart(enabled bool) {
	m.mu.Lock()
	m.cur.Autostart = enabled
	m.mu.Unlock()
	m.scheduleSave()
}

func (m *Manager) Autostart() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cur.Autostart
}

// SetLastURL remembers the played URL for autostart-on-boot.
func (m *Manager) SetLastURL(url string) {
	if len(url) > models.MaxLastURLLen {
		url = url[:models.MaxLastURLLen]
	}
	m.mu.Lock()
	m.cur.LastURL = url
	m.mu.Unlock()
	m.scheduleSave()
}

func (m *Manager) LastURL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cur.LastURL
}

// Reset restores factory settings and persists them.
func (m *Manager) Reset() {
	m.mu.Lock()
	m.cur = models.DefaultAudioSettings()
	m.mu.Unlock()

	log.Println("🔄 Audio settings reset to defaults")
	m.fireApply()
	m.scheduleSave()
}
