// Package alarms holds the weekly alarm definitions and the scheduler
// that matches them against the clock.
package alarms

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"clockwave/internal/models"
	"clockwave/internal/storage"
)

const (
	nsAlarms  = "alarms"
	keyAlarms = "alarms"
)

var (
	ErrStoreFull = errors.New("maximum alarm count reached")
	ErrNotFound  = errors.New("alarm not found")
)

// Store is the ordered in-memory alarm collection with storage-backed
// persistence. Mutations apply in memory first and then persist; a failed
// persist is reported but not rolled back, so the change holds for this
// session even if it may not survive a restart.
type Store struct {
	storage storage.Store
	max     int

	mu     sync.Mutex
	alarms []models.Alarm
}

func NewStore(st storage.Store, maxAlarms int) *Store {
	if maxAlarms <= 0 {
		maxAlarms = 10
	}
	return &Store{storage: st, max: maxAlarms}
}

// Add validates the alarm, assigns the next free id and persists.
func (s *Store) Add(alarm models.Alarm) (models.Alarm, error) {
	if err := alarm.Validate(); err != nil {
		return models.Alarm{}, err
	}

	s.mu.Lock()
	if len(s.alarms) >= s.max {
		s.mu.Unlock()
		return models.Alarm{}, ErrStoreFull
	}

	// Next free id: max existing + 1. Ids are never reused in a session.
	newID := 1
	for _, a := range s.alarms {
		if a.ID >= newID {
			newID = a.ID + 1
		}
	}
	alarm.ID = newID
	s.alarms = append(s.alarms, alarm)
	s.mu.Unlock()

	log.Printf("⏰ Added alarm: %s (ID: %d) at %02d:%02d", alarm.Name, alarm.ID, alarm.Hour, alarm.Minute)
	return alarm, s.save()
}

func (s *Store) Remove(id int) error {
	s.mu.Lock()
	idx := -1
	for i, a := range s.alarms {
		if a.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.alarms = append(s.alarms[:idx], s.alarms[idx+1:]...)
	s.mu.Unlock()

	log.Printf("⏰ Removed alarm ID: %d", id)
	return s.save()
}

func (s *Store) Update(alarm models.Alarm) error {
	if err := alarm.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	idx := -1
	for i, a := range s.alarms {
		if a.ID == alarm.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.alarms[idx] = alarm
	s.mu.Unlock()

	log.Printf("⏰ Updated alarm ID: %d", alarm.ID)
	return s.save()
}

func (s *Store) Enable(id int, enable bool) error {
	s.mu.Lock()
	idx := -1
	for i, a := range s.alarms {
		if a.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.alarms[idx].Enabled = enable
	s.mu.Unlock()

	state := "disabled"
	if enable {
		state = "enabled"
	}
	log.Printf("⏰ Alarm ID %d %s", id, state)
	return s.save()
}

func (s *Store) Get(id int) (models.Alarm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.alarms {
		if a.ID == id {
			return a, nil
		}
	}
	return models.Alarm{}, ErrNotFound
}

// All returns the alarms in storage order.
func (s *Store) All() []models.Alarm {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Alarm, len(s.alarms))
	copy(out, s.alarms)
	return out
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.alarms)
}

func (s *Store) save() error {
	s.mu.Lock()
	data, err := json.Marshal(s.alarms)
	count := len(s.alarms)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("marshal alarms: %w", err)
	}

	if err := s.storage.Set(nsAlarms, keyAlarms, data); err != nil {
		return fmt.Errorf("save alarms: %w", err)
	}
	if err := s.storage.Commit(); err != nil {
		return fmt.Errorf("commit alarms: %w", err)
	}
	log.Printf("💾 Alarms saved (%d alarms)", count)
	return nil
}

// storedAlarm mirrors models.Alarm with optional fields so records written
// by older firmware load with sensible defaults.
type storedAlarm struct {
	ID      *int                `json:"id"`
	Name    string              `json:"name"`
	Enabled bool                `json:"enabled"`
	Hour    *int                `json:"hour"`
	Minute  *int                `json:"minute"`
	Days    *int                `json:"days"`
	Source  *models.AlarmSource `json:"source"`
	URI     string              `json:"uri"`
	Volume  *int                `json:"volume"`
	Snooze  *int                `json:"snooze"`
}

// Load replaces the collection with the persisted one. Entries missing
// id/hour/minute are skipped; other missing fields default. Ranges are
// not re-validated: a malformed hour recovered from storage never
// matches, it does not crash.
func (s *Store) Load() error {
	data, err := s.storage.Get(nsAlarms, keyAlarms)
	if errors.Is(err, storage.ErrKeyNotFound) {
		log.Println("ℹ️ No alarms in storage")
		return nil
	}
	if err != nil {
		return err
	}

	var stored []storedAlarm
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("parse alarms: %w", err)
	}

	loaded := make([]models.Alarm, 0, len(stored))
	for _, rec := range stored {
		if rec.ID == nil || rec.Hour == nil || rec.Minute == nil {
			continue
		}
		if len(loaded) >= s.max {
			break
		}

		a := models.Alarm{
			ID:            *rec.ID,
			Name:          rec.Name,
			Enabled:       rec.Enabled,
			Hour:          *rec.Hour,
			Minute:        *rec.Minute,
			Days:          models.DayEveryday,
			Source:        models.AlarmSourceRadio,
			SourceURI:     rec.URI,
			Volume:        50,
			SnoozeMinutes: models.DefaultSnoozeMinutes,
		}
		if rec.Days != nil {
			a.Days = *rec.Days
		}
		if rec.Source != nil {
			a.Source = *rec.Source
		}
		if rec.Volume != nil {
			a.Volume = *rec.Volume
		}
		if rec.Snooze != nil {
			a.SnoozeMinutes = *rec.Snooze
		}
		loaded = append(loaded, a)
	}

	s.mu.Lock()
	s.alarms = loaded
	s.mu.Unlock()

	log.Printf("✅ Loaded %d alarms from storage", len(loaded))
	return nil
}
