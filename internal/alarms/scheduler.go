package alarms

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"clockwave/internal/models"
)

// Metrics
var (
	alarmsTriggered = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "clockwave_alarms_triggered_total", Help: "Alarm occurrences fired"},
	)
	alarmsAutoStopped = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "clockwave_alarms_autostop_total", Help: "Alarms cleared by the auto-stop threshold"},
	)
)

func RegisterMetrics() {
	prometheus.MustRegister(alarmsTriggered, alarmsAutoStopped)
}

var (
	ErrNoActiveAlarm = errors.New("no active alarm")
	ErrNotRinging    = errors.New("no alarm active or snoozing")
)

// TriggerFunc is invoked when an alarm fires. The callback is the
// integration point that actually starts audio; the scheduler knows
// nothing about playback mechanics.
type TriggerFunc func(models.Alarm)

// Status is a snapshot of the alarm runtime state for presentation.
type Status struct {
	Active      bool          `json:"active"`
	Snoozing    bool          `json:"snoozing"`
	Alarm       *models.Alarm `json:"alarm,omitempty"`
	SnoozeUntil time.Time     `json:"snooze_until,omitempty"`
}

// Scheduler matches wall-clock time against the stored alarms and owns
// the active/snoozed lifecycle of at most one alarm occurrence.
type Scheduler struct {
	clock         Clock
	store         *Store
	checkInterval time.Duration
	autoStop      time.Duration
	defaultSnooze time.Duration

	mu          sync.Mutex
	trigger     TriggerFunc
	alarmActive bool
	active      *models.Alarm
	startTime   time.Time
	snoozeUntil time.Time
}

type SchedulerConfig struct {
	CheckInterval time.Duration // default 5s
	AutoStop      time.Duration // default 5m
	DefaultSnooze time.Duration // default 5m
}

func NewScheduler(clock Clock, store *Store, cfg SchedulerConfig) *Scheduler {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = 5 * time.Second
	}
	if cfg.AutoStop <= 0 {
		cfg.AutoStop = 5 * time.Minute
	}
	if cfg.DefaultSnooze <= 0 {
		cfg.DefaultSnooze = time.Duration(models.DefaultSnoozeMinutes) * time.Minute
	}
	return &Scheduler{
		clock:         clock,
		store:         store,
		checkInterval: cfg.CheckInterval,
		autoStop:      cfg.AutoStop,
		defaultSnooze: cfg.DefaultSnooze,
	}
}

// OnTrigger registers the single trigger callback.
func (s *Scheduler) OnTrigger(fn TriggerFunc) {
	s.mu.Lock()
	s.trigger = fn
	s.mu.Unlock()
}

// Run polls every check interval until the context is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	log.Printf("⏰ Alarm scheduler running (interval %s)", s.checkInterval)
	for {
		select {
		case <-ctx.Done():
			log.Println("⏰ Alarm scheduler stopped")
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// dayBit translates the platform weekday (Sunday = 0) to the
// Monday-indexed alarm bitmask.
func dayBit(w time.Weekday) int {
	if w == time.Sunday {
		return models.DaySunday
	}
	return 1 << (int(w) - 1)
}

// Tick evaluates one scheduling step. Exactly one of three paths runs:
// auto-stop of an active alarm, snooze expiry, or per-alarm matching.
func (s *Scheduler) Tick() {
	if !s.clock.IsSynchronized() {
		return
	}
	now := s.clock.Now()

	s.mu.Lock()

	// An alarm must never ring indefinitely if the user is unreachable.
	if s.alarmActive {
		elapsed := now.Sub(s.startTime)
		if elapsed >= s.autoStop {
			log.Printf("⏰ Alarm auto-stop after %d minutes", int(elapsed.Minutes()))
			s.alarmActive = false
			s.active = nil
			s.startTime = time.Time{}
			alarmsAutoStopped.Inc()
		}
		s.mu.Unlock()
		return
	}

	if !s.snoozeUntil.IsZero() && !now.Before(s.snoozeUntil) {
		log.Println("⏰ Snooze ended - retriggering alarm")
		s.snoozeUntil = time.Time{}
		// Re-triggers the first enabled alarm in storage order, not
		// necessarily the one that was snoozed.
		for _, a := range s.store.All() {
			if a.Enabled {
				s.triggerLocked(a, now)
				return
			}
		}
		s.mu.Unlock()
		return
	}

	// Only full-minute boundaries matter; the second must be exactly
	// zero so an alarm fires once per matching minute, not on every
	// tick inside it.
	bit := dayBit(now.Weekday())
	for _, a := range s.store.All() {
		if !a.Enabled {
			continue
		}
		if a.Hour != now.Hour() || a.Minute != now.Minute() {
			continue
		}
		if now.Second() != 0 {
			continue
		}
		if a.Days&bit == 0 {
			continue
		}
		s.triggerLocked(a, now)
		return
	}
	s.mu.Unlock()
}

// triggerLocked records the new occurrence and fires the callback.
// Called with the mutex held; releases it before invoking the callback.
func (s *Scheduler) triggerLocked(alarm models.Alarm, now time.Time) {
	log.Printf("🔔 ALARM TRIGGERED: %s (%02d:%02d)", alarm.Name, alarm.Hour, alarm.Minute)

	a := alarm
	s.alarmActive = true
	s.active = &a
	s.startTime = now
	s.snoozeUntil = time.Time{}
	fn := s.trigger
	s.mu.Unlock()

	alarmsTriggered.Inc()
	if fn != nil {
		fn(alarm)
	}
}

// Snooze is valid only while an alarm is active. It clears the active
// flag but keeps the alarm identity for display; stopping the audible
// output is the caller's job via the same path as Stop.
func (s *Scheduler) Snooze() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.alarmActive || s.active == nil {
		return ErrNoActiveAlarm
	}

	d := s.defaultSnooze
	if s.active.SnoozeMinutes > 0 {
		d = time.Duration(s.active.SnoozeMinutes) * time.Minute
	}

	log.Printf("😴 Snooze for %d minutes", int(d.Minutes()))
	s.snoozeUntil = s.clock.Now().Add(d)
	s.alarmActive = false
	s.startTime = time.Time{}
	return nil
}

// Stop clears all alarm runtime state. Valid while active or snoozing.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.alarmActive && s.snoozeUntil.IsZero() {
		return ErrNotRinging
	}

	log.Println("⏰ Alarm stopped")
	s.alarmActive = false
	s.active = nil
	s.startTime = time.Time{}
	s.snoozeUntil = time.Time{}
	return nil
}

func (s *Scheduler) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alarmActive
}

// ActiveAlarm returns the alarm of the current occurrence, which survives
// a snooze until a new trigger replaces it.
func (s *Scheduler) ActiveAlarm() *models.Alarm {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil
	}
	a := *s.active
	return &a
}

func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{
		Active:      s.alarmActive,
		Snoozing:    !s.snoozeUntil.IsZero(),
		SnoozeUntil: s.snoozeUntil,
	}
	if s.active != nil {
		a := *s.active
		st.Alarm = &a
	}
	return st
}

// Next computes the soonest upcoming enabled alarm and how far away it
// is. Requires a synchronized clock and at least one alarm.
func (s *Scheduler) Next() (models.Alarm, time.Duration, bool) {
	if !s.clock.IsSynchronized() {
		return models.Alarm{}, 0, false
	}
	all := s.store.All()
	if len(all) == 0 {
		return models.Alarm{}, 0, false
	}

	now := s.clock.Now()
	currentMinutes := now.Hour()*60 + now.Minute()
	currentDay := int(now.Weekday()) - 1 // Monday = 0
	if now.Weekday() == time.Sunday {
		currentDay = 6
	}

	var best models.Alarm
	minDiff := -1

	for _, a := range all {
		if !a.Enabled {
			continue
		}
		alarmMinutes := a.Hour*60 + a.Minute

		// Scan forward day-by-day for the first day this alarm applies.
		for day := 0; day < 7; day++ {
			checkDay := (currentDay + day) % 7
			if a.Days&(1<<checkDay) == 0 {
				continue
			}

			var diff int
			if day == 0 && alarmMinutes > currentMinutes {
				diff = alarmMinutes - currentMinutes
			} else if day > 0 {
				diff = day*24*60 + alarmMinutes - currentMinutes
			} else {
				// Today's occurrence already passed; a later weekday
				// bit may still apply.
				continue
			}

			if minDiff < 0 || diff < minDiff {
				minDiff = diff
				best = a
			}
			break // first applicable day only
		}
	}

	if minDiff < 0 {
		return models.Alarm{}, 0, false
	}
	return best, time.Duration(minDiff) * time.Minute, true
}
