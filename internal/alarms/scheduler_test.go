package alarms

import (
	"errors"
	"testing"
	"time"

	"clockwave/internal/models"
	"clockwave/internal/storage"
)

// 2026-01-05 is a Monday.
func monday(hour, min, sec int) time.Time {
	return time.Date(2026, 1, 5, hour, min, sec, 0, time.UTC)
}

func newTestScheduler(clock *MockClock, alarms ...models.Alarm) (*Scheduler, *Store) {
	store := NewStore(storage.NewMem(), 10)
	for _, a := range alarms {
		store.Add(a)
	}
	sched := NewScheduler(clock, store, SchedulerConfig{})
	return sched, store
}

func TestWeekdayMatching(t *testing.T) {
	alarm := models.Alarm{
		Name: "Work", Enabled: true, Hour: 7, Minute: 30,
		Days: models.DayMonday | models.DayWednesday, Volume: 40,
	}

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"Tuesday 07:30:00 no match", time.Date(2026, 1, 6, 7, 30, 0, 0, time.UTC), false},
		{"Wednesday 07:30:00 match", time.Date(2026, 1, 7, 7, 30, 0, 0, time.UTC), true},
		{"Wednesday 07:30:05 second not zero", time.Date(2026, 1, 7, 7, 30, 5, 0, time.UTC), false},
		{"Wednesday 07:31:00 wrong minute", time.Date(2026, 1, 7, 7, 31, 0, 0, time.UTC), false},
		{"Monday 07:30:00 match", monday(7, 30, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := &MockClock{MockTime: tt.at, Synced: true}
			sched, _ := newTestScheduler(clock, alarm)

			fired := 0
			sched.OnTrigger(func(models.Alarm) { fired++ })
			sched.Tick()

			if (fired == 1) != tt.want {
				t.Errorf("fired = %d, want trigger = %v", fired, tt.want)
			}
			if sched.IsActive() != tt.want {
				t.Errorf("IsActive = %v, want %v", sched.IsActive(), tt.want)
			}
		})
	}
}

func TestSundayUsesBitSix(t *testing.T) {
	alarm := models.Alarm{Name: "Lazy", Enabled: true, Hour: 9, Minute: 0, Days: models.DaySunday}
	// 2026-01-04 is a Sunday.
	clock := &MockClock{MockTime: time.Date(2026, 1, 4, 9, 0, 0, 0, time.UTC), Synced: true}
	sched, _ := newTestScheduler(clock, alarm)

	fired := 0
	sched.OnTrigger(func(models.Alarm) { fired++ })
	sched.Tick()

	if fired != 1 {
		t.Errorf("Sunday alarm did not fire, fired = %d", fired)
	}
}

func TestUnsynchronizedClockSkipsTick(t *testing.T) {
	alarm := models.Alarm{Name: "Never", Enabled: true, Hour: 7, Minute: 30, Days: models.DayEveryday}
	clock := &MockClock{MockTime: monday(7, 30, 0), Synced: false}
	sched, _ := newTestScheduler(clock, alarm)

	fired := 0
	sched.OnTrigger(func(models.Alarm) { fired++ })
	sched.Tick()

	if fired != 0 || sched.IsActive() {
		t.Error("alarm fired on an unsynchronized clock")
	}
}

func TestDisabledAlarmNeverFires(t *testing.T) {
	alarm := models.Alarm{Name: "Off", Enabled: false, Hour: 7, Minute: 30, Days: models.DayEveryday}
	clock := &MockClock{MockTime: monday(7, 30, 0), Synced: true}
	sched, _ := newTestScheduler(clock, alarm)

	fired := 0
	sched.OnTrigger(func(models.Alarm) { fired++ })
	sched.Tick()

	if fired != 0 {
		t.Error("disabled alarm fired")
	}
}

func TestAutoStop(t *testing.T) {
	alarm := models.Alarm{Name: "Wake", Enabled: true, Hour: 6, Minute: 0, Days: models.DayWeekdays, Volume: 40}
	clock := &MockClock{MockTime: monday(6, 0, 0), Synced: true}
	sched, _ := newTestScheduler(clock, alarm)
	sched.OnTrigger(func(models.Alarm) {})

	sched.Tick()
	if !sched.IsActive() {
		t.Fatal("alarm should be active after trigger")
	}

	// T+4:59 must not clear it.
	clock.MockTime = monday(6, 4, 59)
	sched.Tick()
	if !sched.IsActive() {
		t.Error("alarm cleared before the auto-stop threshold")
	}

	// T+5:00 clears it.
	clock.MockTime = monday(6, 5, 0)
	sched.Tick()
	if sched.IsActive() {
		t.Error("alarm not auto-stopped at the threshold")
	}
	if sched.ActiveAlarm() != nil {
		t.Error("active alarm reference not cleared by auto-stop")
	}
}

func TestSnoozeRoundTrip(t *testing.T) {
	alarm := models.Alarm{
		Name: "Wake", Enabled: true, Hour: 6, Minute: 0,
		Days: models.DayWeekdays, Volume: 40, SnoozeMinutes: 5,
	}
	clock := &MockClock{MockTime: monday(6, 0, 0), Synced: true}
	sched, _ := newTestScheduler(clock, alarm)

	fired := 0
	sched.OnTrigger(func(models.Alarm) { fired++ })

	sched.Tick()
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}

	if err := sched.Snooze(); err != nil {
		t.Fatalf("Snooze: %v", err)
	}
	if sched.IsActive() {
		t.Error("alarm still active after snooze")
	}
	if sched.ActiveAlarm() == nil {
		t.Error("snooze should preserve the alarm identity for display")
	}
	st := sched.Status()
	if !st.Snoozing {
		t.Error("status should report snoozing")
	}

	// Before the deadline nothing happens.
	clock.MockTime = monday(6, 4, 0)
	sched.Tick()
	if fired != 1 {
		t.Errorf("fired = %d before snooze deadline, want 1", fired)
	}

	// At the deadline the first enabled alarm re-triggers.
	clock.MockTime = monday(6, 5, 0)
	sched.Tick()
	if fired != 2 {
		t.Errorf("fired = %d after snooze deadline, want 2", fired)
	}
	if !sched.IsActive() {
		t.Error("alarm should be active again after snooze expiry")
	}
	if !sched.Status().SnoozeUntil.IsZero() {
		t.Error("snooze deadline not cleared after re-trigger")
	}
}

func TestSnoozeWithoutActiveAlarm(t *testing.T) {
	clock := &MockClock{MockTime: monday(6, 0, 0), Synced: true}
	sched, _ := newTestScheduler(clock)

	if err := sched.Snooze(); !errors.Is(err, ErrNoActiveAlarm) {
		t.Errorf("expected ErrNoActiveAlarm, got %v", err)
	}
	if sched.IsActive() || sched.Status().Snoozing {
		t.Error("failed snooze changed state")
	}
}

func TestStopClearsEverything(t *testing.T) {
	alarm := models.Alarm{Name: "Wake", Enabled: true, Hour: 6, Minute: 0, Days: models.DayWeekdays}
	clock := &MockClock{MockTime: monday(6, 0, 0), Synced: true}
	sched, _ := newTestScheduler(clock, alarm)
	sched.OnTrigger(func(models.Alarm) {})

	if err := sched.Stop(); !errors.Is(err, ErrNotRinging) {
		t.Errorf("expected ErrNotRinging with nothing active, got %v", err)
	}

	sched.Tick()
	if err := sched.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if sched.IsActive() || sched.ActiveAlarm() != nil {
		t.Error("stop did not clear runtime state")
	}

	// Stop is also valid while snoozing, and clears the deadline.
	clock.MockTime = monday(6, 0, 0)
	sched.Tick()
	sched.Snooze()
	if err := sched.Stop(); err != nil {
		t.Fatalf("Stop while snoozing: %v", err)
	}
	if sched.Status().Snoozing {
		t.Error("stop did not clear the snooze deadline")
	}
}

// Scenario from the wake-up flow: weekday alarm at 06:00, trigger once at
// Monday 06:00:00, auto-stop by 06:05:01.
func TestWeekdayWakeUpScenario(t *testing.T) {
	alarm := models.Alarm{
		Name: "Morning", Enabled: true, Hour: 6, Minute: 0,
		Days: models.DayWeekdays, Volume: 40, Source: models.AlarmSourceTone,
	}
	clock := &MockClock{MockTime: monday(5, 59, 55), Synced: true}
	sched, _ := newTestScheduler(clock, alarm)

	var triggered []models.Alarm
	sched.OnTrigger(func(a models.Alarm) { triggered = append(triggered, a) })

	sched.Tick() // 05:59:55 - nothing
	clock.MockTime = monday(6, 0, 0)
	sched.Tick() // fires
	clock.MockTime = monday(6, 0, 5)
	sched.Tick() // same minute, second != 0; also active so match path is skipped

	if len(triggered) != 1 {
		t.Fatalf("triggered %d times, want exactly 1", len(triggered))
	}
	if triggered[0].Volume != 40 || triggered[0].Source != models.AlarmSourceTone {
		t.Errorf("callback alarm mismatch: %+v", triggered[0])
	}
	if !sched.IsActive() {
		t.Fatal("alarm_active should be true")
	}

	clock.MockTime = monday(6, 5, 1)
	sched.Tick()
	if sched.IsActive() {
		t.Error("alarm_active should be false after auto-stop window")
	}
}

func TestNextAlarm(t *testing.T) {
	early := models.Alarm{Name: "Early", Enabled: true, Hour: 6, Minute: 0, Days: models.DayWeekdays}
	late := models.Alarm{Name: "Late", Enabled: true, Hour: 22, Minute: 0, Days: models.DayMonday}
	weekend := models.Alarm{Name: "Weekend", Enabled: true, Hour: 9, Minute: 0, Days: models.DayWeekend}

	clock := &MockClock{MockTime: monday(7, 0, 0), Synced: true}
	sched, store := newTestScheduler(clock, early, late, weekend)

	// Monday 07:00 - today's 06:00 already passed, 22:00 is still ahead.
	next, in, ok := sched.Next()
	if !ok {
		t.Fatal("expected a next alarm")
	}
	if next.Name != "Late" {
		t.Errorf("next = %s, want Late", next.Name)
	}
	if in != 15*time.Hour {
		t.Errorf("in = %s, want 15h", in)
	}

	// Monday 23:00 - tomorrow's 06:00 wins.
	clock.MockTime = monday(23, 0, 0)
	next, in, ok = sched.Next()
	if !ok || next.Name != "Early" {
		t.Fatalf("next = %v %s, want Early", ok, next.Name)
	}
	if in != 7*time.Hour {
		t.Errorf("in = %s, want 7h", in)
	}

	// Unsynchronized clock reports none.
	clock.Synced = false
	if _, _, ok := sched.Next(); ok {
		t.Error("Next should report none without a synchronized clock")
	}
	clock.Synced = true

	// All disabled reports none.
	for _, a := range store.All() {
		store.Enable(a.ID, false)
	}
	if _, _, ok := sched.Next(); ok {
		t.Error("Next should report none with no enabled alarms")
	}
}
