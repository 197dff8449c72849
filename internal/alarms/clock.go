package alarms

import "time"

// Clock abstracts the wall-clock source. Alarms must never fire before
// the device has a synchronized clock, so the interface carries both the
// time and whether it can be trusted yet.
type Clock interface {
	Now() time.Time
	IsSynchronized() bool
}

// RealClock uses the system time and an externally-set sync flag (the
// network layer flips it once NTP has answered). A non-nil Loc shifts
// alarm matching into that timezone.
type RealClock struct {
	Loc    *time.Location
	synced bool
}

func (c *RealClock) Now() time.Time {
	if c.Loc != nil {
		return time.Now().In(c.Loc)
	}
	return time.Now()
}

func (c *RealClock) IsSynchronized() bool {
	return c.synced
}

// MarkSynchronized is called by the time-sync integration once the clock
// is trustworthy.
func (c *RealClock) MarkSynchronized() {
	c.synced = true
}

// MockClock implements Clock for testing specific scenarios.
// e.g., "Pretend it is Monday at 06:00:00"
type MockClock struct {
	MockTime time.Time
	Synced   bool
}

func (m *MockClock) Now() time.Time {
	return m.MockTime
}

func (m *MockClock) IsSynchronized() bool {
	return m.Synced
}
