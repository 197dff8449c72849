package models

import (
	"errors"
	"fmt"
)

// AlarmSource selects what an alarm plays when it fires.
type AlarmSource int

const (
	AlarmSourceTone AlarmSource = iota // Built-in alarm tone
	AlarmSourceRadio
	AlarmSourceFile
	AlarmSourceService // External music service URI
)

// Day bits for Alarm.Days. Bit 0 is Monday regardless of locale.
const (
	DayMonday = 1 << iota
	DayTuesday
	DayWednesday
	DayThursday
	DayFriday
	DaySaturday
	DaySunday

	DayWeekdays = DayMonday | DayTuesday | DayWednesday | DayThursday | DayFriday
	DayWeekend  = DaySaturday | DaySunday
	DayEveryday = DayWeekdays | DayWeekend
)

const (
	MaxAlarmNameLen = 32
	MaxSourceURILen = 256

	// DefaultSnoozeMinutes is used when an alarm has SnoozeMinutes == 0.
	DefaultSnoozeMinutes = 5
)

var ErrInvalidAlarm = errors.New("invalid alarm")

// Alarm is a weekly-recurring scheduled trigger.
type Alarm struct {
	ID            int         `json:"id"`
	Name          string      `json:"name"`
	Enabled       bool        `json:"enabled"`
	Hour          int         `json:"hour"`   // 0-23
	Minute        int         `json:"minute"` // 0-59
	Days          int         `json:"days"`   // 7-bit mask, bit 0 = Monday
	Source        AlarmSource `json:"source"`
	SourceURI     string      `json:"uri"` // Radio URL or file path, depending on Source
	Volume        int         `json:"volume"`
	SnoozeMinutes int         `json:"snooze"` // 0 = default
}

// Validate checks ranges at the point of creation. Alarms recovered from
// storage are not re-validated; a malformed hour simply never matches.
func (a *Alarm) Validate() error {
	if a.Hour < 0 || a.Hour > 23 {
		return fmt.Errorf("%w: hour %d out of range", ErrInvalidAlarm, a.Hour)
	}
	if a.Minute < 0 || a.Minute > 59 {
		return fmt.Errorf("%w: minute %d out of range", ErrInvalidAlarm, a.Minute)
	}
	if a.Days < 0 || a.Days > DayEveryday {
		return fmt.Errorf("%w: days mask %#x out of range", ErrInvalidAlarm, a.Days)
	}
	if a.Volume < 0 || a.Volume > 100 {
		return fmt.Errorf("%w: volume %d out of range", ErrInvalidAlarm, a.Volume)
	}
	if len(a.Name) > MaxAlarmNameLen {
		return fmt.Errorf("%w: name too long", ErrInvalidAlarm)
	}
	if len(a.SourceURI) > MaxSourceURILen {
		return fmt.Errorf("%w: source uri too long", ErrInvalidAlarm)
	}
	return nil
}
