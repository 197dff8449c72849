package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"clockwave/internal/alarms"
	"clockwave/internal/models"
)

// GetAlarms lists the stored alarms.
func (s *Server) GetAlarms(c *gin.Context) {
	list := s.alarmStore.All()
	c.JSON(http.StatusOK, gin.H{"data": list, "count": len(list)})
}

// AddAlarm stores a new alarm.
func (s *Server) AddAlarm(c *gin.Context) {
	var alarm models.Alarm
	if err := c.ShouldBindJSON(&alarm); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	saved, err := s.alarmStore.Add(alarm)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, alarms.ErrStoreFull) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// UpdateAlarm replaces an alarm by id.
func (s *Server) UpdateAlarm(c *gin.Context) {
	var alarm models.Alarm
	if err := c.ShouldBindJSON(&alarm); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := s.alarmStore.Update(alarm); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, alarms.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, alarm)
}

// DeleteAlarm removes an alarm by id.
// Body: {"id": 2}
func (s *Server) DeleteAlarm(c *gin.Context) {
	var req struct {
		ID int `json:"id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := s.alarmStore.Remove(req.ID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": req.ID})
}

// EnableAlarm flips the enabled flag without touching the schedule.
// Body: {"id": 2, "enabled": true}
func (s *Server) EnableAlarm(c *gin.Context) {
	var req struct {
		ID      int  `json:"id"`
		Enabled bool `json:"enabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := s.alarmStore.Enable(req.ID, req.Enabled); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": req.ID, "enabled": req.Enabled})
}

// AlarmControl stops or snoozes the ringing alarm.
// Body: {"action": "stop"|"snooze"}
func (s *Server) AlarmControl(c *gin.Context) {
	var req struct {
		Action string `json:"action"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var err error
	switch req.Action {
	case "stop":
		if err = s.scheduler.Stop(); err == nil {
			err = s.controller.Stop()
		}
	case "snooze":
		if err = s.scheduler.Snooze(); err == nil {
			err = s.controller.Stop()
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown action"})
		return
	}

	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, alarms.ErrNoActiveAlarm) || errors.Is(err, alarms.ErrNotRinging) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.scheduler.Status())
}

// AlarmStatus reports the alarm runtime state plus the next scheduled
// occurrence.
func (s *Server) AlarmStatus(c *gin.Context) {
	st := s.scheduler.Status()
	resp := gin.H{
		"active":   st.Active,
		"snoozing": st.Snoozing,
	}
	if st.Alarm != nil {
		resp["alarm"] = st.Alarm
	}
	if !st.SnoozeUntil.IsZero() {
		resp["snooze_until"] = st.SnoozeUntil
	}
	if next, in, ok := s.scheduler.Next(); ok {
		resp["next_alarm"] = next
		resp["next_in_minutes"] = int(in.Minutes())
	}
	c.JSON(http.StatusOK, resp)
}
