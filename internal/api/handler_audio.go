package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clockwave/internal/models"
)

// GetAudioSettings returns the full audio settings blob plus the factory
// preset catalog for UI pickers.
func (s *Server) GetAudioSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"settings": s.settings.Get(),
		"presets":  models.EQPresets,
		"bands":    models.EQBandLabels,
	})
}

// SetEQBand sets one equalizer band, switching the active preset to Custom.
// Body: {"band": 0-9, "level": 0-24}
func (s *Server) SetEQBand(c *gin.Context) {
	var req struct {
		Band  *int   `json:"band"`
		Level *uint8 `json:"level"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Band == nil || req.Level == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing band or level"})
		return
	}

	if err := s.settings.SetBand(*req.Band, *req.Level); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.settings.Get())
}

// SetEQPreset applies a factory curve.
// Body: {"preset": 0-8}
func (s *Server) SetEQPreset(c *gin.Context) {
	var req struct {
		Preset *int `json:"preset"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Preset == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing preset"})
		return
	}

	if err := s.settings.ApplyPreset(models.EQPreset(*req.Preset)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.settings.Get())
}

// SetBalance sets the stereo balance.
// Body: {"balance": -100..100}
func (s *Server) SetBalance(c *gin.Context) {
	var req struct {
		Balance *int `json:"balance"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Balance == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing balance"})
		return
	}
	s.settings.SetBalance(*req.Balance)
	c.JSON(http.StatusOK, s.settings.Get())
}

// SetEffects toggles the processing switches. Omitted fields are left
// unchanged.
// Body: {"bass_boost": true, "loudness": false, "stereo_wide": true}
func (s *Server) SetEffects(c *gin.Context) {
	var req struct {
		BassBoost  *bool `json:"bass_boost"`
		Loudness   *bool `json:"loudness"`
		StereoWide *bool `json:"stereo_wide"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.BassBoost != nil {
		s.settings.SetBassBoost(*req.BassBoost)
	}
	if req.Loudness != nil {
		s.settings.SetLoudness(*req.Loudness)
	}
	if req.StereoWide != nil {
		s.settings.SetStereoWide(*req.StereoWide)
	}
	c.JSON(http.StatusOK, s.settings.Get())
}

// SaveCustomPreset snapshots the current curve into a user slot.
// Body: {"slot": 0-2, "name": "My sound"}
func (s *Server) SaveCustomPreset(c *gin.Context) {
	var req struct {
		Slot *int   `json:"slot"`
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Slot == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing slot"})
		return
	}

	if err := s.settings.SaveCustomPreset(*req.Slot, req.Name); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.settings.Get())
}

// LoadCustomPreset applies a saved user slot.
// Body: {"slot": 0-2}
func (s *Server) LoadCustomPreset(c *gin.Context) {
	var req struct {
		Slot *int `json:"slot"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Slot == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing slot"})
		return
	}

	if err := s.settings.LoadCustomPreset(*req.Slot); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.settings.Get())
}

// DeleteCustomPreset clears a user slot.
// Body: {"slot": 0-2}
func (s *Server) DeleteCustomPreset(c *gin.Context) {
	var req struct {
		Slot *int `json:"slot"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Slot == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing slot"})
		return
	}

	if err := s.settings.DeleteCustomPreset(*req.Slot); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.settings.Get())
}

// GetAutostart reports whether playback resumes on boot.
func (s *Server) GetAutostart(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"enabled":  s.settings.Autostart(),
		"last_url": s.settings.LastURL(),
	})
}

// SetAutostart toggles resume-on-boot.
// Body: {"enabled": true}
func (s *Server) SetAutostart(c *gin.Context) {
	var req struct {
		Enabled *bool `json:"enabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Enabled == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing enabled flag"})
		return
	}
	s.settings.SetAutostart(*req.Enabled)
	c.JSON(http.StatusOK, gin.H{"enabled": *req.Enabled})
}
