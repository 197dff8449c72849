package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"clockwave/internal/player"
)

// GetStatus returns the current playback snapshot.
func (s *Server) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.controller.Status())
}

// Play starts streaming the given URL.
// Body: {"url": "http://..."}
func (s *Server) Play(c *gin.Context) {
	var req struct {
		URL string `json:"url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := s.controller.Play(req.URL); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, player.ErrEmptyURL) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.controller.Status())
}

func (s *Server) StopPlayback(c *gin.Context) {
	if err := s.controller.Stop(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.controller.Status())
}

func (s *Server) Pause(c *gin.Context) {
	if err := s.controller.Pause(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.controller.Status())
}

func (s *Server) Resume(c *gin.Context) {
	if err := s.controller.Resume(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.controller.Status())
}

// SetVolume clamps and applies a new volume level.
// Body: {"volume": 0-100}
func (s *Server) SetVolume(c *gin.Context) {
	var req struct {
		Volume *int `json:"volume"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Volume == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing volume"})
		return
	}
	s.controller.SetVolume(*req.Volume)
	c.JSON(http.StatusOK, s.controller.Status())
}

// SetMute toggles the output mute.
// Body: {"muted": true|false}
func (s *Server) SetMute(c *gin.Context) {
	var req struct {
		Muted *bool `json:"muted"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Muted == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing muted flag"})
		return
	}
	s.controller.Mute(*req.Muted)
	c.JSON(http.StatusOK, s.controller.Status())
}
