package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"clockwave/internal/models"
	"clockwave/internal/stations"
)

// GetStations lists the saved stations. Pass ?favorites=true for just the
// starred ones.
func (s *Server) GetStations(c *gin.Context) {
	var list []models.RadioStation
	if c.Query("favorites") == "true" {
		list = s.stations.Favorites()
	} else {
		list = s.stations.All()
	}
	c.JSON(http.StatusOK, gin.H{"data": list, "count": len(list)})
}

// AddStation saves a new station.
// Body: {"name": "...", "url": "http://...", "favorite": false}
func (s *Server) AddStation(c *gin.Context) {
	var station models.RadioStation
	if err := c.ShouldBindJSON(&station); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	saved, err := s.stations.Add(station)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, stations.ErrRegistryFull) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// DeleteStation removes a station by id.
// Body: {"id": 3}
func (s *Server) DeleteStation(c *gin.Context) {
	var req struct {
		ID int `json:"id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := s.stations.Remove(req.ID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": req.ID})
}

// FavoriteStation toggles the favorite flag.
// Body: {"id": 3, "favorite": true}
func (s *Server) FavoriteStation(c *gin.Context) {
	var req struct {
		ID       int  `json:"id"`
		Favorite bool `json:"favorite"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := s.stations.SetFavorite(req.ID, req.Favorite); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": req.ID, "favorite": req.Favorite})
}

// NextStation cycles playback to the station after the current one.
func (s *Server) NextStation(c *gin.Context) {
	if err := s.controller.NextStation(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.controller.Status())
}
