package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"clockwave/internal/alarms"
	"clockwave/internal/api/middleware"
	"clockwave/internal/config"
	"clockwave/internal/player"
	"clockwave/internal/settings"
	"clockwave/internal/stations"
)

type Server struct {
	cfg        *config.Config
	controller *player.Controller
	scheduler  *alarms.Scheduler
	alarmStore *alarms.Store
	stations   *stations.Registry
	settings   *settings.Manager
	hub        *Hub
	router     *gin.Engine
}

func New(cfg *config.Config, controller *player.Controller, scheduler *alarms.Scheduler,
	alarmStore *alarms.Store, registry *stations.Registry, audio *settings.Manager) *Server {

	if cfg.Server.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:        cfg,
		controller: controller,
		scheduler:  scheduler,
		alarmStore: alarmStore,
		stations:   registry,
		settings:   audio,
		hub:        NewHub(),
		router:     gin.Default(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Hub exposes the websocket hub so the integration layer can start it and
// feed status updates into it.
func (s *Server) Hub() *Hub { return s.hub }

func (s *Server) setupMiddleware() {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}

	s.router.Use(cors.New(corsConfig))
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "clockwave"})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.GET("/ws", s.handleWS)

	api := s.router.Group("/api")
	// Mutations require a token only when a secret is configured; a bare
	// appliance on a trusted LAN runs open.
	if s.cfg.Server.APISecret != "" {
		api.Use(middleware.RequireAuth([]byte(s.cfg.Server.APISecret)))
	}
	{
		api.GET("/status", s.GetStatus)

		api.POST("/play", s.Play)
		api.POST("/stop", s.StopPlayback)
		api.POST("/pause", s.Pause)
		api.POST("/resume", s.Resume)
		api.POST("/volume", s.SetVolume)
		api.POST("/mute", s.SetMute)

		api.GET("/stations", s.GetStations)
		api.POST("/stations", s.AddStation)
		api.POST("/stations/delete", s.DeleteStation)
		api.POST("/stations/favorite", s.FavoriteStation)
		api.POST("/stations/next", s.NextStation)

		api.GET("/alarms", s.GetAlarms)
		api.POST("/alarms", s.AddAlarm)
		api.POST("/alarms/update", s.UpdateAlarm)
		api.POST("/alarms/delete", s.DeleteAlarm)
		api.POST("/alarms/enable", s.EnableAlarm)
		api.POST("/alarm/control", s.AlarmControl)
		api.GET("/alarm/status", s.AlarmStatus)

		api.GET("/audio", s.GetAudioSettings)
		api.POST("/audio/eq", s.SetEQBand)
		api.POST("/audio/eq/preset", s.SetEQPreset)
		api.POST("/audio/balance", s.SetBalance)
		api.POST("/audio/effects", s.SetEffects)
		api.POST("/audio/preset/save", s.SaveCustomPreset)
		api.POST("/audio/preset/load", s.LoadCustomPreset)
		api.POST("/audio/preset/delete", s.DeleteCustomPreset)

		api.GET("/autostart", s.GetAutostart)
		api.POST("/autostart", s.SetAutostart)
	}
}

// Start runs the server on the configured address.
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}
