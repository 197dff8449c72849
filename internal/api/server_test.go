package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"clockwave/internal/alarms"
	"clockwave/internal/config"
	"clockwave/internal/models"
	"clockwave/internal/player"
	"clockwave/internal/settings"
	"clockwave/internal/stations"
	"clockwave/internal/storage"
)

type stubPipeline struct{}

func (stubPipeline) Configure(models.AudioSource, string) error { return nil }
func (stubPipeline) Start() error                               { return nil }
func (stubPipeline) Stop() error                                { return nil }
func (stubPipeline) Pause() error                               { return nil }
func (stubPipeline) Resume() error                              { return nil }
func (stubPipeline) ResetBuffers() error                        { return nil }
func (stubPipeline) PauseOutput() error                         { return nil }
func (stubPipeline) ResumeOutput() error                        { return nil }
func (stubPipeline) BufferFill() (int, int)                     { return 0, 0 }

func newTestServer(t *testing.T, secret string) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Server.APISecret = secret
	cfg.Server.LogLevel = "error"

	mem := storage.NewMem()
	audio := settings.NewManager(mem, time.Hour)
	controller := player.NewController(stubPipeline{}, nil, audio, player.Config{MaxVolume: 100})
	alarmStore := alarms.NewStore(mem, 10)
	clock := &alarms.MockClock{MockTime: time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC), Synced: true}
	scheduler := alarms.NewScheduler(clock, alarmStore, alarms.SchedulerConfig{})
	registry := stations.NewRegistry(mem, 50)

	return New(cfg, controller, scheduler, alarmStore, registry, audio)
}

func doJSON(s *Server, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, "")
	w := doJSON(s, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health = %d", w.Code)
	}
}

func TestPlayRejectsEmptyURL(t *testing.T) {
	s := newTestServer(t, "")
	w := doJSON(s, http.MethodPost, "/api/play", gin.H{"url": ""})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	w = doJSON(s, http.MethodGet, "/api/status", nil)
	var st models.PlaybackStatus
	json.Unmarshal(w.Body.Bytes(), &st)
	if st.StateName != "idle" {
		t.Errorf("state = %s, rejected play must not change it", st.StateName)
	}
}

func TestAlarmCRUDOverHTTP(t *testing.T) {
	s := newTestServer(t, "")

	w := doJSON(s, http.MethodPost, "/api/alarms", gin.H{
		"name": "Work", "enabled": true, "hour": 7, "minute": 30,
		"days": int(models.DayWeekdays), "volume": 40,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("add = %d: %s", w.Code, w.Body.String())
	}
	var created models.Alarm
	json.Unmarshal(w.Body.Bytes(), &created)
	if created.ID == 0 {
		t.Fatal("no id assigned")
	}

	w = doJSON(s, http.MethodGet, "/api/alarms", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d", w.Code)
	}

	w = doJSON(s, http.MethodPost, "/api/alarms/enable", gin.H{"id": created.ID, "enabled": false})
	if w.Code != http.StatusOK {
		t.Fatalf("enable = %d", w.Code)
	}

	w = doJSON(s, http.MethodPost, "/api/alarms/delete", gin.H{"id": 999})
	if w.Code != http.StatusNotFound {
		t.Errorf("delete unknown = %d, want 404", w.Code)
	}

	w = doJSON(s, http.MethodPost, "/api/alarms/delete", gin.H{"id": created.ID})
	if w.Code != http.StatusOK {
		t.Errorf("delete = %d", w.Code)
	}
}

func TestAlarmControlWithNothingRinging(t *testing.T) {
	s := newTestServer(t, "")

	w := doJSON(s, http.MethodPost, "/api/alarm/control", gin.H{"action": "snooze"})
	if w.Code != http.StatusConflict {
		t.Errorf("snooze idle = %d, want 409", w.Code)
	}
	w = doJSON(s, http.MethodPost, "/api/alarm/control", gin.H{"action": "reboot"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown action = %d, want 400", w.Code)
	}
}

func TestVolumeEndpointClamps(t *testing.T) {
	s := newTestServer(t, "")

	w := doJSON(s, http.MethodPost, "/api/volume", gin.H{"volume": 150})
	if w.Code != http.StatusOK {
		t.Fatalf("volume = %d", w.Code)
	}
	var st models.PlaybackStatus
	json.Unmarshal(w.Body.Bytes(), &st)
	if st.Volume != 100 {
		t.Errorf("volume = %d, want clamped 100", st.Volume)
	}
}

func TestEQEndpoints(t *testing.T) {
	s := newTestServer(t, "")

	w := doJSON(s, http.MethodPost, "/api/audio/eq", gin.H{"band": 3, "level": 18})
	if w.Code != http.StatusOK {
		t.Fatalf("eq = %d: %s", w.Code, w.Body.String())
	}
	var got models.AudioSettings
	json.Unmarshal(w.Body.Bytes(), &got)
	if got.Bands[3] != 18 || got.Preset != models.PresetCustom {
		t.Errorf("band set not applied: %+v", got)
	}

	w = doJSON(s, http.MethodPost, "/api/audio/eq", gin.H{"band": 11, "level": 12})
	if w.Code != http.StatusBadRequest {
		t.Errorf("band out of range = %d, want 400", w.Code)
	}
}

func TestAuthRequiredWhenSecretSet(t *testing.T) {
	s := newTestServer(t, "test-secret")

	w := doJSON(s, http.MethodGet, "/api/status", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token = %d, want 401", w.Code)
	}

	// Health stays open.
	w = doJSON(s, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("health = %d, want 200", w.Code)
	}
}
