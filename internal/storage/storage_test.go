package storage

import (
	"bytes"
	"errors"
	"testing"

	database "clockwave/internal/db"
)

func TestDBStoreRoundTrip(t *testing.T) {
	store, err := New(database.NewMemory())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := store.Get("alarms", "alarms"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound for missing key, got %v", err)
	}

	if err := store.Set("alarms", "alarms", []byte(`[{"id":1}]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	got, err := store.Get("alarms", "alarms")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, []byte(`[{"id":1}]`)) {
		t.Errorf("Get = %q, want %q", got, `[{"id":1}]`)
	}
}

func TestDBStoreOverwrite(t *testing.T) {
	store, err := New(database.NewMemory())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	store.Set("audio_settings", "settings", []byte("v1"))
	store.Commit()
	store.Set("audio_settings", "settings", []byte("v2"))
	store.Commit()

	got, err := store.Get("audio_settings", "settings")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "v2" {
		t.Errorf("Get = %q, want v2", got)
	}
}

func TestDBStoreNamespaceIsolation(t *testing.T) {
	store, err := New(database.NewMemory())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	store.Set("alarms", "data", []byte("a"))
	store.Set("radio_stations", "data", []byte("b"))
	store.Commit()

	got, _ := store.Get("alarms", "data")
	if string(got) != "a" {
		t.Errorf("alarms/data = %q, want a", got)
	}
	got, _ = store.Get("radio_stations", "data")
	if string(got) != "b" {
		t.Errorf("radio_stations/data = %q, want b", got)
	}
}

func TestCommitWithoutSet(t *testing.T) {
	store, err := New(database.NewMemory())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := store.Commit(); err != nil {
		t.Errorf("Commit with nothing staged should be a no-op, got %v", err)
	}
}
