// Package storage is the appliance's durable key-value store. Every
// persistent record (alarms, audio settings, stations) is a small blob
// under a namespace+key pair, mirroring the flash layout the device uses.
package storage

import (
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	database "clockwave/internal/db"
)

var ErrKeyNotFound = errors.New("key not found")

// Store is the durable key-value contract. Set stages a value; Commit is
// the durability boundary.
type Store interface {
	Get(namespace, key string) ([]byte, error)
	Set(namespace, key string, value []byte) error
	Commit() error
}

// Entry is one persisted blob.
type Entry struct {
	ID        uint   `gorm:"primaryKey"`
	Namespace string `gorm:"uniqueIndex:idx_ns_key;size:64"`
	Key       string `gorm:"uniqueIndex:idx_ns_key;size:64"`
	Value     []byte
}

func (Entry) TableName() string {
	return "kv_entries"
}

// DBStore persists entries through gorm. Writes are staged in a
// transaction that Commit closes, so a burst of Sets hits the disk once.
type DBStore struct {
	db *gorm.DB

	mu sync.Mutex
	tx *gorm.DB
}

func New(client *database.Client) (*DBStore, error) {
	if err := client.DB.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrate kv table: %w", err)
	}
	return &DBStore{db: client.DB}, nil
}

func (s *DBStore) Get(namespace, key string) ([]byte, error) {
	var entry Entry
	err := s.db.Where("namespace = ? AND key = ?", namespace, key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry.Value, nil
}

func (s *DBStore) Set(namespace, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tx == nil {
		s.tx = s.db.Begin()
		if s.tx.Error != nil {
			err := s.tx.Error
			s.tx = nil
			return err
		}
	}

	entry := Entry{Namespace: namespace, Key: key, Value: value}
	return s.tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&entry).Error
}

func (s *DBStore) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tx == nil {
		return nil
	}
	err := s.tx.Commit().Error
	s.tx = nil
	return err
}

// MemStore is the in-memory implementation used by tests.
type MemStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	Commits int
	FailSet bool // when true, Set returns an error (for persistence-failure tests)
}

func NewMem() *MemStore {
	return &MemStore{data: make(map[string][]byte)}
}

func (s *MemStore) Get(namespace, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[namespace+"/"+key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *MemStore) Set(namespace, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSet {
		return errors.New("simulated write failure")
	}
	v := make([]byte, len(value))
	copy(v, value)
	s.data[namespace+"/"+key] = v
	return nil
}

func (s *MemStore) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Commits++
	return nil
}
