package stations

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"clockwave/internal/models"
	"clockwave/internal/storage"
)

const (
	namespace  = "radio_stations"
	stationKey = "stations"
)

var (
	ErrRegistryFull = errors.New("station registry full")
	ErrNotFound     = errors.New("station not found")
)

// Registry is the ordered collection of saved stations. All mutations
// persist the full list; like the alarm store, the in-memory change is
// applied even when the write fails.
type Registry struct {
	store storage.Store
	max   int

	mu       sync.Mutex
	stations []models.RadioStation
}

func NewRegistry(st storage.Store, maxStations int) *Registry {
	if maxStations <= 0 {
		maxStations = models.MaxStations
	}
	return &Registry{store: st, max: maxStations}
}

// Add validates and stores a new station with a fresh id.
func (r *Registry) Add(s models.RadioStation) (models.RadioStation, error) {
	if err := s.Validate(); err != nil {
		return models.RadioStation{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.stations) >= r.max {
		return models.RadioStation{}, ErrRegistryFull
	}

	s.ID = r.nextID()
	r.stations = append(r.stations, s)
	log.Printf("📻 Station added: %s (id %d)", s.Name, s.ID)
	return s, r.save()
}

// nextID is one past the highest live id, so ids stay unique for the
// lifetime of the collection.
func (r *Registry) nextID() int {
	maxID := 0
	for _, s := range r.stations {
		if s.ID > maxID {
			maxID = s.ID
		}
	}
	return maxID + 1
}

func (r *Registry) Remove(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range r.stations {
		if s.ID == id {
			r.stations = append(r.stations[:i], r.stations[i+1:]...)
			log.Printf("📻 Station removed: id %d", id)
			return r.save()
		}
	}
	return fmt.Errorf("%w: id %d", ErrNotFound, id)
}

func (r *Registry) Update(s models.RadioStation) error {
	if err := s.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.stations {
		if r.stations[i].ID == s.ID {
			r.stations[i] = s
			return r.save()
		}
	}
	return fmt.Errorf("%w: id %d", ErrNotFound, s.ID)
}

func (r *Registry) SetFavorite(id int, favorite bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.stations {
		if r.stations[i].ID == id {
			r.stations[i].Favorite = favorite
			return r.save()
		}
	}
	return fmt.Errorf("%w: id %d", ErrNotFound, id)
}

func (r *Registry) Get(id int) (models.RadioStation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.stations {
		if s.ID == id {
			return s, nil
		}
	}
	return models.RadioStation{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
}

func (r *Registry) All() []models.RadioStation {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.RadioStation, len(r.stations))
	copy(out, r.stations)
	return out
}

func (r *Registry) Favorites() []models.RadioStation {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.RadioStation
	for _, s := range r.stations {
		if s.Favorite {
			out = append(out, s)
		}
	}
	return out
}

func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stations)
}

// NextAfter returns the station following the one with the given URL,
// wrapping around. An unknown or empty URL yields the first station.
func (r *Registry) NextAfter(current string) (models.RadioStation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.stations) == 0 {
		return models.RadioStation{}, false
	}
	idx := -1
	for i, s := range r.stations {
		if s.URL == current {
			idx = i
			break
		}
	}
	return r.stations[(idx+1)%len(r.stations)], true
}

// save persists the full list. Called with the mutex held.
func (r *Registry) save() error {
	data, err := json.Marshal(r.stations)
	if err != nil {
		return fmt.Errorf("marshal stations: %w", err)
	}
	if err := r.store.Set(namespace, stationKey, data); err != nil {
		return fmt.Errorf("store stations: %w", err)
	}
	if err := r.store.Commit(); err != nil {
		return fmt.Errorf("commit stations: %w", err)
	}
	return nil
}

// Load replaces the collection with the persisted one. A missing blob
// falls back to the built-in defaults.
func (r *Registry) Load() error {
	data, err := r.store.Get(namespace, stationKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		log.Println("📻 No saved stations - loading defaults")
		return r.LoadDefaults()
	}
	if err != nil {
		return fmt.Errorf("read stations: %w", err)
	}

	var loaded []models.RadioStation
	if err := json.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("decode stations: %w", err)
	}

	r.mu.Lock()
	r.stations = loaded
	r.mu.Unlock()
	log.Printf("📻 Loaded %d stations", len(loaded))
	return nil
}

// LoadDefaults replaces the collection with the factory station list.
func (r *Registry) LoadDefaults() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stations = defaultStations()
	log.Printf("📻 Loaded %d default stations", len(r.stations))
	return r.save()
}

func defaultStations() []models.RadioStation {
	return []models.RadioStation{
		{ID: 1, Name: "RMF FM", URL: "http://rs6-krk2.rmfstream.pl/rmf_fm", Favorite: true},
		{ID: 2, Name: "VOX FM", URL: "http://ic1.smcdn.pl/3990-1.mp3", Favorite: true},
		{ID: 3, Name: "Radio ZET", URL: "http://zt02.cdn.eurozet.pl/zet-old.mp3"},
		{ID: 4, Name: "Eska Rock", URL: "http://ic1.smcdn.pl/2380-1.mp3"},
		{ID: 5, Name: "Polskie Radio 3", URL: "http://mp3.polskieradio.pl:8956/"},
	}
}
