package models

import (
	"errors"
	"fmt"
)

const MaxStations = 50

var ErrInvalidStation = errors.New("invalid station")

// RadioStation is one saved network stream.
type RadioStation struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	LogoURL  string `json:"logo_url,omitempty"`
	Favorite bool   `json:"favorite"`
}

func (s *RadioStation) Validate() error {
	if s.URL == "" {
		return fmt.Errorf("%w: empty url", ErrInvalidStation)
	}
	return nil
}
