package models

// PlayerState is the playback state machine position.
type PlayerState int

const (
	StateIdle PlayerState = iota
	StateBuffering
	StatePlaying
	StatePaused
	StateStopped
	StateError
)

func (s PlayerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBuffering:
		return "buffering"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	case StateError:
		return "error"
	}
	return "unknown"
}

// AudioSource is where the current audio comes from.
type AudioSource int

const (
	SourceNone AudioSource = iota
	SourceNetwork
	SourceLocalFile
	SourceBluetooth
	SourceLineIn
)

func (s AudioSource) String() string {
	switch s {
	case SourceNetwork:
		return "network"
	case SourceLocalFile:
		return "file"
	case SourceBluetooth:
		return "bluetooth"
	case SourceLineIn:
		return "aux"
	}
	return "none"
}

// PlaybackStatus is the canonical current-playback-state record.
// It is mutated only by the playback controller and read by everyone.
type PlaybackStatus struct {
	State         PlayerState `json:"-"`
	StateName     string      `json:"state"`
	Source        AudioSource `json:"-"`
	SourceName    string      `json:"source"`
	Volume        int         `json:"volume"`
	Muted         bool        `json:"muted"`
	CurrentURL    string      `json:"url"`
	CurrentTitle  string      `json:"title"`
	CurrentArtist string      `json:"artist"`
	BufferPercent int         `json:"buffer"`
}

// ForWire fills the string fields derived from the enum fields.
func (p PlaybackStatus) ForWire() PlaybackStatus {
	p.StateName = p.State.String()
	p.SourceName = p.Source.String()
	return p
}
