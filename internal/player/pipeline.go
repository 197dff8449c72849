package player

import "clockwave/internal/models"

// Pipeline abstracts the audio chain that actually fetches, decodes and
// renders a stream. The controller never touches hardware directly.
type Pipeline interface {
	// Configure points the chain at a new source. The chain must be
	// stopped first.
	Configure(source models.AudioSource, uri string) error
	Start() error
	Stop() error
	Pause() error
	Resume() error
	// ResetBuffers drops any queued audio from a previous source.
	ResetBuffers() error
	// PauseOutput and ResumeOutput gate only the audible end of the
	// chain, so the reader side can pre-fill while output is held.
	PauseOutput() error
	ResumeOutput() error
	// BufferFill reports ring-buffer occupancy. A zero total means the
	// chain cannot report occupancy and the caller should estimate.
	BufferFill() (filled, total int)
}

// Codec is the hardware volume control.
type Codec interface {
	SetVolume(volume int) error
}

// EventType identifies an asynchronous pipeline notification.
type EventType int

const (
	// EventUpstreamFinished means the network reader closed its fetch.
	EventUpstreamFinished EventType = iota
	// EventDownstreamFinished means the output stage drained its queue.
	EventDownstreamFinished
	// EventError carries an opaque element error code.
	EventError
	// EventMusicInfo carries in-stream metadata.
	EventMusicInfo
)

// Event is an asynchronous notification from the pipeline. The controller
// consumes these via HandleEvent.
type Event struct {
	Type   EventType
	Code   int
	Title  string
	Artist string
}
