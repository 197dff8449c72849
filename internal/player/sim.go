package player

import (
	"log"
	"sync"
	"time"

	"clockwave/internal/models"
)

// SimPipeline is a software stand-in for the hardware audio chain. It
// models the ring buffer filling up over roughly three seconds after
// start, which is enough for the controller's buffering logic and for
// running the daemon on a machine without an audio board.
type SimPipeline struct {
	mu         sync.Mutex
	running    bool
	outputHeld bool
	startedAt  time.Time
	uri        string
}

const simFillTime = 3 * time.Second

func (p *SimPipeline) Configure(source models.AudioSource, uri string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.uri = uri
	log.Printf("🎛️ Pipeline configured: %s (%s)", uri, source)
	return nil
}

func (p *SimPipeline) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = true
	p.startedAt = time.Now()
	return nil
}

func (p *SimPipeline) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = false
	return nil
}

func (p *SimPipeline) Pause() error  { return nil }
func (p *SimPipeline) Resume() error { return nil }

func (p *SimPipeline) ResetBuffers() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.startedAt = time.Time{}
	return nil
}

func (p *SimPipeline) PauseOutput() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.outputHeld = true
	return nil
}

func (p *SimPipeline) ResumeOutput() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.outputHeld = false
	return nil
}

func (p *SimPipeline) BufferFill() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running || p.startedAt.IsZero() {
		return 0, 100
	}
	pct := int(time.Since(p.startedAt) * 100 / simFillTime)
	if pct > 100 {
		pct = 100
	}
	return pct, 100
}

// SimCodec logs volume writes instead of touching an I2C codec.
type SimCodec struct{}

func (SimCodec) SetVolume(volume int) error {
	log.Printf("🔊 Codec volume: %d", volume)
	return nil
}
