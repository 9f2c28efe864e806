package model

import (
	"sync"
	"time"

	"github.com/soocke/rect-annotator/domain/session"
)

// ProgressModel tracks the latest session progress and the time spent annotating.
// It is decoupled from the UI; presenters read Values() and update views.
// The zero value is ready to use.
type ProgressModel struct {
	mu       sync.Mutex
	progress session.Progress
	started  time.Time
	elapsed  time.Duration
	finished bool
}

// NewProgressModel returns a pointer to a ready-to-use ProgressModel.
func NewProgressModel() *ProgressModel { return &ProgressModel{} }

// OnProgress records p observed at now. The first update starts the clock and the
// update that completes the last image stops it.
func (m *ProgressModel) OnProgress(p session.Progress, now time.Time) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started.IsZero() {
		m.started = now
	}
	m.progress = p
	if m.finished {
		return
	}
	m.elapsed = now.Sub(m.started)
	if p.ImagesTotal > 0 && p.ImagesDone >= p.ImagesTotal {
		m.finished = true
	}
}

// Values returns the latest progress and the elapsed annotation time.
func (m *ProgressModel) Values() (session.Progress, time.Duration) {
	if m == nil {
		return session.Progress{}, 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.progress, m.elapsed
}

// Finished reports whether every listed image has been handled.
func (m *ProgressModel) Finished() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.finished
}
