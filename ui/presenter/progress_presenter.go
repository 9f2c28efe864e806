package presenter

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/soocke/rect-annotator/domain/session"
	"github.com/soocke/rect-annotator/ui/model"
)

// TitleView displays a one line status, e.g. the annotation window title.
type TitleView interface {
	SetTitle(title string)
}

// ProgressPresenter feeds session progress into the model and pushes a formatted
// status line to the view. It satisfies session.Observer.
type ProgressPresenter struct {
	model *model.ProgressModel
	view  TitleView
	base  string
	now   func() time.Time
}

var _ session.Observer = (*ProgressPresenter)(nil)

// NewProgressPresenter returns a presenter prefixing every status with base.
func NewProgressPresenter(m *model.ProgressModel, view TitleView, base string) *ProgressPresenter {
	return &ProgressPresenter{model: m, view: view, base: base, now: time.Now}
}

// OnProgress advances the model and refreshes the view.
func (p *ProgressPresenter) OnProgress(pr session.Progress) {
	if p == nil || p.model == nil {
		return
	}
	p.model.OnProgress(pr, p.now())
	p.Refresh()
}

// Refresh pushes the current model values to the view.
func (p *ProgressPresenter) Refresh() {
	if p == nil || p.model == nil || p.view == nil {
		return
	}
	pr, elapsed := p.model.Values()
	p.view.SetTitle(FormatStatus(p.base, pr, elapsed))
}

// FormatStatus renders progress as "base [current/total] patches: n 01:05 - file".
func FormatStatus(base string, pr session.Progress, elapsed time.Duration) string {
	seconds := int(elapsed.Seconds())
	min, sec := seconds/60, seconds%60
	current := pr.ImagesDone + 1
	if current > pr.ImagesTotal {
		current = pr.ImagesTotal
	}
	s := fmt.Sprintf("%s [%d/%d] patches: %d %02d:%02d", base, current, pr.ImagesTotal, pr.Patches, min, sec)
	if pr.Current != "" {
		s += " - " + filepath.Base(pr.Current)
	}
	return s
}
