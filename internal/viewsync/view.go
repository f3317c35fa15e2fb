package viewsync

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/vassetti/patter/internal/feed"
	"github.com/vassetti/patter/internal/logging"
)

// TemplateID selects a registered renderer. TemplateNone is the
// sentinel for "render nothing": the engine leaves the container empty.
type TemplateID int

const TemplateNone TemplateID = 0

// View is one materialized block of rendered lines bound to a single
// entry. Height is the line count; geometry inside the feed comes from
// the views stacked above it.
type View struct {
	Lines []string
	bound bool
}

func (v *View) Height() int { return len(v.Lines) }

// Bound reports whether the template actually bound the entry. An
// unbound view renders empty and is a logged warning, not an error.
func (v *View) Bound() bool { return v.bound }

// RenderFunc turns an entry into wrapped lines at the given width.
// Returning nil signals the template has no binding for this payload.
type RenderFunc func(e *feed.Entry, width int) []string

// ViewFactory holds the template registry and the current render width.
type ViewFactory struct {
	mu        sync.RWMutex
	templates map[TemplateID]RenderFunc
	width     int
	log       zerolog.Logger
}

func NewViewFactory() *ViewFactory {
	return &ViewFactory{
		templates: make(map[TemplateID]RenderFunc),
		width:     80,
		log:       logging.Component("viewsync"),
	}
}

func (f *ViewFactory) Register(id TemplateID, fn RenderFunc) {
	f.mu.Lock()
	f.templates[id] = fn
	f.mu.Unlock()
}

func (f *ViewFactory) SetWidth(w int) {
	if w <= 0 {
		w = 80
	}
	f.mu.Lock()
	f.width = w
	f.mu.Unlock()
}

func (f *ViewFactory) Width() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.width
}

// CreateView renders an entry through the template. A missing template
// or a template that cannot bind the payload yields an unbound empty
// view and a warning.
func (f *ViewFactory) CreateView(id TemplateID, e *feed.Entry) *View {
	f.mu.RLock()
	fn, ok := f.templates[id]
	width := f.width
	f.mu.RUnlock()

	if !ok {
		f.log.Warn().Int("template", int(id)).Msg("no renderer registered for template")
		return &View{}
	}
	lines := fn(e, width)
	if lines == nil {
		f.log.Warn().Int("template", int(id)).Str("guid", e.Message.GUID).
			Msg("template has no binding for entry payload")
		return &View{}
	}
	return &View{Lines: lines, bound: true}
}
