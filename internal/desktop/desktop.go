package desktop

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/STTM-NSU/chart-terminal/internal/logger"
	"github.com/STTM-NSU/chart-terminal/internal/widget"
	"github.com/google/uuid"
)

var ErrWindowNotFound = errors.New("window not found")

const _windowIDPrefix = "win-"

type Window struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Z         int       `json:"z"`
	Focused   bool      `json:"focused"`
	CreatedAt time.Time `json:"created_at"`
}

type window struct {
	id        string
	title     string
	createdAt time.Time
	surface   *Surface
	content   io.Closer
}

// Manager owns the open windows. The slice order is the z-order, the last
// window is on top and has focus.
type Manager struct {
	mu      sync.Mutex
	windows []*window

	logger logger.Logger
}

func NewManager(logger logger.Logger) *Manager {
	return &Manager{
		logger: logger,
	}
}

// Open creates an empty window on top of the others.
func (m *Manager) Open(title string) Window {
	w := &window{
		id:        _windowIDPrefix + uuid.NewString(),
		title:     title,
		createdAt: time.Now().UTC(),
		surface:   newSurface(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.windows = append(m.windows, w)
	m.logger.Debugf("window %s opened: %s", w.id, title)

	return m.view(len(m.windows) - 1)
}

// Attach binds content to a window; it is closed together with the window.
func (m *Manager) Attach(id string, content io.Closer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrWindowNotFound, id)
	}
	if m.windows[i].content != nil {
		return fmt.Errorf("window %s already has content", id)
	}
	m.windows[i].content = content

	return nil
}

func (m *Manager) Focus(id string) (Window, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(id)
	if i < 0 {
		return Window{}, fmt.Errorf("%w: %s", ErrWindowNotFound, id)
	}
	w := m.windows[i]
	m.windows = append(m.windows[:i], m.windows[i+1:]...)
	m.windows = append(m.windows, w)

	return m.view(len(m.windows) - 1), nil
}

// Close removes the window and tears down its content.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	i := m.index(id)
	if i < 0 {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrWindowNotFound, id)
	}
	w := m.windows[i]
	m.windows = append(m.windows[:i], m.windows[i+1:]...)
	m.mu.Unlock()

	var err error
	if w.content != nil {
		if err = w.content.Close(); err != nil {
			err = fmt.Errorf("%w: can't close window content", err)
		}
	}
	w.surface.close()
	m.logger.Debugf("window %s closed", id)

	return err
}

func (m *Manager) CloseAll() {
	for _, w := range m.List() {
		if err := m.Close(w.ID); err != nil {
			m.logger.Warnf("%s: can't close window %s", err, w.ID)
		}
	}
}

// List returns windows bottom to top.
func (m *Manager) List() []Window {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Window, len(m.windows))
	for i := range m.windows {
		out[i] = m.view(i)
	}
	return out
}

func (m *Manager) Window(id string) (Window, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(id)
	if i < 0 {
		return Window{}, false
	}
	return m.view(i), true
}

// Surface satisfies widget.SurfaceLookup.
func (m *Manager) Surface(id string) (widget.Surface, bool) {
	s, ok := m.SurfaceOf(id)
	if !ok {
		return nil, false
	}
	return s, true
}

func (m *Manager) SurfaceOf(id string) (*Surface, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(id)
	if i < 0 {
		return nil, false
	}
	return m.windows[i].surface, true
}

func (m *Manager) Content(id string) (io.Closer, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(id)
	if i < 0 || m.windows[i].content == nil {
		return nil, false
	}
	return m.windows[i].content, true
}

func (m *Manager) index(id string) int {
	for i, w := range m.windows {
		if w.id == id {
			return i
		}
	}
	return -1
}

func (m *Manager) view(i int) Window {
	w := m.windows[i]
	return Window{
		ID:        w.id,
		Title:     w.title,
		Z:         i,
		Focused:   i == len(m.windows)-1,
		CreatedAt: w.createdAt,
	}
}
