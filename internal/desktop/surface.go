package desktop

import (
	"sync"

	"github.com/STTM-NSU/chart-terminal/internal/widget"
)

const _subscriberBufSize = 4

// Surface is the drawing area of a window. It keeps the latest frame and
// fans every new frame out to subscribers.
type Surface struct {
	mu          sync.RWMutex
	frame       widget.Frame
	hasFrame    bool
	handler     widget.PointerHandler
	subscribers map[int64]chan widget.Frame
	nextID      int64
	closed      bool
}

func newSurface() *Surface {
	return &Surface{
		subscribers: make(map[int64]chan widget.Frame),
	}
}

// Draw never blocks: a subscriber that is behind loses its oldest frame.
func (s *Surface) Draw(frame widget.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.frame = frame
	s.hasFrame = true
	for _, ch := range s.subscribers {
		push(ch, frame)
	}
}

func push(ch chan widget.Frame, frame widget.Frame) {
	for {
		select {
		case ch <- frame:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func (s *Surface) Frame() (widget.Frame, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame, s.hasFrame
}

func (s *Surface) SetPointerHandler(h widget.PointerHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = h
}

func (s *Surface) pointerHandler() widget.PointerHandler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.handler
}

// PointerMove forwards to the attached handler, if any. The handler runs
// without the surface lock since it usually draws right away.
func (s *Surface) PointerMove(x, y float64) bool {
	h := s.pointerHandler()
	if h == nil {
		return false
	}
	h.PointerMove(x, y)
	return true
}

func (s *Surface) PointerLeave() bool {
	h := s.pointerHandler()
	if h == nil {
		return false
	}
	h.PointerLeave()
	return true
}

// Subscribe returns a channel of frames, primed with the current one. The
// channel is closed when the window goes away or on Unsubscribe.
func (s *Surface) Subscribe() (int64, <-chan widget.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan widget.Frame, _subscriberBufSize)
	if s.closed {
		close(ch)
		return 0, ch
	}

	s.nextID++
	id := s.nextID
	s.subscribers[id] = ch
	if s.hasFrame {
		ch <- s.frame
	}
	return id, ch
}

func (s *Surface) Unsubscribe(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.subscribers[id]; ok {
		delete(s.subscribers, id)
		close(ch)
	}
}

func (s *Surface) SubscriberCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers)
}

func (s *Surface) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.handler = nil
	for id, ch := range s.subscribers {
		delete(s.subscribers, id)
		close(ch)
	}
}
