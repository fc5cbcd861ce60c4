package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/STTM-NSU/chart-terminal/internal/chart"
	"github.com/STTM-NSU/chart-terminal/internal/logger"
	"github.com/STTM-NSU/chart-terminal/internal/model"
	"github.com/STTM-NSU/chart-terminal/internal/terminal"
	"github.com/STTM-NSU/chart-terminal/internal/widget"
	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

// streamFrame is what a stream client receives on every redraw.
type streamFrame struct {
	Seq       uint64           `json:"seq"`
	Header    widget.Header    `json:"header"`
	Stats     widget.StatsView `json:"stats"`
	Banner    string           `json:"banner,omitempty"`
	Crosshair *chart.Crosshair `json:"crosshair,omitempty"`
	SVG       string           `json:"svg"`
}

func newStreamFrame(f widget.Frame) streamFrame {
	return streamFrame{
		Seq:       f.Seq,
		Header:    f.Header,
		Stats:     f.StatsView(),
		Banner:    f.Banner,
		Crosshair: f.Crosshair,
		SVG:       string(f.SVG()),
	}
}

// clientMessage is what a stream client may send.
type clientMessage struct {
	Type  string           `json:"type"`
	X     float64          `json:"x"`
	Y     float64          `json:"y"`
	Mode  model.RenderMode `json:"mode"`
	Range model.Range      `json:"range"`
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func svgHandler(svc Service, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		frame, err := svc.Frame(chi.URLParam(r, "id"))
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, terminal.ErrChartNotFound) {
				status = http.StatusNotFound
			}
			http.Error(w, err.Error(), status)
			return
		}

		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "no-cache")
		if _, err := w.Write(frame.SVG()); err != nil {
			l.Debugf("%s: svg response write failed", err)
		}
	}
}

func streamHandler(svc Service, l logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		surface, err := svc.Surface(id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		conn, rw, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			l.Warnf("%s: can't upgrade stream for %s", err, id)
			return
		}
		defer conn.Close()

		out := &lockedWriter{w: conn}
		var in io.Reader = conn
		if rw != nil {
			in = rw.Reader
		}

		subID, frames := surface.Subscribe()
		defer surface.Unsubscribe(subID)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		go func() {
			defer cancel()
			client := struct {
				io.Reader
				io.Writer
			}{in, out}
			for {
				data, op, err := wsutil.ReadClientData(client)
				if err != nil {
					return
				}
				if op != ws.OpText {
					continue
				}
				handleClientMessage(svc, id, data, l)
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case frame, ok := <-frames:
				if !ok {
					_ = wsutil.WriteServerMessage(out, ws.OpClose, ws.NewCloseFrameBody(ws.StatusNormalClosure, "window closed"))
					return
				}
				payload, err := sonic.Marshal(newStreamFrame(frame))
				if err != nil {
					l.Errorf("%s: can't encode frame", err)
					continue
				}
				if err := wsutil.WriteServerText(out, payload); err != nil {
					l.Debugf("%s: stream %s write failed", err, id)
					return
				}
			}
		}
	}
}

func handleClientMessage(svc Service, id string, data []byte, l logger.Logger) {
	var msg clientMessage
	if err := sonic.Unmarshal(data, &msg); err != nil {
		l.Debugf("%s: bad stream message", err)
		return
	}

	var err error
	switch msg.Type {
	case "pointer":
		_, err = svc.Pointer(id, msg.X, msg.Y, false)
	case "leave":
		_, err = svc.Pointer(id, 0, 0, true)
	case "mode":
		_, err = svc.SetMode(id, msg.Mode)
	case "range":
		// fetching must not hold up pointer events
		go func() {
			if _, err := svc.SetRange(context.Background(), id, msg.Range); err != nil {
				l.Debugf("%s: stream range change failed", err)
			}
		}()
	case "refresh":
		go func() {
			if _, err := svc.Refresh(context.Background(), id); err != nil {
				l.Debugf("%s: stream refresh failed", err)
			}
		}()
	default:
		l.Debugf("unknown stream message type %q", msg.Type)
	}
	if err != nil {
		l.Debugf("%s: stream message %s failed", err, msg.Type)
	}
}
