package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/FrazRoc/podcast-network/internal/service"
	"github.com/FrazRoc/podcast-network/internal/sim"
)

// LayoutStream upgrades layout requests to a websocket and pushes
// simulation frames until the client disconnects.
type LayoutStream struct {
	logger   *slog.Logger
	service  *service.NetworkService
	upgrader websocket.Upgrader
}

// NewLayoutStream constructs the stream handler. Origin checking is left
// to the CORS layer; the upgrader accepts any origin.
func NewLayoutStream(logger *slog.Logger, svc *service.NetworkService) *LayoutStream {
	return &LayoutStream{
		logger:  logger,
		service: svc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP handles GET /api/layout/stream?width=&height=&view=. The
// simulation starts (or restarts) when the socket opens and frames stream
// until the peer goes away; the layout keeps running for other
// subscribers after a single client disconnects.
func (s *LayoutStream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	vp, view, err := parseLayoutQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.service.StartLayout(vp, view); err != nil {
		s.logger.Error("layout start failed", "error", err, "view", view)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote its own error response.
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// The server's write deadline survives the hijack and would cut the
	// stream off; clear it so frames flow for the connection's lifetime.
	_ = conn.UnderlyingConn().SetDeadline(time.Time{})

	frames, unsubscribe := s.service.Frames()
	defer unsubscribe()

	// Drain the read side so close frames and pings are processed.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case frame, ok := <-frames:
			if !ok {
				return
			}
			if err := conn.WriteJSON(frame); err != nil {
				s.logger.Debug("layout stream client gone", "error", err)
				return
			}
		}
	}
}

func parseLayoutQuery(r *http.Request) (sim.Viewport, string, error) {
	query := r.URL.Query()

	width, err := parseDimension(query.Get("width"))
	if err != nil {
		return sim.Viewport{}, "", err
	}
	height, err := parseDimension(query.Get("height"))
	if err != nil {
		return sim.Viewport{}, "", err
	}

	view := query.Get("view")
	if view == "" {
		view = service.ViewCanonical
	}

	return sim.Viewport{Width: width, Height: height}, view, nil
}

var (
	errDimensionRequired = errors.New("width and height are required")
	errDimensionInvalid  = errors.New("width and height must be positive numbers")
)

func parseDimension(value string) (float64, error) {
	if value == "" {
		return 0, errDimensionRequired
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || v <= 0 {
		return 0, errDimensionInvalid
	}
	return v, nil
}
