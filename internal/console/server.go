package console

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
)

// maxEntryBytes bounds a single POST body.
const maxEntryBytes = 64 << 10

// Entry is the JSON body accepted by POST /log.
type Entry struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Server accepts log lines over HTTP and appends them to a Sink.
type Server struct {
	sink   *Sink
	server *http.Server
	addr   string
	ln     net.Listener
	log    *slog.Logger
}

// NewServer creates an ingest server on 127.0.0.1:port. Port 0 picks a free
// port when started.
func NewServer(sink *Sink, port int, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		sink: sink,
		addr: fmt.Sprintf("127.0.0.1:%d", port),
		log:  logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/log", s.handleLog)

	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler exposes the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start begins listening (non-blocking). The listener is bound before Start
// returns so Addr is valid.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	s.ln = ln
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("console ingest server stopped", "err", err)
		}
	}()
	s.log.Info("console ingest listening", "addr", ln.Addr().String())
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.addr
}

// handleLog handles POST /log requests.
func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var e Entry
	if err := json.NewDecoder(io.LimitReader(r.Body, maxEntryBytes)).Decode(&e); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(e.Message) == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	s.sink.Append(Line{
		Level:   ParseLevel(e.Level),
		Source:  SourceIngest,
		Message: e.Message,
	})
	w.WriteHeader(http.StatusNoContent)
}
