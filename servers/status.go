package servers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"rost/interfaces"

	"github.com/gorilla/mux"
)

// StatusSource supplies the data the status endpoint reports.
type StatusSource interface {
	Status() map[string]any
}

// StatusServer serves health and status endpoints over HTTP.
type StatusServer struct {
	log    interfaces.Logger
	db     interfaces.DocumentStore
	source StatusSource
	http   *http.Server
}

func NewStatusServer(log interfaces.Logger, db interfaces.DocumentStore, source StatusSource, listen string) *StatusServer {
	server := &StatusServer{log: log, db: db, source: source}

	router := mux.NewRouter()
	router.HandleFunc("/healthz", server.handleHealth).Methods("GET")
	router.HandleFunc("/api/status", server.handleStatus).Methods("GET")

	server.http = &http.Server{
		Addr:    listen,
		Handler: router,
	}

	return server
}

func (s *StatusServer) Name() string {
	return "status"
}

// Start begins serving in the background.
func (s *StatusServer) Start() error {
	s.log.Info("Starting the status server.", "listen", s.http.Addr)

	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("The status server failed.", "error", err)
		}
	}()

	return nil
}

func (s *StatusServer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.http.Shutdown(ctx)
}

func (s *StatusServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	if err := s.db.Ping(); err != nil {
		http.Error(w, "database unreachable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		s.log.Warn("Failed to write a health response.", "error", err)
	}
}

func (s *StatusServer) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.source.Status()); err != nil {
		s.log.Warn("Failed to write a status response.", "error", err)
	}
}
