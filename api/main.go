package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nfgomez/secop-analyzer/internal/config"
	"github.com/nfgomez/secop-analyzer/internal/datasets"
	"github.com/nfgomez/secop-analyzer/internal/logger"
	"github.com/nfgomez/secop-analyzer/internal/opendata"
)

func main() {
	log := logger.New("api")
	cfg, err := config.LoadAPI()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	registry := datasets.Default()
	client := opendata.New(cfg.OpenDataBaseURL, registry, cfg.RequestTimeout, cfg.ProviderTimeout, log)

	srv := &server{log: log, cfg: cfg, registry: registry, client: client}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(allowAllCORS)

	r.Get("/", srv.handleRoot)
	r.Get("/health", srv.handleHealth)
	r.Get("/datasets", srv.handleDatasets)
	r.Post("/lookup", srv.handleLookup)
	r.Get("/search", srv.handleSearch)
	r.Get("/proveedor/{nit}", srv.handleProvider)

	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		log.Info("api server starting", slog.String("addr", cfg.BindAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", slog.Any("err", err))
	}
}

type server struct {
	log      *slog.Logger
	cfg      *config.API
	registry datasets.Registry
	client   *opendata.Client
}

type errorResponse struct {
	Error string `json:"error"`
}

type lookupRequest struct {
	URL     string `json:"url"`
	Dataset string `json:"dataset"`
}

func (s *server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "API Analizador SECOP (Datos Abiertos)",
		"endpoints": []string{"/lookup", "/search", "/proveedor/{nit}", "/datasets", "/health"},
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleDatasets(w http.ResponseWriter, r *http.Request) {
	type datasetInfo struct {
		Label          string   `json:"label"`
		RecordType     string   `json:"recordType"`
		Fields         []string `json:"fields"`
		MonetaryFields []string `json:"monetaryFields"`
	}

	labels := s.registry.Labels()
	out := make([]datasetInfo, 0, len(labels))
	for _, label := range labels {
		desc, ok := s.registry.Lookup(label)
		if !ok {
			continue
		}
		monetary := make([]string, 0, len(desc.MonetaryFields))
		// Keep presentation order stable by walking the canonical list.
		for _, field := range desc.CanonicalFields {
			if desc.MonetaryFields[field] {
				monetary = append(monetary, field)
			}
		}
		out = append(out, datasetInfo{
			Label:          label,
			RecordType:     string(desc.RecordType),
			Fields:         desc.CanonicalFields,
			MonetaryFields: monetary,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"datasets": out, "default": s.registry.DefaultLabel()})
}

func (s *server) handleLookup(w http.ResponseWriter, r *http.Request) {
	var payload lookupRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "cuerpo JSON inválido"})
		return
	}
	if strings.TrimSpace(payload.URL) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "falta 'url'"})
		return
	}
	dataset := payload.Dataset
	if dataset == "" {
		dataset = s.registry.DefaultLabel()
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout+5*time.Second)
	defer cancel()

	record, err := s.client.LookupByURL(ctx, payload.URL, dataset)
	if err != nil {
		writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"dataset": dataset, "record": record})
}

func (s *server) handleSearch(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("term"))
	if term == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: opendata.ErrEmptyTerm.Error()})
		return
	}
	dataset := r.URL.Query().Get("dataset")
	if dataset == "" {
		dataset = s.registry.DefaultLabel()
	}
	limit := clampInt(r.URL.Query().Get("limit"), s.cfg.DefaultLimit, s.cfg.MaxLimit)

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout+5*time.Second)
	defer cancel()

	records, err := s.client.SearchByKeyword(ctx, term, dataset, limit)
	if err != nil {
		writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"dataset": dataset,
		"count":   len(records),
		"records": records,
	})
}

func (s *server) handleProvider(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.ProviderTimeout+5*time.Second)
	defer cancel()

	row, ok := s.client.LookupProvider(ctx, chi.URLParam(r, "nit"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Proveedor no encontrado."})
		return
	}

	writeJSON(w, http.StatusOK, row)
}

// statusFor maps the client's error taxonomy onto HTTP statuses: bad input is
// the caller's to fix, not-found suggests retrying later, anything else is an
// upstream failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, opendata.ErrUnsupportedDataset),
		errors.Is(err, opendata.ErrNoNoticeUID),
		errors.Is(err, opendata.ErrEmptyTerm):
		return http.StatusBadRequest
	case errors.Is(err, opendata.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

// allowAllCORS mirrors the permissive CORS policy of the original service.
func allowAllCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clampInt(raw string, fallback, max int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	if value <= 0 {
		return fallback
	}
	if value > max {
		return max
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// nothing better to do
	}
}
