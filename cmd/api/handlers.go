package main

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/firtrack/firtrack-mvp/engine/chat"
	"github.com/firtrack/firtrack-mvp/engine/graph"
	"github.com/firtrack/firtrack-mvp/engine/search"
	"github.com/firtrack/firtrack-mvp/pkg/metrics"
	"github.com/firtrack/firtrack-mvp/pkg/natsutil"
	"github.com/nats-io/nats.go"
)

// maxImageBytes caps uploaded attachment size.
const maxImageBytes = 10 << 20

// server wires the HTTP API to the case stores.
type server struct {
	graph  *graph.GraphStore
	attach *graph.Attachments
	index  *search.Index
	chat   *chat.Responder
	nc     *nats.Conn
	reg    *metrics.Registry
	logger *slog.Logger

	casesCreated   *metrics.Counter
	imagesAttached *metrics.Counter
	chatFallbacks  *metrics.Counter
	searchQueries  *metrics.Counter
	graphOpSeconds *metrics.Histogram
}

func newServer(gs *graph.GraphStore, attach *graph.Attachments, index *search.Index, responder *chat.Responder, nc *nats.Conn, reg *metrics.Registry, logger *slog.Logger) *server {
	return &server{
		graph:  gs,
		attach: attach,
		index:  index,
		chat:   responder,
		nc:     nc,
		reg:    reg,
		logger: logger,

		casesCreated:   reg.Counter("cases_created_total", "Case records created."),
		imagesAttached: reg.Counter("images_attached_total", "Images attached to cases."),
		chatFallbacks:  reg.Counter("chat_fallback_total", "Chat replies served from the canned fallback."),
		searchQueries:  reg.Counter("search_queries_total", "Case title searches executed."),
		graphOpSeconds: reg.Histogram("graph_op_seconds", "Graph store operation latency.", nil),
	}
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/cases", s.handleCreateCase)
	mux.HandleFunc("GET /api/cases", s.handleListCases)
	mux.HandleFunc("GET /api/cases/{id}", s.handleGetCase)
	mux.HandleFunc("PATCH /api/cases/{id}/status", s.handleSetStatus)
	mux.HandleFunc("POST /api/cases/{id}/images", s.handleAttachImage)
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.Handle("GET /metrics", s.reg.Handler())
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps store errors onto HTTP statuses. Only validation errors
// carry detail to the client; everything else gets a generic message.
func (s *server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, graph.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, graph.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "case not found"})
	case errors.Is(err, graph.ErrConstraintViolation):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "a case with this title already exists"})
	default:
		s.logger.Error("request failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleCreateCase(w http.ResponseWriter, r *http.Request) {
	var in graph.CaseInput
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	start := time.Now()
	id, err := s.graph.CreateCase(r.Context(), in)
	s.graphOpSeconds.Since(start)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.casesCreated.Inc()

	doc := search.CaseDoc{
		ID:         id,
		CaseTitle:  in.CaseTitle,
		CaseStatus: in.CaseStatus,
		CrimeType:  in.CrimeType,
	}
	// The local projection is updated inline so search works without a
	// broker; the event additionally feeds any external indexer.
	if err := s.index.Put(r.Context(), doc); err != nil {
		s.logger.Warn("search projection update failed", "case_id", id, "err", err)
	}
	if s.nc != nil {
		if err := natsutil.Publish(r.Context(), s.nc, search.SubjectCaseCreated, doc); err != nil {
			s.logger.Warn("case event publish failed", "case_id", id, "err", err)
		}
	}

	writeJSON(w, http.StatusCreated, map[string]string{"case_id": id})
}

func (s *server) handleGetCase(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	c, err := s.graph.GetCase(r.Context(), r.PathValue("id"))
	s.graphOpSeconds.Since(start)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *server) handleListCases(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	start := time.Now()
	cases, err := s.graph.ListCases(r.Context(), limit)
	s.graphOpSeconds.Since(start)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if cases == nil {
		cases = []graph.Case{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"cases": cases})
}

func (s *server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CaseStatus string `json:"case_status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	id := r.PathValue("id")
	start := time.Now()
	err := s.graph.SetCaseStatus(r.Context(), id, req.CaseStatus)
	s.graphOpSeconds.Since(start)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"case_id": id, "case_status": req.CaseStatus})
}

func (s *server) handleAttachImage(w http.ResponseWriter, r *http.Request) {
	// Cap the whole body so an oversized upload is rejected outright rather
	// than stored truncated. The slack covers multipart framing overhead.
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes+512*1024)
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "image exceeds the size limit"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}
	slot, err := graph.ParseImageSlot(r.FormValue("image_type"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "image file is required"})
		return
	}
	defer file.Close()
	if header.Size > maxImageBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "image exceeds the size limit"})
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unreadable image file"})
		return
	}

	path, err := s.attach.AttachImage(r.Context(), r.PathValue("id"), slot, data, header.Filename)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.imagesAttached.Inc()
	writeJSON(w, http.StatusOK, map[string]string{"image_path": path})
}

func (s *server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query parameter q is required"})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	s.searchQueries.Inc()
	docs, err := s.index.Search(r.Context(), q, limit)
	if err != nil {
		s.logger.Error("search failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if docs == nil {
		docs = []search.CaseDoc{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": docs})
}

func (s *server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return
	}

	reply, degraded := s.chat.Reply(r.Context(), req.Message)
	if degraded {
		s.chatFallbacks.Inc()
	}
	writeJSON(w, http.StatusOK, map[string]any{"reply": reply, "degraded": degraded})
}

func (s *server) handleStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	nodes, err := s.graph.NodeCounts(r.Context())
	if err != nil {
		s.graphOpSeconds.Since(start)
		s.writeError(w, err)
		return
	}
	byStatus, err := s.graph.CasesByStatus(r.Context())
	if err != nil {
		s.graphOpSeconds.Since(start)
		s.writeError(w, err)
		return
	}
	byCrime, err := s.graph.CasesByCrimeType(r.Context())
	s.graphOpSeconds.Since(start)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"node_counts":         nodes,
		"cases_by_status":     byStatus,
		"cases_by_crime_type": byCrime,
	})
}
