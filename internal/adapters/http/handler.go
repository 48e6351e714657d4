package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/rkanzaki/shopscout/internal/app/conversation"
	"github.com/rkanzaki/shopscout/internal/app/recommend"
	"github.com/rkanzaki/shopscout/internal/app/search"
	"github.com/rkanzaki/shopscout/internal/domain"
	"github.com/rkanzaki/shopscout/internal/observability"
)

type Server struct {
	conv       *conversation.Service
	pipeline   *recommend.Pipeline
	aggregator *search.Aggregator
	topN       int
}

func NewServer(conv *conversation.Service, pipeline *recommend.Pipeline, aggregator *search.Aggregator, topN int) http.Handler {
	s := &Server{
		conv:       conv,
		pipeline:   pipeline,
		aggregator: aggregator,
		topN:       topN,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealthz)

	// Conversation surface
	mux.HandleFunc("/state", s.handleState)      // GET: machine snapshot
	mux.HandleFunc("/messages", s.handleMessage) // POST: one chat turn
	mux.HandleFunc("/extract", s.handleExtract)  // POST: trigger extraction
	mux.HandleFunc("/search", s.handleSearch)    // POST: fan out + rank + explain

	// /sessions            → GET: stored session names
	// /sessions/{name}/save → POST: persist active session
	// /sessions/{name}/load → POST: switch active session
	mux.HandleFunc("/sessions", s.handleSessions)
	mux.HandleFunc("/sessions/", s.handleSessionWithName)

	return chainMiddlewares(mux, withCORS, withLogging, withRequestID)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type turnResponse struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

type stateResponse struct {
	Session        string         `json:"session"`
	State          string         `json:"state"`
	ReadyToExtract bool           `json:"ready_to_extract"`
	Query          string         `json:"query,omitempty"`
	Turns          []turnResponse `json:"turns"`
	Sources        []string       `json:"sources"`
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type sendMessageResponse struct {
	Turn           turnResponse `json:"turn"`
	State          string       `json:"state"`
	ReadyToExtract bool         `json:"ready_to_extract"`
}

type extractResponse struct {
	Query string `json:"query"`
}

type searchRequest struct {
	Sources []string `json:"sources"`
	TopN    int      `json:"top_n,omitempty"`
}

type rankedResultResponse struct {
	Name          string  `json:"name"`
	Price         int     `json:"price"`
	Rating        float64 `json:"rating"`
	URL           string  `json:"url"`
	Image         string  `json:"image"`
	Source        string  `json:"source"`
	SourceLabel   string  `json:"source_label"`
	Explanation   string  `json:"explanation"`
	ExplanationOK bool    `json:"explanation_ok"`
}

type searchResponse struct {
	Query   string                 `json:"query"`
	Results []rankedResultResponse `json:"results"`
}

type sessionListResponse struct {
	Names []string `json:"names"`
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, s.toStateResponse(s.conv.Snapshot()))
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		badRequest(w, "text is required")
		return
	}

	turn, err := s.conv.SendMessage(r.Context(), req.Text)
	if err != nil {
		internalError(w, r, err)
		return
	}

	snap := s.conv.Snapshot()
	writeJSON(w, http.StatusOK, sendMessageResponse{
		Turn:           turnResponse{User: turn.User, Assistant: turn.Assistant},
		State:          string(snap.State),
		ReadyToExtract: snap.Ready,
	})
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	query, err := s.conv.Extract(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotReady):
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		case errors.Is(err, domain.ErrExtractionFailed):
			// Retryable: the machine stayed in ready_to_extract.
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		default:
			internalError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, extractResponse{Query: string(query)})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	query := s.conv.Query()
	if query == "" {
		writeJSON(w, http.StatusConflict, map[string]string{
			"error": "no extracted query; trigger extraction first",
		})
		return
	}

	sources := make([]domain.SourceID, 0, len(req.Sources))
	for _, raw := range req.Sources {
		id, ok := domain.ParseSourceID(raw)
		if !ok {
			badRequest(w, "unknown source: "+raw)
			return
		}
		sources = append(sources, id)
	}

	topN := req.TopN
	if topN <= 0 {
		topN = s.topN
	}

	results, err := s.pipeline.Recommend(r.Context(), sources, query, topN)
	if err != nil {
		if errors.Is(err, domain.ErrNoSourcesSelected) {
			badRequest(w, err.Error())
			return
		}
		internalError(w, r, err)
		return
	}

	resp := searchResponse{
		Query:   string(query),
		Results: make([]rankedResultResponse, 0, len(results)),
	}
	for _, res := range results {
		resp.Results = append(resp.Results, rankedResultResponse{
			Name:          res.Name,
			Price:         res.Price,
			Rating:        res.Rating,
			URL:           res.URL,
			Image:         res.Image,
			Source:        string(res.Source),
			SourceLabel:   res.Source.Label(),
			Explanation:   res.Explanation,
			ExplanationOK: res.ExplanationOK,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// /sessions
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	names, err := s.conv.ListSessions()
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionListResponse{Names: names})
}

// /sessions/{name}/save or /sessions/{name}/load
func (s *Server) handleSessionWithName(w http.ResponseWriter, r *http.Request) {
	// Split the raw path so a name holding an encoded slash stays one
	// segment, then decode it.
	path := strings.TrimPrefix(r.URL.EscapedPath(), "/sessions/")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	name, err := url.PathUnescape(parts[0])
	if err != nil {
		badRequest(w, "invalid session name")
		return
	}

	switch parts[1] {
	case "save":
		if err := s.conv.SaveSession(r.Context(), name); err != nil {
			// Store failure is a user-visible warning; the in-memory
			// session is intact.
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "saved", "name": name})

	case "load":
		snap, err := s.conv.LoadSession(r.Context(), name)
		if err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) {
				http.NotFound(w, r)
				return
			}
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, s.toStateResponse(snap))

	default:
		http.NotFound(w, r)
	}
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

func (s *Server) toStateResponse(snap conversation.Snapshot) stateResponse {
	turns := make([]turnResponse, 0, len(snap.Session.Turns))
	for _, t := range snap.Session.Turns {
		turns = append(turns, turnResponse{User: t.User, Assistant: t.Assistant})
	}

	sources := make([]string, 0)
	for _, id := range s.aggregator.Sources() {
		sources = append(sources, string(id))
	}

	return stateResponse{
		Session:        snap.Session.Name,
		State:          string(snap.State),
		ReadyToExtract: snap.Ready,
		Query:          string(snap.Query),
		Turns:          turns,
		Sources:        sources,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func internalError(w http.ResponseWriter, r *http.Request, err error) {
	observability.LoggerFromContext(r.Context()).Error("internal server error",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
