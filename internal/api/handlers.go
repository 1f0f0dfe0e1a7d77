package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yangwenmai/bis/internal/analytics"
	"github.com/yangwenmai/bis/internal/model"
	"github.com/yangwenmai/bis/internal/score"
	"github.com/yangwenmai/bis/internal/session"
	"github.com/yangwenmai/bis/internal/store"
)

// assetView is an Asset with its derived score fields.
type assetView struct {
	model.Asset
	Composite int        `json:"composite_score"`
	Band      score.Band `json:"band"`
}

func newAssetView(a model.Asset) assetView {
	c := score.Of(a)
	return assetView{Asset: a, Composite: c, Band: score.BandOf(c)}
}

func newAssetViews(assets []model.Asset) []assetView {
	out := make([]assetView, len(assets))
	for i, a := range assets {
		out[i] = newAssetView(a)
	}
	return out
}

// ---------------------------------------------------------------------------
// GET /health
// ---------------------------------------------------------------------------

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}

// ---------------------------------------------------------------------------
// GET /api/score
// ---------------------------------------------------------------------------

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	visual, err := scoreParam(r, "visual")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	compliance, err := scoreParam(r, "compliance")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c := score.Composite(visual, compliance)
	writeJSON(w, http.StatusOK, map[string]any{
		"visual":     visual,
		"compliance": compliance,
		"composite":  c,
		"band":       score.BandOf(c),
	})
}

func scoreParam(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, errors.New(name + " is required")
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < model.MinScore || n > model.MaxScore {
		return 0, errors.New(name + " must be an integer in [0,100]")
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// POST /api/sessions, DELETE /api/sessions/{sid}
// ---------------------------------------------------------------------------

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Create()
	if err != nil {
		s.logger.Error("create session", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	snap := sess.Snapshot()
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":         sess.ID,
		"created_at": sess.CreatedAt.UTC().Format(time.RFC3339),
		"pending":    snap.Counts.Pending,
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	if !s.sessions.Delete(sid) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if s.hub != nil {
		s.hub.CloseRoom(sid)
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": sid, "deleted": true})
}

// session resolves {sid}, writing a 404 when it does not exist.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(chi.URLParam(r, "sid"))
	if errors.Is(err, session.ErrNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load session")
		return nil, false
	}
	return sess, true
}

// ---------------------------------------------------------------------------
// GET /api/sessions/{sid}/summary
// ---------------------------------------------------------------------------

type summaryResponse struct {
	ID        string   `json:"id"`
	Pending   int      `json:"pending"`
	Processed int      `json:"processed"`
	Types     []string `json:"types"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	snap := sess.Snapshot()
	types := snap.Types
	if types == nil {
		types = []string{}
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		ID:        sess.ID,
		Pending:   snap.Counts.Pending,
		Processed: snap.Counts.Processed,
		Types:     types,
	})
}

// ---------------------------------------------------------------------------
// GET /api/sessions/{sid}/assets/{pending,history,visible}
// ---------------------------------------------------------------------------

func (s *Server) handlePending(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newAssetViews(sess.Pending()))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newAssetViews(sess.History()))
}

// handleVisible filters pending assets. Without a types parameter every
// pending type is allowed; an empty types parameter allows none.
func (s *Server) handleVisible(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	minScore := 0
	if v := q.Get("min_score"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < model.MinScore || n > model.MaxScore {
			writeError(w, http.StatusBadRequest, "min_score must be an integer in [0,100]")
			return
		}
		minScore = n
	}

	var types []string
	if q.Has("types") {
		types = splitComma(q.Get("types"))
	}

	writeJSON(w, http.StatusOK, newAssetViews(sess.Visible(minScore, types)))
}

// ---------------------------------------------------------------------------
// POST /api/sessions/{sid}/assets/{id}/{approve,rewrite}
// ---------------------------------------------------------------------------

type actionResponse struct {
	Asset   assetView `json:"asset"`
	Message string    `json:"message"`
}

func (s *Server) handleAction(action model.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.session(w, r)
		if !ok {
			return
		}
		id := chi.URLParam(r, "id")

		out, err := sess.Act(id, action)
		switch {
		case errors.Is(err, model.ErrNotFound):
			writeError(w, http.StatusNotFound, "pending asset not found")
			return
		case errors.Is(err, model.ErrInvalidAction):
			writeError(w, http.StatusBadRequest, err.Error())
			return
		case err != nil:
			s.logger.Error("apply action", zap.String("asset_id", id), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to apply action")
			return
		}

		writeJSON(w, http.StatusOK, actionResponse{
			Asset:   newAssetView(out.Asset),
			Message: out.Notification.Message,
		})
	}
}

// ---------------------------------------------------------------------------
// GET /api/sessions/{sid}/analytics[/charts]
// ---------------------------------------------------------------------------

func binsParam(r *http.Request) (int, error) {
	v := r.URL.Query().Get("bins")
	if v == "" {
		return analytics.DefaultBins, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > model.MaxScore {
		return 0, errors.New("bins must be an integer in [1,100]")
	}
	return n, nil
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	bins, err := binsParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, analytics.Build(sess.All(), bins))
}

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	bins, err := binsParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := analytics.Render(w, analytics.Build(sess.All(), bins)); err != nil {
		s.logger.Error("render charts", zap.String("session_id", sess.ID), zap.Error(err))
	}
}

// ---------------------------------------------------------------------------
// GET /api/sessions/{sid}/ws
// ---------------------------------------------------------------------------

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		writeError(w, http.StatusNotImplemented, "notifications are disabled")
		return
	}
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	// The session may expire between lookup and registration; the check
	// after registering closes that gap, and each check counts as activity.
	s.hub.ServeWS(w, r, sess.ID, func() bool {
		cur, err := s.sessions.Get(sess.ID)
		if err != nil || cur != sess {
			return false
		}
		cur.Touch()
		return true
	})
}

// ---------------------------------------------------------------------------
// GET /api/decisions[/stats]
// ---------------------------------------------------------------------------

func (s *Server) handleListDecisions(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		writeJSON(w, http.StatusOK, []store.Decision{})
		return
	}
	q := r.URL.Query()
	f := store.DecisionFilter{
		SessionID: q.Get("session"),
		AssetID:   q.Get("asset"),
	}
	if q.Has("action") {
		f.Action = splitComma(q.Get("action"))
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		f.Limit = n
	}

	decisions, err := s.journal.ListDecisions(r.Context(), f)
	if err != nil {
		s.logger.Error("list decisions", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list decisions")
		return
	}
	writeJSON(w, http.StatusOK, decisions)
}

func (s *Server) handleDecisionStats(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		writeJSON(w, http.StatusOK, store.ActionCounts{})
		return
	}
	counts, err := s.journal.CountByAction(r.Context())
	if err != nil {
		s.logger.Error("count decisions", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to count decisions")
		return
	}
	writeJSON(w, http.StatusOK, counts)
}
