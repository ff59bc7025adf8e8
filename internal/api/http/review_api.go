package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"gatekeeper-bot/internal/domain"
	"gatekeeper-bot/internal/repository"
	"gatekeeper-bot/internal/security"
	"gatekeeper-bot/internal/service"
)

type ctxKey string

const moderatorIDKey ctxKey = "moderator_id"

// ReviewAPIHandler exposes the review workflow over HTTP for moderation
// tooling and dashboards. The moderator identity always comes from the bearer
// token, never from the request body.
type ReviewAPIHandler struct {
	reviews service.ReviewService
	queries service.QueryService
	tokens  security.TokenManager
}

func NewReviewAPIHandler(reviews service.ReviewService, queries service.QueryService, tokens security.TokenManager) *ReviewAPIHandler {
	return &ReviewAPIHandler{reviews: reviews, queries: queries, tokens: tokens}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// authMiddleware validates the bearer token and stashes the moderator id.
func (h *ReviewAPIHandler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := h.tokens.ValidateToken(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		ctx := context.WithValue(r.Context(), moderatorIDKey, claims.ModeratorID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func moderatorID(r *http.Request) string {
	id, _ := r.Context().Value(moderatorIDKey).(string)
	return id
}

func appID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func (h *ReviewAPIHandler) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	id, err := appID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid application id")
		return
	}
	app, err := h.queries.GetApplication(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "application not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load application")
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *ReviewAPIHandler) handleGetActions(w http.ResponseWriter, r *http.Request) {
	id, err := appID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid application id")
		return
	}
	var limit int32
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = int32(n)
	}
	actions, err := h.queries.RecentActions(r.Context(), id, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load review actions")
		return
	}
	writeJSON(w, http.StatusOK, actions)
}

func (h *ReviewAPIHandler) handleGetClaim(w http.ResponseWriter, r *http.Request) {
	id, err := appID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid application id")
		return
	}
	claim, err := h.queries.GetClaim(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no claim on application")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load claim")
		return
	}
	writeJSON(w, http.StatusOK, claim)
}

func (h *ReviewAPIHandler) handleFindPending(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	app, err := h.queries.FindPendingApplication(r.Context(), vars["guildID"], vars["userID"])
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no pending application")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load application")
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *ReviewAPIHandler) handleClaim(w http.ResponseWriter, r *http.Request) {
	id, err := appID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid application id")
		return
	}
	conflict, err := h.reviews.ClaimApplication(r.Context(), id, moderatorID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to claim application")
		return
	}
	if conflict != "" {
		writeJSON(w, http.StatusConflict, map[string]string{"conflict": conflict})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "claimed"})
}

func (h *ReviewAPIHandler) handleUnclaim(w http.ResponseWriter, r *http.Request) {
	id, err := appID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid application id")
		return
	}
	if err := h.reviews.UnclaimApplication(r.Context(), id, moderatorID(r)); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to release claim")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "released"})
}

type decisionRequest struct {
	Reason    string `json:"reason"`
	Permanent bool   `json:"permanent"`
}

func (h *ReviewAPIHandler) handleDecision(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, id int64, modID string, req decisionRequest) (*service.DecisionReport, error)) {
	id, err := appID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid application id")
		return
	}
	var req decisionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	req.Reason = strings.TrimSpace(req.Reason)

	report, err := apply(r.Context(), id, moderatorID(r), req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "application not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to apply decision")
		return
	}
	if report.Conflict != "" {
		writeJSON(w, http.StatusConflict, map[string]string{"conflict": report.Conflict})
		return
	}
	status := http.StatusOK
	if report.Outcome == domain.TransitionTerminal || report.Outcome == domain.TransitionInvalid {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, report)
}

func (h *ReviewAPIHandler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.handleDecision(w, r, func(ctx context.Context, id int64, modID string, _ decisionRequest) (*service.DecisionReport, error) {
		return h.reviews.Approve(ctx, id, modID)
	})
}

func (h *ReviewAPIHandler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.handleDecision(w, r, func(ctx context.Context, id int64, modID string, req decisionRequest) (*service.DecisionReport, error) {
		return h.reviews.Reject(ctx, id, modID, req.Reason, req.Permanent)
	})
}

func (h *ReviewAPIHandler) handleKick(w http.ResponseWriter, r *http.Request) {
	h.handleDecision(w, r, func(ctx context.Context, id int64, modID string, req decisionRequest) (*service.DecisionReport, error) {
		return h.reviews.Kick(ctx, id, modID, req.Reason)
	})
}

func (h *ReviewAPIHandler) handleRequestInfo(w http.ResponseWriter, r *http.Request) {
	h.handleDecision(w, r, func(ctx context.Context, id int64, modID string, req decisionRequest) (*service.DecisionReport, error) {
		return h.reviews.RequestInfo(ctx, id, modID, req.Reason)
	})
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RegisterReviewAPIRoutes mounts the review endpoints.
func RegisterReviewAPIRoutes(router *mux.Router, reviews service.ReviewService, queries service.QueryService, tokens security.TokenManager) {
	handler := NewReviewAPIHandler(reviews, queries, tokens)

	router.HandleFunc("/healthz", handleHealthz).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(handler.authMiddleware)
	api.HandleFunc("/applications/{id:[0-9]+}", handler.handleGetApplication).Methods("GET")
	api.HandleFunc("/applications/{id:[0-9]+}/actions", handler.handleGetActions).Methods("GET")
	api.HandleFunc("/applications/{id:[0-9]+}/claim", handler.handleGetClaim).Methods("GET")
	api.HandleFunc("/applications/{id:[0-9]+}/claim", handler.handleClaim).Methods("POST")
	api.HandleFunc("/applications/{id:[0-9]+}/claim", handler.handleUnclaim).Methods("DELETE")
	api.HandleFunc("/applications/{id:[0-9]+}/approve", handler.handleApprove).Methods("POST")
	api.HandleFunc("/applications/{id:[0-9]+}/reject", handler.handleReject).Methods("POST")
	api.HandleFunc("/applications/{id:[0-9]+}/kick", handler.handleKick).Methods("POST")
	api.HandleFunc("/applications/{id:[0-9]+}/request-info", handler.handleRequestInfo).Methods("POST")
	api.HandleFunc("/guilds/{guildID}/applicants/{userID}/pending", handler.handleFindPending).Methods("GET")
}
