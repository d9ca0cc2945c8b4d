// Package api exposes grading, promotion and session planning over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/abhisek/lingo/internal/grading"
	"github.com/abhisek/lingo/internal/level"
	"github.com/abhisek/lingo/internal/progress"
	"github.com/abhisek/lingo/internal/schema"
	"github.com/abhisek/lingo/internal/session"
	"github.com/abhisek/lingo/internal/store"
)

// ProgressService is the store-backed part of the API.
type ProgressService interface {
	GradeSession(ctx context.Context, sessionID string, subs []grading.Submission) (*progress.GradeOutcome, error)
	CompleteSession(ctx context.Context, sessionID string) error
	Session(ctx context.Context, sessionID string) (*progress.SessionDetail, error)
	EvaluatePromotion(ctx context.Context, userID string) (level.Decision, error)
	AutoLevelUp(ctx context.Context, userID, source string) (*progress.LevelUpResult, error)
	PlanSession(ctx context.Context, req progress.PlanRequest) (*progress.SessionPlan, error)
	Level(ctx context.Context, userID string) (*progress.LevelInfo, error)
}

// Handler serves the JSON API.
type Handler struct {
	svc       ProgressService
	planner   session.Planner
	validator *validator.Validate
	logger    *slog.Logger
}

// NewHandler creates a Handler. A nil planner uses the standard gate.
func NewHandler(svc ProgressService, planner session.Planner, logger *slog.Logger) *Handler {
	if planner == nil {
		planner = session.NewPlanner()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		svc:       svc,
		planner:   planner,
		validator: validator.New(),
		logger:    logger.With("component", "api"),
	}
}

// GradeRequest is the body of POST /api/grade.
type GradeRequest struct {
	UserAnswer      string `json:"user_answer"`
	AnswerEN        string `json:"answer_en"`
	AllowedVariants any    `json:"allowed_variants"`
	NearMisses      any    `json:"near_misses"`
}

// Grade handles POST /api/grade.
func (h *Handler) Grade(w http.ResponseWriter, r *http.Request) {
	req, err := decodeDocument[GradeRequest](w, r, schema.Grade)
	if err != nil {
		respondWithErr(w, r, h.logger, err)
		return
	}
	res := grading.Grade(req.UserAnswer, req.AnswerEN,
		grading.ParseAnswerList(req.AllowedVariants), grading.ParseAnswerList(req.NearMisses))
	RespondWithJSON(w, http.StatusOK, res)
}

// BatchRequest is the body of POST /api/grade/batch.
type BatchRequest struct {
	Items     []grading.Submission        `json:"items"`
	Snapshots map[string]grading.Snapshot `json:"snapshots"`
}

// BatchResponse carries batch results in input order.
type BatchResponse struct {
	Results []grading.ItemResult `json:"results"`
	Summary *session.Summary     `json:"summary"`
}

// GradeBatch handles POST /api/grade/batch.
func (h *Handler) GradeBatch(w http.ResponseWriter, r *http.Request) {
	req, err := decodeDocument[BatchRequest](w, r, schema.Batch)
	if err != nil {
		respondWithErr(w, r, h.logger, err)
		return
	}
	results, err := grading.GradeBatch(req.Items, req.Snapshots)
	if err != nil {
		respondWithErr(w, r, h.logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, BatchResponse{
		Results: results,
		Summary: session.BuildSummary(results, 0),
	})
}

// PromotionRequest is the body of POST /api/promotion/evaluate.
type PromotionRequest struct {
	CurrentLevel int          `json:"current_level"`
	Stats        level.Stats  `json:"stats"`
	Policy       level.Policy `json:"policy"`
}

// EvaluatePromotion handles POST /api/promotion/evaluate.
func (h *Handler) EvaluatePromotion(w http.ResponseWriter, r *http.Request) {
	req, err := decodeDocument[PromotionRequest](w, r, schema.Promotion)
	if err != nil {
		respondWithErr(w, r, h.logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, level.Evaluate(req.CurrentLevel, req.Stats, req.Policy))
}

// AdjustmentRequest is the body of POST /api/adjustment/evaluate.
type AdjustmentRequest struct {
	CurrentLevel int             `json:"current_level"`
	Stats        level.Stats     `json:"stats"`
	Condition    level.Condition `json:"condition"`
	LevelMix     level.Mix       `json:"level_mix"`
}

// EvaluateAdjustment handles POST /api/adjustment/evaluate.
func (h *Handler) EvaluateAdjustment(w http.ResponseWriter, r *http.Request) {
	req, err := decodeDocument[AdjustmentRequest](w, r, schema.Adjustment)
	if err != nil {
		respondWithErr(w, r, h.logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, level.Adjust(req.CurrentLevel, req.Stats, req.Condition, req.LevelMix))
}

// DecidePlanRequest is the body of POST /api/sessions/plan.
type DecidePlanRequest struct {
	RequestedType      string `json:"requested_type"`
	UserLevel          int    `json:"user_level" validate:"gte=0,lte=9"`
	BuiltSentenceCount int    `json:"built_sentence_count" validate:"gte=0"`
	Limit              int    `json:"limit" validate:"gte=0,lte=100"`
}

// DecidePlan handles POST /api/sessions/plan.
func (h *Handler) DecidePlan(w http.ResponseWriter, r *http.Request) {
	var req DecidePlanRequest
	if err := decodeJSON(w, r, h.validator, &req); err != nil {
		respondWithErr(w, r, h.logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, h.planner.DecidePlan(session.PlanInput{
		Requested:          session.FromClient(req.RequestedType),
		UserLevel:          req.UserLevel,
		BuiltSentenceCount: req.BuiltSentenceCount,
		Limit:              req.Limit,
	}))
}

// CreateSessionRequest is the body of POST /api/sessions.
type CreateSessionRequest struct {
	UserID      string              `json:"user_id" validate:"required"`
	SessionType string              `json:"session_type"`
	Limit       int                 `json:"limit" validate:"gte=0,lte=100"`
	Items       []store.SessionItem `json:"items" validate:"dive"`
}

// CreateSession handles POST /api/sessions.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := decodeJSON(w, r, h.validator, &req); err != nil {
		respondWithErr(w, r, h.logger, err)
		return
	}
	sp, err := h.svc.PlanSession(r.Context(), progress.PlanRequest{
		UserID:     req.UserID,
		Type:       req.SessionType,
		Limit:      req.Limit,
		Candidates: req.Items,
	})
	if err != nil {
		respondWithErr(w, r, h.logger, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, sp)
}

// AttemptsRequest is the body of POST /api/sessions/{id}/attempts.
type AttemptsRequest struct {
	Items []grading.Submission `json:"items" validate:"required,min=1"`
}

// SubmitAttempts handles POST /api/sessions/{id}/attempts.
func (h *Handler) SubmitAttempts(w http.ResponseWriter, r *http.Request) {
	var req AttemptsRequest
	if err := decodeJSON(w, r, h.validator, &req); err != nil {
		respondWithErr(w, r, h.logger, err)
		return
	}
	out, err := h.svc.GradeSession(r.Context(), chi.URLParam(r, "id"), req.Items)
	if err != nil {
		respondWithErr(w, r, h.logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, out)
}

// GetSession handles GET /api/sessions/{id}.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.Session(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithErr(w, r, h.logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, detail)
}

// CompleteSession handles POST /api/sessions/{id}/complete.
func (h *Handler) CompleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.CompleteSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondWithErr(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetLevel handles GET /api/users/{id}/level.
func (h *Handler) GetLevel(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.Level(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithErr(w, r, h.logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, info)
}

// GetPromotion handles GET /api/users/{id}/promotion.
func (h *Handler) GetPromotion(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.EvaluatePromotion(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithErr(w, r, h.logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, d)
}

// AutoLevelRequest is the optional body of POST /api/users/{id}/level/auto.
type AutoLevelRequest struct {
	Source string `json:"source" validate:"omitempty,oneof=auto manual"`
}

// AutoLevelUp handles POST /api/users/{id}/level/auto.
func (h *Handler) AutoLevelUp(w http.ResponseWriter, r *http.Request) {
	var req AutoLevelRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, h.validator, &req); err != nil {
			respondWithErr(w, r, h.logger, err)
			return
		}
	}
	res, err := h.svc.AutoLevelUp(r.Context(), chi.URLParam(r, "id"), req.Source)
	if err != nil {
		respondWithErr(w, r, h.logger, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, res)
}
