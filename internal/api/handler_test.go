package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lingo/internal/grading"
	"github.com/abhisek/lingo/internal/level"
	"github.com/abhisek/lingo/internal/progress"
	"github.com/abhisek/lingo/internal/session"
	"github.com/abhisek/lingo/internal/store"
)

// MockProgressService is a configurable ProgressService for handler tests.
type MockProgressService struct {
	GradeSessionFn      func(ctx context.Context, sessionID string, subs []grading.Submission) (*progress.GradeOutcome, error)
	CompleteSessionFn   func(ctx context.Context, sessionID string) error
	SessionFn           func(ctx context.Context, sessionID string) (*progress.SessionDetail, error)
	EvaluatePromotionFn func(ctx context.Context, userID string) (level.Decision, error)
	AutoLevelUpFn       func(ctx context.Context, userID, source string) (*progress.LevelUpResult, error)
	PlanSessionFn       func(ctx context.Context, req progress.PlanRequest) (*progress.SessionPlan, error)
	LevelFn             func(ctx context.Context, userID string) (*progress.LevelInfo, error)
}

func (m *MockProgressService) GradeSession(ctx context.Context, sessionID string, subs []grading.Submission) (*progress.GradeOutcome, error) {
	if m.GradeSessionFn != nil {
		return m.GradeSessionFn(ctx, sessionID, subs)
	}
	return &progress.GradeOutcome{}, nil
}

func (m *MockProgressService) CompleteSession(ctx context.Context, sessionID string) error {
	if m.CompleteSessionFn != nil {
		return m.CompleteSessionFn(ctx, sessionID)
	}
	return nil
}

func (m *MockProgressService) Session(ctx context.Context, sessionID string) (*progress.SessionDetail, error) {
	if m.SessionFn != nil {
		return m.SessionFn(ctx, sessionID)
	}
	return &progress.SessionDetail{}, nil
}

func (m *MockProgressService) EvaluatePromotion(ctx context.Context, userID string) (level.Decision, error) {
	if m.EvaluatePromotionFn != nil {
		return m.EvaluatePromotionFn(ctx, userID)
	}
	return level.Decision{}, nil
}

func (m *MockProgressService) AutoLevelUp(ctx context.Context, userID, source string) (*progress.LevelUpResult, error) {
	if m.AutoLevelUpFn != nil {
		return m.AutoLevelUpFn(ctx, userID, source)
	}
	return &progress.LevelUpResult{}, nil
}

func (m *MockProgressService) PlanSession(ctx context.Context, req progress.PlanRequest) (*progress.SessionPlan, error) {
	if m.PlanSessionFn != nil {
		return m.PlanSessionFn(ctx, req)
	}
	return &progress.SessionPlan{}, nil
}

func (m *MockProgressService) Level(ctx context.Context, userID string) (*progress.LevelInfo, error) {
	if m.LevelFn != nil {
		return m.LevelFn(ctx, userID)
	}
	return &progress.LevelInfo{}, nil
}

func newTestRouter(svc ProgressService) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(NewHandler(svc, nil, logger))
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestGrade(t *testing.T) {
	h := newTestRouter(&MockProgressService{})

	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantLabel   string
		wantRewrite any
	}{
		{
			name:       "exact after normalization",
			body:       `{"user_answer": "  i am a STUDENT ", "answer_en": "I am a student."}`,
			wantStatus: http.StatusOK,
			wantLabel:  "correct",
		},
		{
			name:       "variant from delimited text",
			body:       `{"user_answer": "I'm a student", "answer_en": "I am a student.", "allowed_variants": "I'm a student; Im a student"}`,
			wantStatus: http.StatusOK,
			wantLabel:  "variant",
		},
		{
			name:        "near miss reveals the answer",
			body:        `{"user_answer": "I am a studen", "answer_en": "I am a student."}`,
			wantStatus:  http.StatusOK,
			wantLabel:   "near_miss",
			wantRewrite: "I am a student.",
		},
		{
			name:       "missing canonical",
			body:       `{"user_answer": "hello"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "not json",
			body:       `{"user_answer":`,
			wantStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, out := doRequest(t, h, http.MethodPost, "/api/grade", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus != http.StatusOK {
				assert.NotEmpty(t, out["error"])
				assert.NotEmpty(t, out["request_id"])
				return
			}
			assert.Equal(t, tt.wantLabel, out["label"])
			assert.Equal(t, tt.wantRewrite, out["minimal_rewrite"])
		})
	}
}

func TestGradeBatch(t *testing.T) {
	h := newTestRouter(&MockProgressService{})

	body := `{
		"items": [
			{"item_id": "b", "user_answer": "she goes to school"},
			{"item_id": "a", "user_answer": "banana"}
		],
		"snapshots": {
			"a": {"answer_en": "It is raining.", "concept_key": "weather"},
			"b": {"answer_en": "She goes to school.", "concept_key": "third-person-s"}
		}
	}`
	rec, out := doRequest(t, h, http.MethodPost, "/api/grade/batch", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	results := out["results"].([]any)
	require.Len(t, results, 2)
	first := results[0].(map[string]any)
	second := results[1].(map[string]any)
	assert.Equal(t, "b", first["item_id"])
	assert.Equal(t, "correct", first["label"])
	assert.Equal(t, "a", second["item_id"])
	assert.Equal(t, "wrong", second["label"])

	summary := out["summary"].(map[string]any)
	assert.EqualValues(t, 2, summary["total"])
	assert.EqualValues(t, 1, summary["accepted"])
}

func TestGradeBatch_MissingSnapshot(t *testing.T) {
	h := newTestRouter(&MockProgressService{})

	body := `{"items": [{"item_id": "ghost", "user_answer": "x"}], "snapshots": {}}`
	rec, out := doRequest(t, h, http.MethodPost, "/api/grade/batch", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, out["error"], "ghost")
}

func TestEvaluatePromotion(t *testing.T) {
	h := newTestRouter(&MockProgressService{})

	body := `{
		"current_level": 2,
		"stats": {"total_attempts": 80, "recent_correct_rate": "0.75", "stable_concept_ratio": 0.4},
		"policy": {"level": 3, "min_total_attempts": 60, "min_correct_rate": 80, "min_box_level_ratio": 0.3}
	}`
	rec, out := doRequest(t, h, http.MethodPost, "/api/promotion/evaluate", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, false, out["eligible"])
	assert.Equal(t, "correct_rate", out["failed_threshold"])

	body = `{
		"current_level": 2,
		"stats": {"total_attempts": 80, "recent_correct_rate": 0.85, "stable_concept_ratio": 0.4},
		"policy": {"level": 3, "min_total_attempts": 60, "min_correct_rate": 80, "min_box_level_ratio": 30}
	}`
	rec, out = doRequest(t, h, http.MethodPost, "/api/promotion/evaluate", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, out["eligible"])
	assert.EqualValues(t, 3, out["target_level"])
}

func TestEvaluateAdjustment(t *testing.T) {
	h := newTestRouter(&MockProgressService{})

	body := `{
		"current_level": 3,
		"stats": {"recent_correct_rate": 0.5, "low_box_concept_count": 6},
		"condition": {"recent_correct_rate_below": 0.6, "low_box_concepts_over": 5},
		"level_mix": {"2": 0.7, "3": 0.3}
	}`
	rec, out := doRequest(t, h, http.MethodPost, "/api/adjustment/evaluate", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, out["applied"])
	assert.Equal(t, map[string]any{"2": 0.7, "3": 0.3}, out["applied_mix"])

	rec, _ = doRequest(t, h, http.MethodPost, "/api/adjustment/evaluate", `{"current_level": 3, "stats": {}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDecidePlan(t *testing.T) {
	h := newTestRouter(&MockProgressService{})

	rec, out := doRequest(t, h, http.MethodPost, "/api/sessions/plan",
		`{"requested_type": "weakness", "user_level": 1, "built_sentence_count": 120}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "new_only", out["effective_type"])
	assert.Equal(t, true, out["gated"])
	assert.EqualValues(t, session.DefaultLimit, out["limit"])
	assert.Equal(t, map[string]any{"min": float64(1), "max": float64(2)}, out["level_range"])

	rec, _ = doRequest(t, h, http.MethodPost, "/api/sessions/plan", `{"limit": 500}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateSession(t *testing.T) {
	var got progress.PlanRequest
	svc := &MockProgressService{
		PlanSessionFn: func(_ context.Context, req progress.PlanRequest) (*progress.SessionPlan, error) {
			got = req
			return &progress.SessionPlan{SessionID: "s-1", Plan: session.Plan{Type: session.TypeNewOnly}}, nil
		},
	}
	h := newTestRouter(svc)

	rec, out := doRequest(t, h, http.MethodPost, "/api/sessions", `{
		"user_id": "u1", "session_type": "mix", "limit": 5,
		"items": [{"item_id": "i1", "snapshot": {"answer_en": "Hello.", "allowed_variants_text": "Hi|Hey"}}]
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "s-1", out["session_id"])
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "mix", got.Type)
	require.Len(t, got.Candidates, 1)
	assert.Equal(t, []string{"hi", "hey"}, got.Candidates[0].Snapshot.Variants)

	rec, _ = doRequest(t, h, http.MethodPost, "/api/sessions", `{"session_type": "mix"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateSession_Conflict(t *testing.T) {
	svc := &MockProgressService{
		PlanSessionFn: func(context.Context, progress.PlanRequest) (*progress.SessionPlan, error) {
			return nil, fmt.Errorf("create session: %w", store.ErrConflict)
		},
	}
	rec, out := doRequest(t, newTestRouter(svc), http.MethodPost, "/api/sessions",
		`{"user_id": "u1", "items": [{"item_id": "i1", "snapshot": {"answer_en": "Hi"}}]}`)
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	assert.Equal(t, "conflict", out["error"])
}

func TestGetSession(t *testing.T) {
	started := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := &MockProgressService{
		SessionFn: func(_ context.Context, id string) (*progress.SessionDetail, error) {
			if id != "s-1" {
				return nil, fmt.Errorf("load session: %w", store.ErrNotFound)
			}
			results := []grading.ItemResult{{
				ItemID: "i1", UserAnswer: "helo", LatencyMs: 1200,
				Result: grading.Result{Label: grading.LabelNearMiss, Feedback: grading.Feedback(grading.LabelNearMiss), MinimalRewrite: "Hello"},
			}}
			return &progress.SessionDetail{
				Session:    &store.Session{ID: id, UserID: "u1", Type: session.TypeNewOnly, Limit: 10, StartedAt: started},
				Adjustment: level.Adjustment{
					Applied:    true,
					Reason:     "recent correct rate is low",
					AppliedMix: level.Mix{1: 0.7, 2: 0.3},
				},
				Items:   []store.SessionItem{{ItemID: "i1", Snapshot: grading.Snapshot{Canonical: "Hello"}}},
				Results: results,
				Summary: session.BuildSummary(results, time.Minute),
			}, nil
		},
	}
	h := newTestRouter(svc)

	rec, out := doRequest(t, h, http.MethodGet, "/api/sessions/s-1", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	sess := out["session"].(map[string]any)
	assert.Equal(t, "s-1", sess["id"])
	assert.Equal(t, "u1", sess["user_id"])
	assert.NotContains(t, sess, "ended_at", "open sessions omit ended_at")

	adj := out["adjustment"].(map[string]any)
	assert.Equal(t, true, adj["applied"])
	assert.Equal(t, map[string]any{"1": 0.7, "2": 0.3}, adj["applied_mix"])

	items := out["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "i1", items[0].(map[string]any)["item_id"])

	results := out["results"].([]any)
	require.Len(t, results, 1)
	first := results[0].(map[string]any)
	assert.Equal(t, "near_miss", first["label"])
	assert.Equal(t, "Hello", first["minimal_rewrite"])
	assert.EqualValues(t, 1200, first["latency_ms"])

	summary := out["summary"].(map[string]any)
	assert.EqualValues(t, 1, summary["total"])
	assert.EqualValues(t, 0, summary["accepted"])

	rec, out = doRequest(t, h, http.MethodGet, "/api/sessions/s-2", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", out["error"])
}

func TestSubmitAttempts(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		body       string
		wantStatus int
		wantError  string
	}{
		{name: "graded", body: `{"items": [{"item_id": "i1", "user_answer": "x"}]}`, wantStatus: http.StatusOK},
		{name: "unknown session", err: fmt.Errorf("load session: %w", store.ErrNotFound),
			body: `{"items": [{"item_id": "i1", "user_answer": "x"}]}`, wantStatus: http.StatusNotFound, wantError: "not found"},
		{name: "item outside session", err: &grading.MissingSnapshotError{ItemID: "i7"},
			body: `{"items": [{"item_id": "i7", "user_answer": "x"}]}`, wantStatus: http.StatusBadRequest, wantError: "item not in session: i7"},
		{name: "no items", body: `{"items": []}`, wantStatus: http.StatusBadRequest},
		{name: "internal", err: errors.New("disk full at /var/lib/lingo"),
			body: `{"items": [{"item_id": "i1", "user_answer": "x"}]}`, wantStatus: http.StatusInternalServerError, wantError: "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotID string
			svc := &MockProgressService{
				GradeSessionFn: func(_ context.Context, sessionID string, subs []grading.Submission) (*progress.GradeOutcome, error) {
					gotID = sessionID
					if tt.err != nil {
						return nil, tt.err
					}
					return &progress.GradeOutcome{SessionID: sessionID}, nil
				},
			}
			rec, out := doRequest(t, newTestRouter(svc), http.MethodPost, "/api/sessions/s-9/attempts", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, out["error"])
			}
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "s-9", gotID)
				assert.Equal(t, "s-9", out["session_id"])
			}
		})
	}
}

func TestCompleteSession(t *testing.T) {
	svc := &MockProgressService{
		CompleteSessionFn: func(_ context.Context, id string) error {
			if id != "s-1" {
				return store.ErrNotFound
			}
			return nil
		},
	}
	h := newTestRouter(svc)

	rec, _ := doRequest(t, h, http.MethodPost, "/api/sessions/s-1/complete", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec, _ = doRequest(t, h, http.MethodPost, "/api/sessions/s-2/complete", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserLevelRoutes(t *testing.T) {
	var gotSource string
	svc := &MockProgressService{
		LevelFn: func(_ context.Context, userID string) (*progress.LevelInfo, error) {
			return &progress.LevelInfo{UserID: userID, Level: 4}, nil
		},
		EvaluatePromotionFn: func(_ context.Context, userID string) (level.Decision, error) {
			return level.Decision{CurrentLevel: 4, TargetLevel: 5, Reason: progress.ReasonNoPolicy}, nil
		},
		AutoLevelUpFn: func(_ context.Context, userID, source string) (*progress.LevelUpResult, error) {
			gotSource = source
			return &progress.LevelUpResult{LeveledUp: true, NewLevel: 5, Source: source, Reason: level.ReasonEligible}, nil
		},
	}
	h := newTestRouter(svc)

	rec, out := doRequest(t, h, http.MethodGet, "/api/users/u1/level", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", out["user_id"])
	assert.EqualValues(t, 4, out["level"])

	rec, out = doRequest(t, h, http.MethodGet, "/api/users/u1/promotion", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, progress.ReasonNoPolicy, out["reason"])

	rec, out = doRequest(t, h, http.MethodPost, "/api/users/u1/level/auto", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, out["leveled_up"])
	assert.Equal(t, "", gotSource)

	rec, _ = doRequest(t, h, http.MethodPost, "/api/users/u1/level/auto", `{"source": "manual"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "manual", gotSource)

	rec, _ = doRequest(t, h, http.MethodPost, "/api/users/u1/level/auto", `{"source": "cron"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestLogGoesThroughSlog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	h := NewRouter(NewHandler(&MockProgressService{}, nil, logger))

	rec, _ := doRequest(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry), buf.String())
	assert.Equal(t, "request served", entry["msg"])
	assert.Equal(t, "http", entry["component"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/health", entry["path"])
	assert.EqualValues(t, 200, entry["status"])
	assert.NotEmpty(t, entry["request_id"])
}

func TestRequestLogRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	h := NewRouter(NewHandler(&MockProgressService{}, nil, logger))

	rec, _ := doRequest(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, buf.String(), "info request lines are dropped below the configured level")
}

func TestHealth(t *testing.T) {
	rec, _ := doRequest(t, newTestRouter(&MockProgressService{}), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
