package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/dayplanhq/dayplan/internal/models"
	"github.com/dayplanhq/dayplan/internal/services/ai"
)

type fakeGenerator struct {
	plan       *ai.Plan
	err        error
	lastGoal   string
	categories []string
}

func (g *fakeGenerator) GeneratePlan(ctx context.Context, goal string, categories []string) (*ai.Plan, error) {
	g.lastGoal = goal
	g.categories = categories
	return g.plan, g.err
}

func newPlanRouter(env *testEnv, gen ai.PlanGenerator) *mux.Router {
	r := mux.NewRouter()
	NewPlanHandler(env.sessions, gen, zap.NewNop()).RegisterRoutes(r.PathPrefix("/plan").Subrouter())
	return r
}

func TestPlanGenerate(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	userID := env.newUser(t, "plan@example.com")

	gen := &fakeGenerator{plan: &ai.Plan{
		Tasks: []ai.SuggestedTask{
			{Title: "Buy running shoes", Priority: models.PriorityMedium},
			{Title: "Run 2km", Priority: models.PriorityHigh, DurationMinutes: 20},
		},
		Insight: "Start small and build up.",
	}}
	r := newPlanRouter(env, gen)

	rec := env.do(t, r, userID, http.MethodPost, "/plan/generate", map[string]any{
		"goal": "get fit for a 10k",
	})
	requireStatus(t, rec, http.StatusOK)

	var plan ai.Plan
	decodeData(t, rec, &plan)
	if len(plan.Tasks) != 2 || plan.Insight == "" {
		t.Fatalf("plan = %+v", plan)
	}
	if gen.lastGoal != "get fit for a 10k" {
		t.Errorf("generator received goal %q", gen.lastGoal)
	}
}

func TestPlanGenerateFailureIsGeneric(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	userID := env.newUser(t, "planfail@example.com")
	r := newPlanRouter(env, &fakeGenerator{err: errors.New("upstream: quota exceeded for key sk-123")})

	rec := env.do(t, r, userID, http.MethodPost, "/plan/generate", map[string]any{"goal": "anything"})
	requireStatus(t, rec, http.StatusBadGateway)

	// the upstream detail must not leak to the client
	if body := rec.Body.String(); strings.Contains(body, "quota") || strings.Contains(body, "sk-123") {
		t.Errorf("upstream error leaked: %s", body)
	}
}

func TestPlanImportCreatesTasks(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	userID := env.newUser(t, "planimport@example.com")
	r := newPlanRouter(env, &fakeGenerator{})

	rec := env.do(t, r, userID, http.MethodPost, "/plan/import", map[string]any{
		"tasks": []map[string]any{
			{"title": "Buy running shoes", "priority": "medium"},
			{"title": "", "priority": "high"},
			{"title": "Run 2km", "priority": "someday"},
		},
	})
	requireStatus(t, rec, http.StatusCreated)

	var created []models.Task
	decodeData(t, rec, &created)
	if len(created) != 2 {
		t.Fatalf("created %d tasks, want 2 (empty title dropped)", len(created))
	}
	// unknown priority falls back to medium rather than failing the import
	if created[1].Priority != models.PriorityMedium {
		t.Errorf("Priority = %q, want medium fallback", created[1].Priority)
	}

	sess, _ := env.sessions.Get(context.Background(), userID)
	_, cols := sess.Snapshot()
	if len(cols.Tasks) != 2 {
		t.Errorf("working set holds %d tasks, want 2", len(cols.Tasks))
	}
}

func TestPlanGenerateUnconfigured(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	userID := env.newUser(t, "plannil@example.com")
	r := newPlanRouter(env, nil)

	rec := env.do(t, r, userID, http.MethodPost, "/plan/generate", map[string]any{"goal": "anything"})
	requireStatus(t, rec, http.StatusServiceUnavailable)
}
