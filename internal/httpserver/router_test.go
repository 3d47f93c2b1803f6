package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"habitflow/internal/datekey"
	"habitflow/internal/handler"
	"habitflow/internal/kvstore"
	"habitflow/internal/model"
	"habitflow/internal/persist"
	"habitflow/internal/selector"
	"habitflow/internal/store"
	"habitflow/pkg/trace"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	engine    *gin.Engine
	store     *store.Store
	persister *persist.Persister
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := zap.NewNop()
	clock := datekey.FixedClockAt("2026-02-20")
	kv := kvstore.NewMemory(0)
	p := persist.NewPersister(kv, "", log)

	s := store.New(model.NewState(), clock, log)
	s.OnCommit("persist", p.Save)

	h := Handlers{
		Habits:   handler.NewHabitHandler(s, log),
		Logs:     handler.NewLogHandler(s, log),
		Stats:    handler.NewStatsHandler(s, selector.NewSelectors(clock, log), 7, log),
		Settings: handler.NewSettingsHandler(s, 7, log),
		Transfer: handler.NewTransferHandler(s, log),
	}
	return &testServer{engine: NewRouter(h, log, kv, nil), store: s, persister: p}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func (ts *testServer) createHabit(t *testing.T, in store.HabitInput) model.Habit {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/habits", in)
	if w.Code != http.StatusCreated {
		t.Fatalf("create habit: %d %s", w.Code, w.Body.String())
	}
	return decode[struct {
		Habit model.Habit `json:"habit"`
	}](t, w).Habit
}

func TestHealthAndReadiness(t *testing.T) {
	ts := newTestServer(t)

	if w := ts.do(t, http.MethodGet, "/healthz", nil); w.Code != http.StatusOK {
		t.Errorf("healthz: %d", w.Code)
	}
	w := ts.do(t, http.MethodGet, "/readyz", nil)
	if w.Code != http.StatusOK {
		t.Errorf("readyz: %d", w.Code)
	}
	if w.Header().Get(trace.HeaderName) == "" {
		t.Error("expected trace id header")
	}

	down := NewRouter(Handlers{}, zap.NewNop(), failingPinger{}, nil)
	rec := httptest.NewRecorder()
	down.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 when storage is down, got %d", rec.Code)
	}
}

func TestTraceIDIsPropagated(t *testing.T) {
	ts := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(trace.HeaderName, "abc123")
	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)

	if got := w.Header().Get(trace.HeaderName); got != "abc123" {
		t.Errorf("expected echoed trace id, got %q", got)
	}
}

func TestHabitLifecycle(t *testing.T) {
	ts := newTestServer(t)
	target := 10.0
	h := ts.createHabit(t, store.HabitInput{Name: "Read", Type: model.HabitQuantitative, Target: &target, Unit: "pages"})

	w := ts.do(t, http.MethodPut, "/habits/"+h.ID, store.HabitInput{Name: "Read more", Type: model.HabitQuantitative, Target: &target, Unit: "pages"})
	if w.Code != http.StatusOK {
		t.Fatalf("update: %d %s", w.Code, w.Body.String())
	}

	w = ts.do(t, http.MethodPost, "/habits/"+h.ID+"/status", map[string]string{"status": "paused"})
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d %s", w.Code, w.Body.String())
	}

	w = ts.do(t, http.MethodGet, "/habits?status=active", nil)
	active := decode[struct {
		Habits []model.Habit `json:"habits"`
	}](t, w)
	if len(active.Habits) != 0 {
		t.Errorf("expected paused habit to be filtered, got %+v", active.Habits)
	}

	if w := ts.do(t, http.MethodDelete, "/habits/"+h.ID, nil); w.Code != http.StatusOK {
		t.Fatalf("delete: %d", w.Code)
	}
	if w := ts.do(t, http.MethodDelete, "/habits/"+h.ID, nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", w.Code)
	}
}

func TestValidationErrors(t *testing.T) {
	ts := newTestServer(t)
	cases := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"missing name", http.MethodPost, "/habits", store.HabitInput{}},
		{"malformed json", http.MethodPost, "/habits", "{"},
		{"bad log date", http.MethodPost, "/logs", map[string]any{"habitId": "h", "date": "20-02-2026", "completed": true}},
		{"inverted range", http.MethodPut, "/range", model.DateRange{Start: "2026-02-21", End: "2026-02-20"}},
		{"bad stats range", http.MethodGet, "/stats/progress?start=2026-02-30&end=2026-03-01", nil},
		{"unknown status filter", http.MethodGet, "/habits?status=archived", nil},
		{"import without logs", http.MethodPost, "/import", `{"habits":{"items":[]}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := ts.do(t, tc.method, tc.path, tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d %s", w.Code, w.Body.String())
			}
			if body := decode[map[string]string](t, w); body["error"] == "" {
				t.Error("expected error message")
			}
		})
	}
}

func TestLogsAndProgress(t *testing.T) {
	ts := newTestServer(t)
	target := 10.0
	read := ts.createHabit(t, store.HabitInput{Name: "Read", Type: model.HabitQuantitative, Target: &target, Unit: "pages"})
	walk := ts.createHabit(t, store.HabitInput{Name: "Walk"})

	w := ts.do(t, http.MethodPost, "/logs/batch", map[string]any{"logs": []map[string]any{
		{"habitId": read.ID, "date": "2026-02-19", "value": 5},
		{"habitId": read.ID, "date": "2026-02-20", "value": 12},
		{"habitId": walk.ID, "date": "2026-02-20", "completed": true},
	}})
	if w.Code != http.StatusOK {
		t.Fatalf("batch: %d %s", w.Code, w.Body.String())
	}

	w = ts.do(t, http.MethodGet, "/stats/progress?start=2026-02-19&end=2026-02-20", nil)
	progress := decode[struct {
		Progress struct {
			TotalCompleted float64 `json:"totalCompleted"`
			TotalPlanned   float64 `json:"totalPlanned"`
			Percent        int     `json:"percent"`
		} `json:"progress"`
	}](t, w).Progress
	if progress.TotalPlanned != 22 || progress.TotalCompleted != 16 || progress.Percent != 73 {
		t.Errorf("unexpected progress %+v", progress)
	}

	w = ts.do(t, http.MethodGet, "/stats/days?start=2026-02-20&end=2026-02-19", nil)
	days := decode[struct {
		Days []json.RawMessage `json:"days"`
	}](t, w)
	if w.Code != http.StatusOK || len(days.Days) != 0 {
		t.Errorf("inverted range should be empty, got %d %s", w.Code, w.Body.String())
	}

	w = ts.do(t, http.MethodGet, "/logs?habitId="+walk.ID, nil)
	logs := decode[struct {
		Logs []model.HabitLog `json:"logs"`
	}](t, w)
	if len(logs.Logs) != 1 || logs.Logs[0].ID != walk.ID+"-2026-02-20" {
		t.Errorf("unexpected filtered logs %+v", logs.Logs)
	}
}

func TestStatsUseSelectedRange(t *testing.T) {
	ts := newTestServer(t)
	h := ts.createHabit(t, store.HabitInput{Name: "Walk"})
	ts.do(t, http.MethodPost, "/logs", map[string]any{"habitId": h.ID, "date": "2026-02-01", "completed": true})

	w := ts.do(t, http.MethodGet, "/stats/progress", nil)
	if !strings.Contains(w.Body.String(), `"start":"2026-02-14"`) {
		t.Errorf("expected last-7-days default, got %s", w.Body.String())
	}

	if w := ts.do(t, http.MethodPut, "/range", model.DateRange{Start: "2026-02-01", End: "2026-02-01"}); w.Code != http.StatusOK {
		t.Fatalf("put range: %d %s", w.Code, w.Body.String())
	}
	w = ts.do(t, http.MethodGet, "/stats/progress", nil)
	if !strings.Contains(w.Body.String(), `"percent":100`) {
		t.Errorf("expected selected range to be used, got %s", w.Body.String())
	}

	ts.do(t, http.MethodDelete, "/range", nil)
	if ts.store.Snapshot().HabitLogs.SelectedRange != nil {
		t.Error("expected range to be cleared")
	}
}

func TestStreaks(t *testing.T) {
	ts := newTestServer(t)
	h := ts.createHabit(t, store.HabitInput{Name: "Walk"})
	for _, d := range []string{"2026-02-18", "2026-02-19", "2026-02-20"} {
		ts.do(t, http.MethodPost, "/logs", map[string]any{"habitId": h.ID, "date": d, "completed": true})
	}

	w := ts.do(t, http.MethodGet, "/stats/streaks", nil)
	body := decode[struct {
		Streaks struct {
			CurrentStreak int `json:"currentStreak"`
			MaxStreak     int `json:"maxStreak"`
		} `json:"streaks"`
		PerfectDays []string `json:"perfectDays"`
	}](t, w)
	if body.Streaks.CurrentStreak != 3 || body.Streaks.MaxStreak != 3 || len(body.PerfectDays) != 3 {
		t.Errorf("unexpected streaks %s", w.Body.String())
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	ts := newTestServer(t)
	h := ts.createHabit(t, store.HabitInput{Name: "Walk"})
	ts.do(t, http.MethodPost, "/logs", map[string]any{"habitId": h.ID, "date": "2026-02-20", "completed": true})

	exported := ts.do(t, http.MethodGet, "/export", nil)
	if exported.Code != http.StatusOK {
		t.Fatalf("export: %d", exported.Code)
	}

	other := newTestServer(t)
	w := other.do(t, http.MethodPost, "/import", exported.Body.String())
	if w.Code != http.StatusOK {
		t.Fatalf("import: %d %s", w.Code, w.Body.String())
	}
	st := other.store.Snapshot()
	if len(st.Nodes.Items) != 1 || len(st.HabitLogs.Items) != 1 || st.Nodes.Items[0].ID != h.ID {
		t.Errorf("unexpected imported state %+v", st)
	}

	before := other.store.Snapshot()
	if w := other.do(t, http.MethodPost, "/import", `{"habits":{"items":{}},"habitLogs":{"items":[]}}`); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if len(other.store.Snapshot().Nodes.Items) != len(before.Nodes.Items) {
		t.Error("failed import touched the store")
	}

	if _, ok := other.persister.Load(context.Background()); !ok {
		t.Error("import was not persisted")
	}
}

func TestSettings(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodPut, "/settings", map[string]string{"userName": "Sam"})
	if w.Code != http.StatusOK {
		t.Fatalf("put settings: %d", w.Code)
	}
	w = ts.do(t, http.MethodGet, "/settings", nil)
	if !strings.Contains(w.Body.String(), `"userName":"Sam"`) {
		t.Errorf("unexpected settings %s", w.Body.String())
	}
}
