package todo

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"todo/api/middleware"
	"todo/api/response"
	todoapp "todo/application/todo"
	domain "todo/domain/todo"
	"todo/infrastructure/persistence/memory"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type failingRepository struct {
	*memory.SnapshotRepository
	saveErr error
}

func (r *failingRepository) Save(ctx context.Context, s *domain.Snapshot) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	return r.SnapshotRepository.Save(ctx, s)
}

func newTestEngine(t *testing.T, repo domain.Repository) *gin.Engine {
	t.Helper()
	svc := todoapp.NewApplicationService(context.Background(), repo)
	engine := gin.New()
	engine.Use(middleware.RequestIDMiddleware())
	NewController(svc).RegisterRoutes(engine.Group(""))
	return engine
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func TestController_Scenario(t *testing.T) {
	h := newTestEngine(t, memory.NewSnapshotRepository())

	w := do(t, h, http.MethodGet, "/todos", "")
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("GET /todos = %d %s, want 200 []", w.Code, w.Body.String())
	}

	w = do(t, h, http.MethodPost, "/todos", `{"task":"buy milk"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST /todos = %d %s", w.Code, w.Body.String())
	}
	if got := decode[todoapp.TaskResponse](t, w); got.ID != 1 || got.Task != "buy milk" {
		t.Errorf("created = %+v", got)
	}

	w = do(t, h, http.MethodPost, "/todos", `{"task":"walk dog"}`)
	if got := decode[todoapp.TaskResponse](t, w); got.ID != 2 {
		t.Errorf("second id = %d, want 2", got.ID)
	}

	w = do(t, h, http.MethodGet, "/todos", "")
	list := decode[[]todoapp.TaskResponse](t, w)
	if len(list) != 2 || list[0].Task != "buy milk" || list[1].Task != "walk dog" {
		t.Errorf("list = %+v", list)
	}

	w = do(t, h, http.MethodPut, "/todos/1", `{"task":"buy oat milk"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("PUT /todos/1 = %d %s", w.Code, w.Body.String())
	}
	if got := decode[todoapp.TaskResponse](t, w); got.ID != 1 || got.Task != "buy oat milk" {
		t.Errorf("updated = %+v", got)
	}

	w = do(t, h, http.MethodDelete, "/todos/1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("DELETE /todos/1 = %d %s", w.Code, w.Body.String())
	}
	if got := decode[todoapp.DeleteTaskResponse](t, w); got.Message != "Task deleted" {
		t.Errorf("delete message = %q", got.Message)
	}

	w = do(t, h, http.MethodPut, "/todos/1", `{"task":"again"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("PUT deleted task = %d, want 404", w.Code)
	}
	if got := decode[response.Response](t, w); got.Error != "NOT_FOUND" || got.RequestID == "" {
		t.Errorf("error body = %+v", got)
	}
}

func TestController_UnknownOrMalformedIDIsNotFound(t *testing.T) {
	h := newTestEngine(t, memory.NewSnapshotRepository())
	do(t, h, http.MethodPost, "/todos", `{"task":"a"}`)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPut, "/todos/999999"},
		{http.MethodDelete, "/todos/999999"},
		{http.MethodPut, "/todos/not-a-number"},
		{http.MethodDelete, "/todos/not-a-number"},
		{http.MethodPut, "/todos/0"},
		{http.MethodDelete, "/todos/-1"},
		{http.MethodDelete, "/todos/1.5"},
		{http.MethodDelete, "/todos/99999999999999999999"},
		{http.MethodPut, "/todos/+1"},
		{http.MethodPut, "/todos/01"},
		{http.MethodDelete, "/todos/+1"},
		{http.MethodDelete, "/todos/001"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := do(t, h, tt.method, tt.path, `{"task":"x"}`)
			if w.Code != http.StatusNotFound {
				t.Errorf("status = %d, want 404 (%s)", w.Code, w.Body.String())
			}
		})
	}
}

func TestController_InvalidBodyIsBadRequest(t *testing.T) {
	repo := memory.NewSnapshotRepository()
	h := newTestEngine(t, repo)
	do(t, h, http.MethodPost, "/todos", `{"task":"a"}`)

	bodies := map[string]string{
		"missing":  `{}`,
		"null":     `{"task":null}`,
		"number":   `{"task":42}`,
		"array":    `{"task":["a"]}`,
		"not json": `task=a`,
		"empty":    ``,
		"blank":    `{"task":"   "}`,
	}
	for name, body := range bodies {
		t.Run("create "+name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/todos", body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (%s)", w.Code, w.Body.String())
			}
		})
		t.Run("update "+name, func(t *testing.T) {
			w := do(t, h, http.MethodPut, "/todos/1", body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (%s)", w.Code, w.Body.String())
			}
		})
	}

	w := do(t, h, http.MethodGet, "/todos", "")
	list := decode[[]todoapp.TaskResponse](t, w)
	if len(list) != 1 || list[0].Task != "a" {
		t.Errorf("store changed by rejected requests: %+v", list)
	}
}

func TestController_PersistFailureIsInternalError(t *testing.T) {
	repo := &failingRepository{SnapshotRepository: memory.NewSnapshotRepository()}
	h := newTestEngine(t, repo)
	do(t, h, http.MethodPost, "/todos", `{"task":"a"}`)

	repo.saveErr = errors.New("read-only file system")
	w := do(t, h, http.MethodPost, "/todos", `{"task":"b"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if got := decode[response.Response](t, w); got.Error != "PERSIST_FAILED" {
		t.Errorf("error code = %q", got.Error)
	}

	repo.saveErr = nil
	list := decode[[]todoapp.TaskResponse](t, do(t, h, http.MethodGet, "/todos", ""))
	if len(list) != 1 {
		t.Errorf("list after failed create = %+v", list)
	}
}

func TestController_CreateWithExhaustedIDsIsInternalError(t *testing.T) {
	repo := memory.NewSnapshotRepository()
	_ = repo.Save(context.Background(), &domain.Snapshot{Todos: []domain.Record{}, LastID: math.MaxInt64})
	h := newTestEngine(t, repo)

	w := do(t, h, http.MethodPost, "/todos", `{"task":"x"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 (%s)", w.Code, w.Body.String())
	}
	if got := decode[response.Response](t, w); got.Error != "INTERNAL_ERROR" {
		t.Errorf("error code = %q", got.Error)
	}

	list := decode[[]todoapp.TaskResponse](t, do(t, h, http.MethodGet, "/todos", ""))
	if len(list) != 0 {
		t.Errorf("list after failed create = %+v", list)
	}
}

type corruptRepository struct{ *memory.SnapshotRepository }

func (corruptRepository) Load(context.Context) (*domain.Snapshot, error) {
	return nil, errors.New("unexpected end of JSON input")
}

func TestController_DegradedStoreIsUnavailable(t *testing.T) {
	h := newTestEngine(t, corruptRepository{memory.NewSnapshotRepository()})

	for _, req := range []struct{ method, path, body string }{
		{http.MethodGet, "/todos", ""},
		{http.MethodPost, "/todos", `{"task":"a"}`},
		{http.MethodPut, "/todos/1", `{"task":"a"}`},
		{http.MethodDelete, "/todos/1", ""},
	} {
		w := do(t, h, req.method, req.path, req.body)
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("%s %s = %d, want 503", req.method, req.path, w.Code)
			continue
		}
		if got := decode[response.Response](t, w); got.Error != "STORAGE_CORRUPT" {
			t.Errorf("%s %s error code = %q", req.method, req.path, got.Error)
		}
	}
}
