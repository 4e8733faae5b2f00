package planner_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	uierrors "github.com/blackhatcommit/commithub/internal/app/features/errors"
	"github.com/blackhatcommit/commithub/internal/app/features/planner"
	taskstore "github.com/blackhatcommit/commithub/internal/app/store/tasks"
	"github.com/blackhatcommit/commithub/internal/app/system/auth"
	"github.com/blackhatcommit/commithub/internal/domain/models"
	"github.com/blackhatcommit/commithub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*planner.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	return planner.NewHandler(db, uierrors.NewErrorLogger(logger), logger), db
}

func sessionFor(u *models.User) *auth.SessionUser {
	return &auth.SessionUser{
		ID:          u.ID.Hex(),
		Handle:      u.Handle,
		Email:       u.Email,
		IsAdmin:     u.IsAdmin,
		Permissions: u.Permissions,
	}
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func seedTask(t *testing.T, db *mongo.Database, creator *models.User, text string) *models.Task {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	task := &models.Task{Text: text, Priority: models.PriorityMedium, CreatorID: creator.ID}
	if err := taskstore.New(db).Create(ctx, task); err != nil {
		t.Fatalf("seed task failed: %v", err)
	}
	return task
}

func TestHandleCreateTask(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures := testutil.NewFixtures(t, db)
	alice := fixtures.CreateUser(ctx, "alice", "alice@example.com")

	req := postForm("/planner", url.Values{
		"text":     {"secure the uplink"},
		"priority": {models.PriorityHigh},
	})
	req = auth.WithTestUser(req, sessionFor(alice))
	rec := httptest.NewRecorder()

	handler.HandleCreateTask(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected %d, got %d", http.StatusSeeOther, rec.Code)
	}

	tasks, err := taskstore.New(db).List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Text != "secure the uplink" || tasks[0].Priority != models.PriorityHigh {
		t.Errorf("task not created as expected: %+v", tasks)
	}
}

func TestHandleCreateTask_RejectsUnknownPriority(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures := testutil.NewFixtures(t, db)
	alice := fixtures.CreateUser(ctx, "alice", "alice@example.com")

	req := postForm("/planner", url.Values{
		"text":     {"bad"},
		"priority": {"Urgent"},
	})
	req = auth.WithTestUser(req, sessionFor(alice))
	rec := httptest.NewRecorder()

	func() {
		defer func() { _ = recover() }()
		handler.HandleCreateTask(rec, req)
	}()

	count, err := db.Collection("tasks").CountDocuments(ctx, map[string]any{})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("invalid priority must not create a task, found %d", count)
	}
}

func TestHandleConfirmComplete_CompletesOnYes(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures := testutil.NewFixtures(t, db)
	alice := fixtures.CreateUser(ctx, "alice", "alice@example.com")
	task := seedTask(t, db, alice, "cut the feed")

	req := postForm("/planner/"+task.ID.Hex()+"/confirm", url.Values{"confirm": {"  YES  "}})
	req = withURLParam(req, "taskID", task.ID.Hex())
	req = auth.WithTestUser(req, sessionFor(alice))
	rec := httptest.NewRecorder()

	handler.HandleConfirmComplete(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected %d, got %d", http.StatusSeeOther, rec.Code)
	}

	got, err := taskstore.New(db).GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !got.Completed {
		t.Error("task not completed after confirmation")
	}
	if got.CompletedByHandle != "alice" {
		t.Errorf("completer not recorded: %q", got.CompletedByHandle)
	}
}

func TestHandleConfirmComplete_WrongWordLeavesTaskOpen(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures := testutil.NewFixtures(t, db)
	alice := fixtures.CreateUser(ctx, "alice", "alice@example.com")
	task := seedTask(t, db, alice, "cut the feed")

	req := postForm("/planner/"+task.ID.Hex()+"/confirm", url.Values{"confirm": {"yep"}})
	req = withURLParam(req, "taskID", task.ID.Hex())
	req = auth.WithTestUser(req, sessionFor(alice))
	rec := httptest.NewRecorder()

	// Mismatch re-renders the planner page, which needs booted templates.
	func() {
		defer func() { _ = recover() }()
		handler.HandleConfirmComplete(rec, req)
	}()

	got, err := taskstore.New(db).GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Completed {
		t.Error("wrong confirmation word must not complete the task")
	}
}

func TestHandleDeleteTask_NonCreatorDenied(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures := testutil.NewFixtures(t, db)
	alice := fixtures.CreateUser(ctx, "alice", "alice@example.com")
	mallory := fixtures.CreateUser(ctx, "mallory", "mallory@example.com")
	task := seedTask(t, db, alice, "cut the feed")

	req := postForm("/planner/"+task.ID.Hex()+"/delete", nil)
	req = withURLParam(req, "taskID", task.ID.Hex())
	req = auth.WithTestUser(req, sessionFor(mallory))
	rec := httptest.NewRecorder()

	func() {
		defer func() { _ = recover() }()
		handler.HandleDeleteTask(rec, req)
	}()

	if _, err := taskstore.New(db).GetByID(ctx, task.ID); err != nil {
		t.Errorf("task should survive a non-creator delete: %v", err)
	}
}

func TestHandleDeleteTask_AdminMayDelete(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures := testutil.NewFixtures(t, db)
	alice := fixtures.CreateUser(ctx, "alice", "alice@example.com")
	admin := fixtures.CreateAdmin(ctx, "boss", "boss@example.com")
	task := seedTask(t, db, alice, "cut the feed")

	req := postForm("/planner/"+task.ID.Hex()+"/delete", nil)
	req = withURLParam(req, "taskID", task.ID.Hex())
	req = auth.WithTestUser(req, sessionFor(admin))
	rec := httptest.NewRecorder()

	handler.HandleDeleteTask(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if _, err := taskstore.New(db).GetByID(ctx, task.ID); err == nil {
		t.Error("admin delete should remove the task")
	}
}
