package stories_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	uierrors "github.com/blackhatcommit/commithub/internal/app/features/errors"
	"github.com/blackhatcommit/commithub/internal/app/features/stories"
	storystore "github.com/blackhatcommit/commithub/internal/app/store/stories"
	"github.com/blackhatcommit/commithub/internal/app/system/auth"
	"github.com/blackhatcommit/commithub/internal/domain/models"
	"github.com/blackhatcommit/commithub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*stories.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	// Storage is nil: tests only exercise paths that never reach it.
	return stories.NewHandler(db, uierrors.NewErrorLogger(logger), nil, logger), db
}

func sessionFor(u *models.User) *auth.SessionUser {
	return &auth.SessionUser{
		ID:          u.ID.Hex(),
		Handle:      u.Handle,
		IsAdmin:     u.IsAdmin,
		Permissions: u.Permissions,
	}
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestHandleDeleteStory_AuthorMayDelete(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures := testutil.NewFixtures(t, db)
	alice := fixtures.CreateUser(ctx, "alice", "alice@example.com")
	story := fixtures.CreateStory(ctx, alice, "checkpoint", time.Now().UTC())

	req := httptest.NewRequest("POST", "/stories/"+story.ID.Hex()+"/delete", nil)
	req = withURLParam(req, "storyID", story.ID.Hex())
	req = auth.WithTestUser(req, sessionFor(alice))
	rec := httptest.NewRecorder()

	handler.HandleDeleteStory(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if _, err := storystore.New(db).GetByID(ctx, story.ID); err == nil {
		t.Error("story should be gone after author delete")
	}
}

func TestHandleDeleteStory_StrangerDenied(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures := testutil.NewFixtures(t, db)
	alice := fixtures.CreateUser(ctx, "alice", "alice@example.com")
	mallory := fixtures.CreateUser(ctx, "mallory", "mallory@example.com")
	story := fixtures.CreateStory(ctx, alice, "checkpoint", time.Now().UTC())

	req := httptest.NewRequest("POST", "/stories/"+story.ID.Hex()+"/delete", nil)
	req = withURLParam(req, "storyID", story.ID.Hex())
	req = auth.WithTestUser(req, sessionFor(mallory))
	rec := httptest.NewRecorder()

	func() {
		defer func() { _ = recover() }()
		handler.HandleDeleteStory(rec, req)
	}()

	if _, err := storystore.New(db).GetByID(ctx, story.ID); err != nil {
		t.Errorf("story should survive a stranger's delete: %v", err)
	}
}

func TestServeStories_ExcludesExpired(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures := testutil.NewFixtures(t, db)
	alice := fixtures.CreateUser(ctx, "alice", "alice@example.com")
	fixtures.CreateStory(ctx, alice, "stale", time.Now().UTC().Add(-models.StoryTTL-time.Minute))

	req := httptest.NewRequest("GET", "/stories", nil)
	req = auth.WithTestUser(req, sessionFor(alice))
	rec := httptest.NewRecorder()

	// Render needs booted templates; the store query is what matters here.
	func() {
		defer func() { _ = recover() }()
		handler.ServeStories(rec, req)
	}()

	active, err := storystore.New(db).ListActive(ctx, time.Now())
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("expired story leaked into active listing: %d", len(active))
	}
}
