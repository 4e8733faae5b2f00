package calls_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/blackhatcommit/commithub/internal/app/features/calls"
	uierrors "github.com/blackhatcommit/commithub/internal/app/features/errors"
	"github.com/blackhatcommit/commithub/internal/app/system/auth"
	"github.com/blackhatcommit/commithub/internal/domain/models"
	"github.com/blackhatcommit/commithub/internal/testutil"
	"go.uber.org/zap"
)

func sessionFor(u *models.User) *auth.SessionUser {
	return &auth.SessionUser{
		ID:          u.ID.Hex(),
		Handle:      u.Handle,
		IsAdmin:     u.IsAdmin,
		Permissions: u.Permissions,
	}
}

func TestHandleSignal_AcceptsIntent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	handler := calls.NewHandler(db, uierrors.NewErrorLogger(logger), logger)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures := testutil.NewFixtures(t, db)
	alice := fixtures.CreateUser(ctx, "alice", "alice@example.com")
	bob := fixtures.CreateUser(ctx, "bob", "bob@example.com")

	form := url.Values{"target": {bob.ID.Hex()}, "kind": {"video"}}
	req := httptest.NewRequest("POST", "/calls/signal", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = auth.WithTestUser(req, sessionFor(alice))
	rec := httptest.NewRecorder()

	handler.HandleSignal(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected %d, got %d", http.StatusAccepted, rec.Code)
	}
}

func TestHandleSignal_RequiresAuth(t *testing.T) {
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	handler := calls.NewHandler(db, uierrors.NewErrorLogger(logger), logger)

	req := httptest.NewRequest("POST", "/calls/signal", nil)
	rec := httptest.NewRecorder()

	handler.HandleSignal(rec, req)

	if rec.Code == http.StatusAccepted {
		t.Fatal("unauthenticated signal should not be accepted")
	}
}
