package login_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	uierrors "github.com/blackhatcommit/commithub/internal/app/features/errors"
	"github.com/blackhatcommit/commithub/internal/app/features/login"
	userstore "github.com/blackhatcommit/commithub/internal/app/store/users"
	"github.com/blackhatcommit/commithub/internal/app/system/auth"
	"github.com/blackhatcommit/commithub/internal/app/system/identity"
	"github.com/blackhatcommit/commithub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestHandler(t *testing.T) (*login.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}

	users := userstore.New(db)
	resolver := identity.New(users, "", logger)
	errLog := uierrors.NewErrorLogger(logger)

	return login.NewHandler(db, sessionMgr, errLog, resolver, nil, false, logger), db
}

func seedPasswordUser(t *testing.T, db *mongo.Database, email, password string) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures := testutil.NewFixtures(t, db)
	u := fixtures.CreateUser(ctx, "ghost", email)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("bcrypt failed: %v", err)
	}
	if err := userstore.New(db).SetPasswordHash(ctx, u.ID, string(hash)); err != nil {
		t.Fatalf("SetPasswordHash failed: %v", err)
	}
}

func postLogin(handler *login.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	// Failure paths re-render the form, which may panic without booted templates.
	func() {
		defer func() { _ = recover() }()
		handler.HandleLoginPost(rec, req)
	}()
	return rec
}

func TestHandleLoginPost_Success(t *testing.T) {
	handler, db := newTestHandler(t)
	seedPasswordUser(t, db, "ghost@example.com", "hunter2hunter2")

	rec := postLogin(handler, url.Values{
		"email":    {"ghost@example.com"},
		"password": {"hunter2hunter2"},
	})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("Location: got %q, want /dashboard", loc)
	}

	cookies := rec.Result().Cookies()
	found := false
	for _, c := range cookies {
		if c.Name == "test-session" && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Error("session cookie not set on successful login")
	}
}

func TestHandleLoginPost_EmailCaseInsensitive(t *testing.T) {
	handler, db := newTestHandler(t)
	seedPasswordUser(t, db, "ghost@example.com", "hunter2hunter2")

	rec := postLogin(handler, url.Values{
		"email":    {"  GHOST@Example.COM "},
		"password": {"hunter2hunter2"},
	})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected %d, got %d", http.StatusSeeOther, rec.Code)
	}
}

func TestHandleLoginPost_WrongPassword(t *testing.T) {
	handler, db := newTestHandler(t)
	seedPasswordUser(t, db, "ghost@example.com", "hunter2hunter2")

	rec := postLogin(handler, url.Values{
		"email":    {"ghost@example.com"},
		"password": {"wrong"},
	})

	if rec.Code == http.StatusSeeOther {
		t.Fatal("wrong password must not redirect to the dashboard")
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("wrong password must not set a session cookie")
	}
}

func TestHandleLoginPost_UnknownUser(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := postLogin(handler, url.Values{
		"email":    {"nobody@example.com"},
		"password": {"whatever"},
	})

	if rec.Code == http.StatusSeeOther {
		t.Fatal("unknown user must not redirect to the dashboard")
	}
}

func TestServeLogin_SignedInRedirects(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest("GET", "/login", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "abc", Handle: "ghost"})
	rec := httptest.NewRecorder()

	handler.ServeLogin(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("Location: got %q, want /dashboard", loc)
	}
}
