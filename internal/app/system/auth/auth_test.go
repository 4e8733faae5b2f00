package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blackhatcommit/commithub/internal/app/system/auth"
	"go.uber.org/zap"
)

func zapNop() *zap.Logger { return zap.NewNop() }

func TestCurrentUser_Empty(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if _, ok := auth.CurrentUser(req); ok {
		t.Error("expected no user on a bare request")
	}
}

func TestWithTestUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "abc", Handle: "ghost", IsAdmin: true})

	u, ok := auth.CurrentUser(req)
	if !ok {
		t.Fatal("expected user in context")
	}
	if u.Handle != "ghost" || !u.IsAdmin {
		t.Errorf("unexpected user: %+v", u)
	}
}

func TestRequireSignedIn_RedirectsHTML(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not run")
	})
	req := httptest.NewRequest("GET", "/planner", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()

	auth.RequireSignedIn(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?return=%2Fplanner" {
		t.Errorf("location: got %q", loc)
	}
}

func TestRequireSignedIn_API401(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not run")
	})
	req := httptest.NewRequest("GET", "/planner", nil)
	rec := httptest.NewRecorder()

	auth.RequireSignedIn(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireAdmin(t *testing.T) {
	ran := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { ran = true })

	req := httptest.NewRequest("GET", "/admin/users", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "x", Handle: "op"})
	rec := httptest.NewRecorder()
	auth.RequireAdmin(next).ServeHTTP(rec, req)
	if ran {
		t.Error("non-admin should not reach handler")
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusForbidden)
	}

	req = httptest.NewRequest("GET", "/admin/users", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "x", Handle: "op", IsAdmin: true})
	rec = httptest.NewRecorder()
	auth.RequireAdmin(next).ServeHTTP(rec, req)
	if !ran {
		t.Error("admin should reach handler")
	}
}

func TestSessionManager_SignInLoad(t *testing.T) {
	mgr, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "bhc-session", "", false, zapNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}

	// Sign in and capture the cookie.
	signinReq := httptest.NewRequest("POST", "/login", nil)
	signinRec := httptest.NewRecorder()
	err = mgr.SignIn(signinRec, signinReq, &auth.SessionUser{ID: "42", Handle: "cipher", Email: "c@x.test"})
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	cookies := signinRec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	// Replay the cookie through the middleware.
	var got *auth.SessionUser
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	})
	req := httptest.NewRequest("GET", "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	mgr.LoadSessionUser(next).ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatal("expected user loaded from session")
	}
	if got.ID != "42" || got.Handle != "cipher" {
		t.Errorf("unexpected user: %+v", got)
	}
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	if _, err := auth.NewSessionManager("", "n", "", false, zapNop()); err == nil {
		t.Error("expected error for empty session key")
	}
}
