package messages_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	uierrors "github.com/blackhatcommit/commithub/internal/app/features/errors"
	"github.com/blackhatcommit/commithub/internal/app/features/messages"
	channelstore "github.com/blackhatcommit/commithub/internal/app/store/channels"
	messagestore "github.com/blackhatcommit/commithub/internal/app/store/messages"
	"github.com/blackhatcommit/commithub/internal/app/system/auth"
	"github.com/blackhatcommit/commithub/internal/domain/models"
	"github.com/blackhatcommit/commithub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*messages.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	return messages.NewHandler(db, uierrors.NewErrorLogger(logger), logger), db
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

func TestServeOpenDM_CreatesCanonicalChannel(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures := testutil.NewFixtures(t, db)
	alice := fixtures.CreateUser(ctx, "alice", "alice@example.com")
	bob := fixtures.CreateUser(ctx, "bob", "bob@example.com")

	req := httptest.NewRequest("GET", "/messages/dm/"+bob.ID.Hex(), nil)
	req = withURLParam(req, "userID", bob.ID.Hex())
	req = auth.WithTestUser(req, sessionFor(alice))
	rec := httptest.NewRecorder()

	handler.ServeOpenDM(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected %d, got %d: %s", http.StatusSeeOther, rec.Code, rec.Body.String())
	}

	wantID, err := models.CanonicalDMID(alice.ID.Hex(), bob.ID.Hex())
	if err != nil {
		t.Fatalf("CanonicalDMID failed: %v", err)
	}
	if loc := rec.Header().Get("Location"); loc != "/messages/"+wantID {
		t.Errorf("Location: got %q, want %q", loc, "/messages/"+wantID)
	}
}

func TestServeOpenDM_SelfRejected(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures := testutil.NewFixtures(t, db)
	alice := fixtures.CreateUser(ctx, "alice", "alice@example.com")

	req := httptest.NewRequest("GET", "/messages/dm/"+alice.ID.Hex(), nil)
	req = withURLParam(req, "userID", alice.ID.Hex())
	req = auth.WithTestUser(req, sessionFor(alice))
	rec := httptest.NewRecorder()

	// Forbidden page render may panic without booted templates.
	func() {
		defer func() { _ = recover() }()
		handler.ServeOpenDM(rec, req)
	}()

	if rec.Code == http.StatusSeeOther {
		t.Fatal("self-DM must not resolve to a channel")
	}

	count, err := db.Collection("channels").CountDocuments(ctx, map[string]any{})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("self-DM must not create a channel document, found %d", count)
	}
}

func TestHandleSendMessage_AppendsWithSenderSnapshot(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures := testutil.NewFixtures(t, db)
	alice := fixtures.CreateUser(ctx, "alice", "alice@example.com")
	ch := fixtures.CreateGroupChannel(ctx, "black_ops", "Black Ops")

	form := url.Values{"text": {"rendezvous at midnight"}}
	req := httptest.NewRequest("POST", "/messages/"+ch.ID, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = withURLParam(req, "channelID", ch.ID)
	req = auth.WithTestUser(req, sessionFor(alice))
	rec := httptest.NewRecorder()

	handler.HandleSendMessage(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected %d, got %d", http.StatusSeeOther, rec.Code)
	}

	msgs, err := messagestore.New(db).ListByChannel(ctx, ch.ID, 10)
	if err != nil {
		t.Fatalf("ListByChannel failed: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].SenderName != "alice" || msgs[0].Text != "rendezvous at midnight" {
		t.Errorf("unexpected message: %+v", msgs[0])
	}
}

func TestHandleSendMessage_PermissionDenied(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures := testutil.NewFixtures(t, db)
	alice := fixtures.CreateUser(ctx, "alice", "alice@example.com")
	ch := fixtures.CreateGroupChannel(ctx, "black_ops", "Black Ops")

	sess := sessionFor(alice)
	perms := *alice.Permissions
	perms.CanSendMessage = false
	sess.Permissions = &perms

	form := url.Values{"text": {"blocked"}}
	req := httptest.NewRequest("POST", "/messages/"+ch.ID, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = withURLParam(req, "channelID", ch.ID)
	req = auth.WithTestUser(req, sess)
	rec := httptest.NewRecorder()

	func() {
		defer func() { _ = recover() }()
		handler.HandleSendMessage(rec, req)
	}()

	count, err := db.Collection("messages").CountDocuments(ctx, map[string]any{})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("denied sender must not append messages, found %d", count)
	}
}

func TestHandleSendMessage_OutsiderCannotWriteToDM(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures := testutil.NewFixtures(t, db)
	alice := fixtures.CreateUser(ctx, "alice", "alice@example.com")
	bob := fixtures.CreateUser(ctx, "bob", "bob@example.com")
	mallory := fixtures.CreateUser(ctx, "mallory", "mallory@example.com")

	ch, err := channelstore.New(db).ResolveDM(ctx,
		channelstore.Participant{ID: alice.ID.Hex(), Handle: alice.Handle},
		channelstore.Participant{ID: bob.ID.Hex(), Handle: bob.Handle},
	)
	if err != nil {
		t.Fatalf("ResolveDM failed: %v", err)
	}

	form := url.Values{"text": {"let me in"}}
	req := httptest.NewRequest("POST", "/messages/"+ch.ID, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = withURLParam(req, "channelID", ch.ID)
	req = auth.WithTestUser(req, sessionFor(mallory))
	rec := httptest.NewRecorder()

	func() {
		defer func() { _ = recover() }()
		handler.HandleSendMessage(rec, req)
	}()

	if rec.Code == http.StatusSeeOther {
		t.Error("a non-participant must not be redirected as if the send succeeded")
	}

	msgs, err := messagestore.New(db).ListByChannel(ctx, ch.ID, 10)
	if err != nil {
		t.Fatalf("ListByChannel failed: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("non-participant must not append into a private conversation, found %d messages", len(msgs))
	}
}

func TestHandleSendMessage_ParticipantCanWriteToDM(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures := testutil.NewFixtures(t, db)
	alice := fixtures.CreateUser(ctx, "alice", "alice@example.com")
	bob := fixtures.CreateUser(ctx, "bob", "bob@example.com")

	ch, err := channelstore.New(db).ResolveDM(ctx,
		channelstore.Participant{ID: alice.ID.Hex(), Handle: alice.Handle},
		channelstore.Participant{ID: bob.ID.Hex(), Handle: bob.Handle},
	)
	if err != nil {
		t.Fatalf("ResolveDM failed: %v", err)
	}

	form := url.Values{"text": {"status report"}}
	req := httptest.NewRequest("POST", "/messages/"+ch.ID, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = withURLParam(req, "channelID", ch.ID)
	req = auth.WithTestUser(req, sessionFor(bob))
	rec := httptest.NewRecorder()

	handler.HandleSendMessage(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected %d, got %d", http.StatusSeeOther, rec.Code)
	}
	msgs, err := messagestore.New(db).ListByChannel(ctx, ch.ID, 10)
	if err != nil {
		t.Fatalf("ListByChannel failed: %v", err)
	}
	if len(msgs) != 1 || msgs[0].SenderName != "bob" {
		t.Fatalf("expected one message from bob, got %+v", msgs)
	}
}

func TestHandleSendMessage_UnknownChannel(t *testing.T) {
	handler, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures := testutil.NewFixtures(t, db)
	alice := fixtures.CreateUser(ctx, "alice", "alice@example.com")

	form := url.Values{"text": {"lost"}}
	req := httptest.NewRequest("POST", "/messages/nowhere", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = withURLParam(req, "channelID", "nowhere")
	req = auth.WithTestUser(req, sessionFor(alice))
	rec := httptest.NewRecorder()

	func() {
		defer func() { _ = recover() }()
		handler.HandleSendMessage(rec, req)
	}()

	count, err := db.Collection("messages").CountDocuments(ctx, map[string]any{})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("no message should be written for an unknown channel, found %d", count)
	}
}

// withURLParam attaches a chi route parameter to the request context.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
