package poststore_test

import (
	"errors"
	"strings"
	"testing"

	poststore "github.com/blackhatcommit/commithub/internal/app/store/posts"
	"github.com/blackhatcommit/commithub/internal/domain/models"
	"github.com/blackhatcommit/commithub/internal/testutil"
)

func TestCreate_SanitizesBody(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fixtures.CreateUser(ctx, "ghost", "ghost@example.com")

	p := &models.Post{
		Body:         "<p>shipped the thing</p><script>alert('x')</script>",
		AuthorID:     author.ID,
		AuthorHandle: author.Handle,
	}
	if err := store.Create(ctx, p); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if strings.Contains(p.Body, "script") {
		t.Errorf("body not sanitized: %q", p.Body)
	}
	if !strings.Contains(p.Body, "shipped the thing") {
		t.Errorf("safe content lost: %q", p.Body)
	}
}

func TestCreate_RejectsEmptyPost(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// A script-only body sanitizes to nothing; with no attachment the
	// post is empty.
	p := &models.Post{Body: "<script>alert('x')</script>"}
	if err := store.Create(ctx, p); err == nil {
		t.Fatal("expected error for empty post")
	}
}

func TestCreate_AttachmentOnlyAllowed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fixtures.CreateUser(ctx, "ghost", "ghost@example.com")

	p := &models.Post{
		AttachmentURL:  "https://cdn.example.com/shot.png",
		AttachmentName: "shot.png",
		AttachmentType: "image",
		AuthorID:       author.ID,
		AuthorHandle:   author.Handle,
	}
	if err := store.Create(ctx, p); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
}

func TestDelete_AuthorOrAdminOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fixtures.CreateUser(ctx, "ghost", "ghost@example.com")
	stranger := fixtures.CreateUser(ctx, "wraith", "wraith@example.com")

	p := &models.Post{Body: "mine", AuthorID: author.ID, AuthorHandle: author.Handle}
	if err := store.Create(ctx, p); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.Delete(ctx, p.ID, stranger.ID, false); !errors.Is(err, poststore.ErrNotFound) {
		t.Fatalf("stranger delete: got %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, p.ID, author.ID, false); err != nil {
		t.Fatalf("author delete failed: %v", err)
	}
}

func TestList_NewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := fixtures.CreateUser(ctx, "ghost", "ghost@example.com")
	for _, body := range []string{"first", "second"} {
		p := &models.Post{Body: body, AuthorID: author.ID, AuthorHandle: author.Handle}
		if err := store.Create(ctx, p); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	posts, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(posts) != 2 || !strings.Contains(posts[0].Body, "second") {
		t.Errorf("unexpected order: %v", posts)
	}
}
