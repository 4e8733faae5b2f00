package reconcile_test

import (
	"reflect"
	"testing"

	"github.com/blackhatcommit/commithub/internal/app/system/reconcile"
	"github.com/blackhatcommit/commithub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func user(id [12]byte, handle, photo string) models.User {
	return models.User{ID: primitive.ObjectID(id), Handle: handle, PhotoURL: photo}
}

var (
	viewer = primitive.ObjectID{1}
	alice  = user([12]byte{2}, "alice", "")
	zed    = user([12]byte{3}, "Zed", "")
)

func channels() []models.Channel {
	return []models.Channel{
		{ID: "ops", Name: "Ops"},
		{ID: "general", Name: "general"},
		{ID: "dm_x_y", Name: "stray dm", IsDM: true},
	}
}

func names(entries []reconcile.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestList_GroupsFirstThenDMs_CaseInsensitiveOrder(t *testing.T) {
	s := reconcile.NewState()
	s.ApplyChannels(channels())
	s.ApplyUsers(viewer.Hex(), []models.User{zed, alice, user([12]byte{1}, "me", "")})

	got := names(s.List())
	want := []string{"general", "Ops", "alice", "Zed"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("list order = %v, want %v", got, want)
	}
}

func TestList_ViewerExcludedFromDMs(t *testing.T) {
	s := reconcile.NewState()
	s.ApplyUsers(viewer.Hex(), []models.User{user([12]byte{1}, "me", "")})

	if len(s.List()) != 0 {
		t.Error("viewer must not appear as a DM entry")
	}
}

func TestList_DMChannelDocsIgnoredInChannelSnapshot(t *testing.T) {
	s := reconcile.NewState()
	s.ApplyChannels(channels())

	for _, e := range s.List() {
		if e.IsDM {
			t.Errorf("DM doc %q leaked from the channel snapshot", e.ChannelID)
		}
	}
}

func TestMerge_CommutativeAcrossSnapshotOrder(t *testing.T) {
	us := []models.User{alice, zed}

	a := reconcile.NewState()
	a.ApplyChannels(channels())
	a.ApplyUsers(viewer.Hex(), us)

	b := reconcile.NewState()
	b.ApplyUsers(viewer.Hex(), us)
	b.ApplyChannels(channels())

	if !reflect.DeepEqual(a.List(), b.List()) {
		t.Errorf("snapshot order changed the result:\n%v\nvs\n%v", a.List(), b.List())
	}
}

func TestMerge_ReapplyIsIdempotent(t *testing.T) {
	s := reconcile.NewState()
	s.ApplyChannels(channels())
	s.ApplyUsers(viewer.Hex(), []models.User{alice, zed})
	first := s.List()

	s.ApplyChannels(channels())
	s.ApplyUsers(viewer.Hex(), []models.User{alice, zed})

	if !reflect.DeepEqual(s.List(), first) {
		t.Error("reapplying identical snapshots changed the list")
	}
}

func TestDMEntry_UsesCanonicalChannelID(t *testing.T) {
	s := reconcile.NewState()
	s.ApplyUsers(viewer.Hex(), []models.User{alice})

	want, err := models.CanonicalDMID(viewer.Hex(), alice.ID.Hex())
	if err != nil {
		t.Fatal(err)
	}
	got := s.List()
	if len(got) != 1 || got[0].ChannelID != want {
		t.Errorf("DM entry channel ID = %v, want %s", got, want)
	}
}

func TestSelection_PatchedInPlaceOnCounterpartChange(t *testing.T) {
	s := reconcile.NewState()
	s.ApplyUsers(viewer.Hex(), []models.User{alice})

	id, _ := models.CanonicalDMID(viewer.Hex(), alice.ID.Hex())
	if !s.Select(id) {
		t.Fatal("select failed")
	}
	sel := s.Selected()

	renamed := alice
	renamed.Handle = "wraith"
	renamed.PhotoURL = "https://cdn.example.com/wraith.png"
	s.ApplyUsers(viewer.Hex(), []models.User{renamed})

	if s.Selected() != sel {
		t.Fatal("selection must be patched, not replaced")
	}
	if sel.Name != "wraith" || sel.PhotoURL != "https://cdn.example.com/wraith.png" {
		t.Errorf("selection not patched: %+v", *sel)
	}
}

func TestSelection_UnknownChannelRejected(t *testing.T) {
	s := reconcile.NewState()
	if s.Select("nope") {
		t.Error("selecting an unlisted channel must fail")
	}
	if s.Selected() != nil {
		t.Error("failed select must not set a selection")
	}
}

func TestCanonicalDMID_OrderIndependent(t *testing.T) {
	ab, err := models.CanonicalDMID("aaa", "bbb")
	if err != nil {
		t.Fatal(err)
	}
	ba, err := models.CanonicalDMID("bbb", "aaa")
	if err != nil {
		t.Fatal(err)
	}
	if ab != ba {
		t.Errorf("resolution is order dependent: %q vs %q", ab, ba)
	}
	if ab != "dm_aaa_bbb" {
		t.Errorf("unexpected canonical form %q", ab)
	}
}

func TestCanonicalDMID_SelfRejected(t *testing.T) {
	if _, err := models.CanonicalDMID("aaa", "aaa"); err != models.ErrSelfDM {
		t.Errorf("expected ErrSelfDM, got %v", err)
	}
}
