// internal/app/system/reconcile/reconcile.go

// Package reconcile maintains the ordered conversation list shown in the
// messages sidebar. Two sources feed it independently: the group-channel
// list and the user directory (from which DM entries are synthesized).
// Each source's update is a partial snapshot merged with the other
// source's last-known snapshot; applying updates in either order yields
// the same final list.
package reconcile

import (
	"sort"
	"strings"

	"github.com/blackhatcommit/commithub/internal/domain/models"
)

// Entry is one row of the conversation list.
type Entry struct {
	ChannelID     string
	Name          string
	IsDM          bool
	CounterpartID string // DM only
	PhotoURL      string // DM only, counterpart's photo
}

// State holds the last-known snapshot of each source plus the current
// selection.
type State struct {
	groups   []Entry
	dms      []Entry
	selected *Entry
}

// NewState returns an empty reconciler state.
func NewState() *State {
	return &State{}
}

// ApplyChannels replaces the group-channel snapshot. DM channel documents
// in the input are ignored; DM rows come from the user directory so a
// conversation is listed even before its channel document exists.
func (s *State) ApplyChannels(chs []models.Channel) {
	groups := make([]Entry, 0, len(chs))
	for _, ch := range chs {
		if ch.IsDM {
			continue
		}
		groups = append(groups, Entry{ChannelID: ch.ID, Name: ch.Name})
	}
	s.groups = groups
}

// ApplyUsers replaces the DM snapshot, synthesizing one entry per user
// other than the viewer. If the current selection is a DM whose
// counterpart's handle or photo changed, the selection is patched in
// place so an open conversation view is not interrupted.
func (s *State) ApplyUsers(viewerID string, us []models.User) {
	dms := make([]Entry, 0, len(us))
	for _, u := range us {
		uid := u.ID.Hex()
		if uid == viewerID {
			continue
		}
		id, err := models.CanonicalDMID(viewerID, uid)
		if err != nil {
			continue
		}
		e := Entry{
			ChannelID:     id,
			Name:          u.Handle,
			IsDM:          true,
			CounterpartID: uid,
			PhotoURL:      u.PhotoURL,
		}
		dms = append(dms, e)

		if s.selected != nil && s.selected.IsDM && s.selected.CounterpartID == uid {
			s.selected.Name = e.Name
			s.selected.PhotoURL = e.PhotoURL
		}
	}
	s.dms = dms
}

// List returns the merged conversation list: group channels first, then
// DM entries, each sub-list ordered case-insensitively by name.
func (s *State) List() []Entry {
	out := make([]Entry, 0, len(s.groups)+len(s.dms))
	out = append(out, sortedByName(s.groups)...)
	out = append(out, sortedByName(s.dms)...)
	return out
}

// Select marks the entry with the given channel ID as the open
// conversation. Returns false if no such entry is currently listed.
func (s *State) Select(channelID string) bool {
	for _, e := range s.List() {
		if e.ChannelID == channelID {
			sel := e
			s.selected = &sel
			return true
		}
	}
	return false
}

// Selected returns the open conversation, or nil. The returned pointer
// is patched in place when the counterpart's cached fields change.
func (s *State) Selected() *Entry {
	return s.selected
}

// ClearSelection drops the open conversation.
func (s *State) ClearSelection() {
	s.selected = nil
}

func sortedByName(in []Entry) []Entry {
	out := make([]Entry, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a != b {
			return a < b
		}
		return out[i].ChannelID < out[j].ChannelID
	})
	return out
}
