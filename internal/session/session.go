// Package session holds the in-memory set of loaded vehicle sessions.
//
// Store is not safe for concurrent use; callers serialize access.
package session

import (
	"errors"

	"github.com/google/uuid"

	"github.com/banshee-data/trackreplay/internal/config"
	"github.com/banshee-data/trackreplay/internal/telemetry"
)

// ErrNotFound is returned for an unknown session id.
var ErrNotFound = errors.New("session not found")

// Session is one vehicle's processed log plus its playback and display
// state. Data is owned by the session; Raw is kept so alignment can always
// re-crop from the unsmoothed source.
type Session struct {
	ID      string
	Name    string
	Color   string
	Visible bool

	Raw      *telemetry.RawSession
	Data     []telemetry.TrackPoint
	Duration float64
	Cropped  bool

	Valid         bool
	OffTrackCount int

	// Cursor is the last index whose RelTime was at or before the playback
	// time. 0 <= Cursor < len(Data) whenever Data is non-empty.
	Cursor       int
	CurrentFrame telemetry.TrackPoint
}

// Empty reports whether the session has no points to play.
func (s *Session) Empty() bool { return len(s.Data) == 0 }

func (s *Session) setData(data []telemetry.TrackPoint) {
	s.Data = data
	s.Duration = telemetry.Duration(data)
	s.Cursor = 0
	s.CurrentFrame = telemetry.TrackPoint{}
	if len(data) > 0 {
		s.CurrentFrame = data[0]
	}
}

// Store is the ordered collection of sessions.
type Store struct {
	palette  []string
	sessions []*Session
}

// NewStore returns an empty store assigning colours from palette. A nil or
// empty palette uses config.DefaultPalette.
func NewStore(palette []string) *Store {
	if len(palette) == 0 {
		palette = config.DefaultPalette
	}
	return &Store{palette: palette}
}

// Add creates a visible, valid session for raw with the given processed
// data. The colour is picked by the number of sessions already present.
func (st *Store) Add(raw *telemetry.RawSession, data []telemetry.TrackPoint) *Session {
	s := &Session{
		ID:      uuid.NewString(),
		Name:    raw.Name,
		Color:   st.palette[len(st.sessions)%len(st.palette)],
		Visible: true,
		Raw:     raw,
		Valid:   true,
	}
	s.setData(data)
	st.sessions = append(st.sessions, s)
	return s
}

// Get returns the session with id.
func (st *Store) Get(id string) (*Session, error) {
	for _, s := range st.sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, ErrNotFound
}

// List returns the sessions in arrival order. The slice is a copy; the
// sessions are not.
func (st *Store) List() []*Session {
	out := make([]*Session, len(st.sessions))
	copy(out, st.sessions)
	return out
}

// Remove deletes the session with id.
func (st *Store) Remove(id string) error {
	for i, s := range st.sessions {
		if s.ID == id {
			st.sessions = append(st.sessions[:i], st.sessions[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// ReplaceData swaps in new processed data, recomputing duration and
// resetting the cursor.
func (st *Store) ReplaceData(id string, data []telemetry.TrackPoint, cropped bool) error {
	s, err := st.Get(id)
	if err != nil {
		return err
	}
	s.setData(data)
	s.Cropped = cropped
	return nil
}

// SetValidity records a corridor score.
func (st *Store) SetValidity(id string, valid bool, offTrack int) error {
	s, err := st.Get(id)
	if err != nil {
		return err
	}
	s.Valid = valid
	s.OffTrackCount = offTrack
	return nil
}

// SetVisible shows or hides a session during playback.
func (st *Store) SetVisible(id string, visible bool) error {
	s, err := st.Get(id)
	if err != nil {
		return err
	}
	s.Visible = visible
	return nil
}

// ResetCursors rewinds every session's cursor to the first point.
func (st *Store) ResetCursors() {
	for _, s := range st.sessions {
		s.Cursor = 0
	}
}

// TotalDuration is the longest session duration, or 0 when empty.
func (st *Store) TotalDuration() float64 {
	var d float64
	for _, s := range st.sessions {
		d = max(d, s.Duration)
	}
	return d
}

// Len returns the number of sessions.
func (st *Store) Len() int { return len(st.sessions) }
