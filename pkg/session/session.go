package session

import (
	"maps"

	"github.com/google/uuid"
)

// Session is the per-visitor key-value bag bound to one dispatch call.
type Session struct {
	Values map[string]string
	ID     string // empty when the visitor presented no recognized session

	dirty bool // tracks if values changed since the last load or save
}

// New creates an empty session with the given id.
// An empty id means no session cookie was presented.
func New(id string) *Session {
	return &Session{
		ID:     id,
		Values: make(map[string]string),
	}
}

// NewID returns a fresh random session identifier.
func NewID() string {
	return uuid.NewString()
}

// HasID reports whether the session carries an identifier.
func (s *Session) HasID() bool {
	return s != nil && s.ID != ""
}

// Get returns the value stored under key, or def when absent.
func (s *Session) Get(key, def string) string {
	if v, ok := s.Lookup(key); ok {
		return v
	}
	return def
}

// Lookup returns the value stored under key.
func (s *Session) Lookup(key string) (string, bool) {
	if s == nil || s.Values == nil {
		return "", false
	}
	v, ok := s.Values[key]
	return v, ok
}

// Set stores a value and marks the session dirty.
func (s *Session) Set(key, value string) {
	if s.Values == nil {
		s.Values = make(map[string]string)
	}
	if cur, ok := s.Values[key]; ok && cur == value {
		return
	}
	s.Values[key] = value
	s.dirty = true
}

// Delete removes a value. Marks the session dirty only if the key existed.
func (s *Session) Delete(key string) {
	if _, ok := s.Values[key]; ok {
		delete(s.Values, key)
		s.dirty = true
	}
}

// Restore replaces the values with a copy of loaded without marking the session dirty.
func (s *Session) Restore(loaded map[string]string) {
	s.Values = make(map[string]string, len(loaded))
	maps.Copy(s.Values, loaded)
	s.dirty = false
}

// IsDirty returns true if the session has unsaved changes.
func (s *Session) IsDirty() bool {
	return s != nil && s.dirty
}

// ClearDirty marks the session as saved.
func (s *Session) ClearDirty() {
	s.dirty = false
}
