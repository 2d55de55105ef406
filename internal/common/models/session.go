package models

import (
	"time"
)

type ContextKey string

const (
	// SessionKey is the fiber Locals key holding the caller's *Session.
	SessionKey ContextKey = "session"
)

// Session is the read-only context a request runs with: who the user is,
// which account (tenant) they picked, their time zone and the bearer token
// forwarded to the reporting API.
type Session struct {
	UserID    string         `json:"user_id"`
	AccountID string         `json:"account_id,omitempty"`
	TimeZone  string         `json:"time_zone"`
	Roles     []string       `json:"roles,omitempty"`
	Token     string         `json:"-"`
	Location  *time.Location `json:"-"`
}

// NewSession resolves the time zone name, falling back to fallbackTZ and
// then UTC when a name is empty or unknown.
func NewSession(userID, accountID, timeZone, token string, roles []string, fallbackTZ string) *Session {
	s := &Session{
		UserID:    userID,
		AccountID: accountID,
		Roles:     roles,
		Token:     token,
	}
	for _, name := range []string{timeZone, fallbackTZ} {
		if name == "" {
			continue
		}
		if loc, err := time.LoadLocation(name); err == nil {
			s.TimeZone = name
			s.Location = loc
			return s
		}
	}
	s.TimeZone = "UTC"
	s.Location = time.UTC
	return s
}

// Loc never returns nil.
func (s *Session) Loc() *time.Location {
	if s == nil || s.Location == nil {
		return time.UTC
	}
	return s.Location
}
