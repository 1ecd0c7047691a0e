package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Toggled returns the other half of the light/dark pair.
func (t Theme) Toggled() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Label reports the current theme name. There is exactly one rule for
// this: the label names the theme that is active, never the one a toggle
// would switch to.
func (t Theme) Label() string {
	if t == ThemeDark {
		return "Dark"
	}
	return "Light"
}

// Session is the client-side correlation bundle. It is distinct from the
// server's authentication session: SessionID only correlates requests,
// the cookie carries authorization.
type Session struct {
	SessionID     string
	CurrentChatID ChatID
	Theme         Theme
}

// NewSessionID produces an id unique per process start with high
// probability: a random component joined with a millisecond timestamp.
// Not cryptographically meaningful and not used for authorization.
func NewSessionID(now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("session_%s_%d", random, now.UnixMilli())
}

func NewSession(now time.Time) Session {
	return Session{
		SessionID: NewSessionID(now),
		Theme:     ThemeLight,
	}
}
