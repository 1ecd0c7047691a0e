package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version int           `toml:"version"`
	Session sessionSchema `toml:"session"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
	if s.Session.Theme == "" {
		s.Session.Theme = "light"
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported session schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type sessionSchema struct {
	ID            string `toml:"id"`
	CurrentChatID string `toml:"current_chat_id,omitempty"`
	Theme         string `toml:"theme"`
}
