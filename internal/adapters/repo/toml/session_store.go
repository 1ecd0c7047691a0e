// Package toml persists session state under the user's config
// directory. Writes go through a temp file and rename so a crash never
// leaves a half-written state file behind.
package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/invoicedesk/invoicectl/internal/domain"
	"github.com/invoicedesk/invoicectl/internal/ports"
)

const (
	configName        = "config"
	configType        = "toml"
	sessionPathKey    = "session.path"
	sessionFileMode   = 0o600
	sessionDirMode    = 0o700
	sessionConfigDir  = ".invoicectl"
	sessionConfigFile = "session.toml"
	tempFilePattern   = ".session-*.toml.tmp"
)

type SessionStore struct {
	sessionPath string
	mu          *sync.RWMutex
}

// One lock per resolved path, shared across store instances in the
// same process.
var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.SessionStore = (*SessionStore)(nil)

func NewSessionStore(cfg *viper.Viper) (*SessionStore, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	defaultPath := filepath.Join(homeDir, sessionConfigDir, sessionConfigFile)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, sessionConfigDir))
	cfg.SetDefault(sessionPathKey, defaultPath)

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	sessionPath := cfg.GetString(sessionPathKey)
	if sessionPath == "" {
		return nil, errors.New("session path is empty")
	}
	sessionPath, err = normalizeSessionPath(sessionPath)
	if err != nil {
		return nil, err
	}

	return &SessionStore{sessionPath: sessionPath, mu: lockForPath(sessionPath)}, nil
}

func (s *SessionStore) Load(ctx context.Context) (domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return domain.Session{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.sessionPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Session{}, domain.ErrSessionNotFound
		}
		return domain.Session{}, fmt.Errorf("read session file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return domain.Session{}, fmt.Errorf("decode session file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return domain.Session{}, err
	}
	file.applyDefaults()

	if file.Session.ID == "" {
		return domain.Session{}, domain.ErrSessionNotFound
	}

	return fromSchema(file.Session), nil
}

func (s *SessionStore) Save(ctx context.Context, session domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file := fileSchema{Session: toSchema(session)}
	file.applyDefaults()

	return s.writeSchema(file)
}

func (s *SessionStore) writeSchema(file fileSchema) error {
	if err := os.MkdirAll(filepath.Dir(s.sessionPath), sessionDirMode); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(s.sessionPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp session file: %w", err)
	}

	if err := tempFile.Chmod(sessionFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp session file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp session file: %w", err)
	}

	if err := os.Rename(tempName, s.sessionPath); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}

	cleanup = false

	if err := os.Chmod(s.sessionPath, sessionFileMode); err != nil {
		return fmt.Errorf("chmod session file: %w", err)
	}

	return nil
}

func normalizeSessionPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve session path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func toSchema(session domain.Session) sessionSchema {
	return sessionSchema{
		ID:            session.SessionID,
		CurrentChatID: string(session.CurrentChatID),
		Theme:         string(session.Theme),
	}
}

func fromSchema(schema sessionSchema) domain.Session {
	theme := domain.Theme(schema.Theme)
	if !theme.Valid() {
		theme = domain.ThemeLight
	}

	return domain.Session{
		SessionID:     schema.ID,
		CurrentChatID: domain.ChatID(schema.CurrentChatID),
		Theme:         theme,
	}
}
