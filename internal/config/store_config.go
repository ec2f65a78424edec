package config

import (
	"encoding/hex"
	"fmt"
)

const (
	sessionFileVar = "SESSION_FILE"
	sessionKeyVar  = "SESSION_KEY"
)

type StoreConfig interface {
	GetSessionFile() string
	GetSessionKey() (*[32]byte, error)
}

type Store struct{}

var _ StoreConfig = Store{}

func (Store) GetSessionFile() string {
	return GetEnv(sessionFileVar, "./data/session.json")
}

// GetSessionKey returns the key used to seal the session file, or nil when
// SESSION_KEY is unset and the file is stored in plain text.
func (Store) GetSessionKey() (*[32]byte, error) {
	raw := GetEnv(sessionKeyVar, "")
	if raw == "" {
		return nil, nil
	}
	decoded, err := hex.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%s is not valid hex: %w", sessionKeyVar, err)
	}
	if len(decoded) != 32 {
		return nil, fmt.Errorf("%s must be 32 bytes, got %d", sessionKeyVar, len(decoded))
	}
	var key [32]byte
	copy(key[:], decoded)
	return &key, nil
}
