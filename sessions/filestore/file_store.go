// Package filestore persists the session as a JSON document on disk,
// optionally sealed with NaCl secretbox.
package filestore

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/nacl/secretbox"

	"github.com/jrsteele09/dental-session-client/internal/errors"
	"github.com/jrsteele09/dental-session-client/sessions"
)

const nonceSize = 24

var _ sessions.Store = (*FileStore)(nil)

// FileStore is a sessions.Store backed by a single file. Writes go to a
// temporary file that is renamed over the original.
type FileStore struct {
	path string
	key  *[32]byte
	lock sync.Mutex
}

// New returns a store writing to path. A non-nil key seals the file contents.
func New(path string, key *[32]byte) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("[filestore New] empty path: %w", errors.ErrConfiguration)
	}
	return &FileStore{path: path, key: key}, nil
}

func (fs *FileStore) Path() string {
	return fs.path
}

func (fs *FileStore) Get(key string) (string, bool, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	values, err := fs.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (fs *FileStore) SetMany(values map[string]string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	current, err := fs.load()
	if err != nil {
		return err
	}
	for k, v := range values {
		current[k] = v
	}
	return fs.save(current)
}

// Replace overwrites the file with values. An unreadable file, including one
// sealed with another key, is replaced rather than reported.
func (fs *FileStore) Replace(values map[string]string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	return fs.save(values)
}

// Clear removes the file. A missing file is already clear.
func (fs *FileStore) Clear() error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if err := os.Remove(fs.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("[filestore Clear] %w", err)
	}
	return nil
}

func (fs *FileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("[filestore load] %w", err)
	}
	if len(data) == 0 {
		return make(map[string]string), nil
	}

	if fs.key != nil {
		if data, err = fs.open(data); err != nil {
			return nil, err
		}
	}

	values := make(map[string]string)
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("[filestore load] %w: %v", errors.ErrStoreCorrupted, err)
	}
	return values, nil
}

func (fs *FileStore) save(values map[string]string) error {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("[filestore save] %w", err)
	}
	if fs.key != nil {
		if data, err = fs.seal(data); err != nil {
			return err
		}
	}

	dir := filepath.Dir(fs.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("[filestore save] %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("[filestore save] %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("[filestore save] %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("[filestore save] %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("[filestore save] %w", err)
	}
	if err := os.Rename(tmp.Name(), fs.path); err != nil {
		return fmt.Errorf("[filestore save] %w", err)
	}
	return nil
}

func (fs *FileStore) seal(plain []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("[filestore seal] %w", err)
	}
	return secretbox.Seal(nonce[:], plain, &nonce, fs.key), nil
}

func (fs *FileStore) open(sealed []byte) ([]byte, error) {
	if len(sealed) < nonceSize+secretbox.Overhead {
		return nil, fmt.Errorf("[filestore open] %w: sealed data too short", errors.ErrStoreCorrupted)
	}
	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, fs.key)
	if !ok {
		return nil, fmt.Errorf("[filestore open] %w: cannot decrypt", errors.ErrStoreCorrupted)
	}
	return plain, nil
}
