package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Fixed keys under which the client state is persisted
const (
	KeyHistory           = "resterx-history"
	KeyCollections       = "resterx-collections"
	KeyEnvironments      = "resterx-environments"
	KeyActiveEnvironment = "resterx-active-environment"
)

// Keys lists every persisted key
var Keys = []string{KeyHistory, KeyCollections, KeyEnvironments, KeyActiveEnvironment}

const (
	// Secure file permissions - owner read/write only
	secureFileMode = 0600 // -rw-------
	secureDirMode  = 0700 // drwx------
)

// KV is a synchronous string key/value store
type KV interface {
	// Get returns the stored value and whether the key exists
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

// Backend names accepted by Open
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
	BackendMemory = "memory"
)

// Open creates the KV backend named by backend inside dataDir
func Open(backend, dataDir string) (KV, error) {
	switch backend {
	case "", BackendSQLite:
		return NewSQLiteKV(dataDir)
	case BackendJSON:
		return NewFileKV(dataDir)
	case BackendMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

func ensureDataDir(dataDir string) error {
	if dataDir == "" {
		return fmt.Errorf("data directory is not set")
	}
	if err := os.MkdirAll(dataDir, secureDirMode); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	return nil
}

// MemoryKV keeps values in process memory
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryKV creates an empty in-memory store
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *MemoryKV) Close() error { return nil }

// FileKV stores each key as <key>.json inside a data directory
type FileKV struct {
	dataDir string
}

// NewFileKV creates a file-backed store rooted at dataDir
func NewFileKV(dataDir string) (*FileKV, error) {
	if err := ensureDataDir(dataDir); err != nil {
		return nil, err
	}
	return &FileKV{dataDir: dataDir}, nil
}

func (s *FileKV) path(key string) string {
	return filepath.Join(s.dataDir, key+".json")
}

func (s *FileKV) Get(key string) (string, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return string(data), true, nil
}

func (s *FileKV) Set(key, value string) error {
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), secureFileMode); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		return fmt.Errorf("replace %s: %w", key, err)
	}
	return nil
}

func (s *FileKV) Delete(key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *FileKV) Close() error { return nil }
