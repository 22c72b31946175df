package storage

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/vedsharma/resterx/internal/model"
)

// EnvironmentStore persists environments and the active environment id
type EnvironmentStore struct {
	kv KV
	mu sync.Mutex
}

// NewEnvironmentStore creates a store over kv
func NewEnvironmentStore(kv KV) *EnvironmentStore {
	return &EnvironmentStore{kv: kv}
}

// List returns all environments in creation order
func (s *EnvironmentStore) List() ([]model.Environment, error) {
	envs := []model.Environment{}
	if err := loadJSON(s.kv, KeyEnvironments, &envs); err != nil {
		return nil, err
	}
	return envs, nil
}

func (s *EnvironmentStore) save(envs []model.Environment) error {
	return saveJSON(s.kv, KeyEnvironments, envs)
}

// Create adds an empty environment
func (s *EnvironmentStore) Create(name string) (model.Environment, error) {
	return s.Import(model.Environment{Name: name})
}

// Import adds env with a fresh id, keeping its variables
func (s *EnvironmentStore) Import(env model.Environment) (model.Environment, error) {
	env.Name = strings.TrimSpace(env.Name)
	if env.Name == "" {
		return model.Environment{}, &model.ValidationError{Field: "environment name", Reason: "must not be empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	envs, err := s.List()
	if err != nil {
		return model.Environment{}, err
	}
	env.ID = uuid.NewString()
	if env.Variables == nil {
		env.Variables = []model.KeyValue{}
	}
	envs = append(envs, env)
	if err := s.save(envs); err != nil {
		return model.Environment{}, err
	}
	return env, nil
}

// Find looks an environment up by id, then by name
func (s *EnvironmentStore) Find(ref string) (*model.Environment, error) {
	envs, err := s.List()
	if err != nil {
		return nil, err
	}
	idx := indexOfEnvironment(envs, ref)
	if idx < 0 {
		return nil, nil
	}
	return &envs[idx], nil
}

// Delete removes an environment, deactivating it first if it was active
func (s *EnvironmentStore) Delete(ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	envs, err := s.List()
	if err != nil {
		return err
	}
	idx := indexOfEnvironment(envs, ref)
	if idx < 0 {
		return fmt.Errorf("environment %q not found", ref)
	}
	removed := envs[idx]
	envs = append(envs[:idx], envs[idx+1:]...)
	if err := s.save(envs); err != nil {
		return err
	}

	activeID, _, err := s.kv.Get(KeyActiveEnvironment)
	if err != nil {
		return err
	}
	if activeID == removed.ID {
		return s.kv.Delete(KeyActiveEnvironment)
	}
	return nil
}

// SetVariable sets key on the environment, replacing the first existing
// variable with that key or appending a new one.
func (s *EnvironmentStore) SetVariable(ref, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return &model.ValidationError{Field: "variable key", Reason: "must not be empty"}
	}
	return s.mutate(ref, func(env *model.Environment) {
		for i := range env.Variables {
			if env.Variables[i].Key == key {
				env.Variables[i].Value = value
				return
			}
		}
		env.Variables = append(env.Variables, model.KeyValue{Key: key, Value: value})
	})
}

// UnsetVariable removes every variable named key
func (s *EnvironmentStore) UnsetVariable(ref, key string) error {
	return s.mutate(ref, func(env *model.Environment) {
		kept := env.Variables[:0]
		for _, v := range env.Variables {
			if v.Key != key {
				kept = append(kept, v)
			}
		}
		env.Variables = kept
	})
}

func (s *EnvironmentStore) mutate(ref string, fn func(*model.Environment)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	envs, err := s.List()
	if err != nil {
		return err
	}
	idx := indexOfEnvironment(envs, ref)
	if idx < 0 {
		return fmt.Errorf("environment %q not found", ref)
	}
	fn(&envs[idx])
	return s.save(envs)
}

// Activate makes the referenced environment the active one
func (s *EnvironmentStore) Activate(ref string) (model.Environment, error) {
	env, err := s.Find(ref)
	if err != nil {
		return model.Environment{}, err
	}
	if env == nil {
		return model.Environment{}, fmt.Errorf("environment %q not found", ref)
	}
	if err := s.kv.Set(KeyActiveEnvironment, env.ID); err != nil {
		return model.Environment{}, err
	}
	return *env, nil
}

// Deactivate clears the active environment
func (s *EnvironmentStore) Deactivate() error {
	return s.kv.Delete(KeyActiveEnvironment)
}

// Active returns the active environment, or nil when none is active
func (s *EnvironmentStore) Active() (*model.Environment, error) {
	id, ok, err := s.kv.Get(KeyActiveEnvironment)
	if err != nil || !ok || id == "" {
		return nil, err
	}
	envs, err := s.List()
	if err != nil {
		return nil, err
	}
	for i := range envs {
		if envs[i].ID == id {
			return &envs[i], nil
		}
	}
	return nil, nil
}

func indexOfEnvironment(envs []model.Environment, ref string) int {
	for i, env := range envs {
		if env.ID == ref {
			return i
		}
	}
	for i, env := range envs {
		if env.Name == ref {
			return i
		}
	}
	return -1
}
