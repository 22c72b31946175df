package collection

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vedsharma/resterx/internal/model"
	"github.com/vedsharma/resterx/internal/request"
)

// Repo loads and atomically updates the persisted collection list
type Repo interface {
	Load() ([]model.Collection, error)
	Update(fn func([]model.Collection) ([]model.Collection, error)) error
}

// Store implements the collection operations on top of a Repo
type Store struct {
	repo  Repo
	now   func() time.Time
	newID func() string
}

// NewStore creates a collection store
func NewStore(repo Repo) *Store {
	return &Store{repo: repo, now: time.Now, newID: uuid.NewString}
}

// List returns every collection
func (s *Store) List() ([]model.Collection, error) {
	return s.repo.Load()
}

// Get finds a collection by id, then by name. It returns nil when absent.
func (s *Store) Get(ref string) (*model.Collection, error) {
	collections, err := s.repo.Load()
	if err != nil {
		return nil, err
	}
	idx := indexOf(collections, ref)
	if idx < 0 {
		return nil, nil
	}
	return &collections[idx], nil
}

// CreateCollection adds an empty collection
func (s *Store) CreateCollection(name, description string) (model.Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Collection{}, &model.ValidationError{Field: "collection name", Reason: "must not be empty"}
	}

	col := model.Collection{
		ID:          s.newID(),
		Name:        name,
		Description: description,
		Requests:    []model.SavedRequest{},
	}
	err := s.repo.Update(func(cols []model.Collection) ([]model.Collection, error) {
		return append(cols, col), nil
	})
	if err != nil {
		return model.Collection{}, err
	}
	return col, nil
}

// DeleteCollection removes a collection by id or name
func (s *Store) DeleteCollection(ref string) error {
	return s.repo.Update(func(cols []model.Collection) ([]model.Collection, error) {
		idx := indexOf(cols, ref)
		if idx < 0 {
			return nil, fmt.Errorf("collection %q not found", ref)
		}
		return append(cols[:idx], cols[idx+1:]...), nil
	})
}

// SaveRequest appends draft to the referenced collection as a new saved
// request. Only the credentials of the draft's current auth kind are kept.
func (s *Store) SaveRequest(collectionRef, name string, draft model.RequestDraft) (model.SavedRequest, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.SavedRequest{}, &model.ValidationError{Field: "request name", Reason: "must not be empty"}
	}
	if strings.TrimSpace(draft.URL) == "" {
		return model.SavedRequest{}, &model.ValidationError{Field: "url", Reason: "must not be empty"}
	}
	if strings.TrimSpace(collectionRef) == "" {
		return model.SavedRequest{}, &model.ValidationError{Field: "collection", Reason: "no collection selected"}
	}

	saved := SavedFromDraft(name, draft)
	saved.ID = s.newID()
	saved.CreatedAt = s.now()

	err := s.repo.Update(func(cols []model.Collection) ([]model.Collection, error) {
		idx := indexOf(cols, collectionRef)
		if idx < 0 {
			return nil, &model.ValidationError{Field: "collection", Reason: fmt.Sprintf("%q does not exist", collectionRef)}
		}
		cols[idx].Requests = append(cols[idx].Requests, saved)
		return cols, nil
	})
	if err != nil {
		return model.SavedRequest{}, err
	}
	return saved, nil
}

// AddImported stores an imported collection, giving it a fresh id
func (s *Store) AddImported(col model.Collection) (model.Collection, error) {
	col.ID = s.newID()
	if col.Requests == nil {
		col.Requests = []model.SavedRequest{}
	}
	err := s.repo.Update(func(cols []model.Collection) ([]model.Collection, error) {
		return append(cols, col), nil
	})
	if err != nil {
		return model.Collection{}, err
	}
	return col, nil
}

// SavedFromDraft converts a draft to a SavedRequest without id or timestamp.
// Path variables and enabled query parameters are folded into the stored URL;
// environment placeholders stay unresolved.
func SavedFromDraft(name string, draft model.RequestDraft) model.SavedRequest {
	headers := make(map[string]string, len(draft.Headers))
	for _, h := range draft.Headers {
		if h.Key == "" {
			continue
		}
		headers[h.Key] = h.Value
	}

	method := draft.Method
	if method == "" {
		method = model.MethodGet
	}
	authKind := draft.Auth.Kind
	if authKind == "" {
		authKind = model.AuthNone
	}

	saved := model.SavedRequest{
		Name:     name,
		Method:   method,
		URL:      request.ExpandURL(draft.URL, draft.PathVariables, draft.QueryParams),
		Headers:  headers,
		Body:     draft.Body,
		AuthKind: authKind,
	}
	switch authKind {
	case model.AuthBearer, model.AuthOAuth2:
		saved.BearerToken = draft.Auth.BearerToken
	case model.AuthBasic:
		saved.BasicUsername = draft.Auth.Username
		saved.BasicPassword = draft.Auth.Password
	}
	return saved
}

// DraftFromSaved rebuilds an editable draft from a saved request. Headers are
// sorted by name since the saved form does not keep their order.
func DraftFromSaved(saved model.SavedRequest) model.RequestDraft {
	draft := model.RequestDraft{
		Method:   saved.Method,
		URL:      saved.URL,
		Headers:  sortedHeaders(saved.Headers),
		Body:     saved.Body,
		BodyKind: model.BodyText,
		Auth: model.Auth{
			Kind:        saved.AuthKind,
			BearerToken: saved.BearerToken,
			Username:    saved.BasicUsername,
			Password:    saved.BasicPassword,
		},
	}
	if saved.Body == "" {
		draft.BodyKind = model.BodyNone
	} else if looksLikeJSON(saved.Body) {
		draft.BodyKind = model.BodyJSON
	}
	return draft
}

func looksLikeJSON(s string) bool {
	trimmed := strings.TrimSpace(s)
	return strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")
}

func indexOf(cols []model.Collection, ref string) int {
	for i, c := range cols {
		if c.ID == ref {
			return i
		}
	}
	for i, c := range cols {
		if c.Name == ref {
			return i
		}
	}
	return -1
}
