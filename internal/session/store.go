package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/mihotel/internal/models"
)

// Storage keys for the three session entries.
const (
	KeyToken  = "token"
	KeyUser   = "user"
	KeyTenant = "tenant"
)

// Sentinel errors
var (
	// ErrNoStorage is returned when writing to a store without durable storage.
	ErrNoStorage = errors.New("session storage not available")

	// ErrEmptyToken is returned when storing a session without a token.
	ErrEmptyToken = errors.New("session token is empty")
)

// Store holds exactly one authentication session and persists it to Storage.
//
// A Store built with a nil Storage behaves as a headless context: every
// accessor reports no session and writes fail with ErrNoStorage.
type Store struct {
	storage Storage

	mu     sync.RWMutex
	ready  bool
	token  string
	user   *models.User
	tenant *models.Tenant
}

// NewStore creates a session store over storage. Call Init before use.
func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

// Init loads the persisted session. Entries that fail to decode are dropped.
func (s *Store) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ready = true
	s.token, s.user, s.tenant = "", nil, nil

	if s.storage == nil {
		return nil
	}

	token, ok := s.storage.Get(KeyToken)
	if !ok || token == "" {
		log.Debug().Msg("no persisted session")
		return nil
	}

	var user *models.User
	if raw, ok := s.storage.Get(KeyUser); ok && raw != "null" {
		user = new(models.User)
		if err := json.Unmarshal([]byte(raw), user); err != nil {
			log.Warn().Err(err).Msg("discarding unreadable persisted user")
			user = nil
		}
	}

	var tenant *models.Tenant
	if raw, ok := s.storage.Get(KeyTenant); ok && raw != "null" {
		tenant = new(models.Tenant)
		if err := json.Unmarshal([]byte(raw), tenant); err != nil {
			log.Warn().Err(err).Msg("discarding unreadable persisted tenant")
			tenant = nil
		}
	}

	s.token, s.user, s.tenant = token, user, tenant

	log.Debug().Bool("user", user != nil).Bool("tenant", tenant != nil).Msg("persisted session loaded")

	return nil
}

// Ready reports whether Init has completed.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// SetSession replaces the stored session. Readers observe either the previous
// session or the new one, never a mix.
func (s *Store) SetSession(token string, user *models.User, tenant *models.Tenant) error {
	if s.storage == nil {
		return ErrNoStorage
	}
	if token == "" {
		return ErrEmptyToken
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	tenantJSON, err := json.Marshal(tenant)
	if err != nil {
		return fmt.Errorf("failed to marshal tenant: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The token is written last so an interrupted write leaves no session.
	if err := s.storage.Delete(KeyToken); err != nil {
		return err
	}
	if err := s.storage.Set(KeyUser, string(userJSON)); err != nil {
		return err
	}
	if err := s.storage.Set(KeyTenant, string(tenantJSON)); err != nil {
		return err
	}
	if err := s.storage.Set(KeyToken, token); err != nil {
		return err
	}

	s.ready = true
	s.token = token
	s.user = cloneUser(user)
	s.tenant = cloneTenant(tenant)

	log.Debug().Msg("session stored")

	return nil
}

// Token returns the session token or "" when there is no session.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the session user or nil when there is no session.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.token == "" {
		return nil
	}
	return cloneUser(s.user)
}

// Tenant returns a copy of the session tenant or nil when there is no session.
func (s *Store) Tenant() *models.Tenant {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.token == "" {
		return nil
	}
	return cloneTenant(s.tenant)
}

// Session returns a consistent snapshot of the stored session.
func (s *Store) Session() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.token == "" {
		return models.Session{}
	}
	return models.Session{
		Token:  s.token,
		User:   cloneUser(s.user),
		Tenant: cloneTenant(s.tenant),
	}
}

// IsAuthenticated returns true if a token is stored.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// UpdateUser replaces the stored user of the current session.
func (s *Store) UpdateUser(user *models.User) error {
	if s.storage == nil {
		return ErrNoStorage
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == "" {
		return nil
	}
	if err := s.storage.Set(KeyUser, string(data)); err != nil {
		return err
	}
	s.user = cloneUser(user)
	return nil
}

// Clear removes the session. Calling Clear on an empty store is a no-op.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token, s.user, s.tenant = "", nil, nil

	if s.storage == nil {
		return nil
	}

	var errs []error
	for _, key := range []string{KeyToken, KeyUser, KeyTenant} {
		if err := s.storage.Delete(key); err != nil {
			errs = append(errs, err)
		}
	}

	log.Debug().Msg("session cleared")

	return errors.Join(errs...)
}

// TokenExpiry returns the expiry encoded in the session token, if any.
// The token signature is not verified; the backend remains the authority.
func (s *Store) TokenExpiry() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func cloneUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func cloneTenant(t *models.Tenant) *models.Tenant {
	if t == nil {
		return nil
	}
	c := *t
	c.Settings = maps.Clone(t.Settings)
	return &c
}
