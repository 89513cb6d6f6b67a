// Package services contains the application services of the tablekeeper
// client. This file defines the session store: account registration,
// login/logout, account deletion, and the durable mirror of both the
// account set and the current session.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/tablekeeper/internal/client/models"
	"github.com/dmitrijs2005/tablekeeper/internal/client/repositories/kv"
	"github.com/dmitrijs2005/tablekeeper/internal/common"
	"github.com/dmitrijs2005/tablekeeper/internal/cryptox"
	"github.com/dmitrijs2005/tablekeeper/internal/idgen"
	"github.com/dmitrijs2005/tablekeeper/internal/logging"
)

// Storage keys of the two persisted documents.
const (
	KeySession  = "user"
	KeyAccounts = "users"
)

// SignupMode decides whether a successful signup also logs the new
// account in.
type SignupMode string

const (
	// SignupManual leaves the caller unauthenticated; the user must log in.
	SignupManual SignupMode = "manual"
	// SignupAutoLogin authenticates the new account immediately.
	SignupAutoLogin SignupMode = "auto-login"
)

// SignupModes lists the accepted modes.
var SignupModes = []SignupMode{SignupManual, SignupAutoLogin}

// SessionService is the capability the presentation layer gets for
// authentication.
//
// Contract:
//   - Signup: register a new account; common.ErrDuplicateAccount if the email is taken.
//   - Login: authenticate; common.ErrInvalidCredentials on a mismatch.
//   - Logout: end the session; no-op without one.
//   - DeleteAccount: remove the session's account and log out; no-op without a session.
//   - Reset: remove every account and the session from storage.
//   - Current: the authenticated account, if any.
//
// Errors wrapping common.ErrStorage mean the durable write failed and
// the in-memory state was left as it was.
type SessionService interface {
	Signup(ctx context.Context, profile models.Profile, secret []byte) (models.Account, error)
	Login(ctx context.Context, email string, secret []byte) error
	Logout(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
	Reset(ctx context.Context) error
	Current() (models.Account, bool)
}

// SessionStore owns the account set and the current session and mirrors
// both to a kv.Store under KeyAccounts and KeySession.
type SessionStore struct {
	mu sync.Mutex

	store kv.Store
	codec cryptox.CredentialCodec
	ids   *idgen.Sequence
	mode  SignupMode
	log   logging.Logger

	accounts []models.Account
	session  *models.Account
}

// SessionOption configures a SessionStore.
type SessionOption func(*SessionStore)

func WithLogger(l logging.Logger) SessionOption {
	return func(s *SessionStore) { s.log = l }
}

func WithSequence(ids *idgen.Sequence) SessionOption {
	return func(s *SessionStore) { s.ids = ids }
}

func WithSignupMode(m SignupMode) SessionOption {
	return func(s *SessionStore) { s.mode = m }
}

// NewSessionStore creates an empty store. Call Load to read persisted state.
func NewSessionStore(store kv.Store, codec cryptox.CredentialCodec, opts ...SessionOption) *SessionStore {
	s := &SessionStore{
		store: store,
		codec: codec,
		ids:   idgen.NewSequence(),
		mode:  SignupManual,
		log:   logging.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load replaces the in-memory state with what is persisted. Missing or
// unparseable documents count as empty. A session whose email is not in
// the account set is removed from storage; one whose email is known is
// refreshed from the account set. Only read failures are returned.
func (s *SessionStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.store.List(ctx)
	if err != nil {
		return fmt.Errorf("%w: load: %w", common.ErrStorage, err)
	}

	s.accounts = s.decodeAccounts(ctx, docs[KeyAccounts])
	foreign := 0
	for _, a := range s.accounts {
		s.ids.Observe(a.ID)
		if cryptox.CodecForToken(a.CredentialToken).Name() != s.codec.Name() {
			foreign++
		}
	}
	if foreign > 0 {
		s.log.Info(ctx, "some accounts use another credential codec; they are verified with it",
			"accounts", foreign, "codec", s.codec.Name())
	}

	s.session = nil
	if sess, ok := s.decodeSession(ctx, docs[KeySession]); ok {
		if i := s.indexOf(sess.Email); i >= 0 {
			acc := s.accounts[i]
			s.session = &acc
		} else {
			s.log.Warn(ctx, "dropping session for unknown account", "email", sess.Email)
			if err := s.store.Delete(ctx, KeySession); err != nil {
				s.log.Warn(ctx, "failed to remove stale session", "error", err)
			}
		}
	}

	s.log.Debug(ctx, "session store loaded", "accounts", len(s.accounts), "authenticated", s.session != nil)
	return nil
}

func (s *SessionStore) decodeAccounts(ctx context.Context, raw []byte) []models.Account {
	var stored []models.Account
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &stored); err != nil {
			s.log.Warn(ctx, "persisted accounts are malformed, starting empty", "error", err)
			return []models.Account{}
		}
	}

	accounts := make([]models.Account, 0, len(stored))
	seen := make(map[string]struct{}, len(stored))
	for _, a := range stored {
		if _, dup := seen[a.Email]; dup {
			s.log.Warn(ctx, "skipping duplicate persisted account", "email", a.Email)
			continue
		}
		seen[a.Email] = struct{}{}
		accounts = append(accounts, a)
	}
	return accounts
}

func (s *SessionStore) decodeSession(ctx context.Context, raw []byte) (models.Account, bool) {
	if len(raw) == 0 {
		return models.Account{}, false
	}
	var sess *models.Account
	if err := json.Unmarshal(raw, &sess); err != nil {
		s.log.Warn(ctx, "persisted session is malformed, ignoring", "error", err)
		return models.Account{}, false
	}
	if sess == nil {
		return models.Account{}, false
	}
	return *sess, true
}

// Signup registers a new account. In SignupAutoLogin mode it then logs
// the account in; a failure there is returned together with the created
// account.
func (s *SessionStore) Signup(ctx context.Context, profile models.Profile, secret []byte) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(profile.Email) >= 0 {
		return models.Account{}, common.ErrDuplicateAccount
	}

	token, err := s.codec.Encode(secret)
	if err != nil {
		return models.Account{}, fmt.Errorf("encode credential: %w", err)
	}

	acc := models.Account{
		ID:              s.ids.Next(),
		Name:            profile.Name,
		Email:           profile.Email,
		CredentialToken: token,
	}

	updated := append(slices.Clone(s.accounts), acc)
	if err := s.saveAccounts(ctx, s.store, updated); err != nil {
		return models.Account{}, err
	}
	s.accounts = updated
	s.log.Info(ctx, "account created", "id", acc.ID, "email", acc.Email)

	if s.mode == SignupAutoLogin {
		if err := s.login(ctx, profile.Email, secret); err != nil {
			return acc, err
		}
	}
	return acc, nil
}

// Login authenticates email with secret and persists the session.
func (s *SessionStore) Login(ctx context.Context, email string, secret []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.login(ctx, email, secret)
}

func (s *SessionStore) login(ctx context.Context, email string, secret []byte) error {
	i := s.indexOf(email)
	if i < 0 || !cryptox.MatchesAny(s.accounts[i].CredentialToken, secret) {
		s.log.Info(ctx, "login rejected", "email", email)
		return common.ErrInvalidCredentials
	}
	acc := s.accounts[i]

	raw, err := json.Marshal(acc)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.store.Set(ctx, KeySession, raw); err != nil {
		return fmt.Errorf("%w: persist session: %w", common.ErrStorage, err)
	}
	s.session = &acc
	s.log.Info(ctx, "logged in", "id", acc.ID, "email", acc.Email)
	return nil
}

// Logout ends the session. Without a session it still removes any
// persisted session entry and returns nil.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, KeySession); err != nil {
		return fmt.Errorf("%w: remove session: %w", common.ErrStorage, err)
	}
	if s.session != nil {
		s.log.Info(ctx, "logged out", "email", s.session.Email)
	}
	s.session = nil
	return nil
}

// DeleteAccount removes the session's account and logs out, writing the
// reduced account set and the session removal in one transaction. It is
// a no-op without a session.
func (s *SessionStore) DeleteAccount(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		s.log.Debug(ctx, "delete account ignored", "reason", common.ErrMissingSession)
		return nil
	}
	email := s.session.Email

	remaining := slices.DeleteFunc(slices.Clone(s.accounts), func(a models.Account) bool {
		return a.Email == email
	})

	err := s.store.Atomic(ctx, func(ctx context.Context, repo kv.Repository) error {
		if err := s.saveAccounts(ctx, repo, remaining); err != nil {
			return err
		}
		if err := repo.Delete(ctx, KeySession); err != nil {
			return fmt.Errorf("%w: remove session: %w", common.ErrStorage, err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, common.ErrStorage) {
			err = fmt.Errorf("%w: delete account: %w", common.ErrStorage, err)
		}
		return err
	}

	s.accounts = remaining
	s.session = nil
	s.log.Info(ctx, "account deleted", "email", email)
	return nil
}

// Reset wipes every persisted account and the session. It is meant for
// a fresh start on a shared machine and cannot be undone.
func (s *SessionStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("%w: reset: %w", common.ErrStorage, err)
	}
	s.log.Info(ctx, "session store reset", "accounts", len(s.accounts))
	s.accounts = []models.Account{}
	s.session = nil
	return nil
}

func (s *SessionStore) saveAccounts(ctx context.Context, repo kv.Repository, accounts []models.Account) error {
	if accounts == nil {
		accounts = []models.Account{}
	}
	raw, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("encode accounts: %w", err)
	}
	if err := repo.Set(ctx, KeyAccounts, raw); err != nil {
		return fmt.Errorf("%w: persist accounts: %w", common.ErrStorage, err)
	}
	return nil
}

func (s *SessionStore) indexOf(email string) int {
	return slices.IndexFunc(s.accounts, func(a models.Account) bool {
		return a.Email == email
	})
}

// Current returns a copy of the authenticated account.
func (s *SessionStore) Current() (models.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return models.Account{}, false
	}
	return *s.session, true
}

// IsAuthenticated reports whether a session is active.
func (s *SessionStore) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}

// Accounts returns a copy of the registered accounts in signup order.
func (s *SessionStore) Accounts() []models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.accounts)
}

// Mode returns the configured signup mode.
func (s *SessionStore) Mode() SignupMode {
	return s.mode
}

// ParseSignupMode validates a signup mode name.
func ParseSignupMode(v string) (SignupMode, error) {
	m := SignupMode(v)
	if slices.Contains(SignupModes, m) {
		return m, nil
	}
	return "", fmt.Errorf("unknown signup mode %q", v)
}
