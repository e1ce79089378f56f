package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/chatimovel/painel-server/internal/infrastructure/gateway"
	"github.com/chatimovel/painel-server/internal/infrastructure/metrics"
)

// ErrNotAuthenticated is returned by operations that require a session.
var ErrNotAuthenticated = errors.New("not authenticated")

// defaultTokenTTL is assumed when the provider's token carries no usable
// expiry claim.
const defaultTokenTTL = time.Hour

// AuthAPI is the slice of the gateway's auth surface the service needs.
type AuthAPI interface {
	SignInWithPassword(ctx context.Context, email, password string) (*gateway.AuthSession, error)
	SignOut(ctx context.Context, token string) error
	Recover(ctx context.Context, email string) error
	UpdateUser(ctx context.Context, token string, body any) (*gateway.AuthUser, error)
}

// Service owns the authenticated identity: login/logout, profile and
// password updates, and the forced-logout reaction to unauthorized
// responses. It implements gateway.TokenSource.
type Service struct {
	store *FileStore
	log   zerolog.Logger

	authMu sync.RWMutex
	auth   AuthAPI

	mu      sync.RWMutex
	current *Session

	// forced guards the forced-logout path: it trips once per session
	// generation so concurrent 401s collapse to a single logout.
	forced atomic.Bool
}

// NewService creates the session service and restores any persisted session.
func NewService(store *FileStore, log zerolog.Logger) (*Service, error) {
	s := &Service{
		store: store,
		log:   log.With().Str("component", "session").Logger(),
	}

	restored, err := store.Load()
	if err != nil {
		return nil, err
	}
	if restored != nil {
		s.current = restored
		s.log.Info().Str("email", restored.Profile.Email).Msg("restored persisted session")
	}
	return s, nil
}

// BindAuth wires the gateway auth surface in. Split from construction
// because the gateway needs this service as its token source.
func (s *Service) BindAuth(auth AuthAPI) {
	s.authMu.Lock()
	defer s.authMu.Unlock()
	s.auth = auth
}

func (s *Service) authAPI() AuthAPI {
	s.authMu.RLock()
	defer s.authMu.RUnlock()
	return s.auth
}

// Token returns the current access token, empty when logged out.
func (s *Service) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.AccessToken
}

// Current returns a copy of the active session, or nil when logged out.
func (s *Service) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	copied := *s.current
	return &copied
}

// Authenticated reports whether a session is active.
func (s *Service) Authenticated() bool {
	return s.Current() != nil
}

// Login performs the password grant and installs the resulting session,
// re-arming the forced-logout guard for the new generation.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	authSession, err := s.authAPI().SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}

	sess := &Session{
		AccessToken:  authSession.AccessToken,
		RefreshToken: authSession.RefreshToken,
		ExpiresAt:    tokenExpiry(authSession.AccessToken, authSession.ExpiresIn),
		Profile:      profileFrom(&authSession.User),
	}

	if err := s.store.Save(sess); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
	s.forced.Store(false)

	s.log.Info().Str("email", sess.Profile.Email).Msg("operator signed in")
	copied := *sess
	return &copied, nil
}

// Logout ends the session. The server-side revocation is best effort: its
// failure never blocks the local clear.
func (s *Service) Logout(ctx context.Context) error {
	s.mu.Lock()
	current := s.current
	s.current = nil
	s.mu.Unlock()

	if current != nil && current.AccessToken != "" {
		if err := s.authAPI().SignOut(ctx, current.AccessToken); err != nil {
			s.log.Warn().Err(err).Msg("logout call failed, clearing session anyway")
		}
	}

	if err := s.store.Clear(); err != nil {
		return err
	}
	s.log.Info().Msg("operator signed out")
	return nil
}

// ForceLogout clears the session after an unauthorized response. It runs at
// most once per session generation: duplicate 401s from in-flight calls are
// suppressed. No server-side revocation is attempted; the token is already
// rejected.
func (s *Service) ForceLogout() {
	if !s.forced.CompareAndSwap(false, true) {
		return
	}

	s.mu.Lock()
	hadSession := s.current != nil
	s.current = nil
	s.mu.Unlock()

	if !hadSession {
		return
	}

	if err := s.store.Clear(); err != nil {
		s.log.Error().Err(err).Msg("failed clearing persisted session")
	}
	metrics.ForcedLogouts.Inc()
	s.log.Warn().Msg("session expired, forced logout")
}

// UpdatePassword changes the operator's password with the auth provider.
func (s *Service) UpdatePassword(ctx context.Context, password string) error {
	token := s.Token()
	if token == "" {
		return ErrNotAuthenticated
	}
	_, err := s.authAPI().UpdateUser(ctx, token, map[string]string{"password": password})
	return err
}

// UpdateProfile updates the operator's metadata and refreshes the persisted
// profile.
func (s *Service) UpdateProfile(ctx context.Context, metadata map[string]any) (*Profile, error) {
	token := s.Token()
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	user, err := s.authAPI().UpdateUser(ctx, token, map[string]any{"data": metadata})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, ErrNotAuthenticated
	}
	s.current.Profile = profileFrom(user)
	if err := s.store.Save(s.current); err != nil {
		return nil, err
	}
	profile := s.current.Profile
	return &profile, nil
}

// Recover asks the provider to email a password-recovery link.
func (s *Service) Recover(ctx context.Context, email string) error {
	return s.authAPI().Recover(ctx, email)
}

func profileFrom(user *gateway.AuthUser) Profile {
	profile := Profile{
		AuthID: user.ID,
		Email:  user.Email,
	}
	if name, ok := user.UserMetadata["nome"].(string); ok {
		profile.Name = name
	} else if name, ok := user.UserMetadata["name"].(string); ok {
		profile.Name = name
	}
	if role, ok := user.UserMetadata["role"].(string); ok {
		profile.Role = role
	}
	return profile
}

// tokenExpiry reads the exp claim without verifying the signature; the
// hosted provider is the source of truth for validity.
func tokenExpiry(token string, expiresIn int64) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time
		}
	}
	if expiresIn > 0 {
		return time.Now().Add(time.Duration(expiresIn) * time.Second)
	}
	return time.Now().Add(defaultTokenTTL)
}
