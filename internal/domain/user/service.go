package user

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/chatimovel/painel-server/internal/infrastructure/gateway"
	"github.com/chatimovel/painel-server/internal/utils/phone"
	"github.com/chatimovel/painel-server/internal/utils/platformerrors"
)

// ErrNotFound is returned when a lookup matches no user row.
var ErrNotFound = errors.New("user not found")

// Gateway is the slice of the REST client the service needs.
type Gateway interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body any) error
}

// AuthAPI registers platform accounts with the auth provider.
type AuthAPI interface {
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (*gateway.SignupResponse, error)
}

// CreateInput is a new WhatsApp user.
type CreateInput struct {
	Name  string `json:"nome" validate:"required"`
	Phone string `json:"telefone" validate:"required"`
}

// UpdateInput carries the editable fields of a WhatsApp user. Empty fields
// are left untouched.
type UpdateInput struct {
	Name  string `json:"nome"`
	Phone string `json:"telefone"`
}

// CreatePlatformInput is a new operator account.
type CreatePlatformInput struct {
	Name     string `json:"nome" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=adm interno user"`
}

// ListOptions narrows and orders the user listing.
type ListOptions struct {
	Type       string
	Search     string
	Sort       string
	Descending bool
}

// Service manages the usuarios table and platform accounts.
type Service struct {
	gw       Gateway
	auth     AuthAPI
	validate *validator.Validate
	log      zerolog.Logger

	// operator id keyed by auth id, resolved once per process.
	opMu  sync.RWMutex
	opIDs map[string]string
}

// NewService creates a user service.
func NewService(gw Gateway, auth AuthAPI, log zerolog.Logger) *Service {
	return &Service{
		gw:       gw,
		auth:     auth,
		validate: validator.New(),
		log:      log.With().Str("component", "users").Logger(),
		opIDs:    make(map[string]string),
	}
}

// List returns the non-deleted users matching the options. Type narrows to
// platform or WhatsApp accounts; empty covers both.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]User, error) {
	path := "usuarios?select=*&data_exclusao=is.null"
	if opts.Type != "" {
		path += "&tipo=eq." + opts.Type
	}
	var users []User
	if err := s.gw.Get(ctx, path, &users); err != nil {
		return nil, err
	}
	users = Filter(users, opts.Search)

	column, err := ParseSort(opts.Sort)
	if err != nil {
		return nil, platformerrors.New(platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, err.Error(), nil)
	}
	Sort(users, column, opts.Descending)
	return users, nil
}

// Create registers a WhatsApp user. The phone is stored unmasked; it must
// carry 10 to 13 digits once formatting characters are stripped.
func (s *Service) Create(ctx context.Context, in CreateInput) (*User, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, platformerrors.New(platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid input", err)
	}
	digits := phone.Unmask(in.Phone)
	if len(digits) < 10 || len(digits) > 13 {
		return nil, platformerrors.New(platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "phone must have 10 to 13 digits", nil)
	}

	body := map[string]any{
		"nome":     in.Name,
		"telefone": digits,
		"tipo":     TypeWhatsApp,
		"ativo":    true,
	}
	var rows []User
	if err := s.gw.Post(ctx, "usuarios", body, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, platformerrors.New(platformerrors.LayerDomain, platformerrors.ErrorTypeExternal, "backend returned no created row", nil)
	}
	s.log.Info().Str("user_id", rows[0].ID).Msg("whatsapp user created")
	return &rows[0], nil
}

// Update edits a WhatsApp user's name and phone.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) error {
	body := map[string]any{}
	if in.Name != "" {
		body["nome"] = in.Name
	}
	if in.Phone != "" {
		digits := phone.Unmask(in.Phone)
		if len(digits) < 10 || len(digits) > 13 {
			return platformerrors.New(platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "phone must have 10 to 13 digits", nil)
		}
		body["telefone"] = digits
	}
	if len(body) == 0 {
		return platformerrors.New(platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "nothing to update", nil)
	}
	return s.gw.Patch(ctx, "usuarios?id=eq."+id, body)
}

// SoftDelete stamps data_exclusao instead of removing the row, so the
// user's conversation history stays intact.
func (s *Service) SoftDelete(ctx context.Context, id string) error {
	body := map[string]any{
		"data_exclusao": time.Now().UTC().Format(time.RFC3339),
		"ativo":         false,
	}
	return s.gw.Patch(ctx, "usuarios?id=eq."+id, body)
}

// ToggleActive flips a user's active flag.
func (s *Service) ToggleActive(ctx context.Context, id string, active bool) error {
	return s.gw.Patch(ctx, "usuarios?id=eq."+id, map[string]any{"ativo": active})
}

// CreatePlatform registers an operator: an auth account first, then the
// usuarios row carrying the returned id_auth so the panel can tie sessions
// back to an operator id.
func (s *Service) CreatePlatform(ctx context.Context, in CreatePlatformInput) (*User, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, platformerrors.New(platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid input", err)
	}

	signup, err := s.auth.SignUp(ctx, in.Email, in.Password, map[string]any{
		"nome": in.Name,
		"role": in.Role,
	})
	if err != nil {
		return nil, err
	}
	authID := signup.UserID()
	if authID == "" {
		return nil, platformerrors.New(platformerrors.LayerDomain, platformerrors.ErrorTypeExternal, "auth provider returned no account id", nil)
	}

	body := map[string]any{
		"nome":    in.Name,
		"email":   in.Email,
		"tipo":    TypePlatform,
		"role":    in.Role,
		"id_auth": authID,
		"ativo":   true,
	}
	var rows []User
	if err := s.gw.Post(ctx, "usuarios", body, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, platformerrors.New(platformerrors.LayerDomain, platformerrors.ErrorTypeExternal, "backend returned no created row", nil)
	}
	s.log.Info().Str("auth_id", authID).Str("role", in.Role).Msg("platform user created")
	return &rows[0], nil
}

// OperatorID resolves the usuarios row id behind an auth account. Results
// are cached for the life of the process: the mapping never changes.
func (s *Service) OperatorID(ctx context.Context, authID string) (string, error) {
	s.opMu.RLock()
	id, ok := s.opIDs[authID]
	s.opMu.RUnlock()
	if ok {
		return id, nil
	}

	var rows []struct {
		ID string `json:"id"`
	}
	if err := s.gw.Get(ctx, "usuarios?select=id&id_auth=eq."+authID, &rows); err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", ErrNotFound
	}

	s.opMu.Lock()
	s.opIDs[authID] = rows[0].ID
	s.opMu.Unlock()
	return rows[0].ID, nil
}
