package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/anonrelay/internal/auth"
	"github.com/spec-kit/anonrelay/internal/domain"
	"github.com/spec-kit/anonrelay/internal/events"
	"github.com/spec-kit/anonrelay/internal/repository"
	apperrors "github.com/spec-kit/anonrelay/pkg/util"
)

const maxAliasLength = 30

// AliasStatus is the typed outcome of a SetAlias call.
type AliasStatus string

const (
	AliasOK        AliasStatus = "ok"
	AliasTaken     AliasStatus = "taken"
	AliasImmutable AliasStatus = "immutable"
)

// AccountService manages aliases, bans, and the administrator set.
type AccountService struct {
	users          repository.UserRepository
	admins         repository.AdminRepository
	dispatcher     events.Dispatcher
	logger         *zap.Logger
	aliasImmutable bool
	bcryptCost     int
	clock          Clock
}

// AccountDependencies bundles collaborators for the account service.
type AccountDependencies struct {
	UserRepo       repository.UserRepository
	AdminRepo      repository.AdminRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
	AliasImmutable bool
	BcryptCost     int
	Clock          Clock
}

// NewAccountService constructs the service.
func NewAccountService(deps AccountDependencies) *AccountService {
	clock := deps.Clock
	if clock == nil {
		clock = SystemClock
	}
	return &AccountService{
		users:          deps.UserRepo,
		admins:         deps.AdminRepo,
		dispatcher:     deps.Dispatcher,
		logger:         deps.Logger,
		aliasImmutable: deps.AliasImmutable,
		bcryptCost:     deps.BcryptCost,
		clock:          clock,
	}
}

// SetAlias assigns a display alias. The database unique index is the final
// arbiter of collision races: a concurrent taker surfaces as AliasTaken, a
// normal conflict rather than a fault.
func (s *AccountService) SetAlias(ctx context.Context, userID int64, alias string) (AliasStatus, error) {
	alias = strings.TrimSpace(alias)
	if alias == "" || len([]rune(alias)) > maxAliasLength {
		return "", apperrors.NewValidationError("alias must be 1-30 characters", map[string]any{"alias": alias})
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	if s.aliasImmutable && user.HasAlias() {
		return AliasImmutable, nil
	}

	if err := s.users.SetAlias(ctx, userID, alias); err != nil {
		if errors.Is(err, repository.ErrAliasTaken) {
			return AliasTaken, nil
		}
		return "", err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventAliasSet,
		UserID:  userID,
		Payload: events.AliasSetPayload{Alias: alias},
	})
	return AliasOK, nil
}

// SetBan flips the ban flag. Administrators are not bannable targets.
func (s *AccountService) SetBan(ctx context.Context, userID int64, banned bool) error {
	if banned {
		isAdmin, err := s.admins.IsAdmin(ctx, userID)
		if err != nil {
			return err
		}
		if isAdmin {
			return apperrors.NewConflict("administrators cannot be banned", map[string]any{"user_id": userID})
		}
	}

	// Ensure the row exists so banning an unseen user sticks.
	if _, err := s.users.Get(ctx, userID); err != nil {
		return err
	}
	if err := s.users.SetBan(ctx, userID, banned); err != nil {
		return err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventBanChanged,
		UserID:  userID,
		Payload: events.BanChangedPayload{Banned: banned},
	})
	return nil
}

// IsBanned reports the ban flag for a user.
func (s *AccountService) IsBanned(ctx context.Context, userID int64) (bool, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.Banned, nil
}

// IsAdmin reports administrator membership.
func (s *AccountService) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	return s.admins.IsAdmin(ctx, userID)
}

// UserInfo returns the user record, creating it on first contact.
func (s *AccountService) UserInfo(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.Get(ctx, userID)
}

// AddAdmin registers (or updates) an administrator with console credentials.
func (s *AccountService) AddAdmin(ctx context.Context, id int64, displayName, password string) (*domain.Administrator, error) {
	if password == "" {
		return nil, apperrors.NewValidationError("password required", nil)
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	admin := &domain.Administrator{ID: id, PasswordHash: hash}
	if displayName != "" {
		admin.DisplayName = &displayName
	}
	if err := s.admins.Add(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// RemoveAdmin drops an administrator.
func (s *AccountService) RemoveAdmin(ctx context.Context, id int64) error {
	return s.admins.Remove(ctx, id)
}

// ListAdmins returns the administrator set.
func (s *AccountService) ListAdmins(ctx context.Context) ([]domain.Administrator, error) {
	return s.admins.List(ctx)
}

func (s *AccountService) publishEvent(ctx context.Context, event events.Event) {
	event.ID = uuid.NewString()
	event.Timestamp = s.clock.Now()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("type", string(event.Type)), zap.Error(err))
	}
}
