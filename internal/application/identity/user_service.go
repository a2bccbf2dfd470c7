package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/identity"
	"github.com/pdv/backend/internal/domain/shared"
	"github.com/pdv/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// ErrSelfDisable is returned when an admin tries to disable their own account
var ErrSelfDisable = shared.NewDomainError("SELF_DISABLE", "You cannot disable your own account")

// UserService manages user accounts
type UserService struct {
	userRepo  identity.UserRepository
	blacklist auth.TokenBlacklist
	// revokeTTL covers the longest-lived token a disabled user may still hold
	revokeTTL time.Duration
	logger    *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo identity.UserRepository,
	blacklist auth.TokenBlacklist,
	revokeTTL time.Duration,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		blacklist: blacklist,
		revokeTTL: revokeTTL,
		logger:    logger,
	}
}

// Register creates a new active user. Duplicate emails are rejected.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	role, ok := identity.ParseRole(req.Role)
	if !ok {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role must be one of: admin, manager, cashier")
	}
	user, err := identity.NewUser(req.Email, req.Password, req.FullName, role)
	if err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A user with this email already exists")
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role.String()))

	resp := ToUserResponse(user)
	return &resp, nil
}

// Get returns a user by ID
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// List returns a page of users
func (s *UserService) List(ctx context.Context, f UserListFilter) ([]UserResponse, int64, error) {
	filter := identity.UserFilter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			OrderBy:  f.OrderBy,
			OrderDir: f.OrderDir,
		},
		Keyword: f.Search,
		Active:  f.Active,
	}
	if f.Role != "" {
		role := identity.Role(f.Role)
		filter.Role = &role
	}
	filter.Normalize()

	users, total, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserResponse(u))
	}
	return out, total, nil
}

// SetStatus enables or disables a user. Disabling also revokes every token
// the user currently holds.
func (s *UserService) SetStatus(ctx context.Context, actor identity.Identity, id uuid.UUID, active bool) (*StatusChange, error) {
	if !active && actor.UserID == id {
		return nil, ErrSelfDisable
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := ToUserResponse(user)

	if active {
		err = user.Enable()
	} else {
		err = user.Disable()
	}
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateStatus(ctx, user); err != nil {
		return nil, err
	}

	if !active {
		if err := s.blacklist.RevokeUser(ctx, user.ID.String(), s.revokeTTL); err != nil {
			s.logger.Error("Failed to revoke tokens of disabled user",
				zap.String("user_id", user.ID.String()), zap.Error(err))
		}
	}

	s.logger.Info("User status changed",
		zap.String("user_id", user.ID.String()),
		zap.Bool("active", active),
		zap.String("by", actor.UserID.String()))

	return &StatusChange{Before: before, After: ToUserResponse(user)}, nil
}

// CreateAdmin bootstraps an administrator account from the command line
func (s *UserService) CreateAdmin(ctx context.Context, email, fullName, password string) (*UserResponse, error) {
	return s.Register(ctx, RegisterRequest{
		Email:    email,
		Password: password,
		FullName: fullName,
		Role:     identity.RoleAdmin.String(),
	})
}
