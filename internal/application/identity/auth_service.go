package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/infrastructure/auth"
	"github.com/retailcore/backend/internal/infrastructure/logger"
)

// ErrInvalidCredentials is returned for any login failure that must not
// reveal whether the tenant, the user or the password was wrong
var ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid tenant, username or password")

// AuthService handles tenant registration, login and token lifecycle
type AuthService struct {
	tenants   identity.TenantRepository
	users     identity.UserRepository
	jwt       *auth.JWTService
	blacklist auth.TokenBlacklist
}

// NewAuthService creates a new AuthService
func NewAuthService(
	tenants identity.TenantRepository,
	users identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
) *AuthService {
	return &AuthService{
		tenants:   tenants,
		users:     users,
		jwt:       jwtService,
		blacklist: blacklist,
	}
}

// RegisterTenantRequest is the self-service tenant signup payload
type RegisterTenantRequest struct {
	TenantCode string `json:"tenant_code" binding:"required,tenantcode"`
	TenantName string `json:"tenant_name" binding:"required,max=200"`
	Username   string `json:"username" binding:"required,max=100"`
	Password   string `json:"password" binding:"required,min=8"`
}

// RegisterTenantResult carries the created tenant, its owner and a token pair
type RegisterTenantResult struct {
	Tenant *identity.Tenant
	Owner  *identity.User
	Tokens *auth.TokenPair
}

// RegisterTenant provisions a new tenant with its owner account. The tenant
// row is the only unscoped write in the system; the owner is created through
// the scoped path immediately after.
func (s *AuthService) RegisterTenant(ctx context.Context, req RegisterTenantRequest) (*RegisterTenantResult, error) {
	taken, err := s.tenants.ExistsByCode(ctx, req.TenantCode)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("TENANT_CODE_TAKEN", "Tenant code is already registered")
	}

	tenant, err := identity.NewTenant(req.TenantCode, req.TenantName)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	owner, err := identity.NewUser(tenant.ID, req.Username, string(hash), identity.RoleOwner)
	if err != nil {
		return nil, err
	}

	if err := s.tenants.Save(ctx, tenant); err != nil {
		return nil, err
	}
	tenantScope, err := shared.ScopeFor(tenant.ID)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, tenantScope, owner); err != nil {
		return nil, err
	}

	tokens, err := s.issueTokens(tenant.ID, owner)
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("tenant registered",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("tenant_code", tenant.Code),
	)
	return &RegisterTenantResult{Tenant: tenant, Owner: owner, Tokens: tokens}, nil
}

// LoginRequest identifies the tenant by code alongside the credentials
type LoginRequest struct {
	TenantCode string `json:"tenant_code" binding:"required,tenantcode"`
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// LoginResult carries the authenticated user and a token pair
type LoginResult struct {
	User   *identity.User
	Tokens *auth.TokenPair
}

// Login resolves the tenant by code, derives the tenant scope explicitly and
// looks the user up through the scoped path. All credential failures
// collapse into one error; a suspended tenant is reported as such.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	tenant, err := s.tenants.FindByCode(ctx, req.TenantCode)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !tenant.IsActive() {
		return nil, shared.ErrTenantInactive
	}

	tenantScope, err := shared.ScopeFor(tenant.ID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByUsername(ctx, tenantScope, req.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive() {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	user.RecordLogin()
	if err := s.users.Save(ctx, tenantScope, user); err != nil {
		return nil, err
	}

	tokens, err := s.issueTokens(tenant.ID, user)
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("user logged in",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("subject_id", user.ID.String()),
	)
	return &LoginResult{User: user, Tokens: tokens}, nil
}

// Refresh exchanges a valid, unrevoked refresh token for a fresh pair and
// revokes the old refresh token
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, shared.ErrUnauthenticated
	}
	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, shared.ErrUnauthenticated
	}

	pair, err := s.jwt.RefreshTokenPair(refreshToken)
	if err != nil {
		return nil, shared.ErrUnauthenticated
	}
	if err := s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout revokes the presented access token for its remaining lifetime
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.jwt.ValidateAccessToken(accessToken)
	if err != nil {
		// Nothing to revoke for an invalid or expired token
		return nil
	}
	return s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL())
}

func (s *AuthService) issueTokens(tenantID uuid.UUID, user *identity.User) (*auth.TokenPair, error) {
	return s.jwt.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID:  tenantID,
		SubjectID: user.ID,
		Username:  user.Username,
		Role:      string(user.Role),
	})
}
