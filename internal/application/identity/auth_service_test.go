package identity_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	appidentity "github.com/retailcore/backend/internal/application/identity"
	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/infrastructure/auth"
	"github.com/retailcore/backend/internal/infrastructure/config"
	"github.com/retailcore/backend/internal/infrastructure/persistence"
)

type authFixture struct {
	service   *appidentity.AuthService
	tenants   *persistence.GormTenantRepository
	jwt       *auth.JWTService
	blacklist *auth.InMemoryTokenBlacklist
}

func newAuthFixture(t *testing.T) *authFixture {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&identity.Tenant{}, &identity.User{}))

	tenants := persistence.NewGormTenantRepository(db)
	users := persistence.NewGormUserRepository(db)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-characters",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "test",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()

	return &authFixture{
		service:   appidentity.NewAuthService(tenants, users, jwtService, blacklist),
		tenants:   tenants,
		jwt:       jwtService,
		blacklist: blacklist,
	}
}

func registerAcme(t *testing.T, f *authFixture) *appidentity.RegisterTenantResult {
	t.Helper()
	result, err := f.service.RegisterTenant(context.Background(), appidentity.RegisterTenantRequest{
		TenantCode: "acme",
		TenantName: "Acme Retail",
		Username:   "Alice",
		Password:   "s3cret-pass",
	})
	require.NoError(t, err)
	return result
}

func TestRegisterTenant(t *testing.T) {
	ctx := context.Background()

	t.Run("creates tenant with owner and issues tokens", func(t *testing.T) {
		f := newAuthFixture(t)
		result := registerAcme(t, f)

		assert.Equal(t, "ACME", result.Tenant.Code)
		assert.True(t, result.Tenant.IsActive())
		assert.Equal(t, "alice", result.Owner.Username)
		assert.Equal(t, identity.RoleOwner, result.Owner.Role)
		assert.Equal(t, result.Tenant.ID, result.Owner.TenantID)
		assert.NotEqual(t, "s3cret-pass", result.Owner.PasswordHash)

		claims, err := f.jwt.ValidateAccessToken(result.Tokens.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, result.Tenant.ID.String(), claims.TenantID)
	})

	t.Run("duplicate tenant code is rejected", func(t *testing.T) {
		f := newAuthFixture(t)
		registerAcme(t, f)

		_, err := f.service.RegisterTenant(ctx, appidentity.RegisterTenantRequest{
			TenantCode: "ACME",
			TenantName: "Acme Clone",
			Username:   "bob",
			Password:   "another-pass",
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TENANT_CODE_TAKEN", domainErr.Code)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials issue tokens and stamp last login", func(t *testing.T) {
		f := newAuthFixture(t)
		registerAcme(t, f)

		result, err := f.service.Login(ctx, appidentity.LoginRequest{
			TenantCode: "acme",
			Username:   "ALICE",
			Password:   "s3cret-pass",
		})
		require.NoError(t, err)
		assert.NotNil(t, result.User.LastLoginAt)
		assert.NotEmpty(t, result.Tokens.AccessToken)
	})

	t.Run("wrong password collapses into invalid credentials", func(t *testing.T) {
		f := newAuthFixture(t)
		registerAcme(t, f)

		_, err := f.service.Login(ctx, appidentity.LoginRequest{
			TenantCode: "acme",
			Username:   "alice",
			Password:   "wrong",
		})
		assert.ErrorIs(t, err, appidentity.ErrInvalidCredentials)
	})

	t.Run("unknown tenant collapses into invalid credentials", func(t *testing.T) {
		f := newAuthFixture(t)
		registerAcme(t, f)

		_, err := f.service.Login(ctx, appidentity.LoginRequest{
			TenantCode: "nowhere",
			Username:   "alice",
			Password:   "s3cret-pass",
		})
		assert.ErrorIs(t, err, appidentity.ErrInvalidCredentials)
	})

	t.Run("suspended tenant is reported as inactive", func(t *testing.T) {
		f := newAuthFixture(t)
		result := registerAcme(t, f)

		tenant, err := f.tenants.FindByID(ctx, result.Tenant.ID)
		require.NoError(t, err)
		require.NoError(t, tenant.Suspend())
		require.NoError(t, f.tenants.Save(ctx, tenant))

		_, err = f.service.Login(ctx, appidentity.LoginRequest{
			TenantCode: "acme",
			Username:   "alice",
			Password:   "s3cret-pass",
		})
		assert.ErrorIs(t, err, shared.ErrTenantInactive)
	})

	t.Run("user of another tenant cannot log in through this tenant", func(t *testing.T) {
		f := newAuthFixture(t)
		registerAcme(t, f)
		_, err := f.service.RegisterTenant(ctx, appidentity.RegisterTenantRequest{
			TenantCode: "globex",
			TenantName: "Globex",
			Username:   "hank",
			Password:   "hank-pass-123",
		})
		require.NoError(t, err)

		_, err = f.service.Login(ctx, appidentity.LoginRequest{
			TenantCode: "acme",
			Username:   "hank",
			Password:   "hank-pass-123",
		})
		assert.ErrorIs(t, err, appidentity.ErrInvalidCredentials)
	})
}

func TestTokenLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("refresh rotates the pair and revokes the old refresh token", func(t *testing.T) {
		f := newAuthFixture(t)
		result := registerAcme(t, f)

		pair, err := f.service.Refresh(ctx, result.Tokens.RefreshToken)
		require.NoError(t, err)
		assert.NotEqual(t, result.Tokens.RefreshToken, pair.RefreshToken)

		// The consumed refresh token cannot be replayed
		_, err = f.service.Refresh(ctx, result.Tokens.RefreshToken)
		assert.ErrorIs(t, err, shared.ErrUnauthenticated)
	})

	t.Run("access token cannot be used as refresh token", func(t *testing.T) {
		f := newAuthFixture(t)
		result := registerAcme(t, f)

		_, err := f.service.Refresh(ctx, result.Tokens.AccessToken)
		assert.ErrorIs(t, err, shared.ErrUnauthenticated)
	})

	t.Run("logout revokes the access token", func(t *testing.T) {
		f := newAuthFixture(t)
		result := registerAcme(t, f)

		require.NoError(t, f.service.Logout(ctx, result.Tokens.AccessToken))

		claims, err := f.jwt.ValidateAccessToken(result.Tokens.AccessToken)
		require.NoError(t, err)
		revoked, err := f.blacklist.IsRevoked(ctx, claims.ID)
		require.NoError(t, err)
		assert.True(t, revoked)
	})
}
