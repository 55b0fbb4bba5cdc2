package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/infrastructure/persistence/scope"
)

var userSortFields = []string{"username", "display_name", "role", "status", "last_login_at", "updated_at"}

// GormUserRepository implements identity.UserRepository over the scoped
// collection
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) users(tenantScope shared.TenantScope) *scope.Collection[identity.User, *identity.User] {
	return scope.NewCollection[identity.User, *identity.User](r.db, tenantScope, userSortFields...)
}

// FindByID finds a user by ID within the bound tenant
func (r *GormUserRepository) FindByID(ctx context.Context, tenantScope shared.TenantScope, id uuid.UUID) (*identity.User, error) {
	return r.users(tenantScope).Get(ctx, id)
}

// FindByUsername finds a user by username within the bound tenant
func (r *GormUserRepository) FindByUsername(ctx context.Context, tenantScope shared.TenantScope, username string) (*identity.User, error) {
	db, err := r.users(tenantScope).DB(ctx)
	if err != nil {
		return nil, err
	}
	var user identity.User
	if err := db.Where("username = ?", strings.ToLower(strings.TrimSpace(username))).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindAll lists users within the bound tenant
func (r *GormUserRepository) FindAll(ctx context.Context, tenantScope shared.TenantScope, filter shared.Filter) ([]identity.User, error) {
	return r.users(tenantScope).List(ctx, queryFromFilter(filter, "username"))
}

// Count counts users within the bound tenant
func (r *GormUserRepository) Count(ctx context.Context, tenantScope shared.TenantScope) (int64, error) {
	return r.users(tenantScope).Count(ctx, nil)
}

// Create inserts a user stamped with the bound tenant
func (r *GormUserRepository) Create(ctx context.Context, tenantScope shared.TenantScope, user *identity.User) error {
	return r.users(tenantScope).Create(ctx, user)
}

// Save writes a user owned by the bound tenant
func (r *GormUserRepository) Save(ctx context.Context, tenantScope shared.TenantScope, user *identity.User) error {
	return r.users(tenantScope).Save(ctx, user)
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
