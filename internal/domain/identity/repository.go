package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/retailcore/backend/internal/domain/shared"
)

// TenantRepository is the unscoped registry of tenants. It is the only
// repository allowed to operate without a tenant scope: the tenant rows are
// the partition keys themselves. Access is restricted to registration,
// login resolution and the guard's activity lookup.
type TenantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindByCode(ctx context.Context, code string) (*Tenant, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, tenant *Tenant) error
}

// UserRepository stores tenant-scoped user accounts
type UserRepository interface {
	FindByID(ctx context.Context, scope shared.TenantScope, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, scope shared.TenantScope, username string) (*User, error)
	FindAll(ctx context.Context, scope shared.TenantScope, filter shared.Filter) ([]User, error)
	Count(ctx context.Context, scope shared.TenantScope) (int64, error)
	Create(ctx context.Context, scope shared.TenantScope, user *User) error
	Save(ctx context.Context, scope shared.TenantScope, user *User) error
}
