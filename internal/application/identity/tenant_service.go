package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/infrastructure/logger"
)

// TenantService handles tenant lifecycle administration
type TenantService struct {
	tenants identity.TenantRepository
}

// NewTenantService creates a new TenantService
func NewTenantService(tenants identity.TenantRepository) *TenantService {
	return &TenantService{tenants: tenants}
}

// GetTenant loads one tenant by ID
func (s *TenantService) GetTenant(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	return s.tenants.FindByID(ctx, id)
}

// SuspendTenant suspends a tenant. Requests for the tenant are rejected by
// the admission guard from the next lookup on.
func (s *TenantService) SuspendTenant(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	tenant, err := s.tenants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := tenant.Suspend(); err != nil {
		return nil, err
	}
	if err := s.tenants.Save(ctx, tenant); err != nil {
		return nil, err
	}

	logger.L(ctx).Warn("tenant suspended", zap.String("tenant_id", tenant.ID.String()))
	return tenant, nil
}

// ActivateTenant re-enables a suspended tenant
func (s *TenantService) ActivateTenant(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	tenant, err := s.tenants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := tenant.Activate(); err != nil {
		return nil, err
	}
	if err := s.tenants.Save(ctx, tenant); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("tenant activated", zap.String("tenant_id", tenant.ID.String()))
	return tenant, nil
}
