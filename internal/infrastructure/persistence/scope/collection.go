// Package scope provides tenant-scoped data access over GORM.
//
// A Collection decorates one tenant-owned table with mandatory tenant
// filtering and stamping. The tenant is bound explicitly at construction
// from a shared.TenantScope; it is never read from ambient request state.
// Every operation on an unbound scope fails closed before any statement
// reaches the database.
package scope

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/retailcore/backend/internal/domain/shared"
)

// TenantOwned is implemented by pointers to aggregates embedding
// shared.TenantAggregateRoot
type TenantOwned interface {
	OwnerTenant() uuid.UUID
	AssignTenant(tenantID uuid.UUID)
}

// Collection is a tenant-scoped view of one table. T is the row type, PT its
// pointer type carrying the ownership accessors.
type Collection[T any, PT interface {
	*T
	TenantOwned
}] struct {
	db       *gorm.DB
	scope    shared.TenantScope
	sortable map[string]bool
}

// NewCollection creates a collection bound to the given tenant scope.
// sortable lists the columns OrderBy may reference; created_at is always
// allowed as the default sort.
func NewCollection[T any, PT interface {
	*T
	TenantOwned
}](db *gorm.DB, tenantScope shared.TenantScope, sortable ...string) *Collection[T, PT] {
	allowed := map[string]bool{"created_at": true}
	for _, column := range sortable {
		allowed[column] = true
	}
	return &Collection[T, PT]{
		db:       db,
		scope:    tenantScope,
		sortable: allowed,
	}
}

// WithTx rebinds the collection onto a transaction handle, keeping the same
// tenant scope. Used by the transaction coordinator so every statement
// inside an atomic unit re-asserts the tenant.
func (c *Collection[T, PT]) WithTx(tx *gorm.DB) *Collection[T, PT] {
	return &Collection[T, PT]{
		db:       tx,
		scope:    c.scope,
		sortable: c.sortable,
	}
}

// Scope returns the bound tenant scope
func (c *Collection[T, PT]) Scope() shared.TenantScope {
	return c.scope
}

func (c *Collection[T, PT]) guard() error {
	if !c.scope.Bound() {
		return shared.ErrScopeRequired
	}
	return nil
}

// scoped returns a query handle with the tenant clause already applied
func (c *Collection[T, PT]) scoped(ctx context.Context) *gorm.DB {
	var model T
	return c.db.WithContext(ctx).Model(&model).Where(tenantColumn+" = ?", c.scope.TenantID())
}

// Get fetches one row by primary key and verifies its owner. A row owned by
// another tenant is reported as not found, identical to a row that does not
// exist, so probing foreign keys leaks nothing.
func (c *Collection[T, PT]) Get(ctx context.Context, id uuid.UUID) (PT, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}
	var row T
	err := c.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch row: %w", err)
	}
	ptr := PT(&row)
	if ptr.OwnerTenant() != c.scope.TenantID() {
		return nil, shared.ErrNotFound
	}
	return ptr, nil
}

// List returns rows matching the query within the bound tenant
func (c *Collection[T, PT]) List(ctx context.Context, q *Query) ([]T, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}
	db, err := c.apply(c.scoped(ctx), q)
	if err != nil {
		return nil, err
	}
	var rows []T
	if err := db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list rows: %w", err)
	}
	return rows, nil
}

// Count returns the number of rows matching the query within the bound tenant
func (c *Collection[T, PT]) Count(ctx context.Context, q *Query) (int64, error) {
	if err := c.guard(); err != nil {
		return 0, err
	}
	db, err := c.applyConditions(c.scoped(ctx), q)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := db.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return count, nil
}

// SumDecimal totals a decimal column over rows matching the query within the
// bound tenant
func (c *Collection[T, PT]) SumDecimal(ctx context.Context, column string, q *Query) (decimal.Decimal, error) {
	if err := c.guard(); err != nil {
		return decimal.Zero, err
	}
	if err := validateColumn(column); err != nil {
		return decimal.Zero, err
	}
	db, err := c.applyConditions(c.scoped(ctx), q)
	if err != nil {
		return decimal.Zero, err
	}
	var total decimal.NullDecimal
	row := db.Select(fmt.Sprintf("SUM(%s)", column)).Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum %s: %w", column, err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// Create inserts a row, stamping the bound tenant. Any tenant the payload
// carried is overridden; callers cannot write into another tenant.
func (c *Collection[T, PT]) Create(ctx context.Context, row PT) error {
	if err := c.guard(); err != nil {
		return err
	}
	row.AssignTenant(c.scope.TenantID())
	if err := c.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("failed to create row: %w", err)
	}
	return nil
}

// CreateBatch inserts rows in one statement, stamping the bound tenant on each
func (c *Collection[T, PT]) CreateBatch(ctx context.Context, rows []PT) error {
	if err := c.guard(); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	for _, row := range rows {
		row.AssignTenant(c.scope.TenantID())
	}
	if err := c.db.WithContext(ctx).Create(rows).Error; err != nil {
		return fmt.Errorf("failed to create rows: %w", err)
	}
	return nil
}

// Save writes a full row back within the bound tenant. A row claiming
// another tenant is an integrity violation, not a not-found. The in-memory
// owner check alone is not enough: the payload could carry the bound tenant
// but a foreign row's primary key, so the UPDATE itself is keyed on the
// tenant clause and a forged key matches nothing.
func (c *Collection[T, PT]) Save(ctx context.Context, row PT) error {
	if err := c.guard(); err != nil {
		return err
	}
	if row.OwnerTenant() != c.scope.TenantID() {
		return shared.ErrTenantMismatch
	}
	result := c.db.WithContext(ctx).
		Model(row).
		Where(tenantColumn+" = ?", c.scope.TenantID()).
		Select("*").
		Updates(row)
	if result.Error != nil {
		return fmt.Errorf("failed to save row: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// UpdateFields applies a partial update to one row within the bound tenant.
// The patch is sanitized first; tenant and key columns never change.
func (c *Collection[T, PT]) UpdateFields(ctx context.Context, id uuid.UUID, patch Patch) error {
	if err := c.guard(); err != nil {
		return err
	}
	clean, err := patch.sanitized()
	if err != nil {
		return err
	}
	if len(clean) == 0 {
		return nil
	}
	result := c.scoped(ctx).Where("id = ?", id).Updates(map[string]any(clean))
	if result.Error != nil {
		return fmt.Errorf("failed to update row: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes one row within the bound tenant
func (c *Collection[T, PT]) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.guard(); err != nil {
		return err
	}
	var model T
	result := c.db.WithContext(ctx).
		Where(tenantColumn+" = ?", c.scope.TenantID()).
		Where("id = ?", id).
		Delete(&model)
	if result.Error != nil {
		return fmt.Errorf("failed to delete row: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DB returns a query handle with the tenant clause pre-applied, for
// repository-specific statements the generic operations do not cover.
// The clause is already part of the handle; further Where calls AND onto it.
func (c *Collection[T, PT]) DB(ctx context.Context) (*gorm.DB, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}
	return c.scoped(ctx), nil
}

func (c *Collection[T, PT]) apply(db *gorm.DB, q *Query) (*gorm.DB, error) {
	db, err := c.applyConditions(db, q)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return db.Order("created_at DESC"), nil
	}
	orderBy := "created_at"
	orderDir := "DESC"
	if q.orderBy != "" {
		if !c.sortable[q.orderBy] {
			return nil, fmt.Errorf("column %q is not sortable", q.orderBy)
		}
		orderBy = q.orderBy
		orderDir = q.orderDir
	}
	db = db.Order(fmt.Sprintf("%s %s", orderBy, orderDir))
	if q.pageSize > 0 {
		db = db.Limit(q.pageSize).Offset((q.page - 1) * q.pageSize)
	}
	return db, nil
}

func (c *Collection[T, PT]) applyConditions(db *gorm.DB, q *Query) (*gorm.DB, error) {
	if q == nil {
		return db, nil
	}
	if q.err != nil {
		return nil, q.err
	}
	for _, cond := range q.conds {
		db = db.Where(cond.expr, cond.args...)
	}
	return db, nil
}
