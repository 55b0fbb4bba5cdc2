package scope

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/retailcore/backend/internal/domain/shared"
)

// widget is a minimal tenant-owned aggregate for exercising the collection
type widget struct {
	shared.TenantAggregateRoot
	Name  string          `gorm:"type:varchar(100);not null"`
	Qty   int64           `gorm:"not null;default:0"`
	Price decimal.Decimal `gorm:"type:decimal(20,4);not null"`
}

func (widget) TableName() string {
	return "widgets"
}

func newWidget(tenantID uuid.UUID, name string, qty int64) *widget {
	return &widget{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Qty:                 qty,
		Price:               decimal.NewFromInt(qty),
	}
}

func newMockCollection(t *testing.T, tenantScope shared.TenantScope) (*Collection[widget, *widget], sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewCollection[widget, *widget](gormDB, tenantScope, "name", "qty"), mock, mockDB
}

func TestCollectionFailsClosedWithoutScope(t *testing.T) {
	// Zero-value scope is unbound; no operation may reach the database
	col, mock, mockDB := newMockCollection(t, shared.TenantScope{})
	defer mockDB.Close()

	ctx := context.Background()
	id := uuid.New()

	_, err := col.Get(ctx, id)
	assert.ErrorIs(t, err, shared.ErrScopeRequired)

	_, err = col.List(ctx, nil)
	assert.ErrorIs(t, err, shared.ErrScopeRequired)

	_, err = col.Count(ctx, nil)
	assert.ErrorIs(t, err, shared.ErrScopeRequired)

	_, err = col.SumDecimal(ctx, "price", nil)
	assert.ErrorIs(t, err, shared.ErrScopeRequired)

	err = col.Create(ctx, newWidget(uuid.New(), "w", 1))
	assert.ErrorIs(t, err, shared.ErrScopeRequired)

	err = col.CreateBatch(ctx, []*widget{newWidget(uuid.New(), "w", 1)})
	assert.ErrorIs(t, err, shared.ErrScopeRequired)

	err = col.Save(ctx, newWidget(uuid.New(), "w", 1))
	assert.ErrorIs(t, err, shared.ErrScopeRequired)

	err = col.UpdateFields(ctx, id, Patch{"name": "x"})
	assert.ErrorIs(t, err, shared.ErrScopeRequired)

	err = col.Delete(ctx, id)
	assert.ErrorIs(t, err, shared.ErrScopeRequired)

	_, err = col.DB(ctx)
	assert.ErrorIs(t, err, shared.ErrScopeRequired)

	// No SQL was issued by any of the rejected operations
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionGet(t *testing.T) {
	tenantID := uuid.New()
	tenantScope := shared.MustScopeFor(tenantID)

	t.Run("returns row owned by the bound tenant", func(t *testing.T) {
		col, mock, mockDB := newMockCollection(t, tenantScope)
		defer mockDB.Close()

		id := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "version", "tenant_id", "name", "qty", "price"}).
			AddRow(id, 1, tenantID, "gadget", 3, decimal.NewFromInt(3))

		mock.ExpectQuery(`SELECT \* FROM "widgets" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(id, 1).
			WillReturnRows(rows)

		w, err := col.Get(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "gadget", w.Name)
		assert.Equal(t, tenantID, w.OwnerTenant())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports a foreign tenant's row as not found", func(t *testing.T) {
		col, mock, mockDB := newMockCollection(t, tenantScope)
		defer mockDB.Close()

		id := uuid.New()
		otherTenant := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "version", "tenant_id", "name", "qty", "price"}).
			AddRow(id, 1, otherTenant, "gadget", 3, decimal.NewFromInt(3))

		mock.ExpectQuery(`SELECT \* FROM "widgets" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(id, 1).
			WillReturnRows(rows)

		w, err := col.Get(context.Background(), id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Nil(t, w)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports a missing row as not found", func(t *testing.T) {
		col, mock, mockDB := newMockCollection(t, tenantScope)
		defer mockDB.Close()

		id := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "widgets" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(id, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := col.Get(context.Background(), id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCollectionList(t *testing.T) {
	tenantID := uuid.New()
	tenantScope := shared.MustScopeFor(tenantID)

	t.Run("applies the tenant clause first", func(t *testing.T) {
		col, mock, mockDB := newMockCollection(t, tenantScope)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"id", "version", "tenant_id", "name", "qty", "price"}).
			AddRow(uuid.New(), 1, tenantID, "gadget", 3, decimal.NewFromInt(3))

		mock.ExpectQuery(`SELECT \* FROM "widgets" WHERE tenant_id = \$1 ORDER BY created_at DESC`).
			WithArgs(tenantID).
			WillReturnRows(rows)

		widgets, err := col.List(context.Background(), nil)
		require.NoError(t, err)
		assert.Len(t, widgets, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ANDs caller conditions under the tenant clause", func(t *testing.T) {
		col, mock, mockDB := newMockCollection(t, tenantScope)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "widgets" WHERE tenant_id = \$1 AND name = \$2 ORDER BY qty ASC LIMIT .*`).
			WithArgs(tenantID, "gadget").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		q := NewQuery().Eq("name", "gadget").OrderBy("qty", "asc").Paginate(1, 10)
		_, err := col.List(context.Background(), q)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects a query referencing the tenant column without touching the store", func(t *testing.T) {
		col, mock, mockDB := newMockCollection(t, tenantScope)
		defer mockDB.Close()

		q := NewQuery().Eq("tenant_id", uuid.New())
		_, err := col.List(context.Background(), q)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects an unlisted sort column", func(t *testing.T) {
		col, mock, mockDB := newMockCollection(t, tenantScope)
		defer mockDB.Close()

		q := NewQuery().OrderBy("price", "asc")
		_, err := col.List(context.Background(), q)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCollectionCreate(t *testing.T) {
	tenantID := uuid.New()
	tenantScope := shared.MustScopeFor(tenantID)

	t.Run("stamps the bound tenant over the payload", func(t *testing.T) {
		col, mock, mockDB := newMockCollection(t, tenantScope)
		defer mockDB.Close()

		// Payload claims a different tenant; the bound scope wins
		w := newWidget(uuid.New(), "gadget", 3)

		mock.ExpectExec(`INSERT INTO "widgets"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := col.Create(context.Background(), w)
		require.NoError(t, err)
		assert.Equal(t, tenantID, w.OwnerTenant())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stamps every row in a batch", func(t *testing.T) {
		col, mock, mockDB := newMockCollection(t, tenantScope)
		defer mockDB.Close()

		batch := []*widget{
			newWidget(uuid.New(), "a", 1),
			newWidget(uuid.New(), "b", 2),
		}

		mock.ExpectExec(`INSERT INTO "widgets"`).
			WillReturnResult(sqlmock.NewResult(0, 2))

		err := col.CreateBatch(context.Background(), batch)
		require.NoError(t, err)
		for _, w := range batch {
			assert.Equal(t, tenantID, w.OwnerTenant())
		}
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCollectionSave(t *testing.T) {
	tenantID := uuid.New()
	tenantScope := shared.MustScopeFor(tenantID)

	t.Run("rejects a row owned by another tenant without touching the store", func(t *testing.T) {
		col, mock, mockDB := newMockCollection(t, tenantScope)
		defer mockDB.Close()

		w := newWidget(uuid.New(), "gadget", 3)
		err := col.Save(context.Background(), w)
		assert.ErrorIs(t, err, shared.ErrTenantMismatch)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("keys the update on the tenant clause", func(t *testing.T) {
		col, mock, mockDB := newMockCollection(t, tenantScope)
		defer mockDB.Close()

		w := newWidget(tenantID, "gadget", 3)
		mock.ExpectExec(`UPDATE "widgets" SET .* WHERE tenant_id = \$\d+ AND .*id.* = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := col.Save(context.Background(), w)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports zero affected rows as not found instead of inserting", func(t *testing.T) {
		col, mock, mockDB := newMockCollection(t, tenantScope)
		defer mockDB.Close()

		w := newWidget(tenantID, "gadget", 3)
		mock.ExpectExec(`UPDATE "widgets" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := col.Save(context.Background(), w)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		// No INSERT fallback followed the empty update
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCollectionUpdateFields(t *testing.T) {
	tenantID := uuid.New()
	tenantScope := shared.MustScopeFor(tenantID)

	t.Run("updates within the bound tenant", func(t *testing.T) {
		col, mock, mockDB := newMockCollection(t, tenantScope)
		defer mockDB.Close()

		id := uuid.New()
		mock.ExpectExec(`UPDATE "widgets" SET .* WHERE tenant_id = \$\d+ AND id = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := col.UpdateFields(context.Background(), id, Patch{"name": "renamed"})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports zero affected rows as not found", func(t *testing.T) {
		col, mock, mockDB := newMockCollection(t, tenantScope)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "widgets" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := col.UpdateFields(context.Background(), uuid.New(), Patch{"name": "renamed"})
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("a patch reduced to reserved columns is a no-op", func(t *testing.T) {
		col, mock, mockDB := newMockCollection(t, tenantScope)
		defer mockDB.Close()

		err := col.UpdateFields(context.Background(), uuid.New(), Patch{
			"tenant_id":  uuid.New(),
			"id":         uuid.New(),
			"created_at": "2020-01-01",
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCollectionDelete(t *testing.T) {
	tenantID := uuid.New()
	tenantScope := shared.MustScopeFor(tenantID)

	t.Run("deletes within the bound tenant", func(t *testing.T) {
		col, mock, mockDB := newMockCollection(t, tenantScope)
		defer mockDB.Close()

		id := uuid.New()
		mock.ExpectExec(`DELETE FROM "widgets" WHERE tenant_id = \$1 AND id = \$2`).
			WithArgs(tenantID, id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := col.Delete(context.Background(), id)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports zero affected rows as not found", func(t *testing.T) {
		col, mock, mockDB := newMockCollection(t, tenantScope)
		defer mockDB.Close()

		mock.ExpectExec(`DELETE FROM "widgets"`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := col.Delete(context.Background(), uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestQueryValidation(t *testing.T) {
	t.Run("rejects the tenant column", func(t *testing.T) {
		q := NewQuery().Eq("tenant_id", "x")
		assert.Error(t, q.Err())
	})

	t.Run("rejects malformed identifiers", func(t *testing.T) {
		q := NewQuery().Eq("name; DROP TABLE widgets", "x")
		assert.Error(t, q.Err())

		q = NewQuery().OrderBy(`"quoted"`, "asc")
		assert.Error(t, q.Err())
	})

	t.Run("keeps the first error", func(t *testing.T) {
		q := NewQuery().Eq("tenant_id", "x").Eq("name", "ok")
		assert.Error(t, q.Err())
	})

	t.Run("normalizes sort direction", func(t *testing.T) {
		q := NewQuery().OrderBy("name", "bogus")
		require.NoError(t, q.Err())
		assert.Equal(t, "DESC", q.orderDir)
	})
}

func TestPatchSanitized(t *testing.T) {
	clean, err := Patch{
		"name":      "x",
		"tenant_id": uuid.New(),
		"id":        uuid.New(),
	}.sanitized()
	require.NoError(t, err)
	assert.Equal(t, Patch{"name": "x"}, clean)

	_, err = Patch{"name = 'x' WHERE 1=1 --": "y"}.sanitized()
	assert.Error(t, err)
}
