package scope

import (
	"fmt"
	"regexp"
	"strings"
)

// tenantColumn is the ownership column every scoped table carries
const tenantColumn = "tenant_id"

var identifierPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Query is a typed filter builder for scoped list operations. Conditions are
// always ANDed under the tenant clause the collection applies first, so a
// caller can narrow a query but never widen it across tenants. Referencing
// the tenant column directly is rejected.
type Query struct {
	conds    []condition
	orderBy  string
	orderDir string
	page     int
	pageSize int
	err      error
}

type condition struct {
	expr string
	args []any
}

// NewQuery creates an empty query
func NewQuery() *Query {
	return &Query{}
}

// Eq adds an equality condition
func (q *Query) Eq(column string, value any) *Query {
	return q.cond(column, fmt.Sprintf("%s = ?", column), value)
}

// In adds a set membership condition
func (q *Query) In(column string, values any) *Query {
	return q.cond(column, fmt.Sprintf("%s IN ?", column), values)
}

// Gte adds a greater-or-equal condition
func (q *Query) Gte(column string, value any) *Query {
	return q.cond(column, fmt.Sprintf("%s >= ?", column), value)
}

// Lte adds a less-or-equal condition
func (q *Query) Lte(column string, value any) *Query {
	return q.cond(column, fmt.Sprintf("%s <= ?", column), value)
}

// Like adds a case-insensitive pattern condition
func (q *Query) Like(column, pattern string) *Query {
	return q.cond(column, fmt.Sprintf("LOWER(%s) LIKE ?", column), "%"+strings.ToLower(pattern)+"%")
}

func (q *Query) cond(column, expr string, args ...any) *Query {
	if err := validateColumn(column); err != nil {
		q.fail(err)
		return q
	}
	q.conds = append(q.conds, condition{expr: expr, args: args})
	return q
}

// OrderBy sets the sort column and direction. The column is validated
// against the collection's sortable allowlist when the query is applied.
func (q *Query) OrderBy(column, dir string) *Query {
	if err := validateColumn(column); err != nil {
		q.fail(err)
		return q
	}
	q.orderBy = column
	q.orderDir = normalizeDir(dir)
	return q
}

// Paginate sets page-based limit and offset
func (q *Query) Paginate(page, pageSize int) *Query {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	q.page = page
	q.pageSize = pageSize
	return q
}

func (q *Query) fail(err error) {
	if q.err == nil {
		q.err = err
	}
}

// Err returns the first builder error, if any. A query with an error never
// reaches the store.
func (q *Query) Err() error {
	return q.err
}

// validateColumn accepts lowercase snake_case identifiers and rejects the
// tenant column so the tenant clause cannot be shadowed or duplicated.
func validateColumn(column string) error {
	if column == tenantColumn {
		return fmt.Errorf("column %q is reserved for tenant scoping", tenantColumn)
	}
	if !identifierPattern.MatchString(column) {
		return fmt.Errorf("invalid column name %q", column)
	}
	return nil
}

func normalizeDir(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// Patch is a set of column updates for partial writes. The tenant column,
// primary key and creation timestamp are stripped before the update runs,
// so a payload cannot move a row between tenants.
type Patch map[string]any

func (p Patch) sanitized() (Patch, error) {
	out := make(Patch, len(p))
	for column, value := range p {
		switch column {
		case tenantColumn, "id", "created_at":
			continue
		}
		if !identifierPattern.MatchString(column) {
			return nil, fmt.Errorf("invalid column name %q", column)
		}
		out[column] = value
	}
	return out, nil
}
