package persistence

import (
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/infrastructure/persistence/scope"
)

// queryFromFilter maps the shared list filter onto a scoped query. The sort
// column is validated against the collection's allowlist when applied.
func queryFromFilter(filter shared.Filter, searchColumn string) *scope.Query {
	q := scope.NewQuery()
	if filter.Search != "" && searchColumn != "" {
		q.Like(searchColumn, filter.Search)
	}
	if filter.OrderBy != "" {
		q.OrderBy(filter.OrderBy, filter.OrderDir)
	}
	q.Paginate(filter.Page, filter.PageSize)
	return q
}
