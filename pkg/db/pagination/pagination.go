package pagination

// Pagination carries page/limit query parameters. Zero values are replaced by
// the defaults during normalisation.
type Pagination struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

type PageInfo struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

const (
	DefaultPage  = 1
	DefaultLimit = 5
)

// Normalize fills in defaults for missing or non-positive values.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	return p
}

// Skip returns the row offset for the current page.
func (p Pagination) Skip() int {
	return (p.Page - 1) * p.Limit
}

// BuildPageInfo computes page metadata for a total row count.
func BuildPageInfo(p Pagination, total int64) PageInfo {
	pages := total / int64(p.Limit)
	if total%int64(p.Limit) != 0 {
		pages++
	}

	return PageInfo{
		Page:  p.Page,
		Limit: p.Limit,
		Total: total,
		Pages: pages,
	}
}
