package option

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// QueryOption mutates a gorm query before it is executed by the repository.
type QueryOption func(*gorm.DB) *gorm.DB

type QuerySortBy struct {
	SortBy  string
	OrderBy string
	Allow   map[string]bool
}

// WithSortBy applies an ORDER BY clause. SortBy must be present in the Allow
// list, otherwise the option is a no-op.
func WithSortBy(sort QuerySortBy) QueryOption {
	return func(tx *gorm.DB) *gorm.DB {
		column := sort.SortBy
		if column == "" {
			column = "created_at"
		}
		if sort.Allow != nil && !sort.Allow[column] {
			return tx
		}

		direction := "ASC"
		if strings.EqualFold(sort.OrderBy, "desc") {
			direction = "DESC"
		}

		return tx.Order(fmt.Sprintf("%s %s", column, direction))
	}
}

func WithSkip(n int) QueryOption {
	return func(tx *gorm.DB) *gorm.DB {
		if n <= 0 {
			return tx
		}
		return tx.Offset(n)
	}
}

func WithLimit(n int) QueryOption {
	return func(tx *gorm.DB) *gorm.DB {
		if n <= 0 {
			return tx
		}
		return tx.Limit(n)
	}
}
