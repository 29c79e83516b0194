package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/quillspace/core/internal/pkg/response"
)

const (
	DefaultPage = 1
	DefaultSize = 10
	MaxSize     = 100
)

// Query is a validated page/size pair. Values produced by FromContext
// are always within [1, MaxSize] bounds.
type Query struct {
	Page int
	Size int
}

// Offset converts the page number into a row offset.
func (q Query) Offset() int {
	return (q.Page - 1) * q.Size
}

// FromContext reads ?page= and ?size= from the request. Missing,
// unparseable, or out-of-range values fall back to the defaults rather
// than erroring, so listing URLs are never rejected over pagination.
func FromContext(c *gin.Context) Query {
	page := atoiOr(c.Query("page"), DefaultPage)
	if page < 1 {
		page = 1
	}
	size := atoiOr(c.Query("size"), DefaultSize)
	if size < 1 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	return Query{Page: page, Size: size}
}

// Paginate runs the query twice, once counted and once windowed, and
// returns the metadata for the response envelope. The caller's clauses
// (joins, filters, select annotations) must already be applied to db.
func Paginate[T any](db *gorm.DB, q Query, dest *[]T) (response.Pagination, error) {
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return response.Pagination{}, err
	}
	if err := db.Offset(q.Offset()).Limit(q.Size).Find(dest).Error; err != nil {
		return response.Pagination{}, err
	}

	pages := int((total + int64(q.Size) - 1) / int64(q.Size))
	return response.Pagination{
		Total:       total,
		CurrentPage: q.Page,
		TotalPage:   pages,
		Size:        q.Size,
		HasNextPage: q.Page < pages,
	}, nil
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
