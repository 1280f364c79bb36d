// Package pagination turns page/size requests into LIMIT/OFFSET queries and
// wraps the result in a page envelope.
package pagination

import (
	"errors"
	"strconv"

	"gorm.io/gorm"
)

const (
	DefaultPage = 1
	DefaultSize = 10
	MaxSize     = 100

	// DefaultOrder keeps pages stable between requests.
	DefaultOrder = "id ASC"
)

var ErrInvalidParams = errors.New("page and size must be positive integers")

type Params struct {
	Page int
	Size int
}

// Parse reads raw query values. Empty values take the defaults, a size above
// MaxSize is clamped to it, and anything that is not a positive integer is
// rejected.
func Parse(page, size string) (Params, error) {
	p := Params{Page: DefaultPage, Size: DefaultSize}

	if page != "" {
		n, err := strconv.Atoi(page)
		if err != nil {
			return Params{}, ErrInvalidParams
		}
		p.Page = n
	}
	if size != "" {
		n, err := strconv.Atoi(size)
		if err != nil {
			return Params{}, ErrInvalidParams
		}
		p.Size = n
	}

	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p.clamp(), nil
}

func (p Params) Validate() error {
	if p.Page < 1 || p.Size < 1 {
		return ErrInvalidParams
	}
	return nil
}

func (p Params) clamp() Params {
	if p.Size > MaxSize {
		p.Size = MaxSize
	}
	return p
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Size
}

// Page is the list response envelope.
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Pages int   `json:"pages"`
}

// PageCount is ceil(total/size), or 0 for an empty collection.
func PageCount(total int64, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// Find counts the rows matched by query and loads one page of them ordered by
// order (DefaultOrder when empty). The count and the page are two separate
// statements, so under concurrent writes total can drift from items.
func Find[M any](query *gorm.DB, p Params, order string) (*Page[M], error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p = p.clamp()
	if order == "" {
		order = DefaultOrder
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Model(new(M)).Count(&total).Error; err != nil {
		return nil, err
	}

	items := make([]M, 0, p.Size)
	if int64(p.Offset()) < total {
		err := query.Session(&gorm.Session{}).
			Order(order).
			Limit(p.Size).
			Offset(p.Offset()).
			Find(&items).Error
		if err != nil {
			return nil, err
		}
	}

	return &Page[M]{
		Items: items,
		Total: total,
		Page:  p.Page,
		Size:  p.Size,
		Pages: PageCount(total, p.Size),
	}, nil
}

// Map converts the items of a page, keeping the metadata.
func Map[M, D any](page *Page[M], fn func(M) D) *Page[D] {
	items := make([]D, len(page.Items))
	for i, item := range page.Items {
		items[i] = fn(item)
	}
	return &Page[D]{
		Items: items,
		Total: page.Total,
		Page:  page.Page,
		Size:  page.Size,
		Pages: page.Pages,
	}
}
