package feed

import (
	"errors"
	"fmt"
	"strconv"
)

var ErrInvalidPagination = errors.New("invalid pagination values")

// PageOutOfRangeError is returned by the single-pool feeds when the requested
// page lies beyond the last page. The discovery feed never returns it; an
// exhausted discovery session yields an empty page instead.
type PageOutOfRangeError struct {
	TotalPages int64
}

func (e *PageOutOfRangeError) Error() string {
	return fmt.Sprintf("page number exceeds total pages (%d)", e.TotalPages)
}

type Pagination struct {
	Items int
	Page  int
}

func (p Pagination) Skip() int64 {
	return int64(p.Page-1) * int64(p.Items)
}

// ParsePagination parses the itemsPerPage/pageNumber query values, applying
// the defaults (10 items, page 1) for missing values and rejecting anything
// that is not a positive integer.
func ParsePagination(itemsPerPage, pageNumber string) (Pagination, error) {
	p := Pagination{Items: 10, Page: 1}

	if itemsPerPage != "" {
		n, err := strconv.Atoi(itemsPerPage)
		if err != nil || n < 1 {
			return Pagination{}, ErrInvalidPagination
		}
		p.Items = n
	}
	if pageNumber != "" {
		n, err := strconv.Atoi(pageNumber)
		if err != nil || n < 1 {
			return Pagination{}, ErrInvalidPagination
		}
		p.Page = n
	}
	return p, nil
}

// PageInfo mirrors the pagination block of the single-pool feed responses.
type PageInfo struct {
	TotalItems   int64 `json:"totalItems"`
	TotalPages   int64 `json:"totalPages"`
	CurrentPage  int   `json:"currentPage"`
	ItemsPerPage int   `json:"itemsPerPage"`
	HasMore      bool  `json:"hasMore"`
}

func totalPages(totalItems int64, items int) int64 {
	return (totalItems + int64(items) - 1) / int64(items)
}
