package common

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Pagination carries the page window parsed from the request query.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// ParsePagination reads page/limit query parameters with the standard
// defaults and caps.
func ParsePagination(c *gin.Context) Pagination {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return Pagination{Page: page, Limit: limit}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageInfo describes the window of a paginated listing.
type PageInfo struct {
	Count      int `json:"count"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// Paginated wraps list results with their page metadata.
type Paginated struct {
	Results    interface{} `json:"results"`
	Pagination PageInfo    `json:"pagination"`
}

func NewPaginated(results interface{}, total int, p Pagination) Paginated {
	totalPages := total / p.Limit
	if total%p.Limit != 0 {
		totalPages++
	}
	return Paginated{
		Results: results,
		Pagination: PageInfo{
			Count:      total,
			Page:       p.Page,
			PageSize:   p.Limit,
			TotalPages: totalPages,
		},
	}
}
