package utils

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PaginationParams holds the page window requested by the client.
type PaginationParams struct {
	Page     int
	PageSize int
	Offset   int
}

// PaginationResult is the paging envelope attached to list responses.
type PaginationResult struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
	TotalCount int64 `json:"total_count"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// GetPaginationParams reads page/page_size off the query string, clamping
// bad input to sane defaults rather than rejecting the request.
func GetPaginationParams(c *gin.Context) PaginationParams {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(DefaultPageSize)))
	if err != nil || pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	return PaginationParams{
		Page:     page,
		PageSize: pageSize,
		Offset:   (page - 1) * pageSize,
	}
}

// GetPaginationResult builds the envelope for a page of totalCount rows.
func GetPaginationResult(params PaginationParams, totalCount int64) PaginationResult {
	totalPages := int(math.Ceil(float64(totalCount) / float64(params.PageSize)))

	return PaginationResult{
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
		TotalCount: totalCount,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1 && totalCount > 0,
	}
}
