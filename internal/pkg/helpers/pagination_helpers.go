package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultLimit = 100
	MaxLimit     = 500
)

// ParseSkipLimit extracts the skip/limit query parameters used by list endpoints.
// Invalid or missing values fall back to skip=0 and limit=DefaultLimit.
func ParseSkipLimit(c *gin.Context) (skip, limit int) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		skip = 0
	}

	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))
	limit = NormalizeLimit(limit)
	if err != nil {
		limit = DefaultLimit
	}

	return skip, limit
}

// NormalizeLimit clamps a limit into (0, MaxLimit]
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// SliceWindow returns the [start, end) indices of the skip/limit window over total items
func SliceWindow(skip, limit, total int) (start, end int) {
	limit = NormalizeLimit(limit)
	if skip < 0 {
		skip = 0
	}

	start = skip
	if start > total {
		start = total
	}
	end = start + limit
	if end > total {
		end = total
	}
	return start, end
}
