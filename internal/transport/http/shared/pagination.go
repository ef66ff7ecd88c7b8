package shared

import (
	"net/http"
	"strconv"
)

// Pagination is the window a list endpoint was asked for.
type Pagination struct {
	Limit  int
	Offset int
}

// ParsePagination reads limit and offset from the query string. Bad or
// missing values fall back to the defaults, and limit is clamped to
// maxLimit when one is set.
func ParsePagination(r *http.Request, defaultLimit, maxLimit int) Pagination {
	page := Pagination{Limit: defaultLimit}
	if v, ok := queryInt(r, "limit"); ok && v > 0 {
		page.Limit = v
	}
	if v, ok := queryInt(r, "offset"); ok && v >= 0 {
		page.Offset = v
	}
	if maxLimit > 0 && page.Limit > maxLimit {
		page.Limit = maxLimit
	}
	return page
}

func queryInt(r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
