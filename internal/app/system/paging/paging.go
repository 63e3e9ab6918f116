// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the default number of rows returned by paged list endpoints.
// Keep this as an int because most call sites add/subtract and then
// cast to int64 for Mongo Find().SetLimit().
const PageSize = 50

// ParseStart extracts the human-friendly "start" query parameter (1-based index).
// Returns 1 if not present or invalid.
func ParseStart(r *http.Request) int {
	s := query.Get(r, "start")
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Offset converts a 1-based start into a Mongo skip value.
func Offset(start int) int64 {
	if start < 1 {
		return 0
	}
	return int64(start - 1)
}

// Range holds computed display range values for a paginated list.
type Range struct {
	Start     int  `json:"start"`      // 1-based start index (0 if no results)
	End       int  `json:"end"`        // 1-based end index (0 if no results)
	PrevStart int  `json:"prev_start"` // start value for the previous page
	NextStart int  `json:"next_start"` // start value for the next page
	HasPrev   bool `json:"has_prev"`
	HasNext   bool `json:"has_next"`
}

// ComputeRange calculates range values given the current start index, the
// number of items shown and the total matching.
func ComputeRange(start, shown int, total int64) Range {
	if shown == 0 {
		return Range{PrevStart: 1, NextStart: 1, HasPrev: start > 1}
	}

	prevStart := start - PageSize
	if prevStart < 1 {
		prevStart = 1
	}
	end := start + shown - 1

	return Range{
		Start:     start,
		End:       end,
		PrevStart: prevStart,
		NextStart: end + 1,
		HasPrev:   start > 1,
		HasNext:   int64(end) < total,
	}
}
