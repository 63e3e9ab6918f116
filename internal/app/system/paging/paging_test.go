package paging

import (
	"net/http/httptest"
	"testing"
)

func TestParseStart(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 1},
		{"?start=51", 51},
		{"?start=0", 1},
		{"?start=-4", 1},
		{"?start=abc", 1},
	}
	for _, tc := range tests {
		r := httptest.NewRequest("GET", "/api/audit"+tc.query, nil)
		if got := ParseStart(r); got != tc.want {
			t.Errorf("ParseStart(%q) = %d, want %d", tc.query, got, tc.want)
		}
	}
}

func TestOffset(t *testing.T) {
	if got := Offset(1); got != 0 {
		t.Errorf("Offset(1) = %d, want 0", got)
	}
	if got := Offset(51); got != 50 {
		t.Errorf("Offset(51) = %d, want 50", got)
	}
	if got := Offset(0); got != 0 {
		t.Errorf("Offset(0) = %d, want 0", got)
	}
}

func TestComputeRange(t *testing.T) {
	tests := []struct {
		name  string
		start int
		shown int
		total int64
		want  Range
	}{
		{
			name:  "empty",
			start: 1,
			shown: 0,
			total: 0,
			want:  Range{PrevStart: 1, NextStart: 1},
		},
		{
			name:  "first page with more",
			start: 1,
			shown: PageSize,
			total: 120,
			want:  Range{Start: 1, End: 50, PrevStart: 1, NextStart: 51, HasNext: true},
		},
		{
			name:  "middle page",
			start: 51,
			shown: PageSize,
			total: 120,
			want:  Range{Start: 51, End: 100, PrevStart: 1, NextStart: 101, HasPrev: true, HasNext: true},
		},
		{
			name:  "last page",
			start: 101,
			shown: 20,
			total: 120,
			want:  Range{Start: 101, End: 120, PrevStart: 51, NextStart: 121, HasPrev: true},
		},
		{
			name:  "start past the end",
			start: 201,
			shown: 0,
			total: 120,
			want:  Range{PrevStart: 1, NextStart: 1, HasPrev: true},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ComputeRange(tc.start, tc.shown, tc.total); got != tc.want {
				t.Errorf("ComputeRange(%d, %d, %d) = %+v, want %+v", tc.start, tc.shown, tc.total, got, tc.want)
			}
		})
	}
}
