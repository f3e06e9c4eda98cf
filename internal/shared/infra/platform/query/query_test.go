package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(i int) *int { return &i }

func TestNewPagePagination(t *testing.T) {
	tests := []struct {
		name    string
		page    *int
		perPage *int
		want    PagePagination
	}{
		{"defaults", nil, nil, PagePagination{Page: 1, PerPage: 20}},
		{"page below one", intPtr(-3), intPtr(10), PagePagination{Page: 1, PerPage: 10}},
		{"per page zero", intPtr(2), intPtr(0), PagePagination{Page: 2, PerPage: 1}},
		{"per page above max", intPtr(4), intPtr(500), PagePagination{Page: 4, PerPage: 100}},
		{"in range", intPtr(7), intPtr(100), PagePagination{Page: 7, PerPage: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPagePagination(tt.page, tt.perPage))
		})
	}
}

func TestApplyAndSetIfNotEmpty(t *testing.T) {
	v := url.Values{}
	NewPagePagination(intPtr(2), intPtr(50)).Apply(v)
	SetIfNotEmpty(v, "status", "")
	SetIfNotEmpty(v, "payment_status", "pending")

	assert.Equal(t, "page=2&payment_status=pending&per_page=50", v.Encode())
}
