package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListQuery_Normalize(t *testing.T) {
	q := ListQuery{}.Normalize()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.PageSize)

	q = ListQuery{Page: 3, PageSize: 25}.Normalize()
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 25, q.PageSize)
}

func TestListQuery_Offset(t *testing.T) {
	// 25 entities at page size 10: page 2 starts after the first 10.
	q := ListQuery{Page: 2, PageSize: 10}.Normalize()
	assert.Equal(t, 10, q.Offset())

	assert.Equal(t, 0, ListQuery{}.Normalize().Offset())
	assert.Equal(t, 40, ListQuery{Page: 5, PageSize: 10}.Offset())
}

func TestPages(t *testing.T) {
	tests := []struct {
		name     string
		total    int64
		pageSize int
		want     int
	}{
		{name: "exact multiple", total: 20, pageSize: 10, want: 2},
		{name: "partial last page", total: 25, pageSize: 10, want: 3},
		{name: "single short page", total: 3, pageSize: 10, want: 1},
		{name: "empty set", total: 0, pageSize: 10, want: 0},
		{name: "invalid page size", total: 10, pageSize: 0, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Pages(tt.total, tt.pageSize))
		})
	}
}
