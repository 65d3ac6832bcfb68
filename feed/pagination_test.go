package feed

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePaginationDefaults(t *testing.T) {
	pg, err := ParsePagination("", "")
	require.NoError(t, err)
	require.Equal(t, Pagination{Items: 10, Page: 1}, pg)
}

func TestParsePaginationExplicit(t *testing.T) {
	pg, err := ParsePagination("25", "3")
	require.NoError(t, err)
	require.Equal(t, Pagination{Items: 25, Page: 3}, pg)
	require.EqualValues(t, 50, pg.Skip())
}

func TestParsePaginationRejectsBadValues(t *testing.T) {
	for _, tc := range []struct{ items, page string }{
		{"0", "1"},
		{"-5", "1"},
		{"10", "0"},
		{"10", "-2"},
		{"abc", "1"},
		{"10", "xyz"},
		{"2.5", "1"},
	} {
		_, err := ParsePagination(tc.items, tc.page)
		require.ErrorIs(t, err, ErrInvalidPagination, "items=%q page=%q", tc.items, tc.page)
	}
}

func TestTotalPagesRoundsUp(t *testing.T) {
	require.EqualValues(t, 3, totalPages(7, 3))
	require.EqualValues(t, 1, totalPages(3, 3))
	require.EqualValues(t, 0, totalPages(0, 10))
}
