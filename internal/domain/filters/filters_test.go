package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewClampsPageSize(t *testing.T) {
	f := New(1, 500, "", false)
	assert.Equal(t, MaxPageSize, f.PageSize)

	capped := New(1, MaxPageSize, "", false)
	assert.Equal(t, capped.PageSize, f.PageSize)
	assert.Equal(t, capped.Limit(), f.Limit())
	assert.Equal(t, capped.Offset(), f.Offset())
}

func TestNewDefaults(t *testing.T) {
	f := New(0, 0, "", false)
	assert.Equal(t, DefaultPage, f.Page)
	assert.Equal(t, DefaultPageSize, f.PageSize)
	assert.Equal(t, SortDefault, f.Sort)
}

func TestOffset(t *testing.T) {
	f := New(3, 10, "", false)
	assert.Equal(t, 20, f.Offset())
	assert.Equal(t, 10, f.Limit())
}

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortTitle, ParseSortKey("title"))
	assert.Equal(t, SortTitle, ParseSortKey("  Title "))
	assert.Equal(t, SortReleaseDate, ParseSortKey("releaseDate"))
	assert.Equal(t, SortAvgRating, ParseSortKey("rating"))
	assert.Equal(t, SortCreatedAt, ParseSortKey("date"))
	assert.Equal(t, SortDefault, ParseSortKey("definitely-not-a-field"))
	assert.Equal(t, SortDefault, ParseSortKey(""))
}

func TestOrderBy(t *testing.T) {
	columns := map[SortKey]string{
		SortTitle:    "title",
		SortDuration: "duration",
	}
	f := New(1, 10, "title", true)
	assert.Equal(t, "title DESC", f.OrderBy(columns, "title ASC"))

	f = New(1, 10, "duration", false)
	assert.Equal(t, "duration ASC", f.OrderBy(columns, "title ASC"))

	// keys this entity does not support fall back, direction included
	f = New(1, 10, "score", true)
	assert.Equal(t, "title ASC", f.OrderBy(columns, "title ASC"))

	f = New(1, 10, "", false)
	assert.Equal(t, "title ASC", f.OrderBy(columns, "title ASC"))
}

func TestCalculateMetadata(t *testing.T) {
	m := CalculateMetadata(95, 2, 10)
	assert.Equal(t, 10, m.TotalPages)
	assert.Equal(t, 95, m.TotalRecords)
	assert.True(t, m.HasNext())
	assert.True(t, m.HasPrevious())

	m = CalculateMetadata(100, 10, 10)
	assert.Equal(t, 10, m.TotalPages)
	assert.False(t, m.HasNext())

	m = CalculateMetadata(1, 1, 10)
	assert.Equal(t, 1, m.TotalPages)
	assert.False(t, m.HasNext())
	assert.False(t, m.HasPrevious())

	m = CalculateMetadata(0, 1, 10)
	assert.Equal(t, 0, m.TotalPages)
	assert.False(t, m.HasNext())
	assert.False(t, m.HasPrevious())
}
