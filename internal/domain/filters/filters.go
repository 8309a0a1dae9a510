package filters

import "strings"

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	// MaxPageSize is a hard cap: larger requested sizes are clamped, not rejected.
	MaxPageSize = 50

	AscSort  = "ASC"
	DescSort = "DESC"
)

// SortKey enumerates every sortable field across the search endpoints.
// Each storage model maps the subset it supports to a concrete column;
// keys without a mapping fall back to the model's default order.
type SortKey int

const (
	SortDefault SortKey = iota
	SortTitle
	SortReleaseDate
	SortAvgRating
	SortDuration
	SortName
	SortEmail
	SortCreatedAt
	SortScore
	SortMovieCount
)

var sortKeys = map[string]SortKey{
	"title":       SortTitle,
	"releasedate": SortReleaseDate,
	"avgrating":   SortAvgRating,
	"rating":      SortAvgRating,
	"duration":    SortDuration,
	"name":        SortName,
	"email":       SortEmail,
	"createdat":   SortCreatedAt,
	"date":        SortCreatedAt,
	"score":       SortScore,
	"moviecount":  SortMovieCount,
}

// ParseSortKey maps a client-supplied sort-field name to a SortKey.
// Unrecognized names yield SortDefault.
func ParseSortKey(s string) SortKey {
	if key, ok := sortKeys[strings.ToLower(strings.TrimSpace(s))]; ok {
		return key
	}
	return SortDefault
}

type Filters struct {
	Page     int
	PageSize int
	Sort     SortKey
	Desc     bool
}

// New normalizes raw pagination input: non-positive pages and sizes get the
// defaults, oversized pages are clamped to MaxPageSize.
func New(page, pageSize int, sort string, desc bool) Filters {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Filters{
		Page:     page,
		PageSize: pageSize,
		Sort:     ParseSortKey(sort),
		Desc:     desc,
	}
}

func (f Filters) Limit() int {
	return f.PageSize
}

func (f Filters) Offset() int {
	return (f.Page - 1) * f.PageSize
}

func (f Filters) Direction() string {
	if f.Desc {
		return DescSort
	}
	return AscSort
}

// OrderBy resolves the sort key against an entity's column map. The returned
// fragment is built exclusively from the map's values, never from client
// input. fallback must carry its own direction (e.g. "created_at DESC") and
// is used for SortDefault and for keys the entity does not support.
func (f Filters) OrderBy(columns map[SortKey]string, fallback string) string {
	col, ok := columns[f.Sort]
	if !ok {
		return fallback
	}
	return col + " " + f.Direction()
}

type Metadata struct {
	CurrentPage  int `json:"currentPage"`
	PageSize     int `json:"pageSize"`
	TotalPages   int `json:"totalPages"`
	TotalRecords int `json:"totalRecords"`
}

func CalculateMetadata(totalRecords, page, pageSize int) Metadata {
	if totalRecords == 0 {
		return Metadata{CurrentPage: page, PageSize: pageSize}
	}
	return Metadata{
		CurrentPage:  page,
		PageSize:     pageSize,
		TotalPages:   (totalRecords + pageSize - 1) / pageSize,
		TotalRecords: totalRecords,
	}
}

func (m Metadata) HasNext() bool {
	return m.CurrentPage < m.TotalPages
}

func (m Metadata) HasPrevious() bool {
	return m.CurrentPage > 1
}
