package model

// FilterOp enumerates dynamic filter operators.
type FilterOp string

const (
	FilterOpEq   FilterOp = "eq"
	FilterOpNe   FilterOp = "ne"
	FilterOpGt   FilterOp = "gt"
	FilterOpLt   FilterOp = "lt"
	FilterOpGe   FilterOp = "ge"
	FilterOpLe   FilterOp = "le"
	FilterOpLike FilterOp = "like"
	FilterOpIn   FilterOp = "in"
)

// FilterItem is one dynamic filter condition. Field names are matched against
// a per-entity whitelist; unknown fields are dropped, never an error.
type FilterItem struct {
	Field string
	Op    FilterOp
	Value string
}

// SortItem is one dynamic sort condition.
type SortItem struct {
	Field string
	Desc  bool
}

// Visibility is the three-way visibility filter exposed at the API.
type Visibility string

const (
	VisibilityVisible   Visibility = "visible"
	VisibilityInvisible Visibility = "invisible"
	VisibilityAll       Visibility = "all"
)

const (
	// DefaultPage is the default page number.
	DefaultPage = 1
	// DefaultPageSize is the default page size.
	DefaultPageSize = 50
)

// Page describes a pagination window.
type Page struct {
	Number int
	Size   int
}

// Normalize coerces non-positive or missing values to the defaults.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = DefaultPage
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	return p
}

// ListQuery carries structural filters, the dynamic filter/sort sets and the
// pagination window for the shared listing surface.
type ListQuery struct {
	OwnerUUID      string
	UploaderUUID   string
	DirectoryUUID  string
	UUIDs          []string
	Visibility     Visibility
	IncludeDeleted bool
	Filters        []FilterItem
	Sorts          []SortItem
	Page           Page
}

// PageCount returns ceil(total / size).
func PageCount(total int64, size int) int64 {
	if size < 1 {
		return 0
	}
	return (total + int64(size) - 1) / int64(size)
}
