package graph

import (
	"fmt"
	"math"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	DefaultSort  = "createdAt"
)

// SortOrder is asc or desc
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// ListOptions are the paging and ordering arguments every list operation takes
type ListOptions struct {
	Page  int
	Limit int
	Sort  string
	Order SortOrder
}

// DefaultListOptions is page 1 of 10, newest first
func DefaultListOptions() ListOptions {
	return ListOptions{Page: DefaultPage, Limit: DefaultLimit, Sort: DefaultSort, Order: OrderDesc}
}

// Offset is the number of records to skip. It saturates at math.MaxInt so
// pages far past the end stay empty.
func (o ListOptions) Offset() int {
	if o.Page < 1 || o.Limit < 1 {
		return 0
	}
	if o.Page-1 > math.MaxInt/o.Limit {
		return math.MaxInt
	}
	return (o.Page - 1) * o.Limit
}

// Resource identifies which sort whitelist applies
type Resource string

const (
	ResourcePlace            Resource = "place"
	ResourcePerson           Resource = "person"
	ResourceEntity           Resource = "entity"
	ResourceEntityType       Resource = "entityType"
	ResourceRelationshipType Resource = "relationshipType"
	ResourceRelationship     Resource = "relationship"
)

// sortColumns maps wire sort names to storage column / property names.
// Both backends store fields in snake_case.
var sortColumns = map[Resource]map[string]string{
	ResourcePlace: {
		"name": "name", "createdAt": "created_at", "updatedAt": "updated_at",
	},
	ResourcePerson: {
		"firstName": "first_name", "lastName": "last_name", "dateOfBirth": "date_of_birth",
		"createdAt": "created_at", "updatedAt": "updated_at",
	},
	ResourceEntity: {
		"name": "name", "createdAt": "created_at", "updatedAt": "updated_at",
	},
	ResourceEntityType: {
		"name": "name", "createdAt": "created_at", "updatedAt": "updated_at",
	},
	ResourceRelationshipType: {
		"name": "name", "createdAt": "created_at", "updatedAt": "updated_at",
	},
	ResourceRelationship: {
		"createdAt": "created_at", "updatedAt": "updated_at",
	},
}

// Normalize fills defaults and rejects values outside the allowed ranges
func (o ListOptions) Normalize(res Resource) (ListOptions, error) {
	if o.Page == 0 {
		o.Page = DefaultPage
	}
	if o.Limit == 0 {
		o.Limit = DefaultLimit
	}
	if o.Sort == "" {
		o.Sort = DefaultSort
	}
	if o.Order == "" {
		o.Order = OrderDesc
	}
	o.Order = SortOrder(strings.ToLower(string(o.Order)))

	if o.Page < 1 {
		return o, fmt.Errorf("page must be at least 1")
	}
	if o.Limit < 1 || o.Limit > MaxLimit {
		return o, fmt.Errorf("limit must be between 1 and %d", MaxLimit)
	}
	if o.Order != OrderAsc && o.Order != OrderDesc {
		return o, fmt.Errorf("order must be asc or desc")
	}
	if _, ok := sortColumns[res][o.Sort]; !ok {
		return o, fmt.Errorf("cannot sort by %q", o.Sort)
	}
	return o, nil
}

// SortColumn returns the storage name of the sort field, falling back to created_at
func (o ListOptions) SortColumn(res Resource) string {
	if col, ok := sortColumns[res][o.Sort]; ok {
		return col
	}
	return "created_at"
}

// Descending reports whether the order is desc
func (o ListOptions) Descending() bool {
	return o.Order != OrderAsc
}

// Pagination is the summary block returned with every page
type Pagination struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Count   int   `json:"count"`
	Total   int64 `json:"total"`
}

// NewPagination computes pages as ceil(total/limit)
func NewPagination(opts ListOptions, count int, total int64) Pagination {
	pages := 0
	if opts.Limit > 0 {
		pages = int((total + int64(opts.Limit) - 1) / int64(opts.Limit))
	}
	return Pagination{Current: opts.Page, Pages: pages, Count: count, Total: total}
}

// Page is one slice of a list result
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}

// NewPage builds a Page, never holding a nil slice
func NewPage[T any](items []T, opts ListOptions, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Pagination: NewPagination(opts, len(items), total)}
}

// SlicePage applies offset/limit to a fully materialized result set
func SlicePage[T any](all []T, opts ListOptions) Page[T] {
	total := int64(len(all))
	start := opts.Offset()
	if start < 0 {
		start = 0
	}
	if start > len(all) {
		start = len(all)
	}
	end := start + opts.Limit
	if end < start {
		end = start
	}
	if end > len(all) {
		end = len(all)
	}
	return NewPage(all[start:end], opts, total)
}
