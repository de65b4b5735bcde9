/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package types

import "encoding/json"

// DefaultPageSize replaces a page size below 1 on paged requests.
const DefaultPageSize = 10

// QueryOptions describes a sorted, optionally paginated read. Leaving
// PageNumber or PageSize unset means no pagination: every matching row is
// returned as a single page.
type QueryOptions struct {
	PageNumber     *int
	PageSize       *int
	SortBy         string // column or field name; empty means storage order
	SortDescending bool
}

// NewQueryOptions returns options requesting all rows in storage order.
func NewQueryOptions() *QueryOptions {
	return &QueryOptions{}
}

// WithPage requests the given 1-based page of the given size.
func (o *QueryOptions) WithPage(page int, pageSize int) *QueryOptions {
	o.PageNumber = &page
	o.PageSize = &pageSize
	return o
}

// WithSort orders by a single key.
func (o *QueryOptions) WithSort(key string, descending bool) *QueryOptions {
	o.SortBy = key
	o.SortDescending = descending
	return o
}

// IsPaged reports whether both page number and page size were supplied.
func (o *QueryOptions) IsPaged() bool {
	return o.PageNumber != nil && o.PageSize != nil
}

// GetPage returns the requested page clamped to a minimum of 1.
func (o *QueryOptions) GetPage() int {
	if o.PageNumber == nil || *o.PageNumber < 1 {
		return 1
	}
	return *o.PageNumber
}

// GetPageSize returns the requested page size, or DefaultPageSize when it is
// missing or below 1.
func (o *QueryOptions) GetPageSize() int {
	if o.PageSize == nil || *o.PageSize < 1 {
		return DefaultPageSize
	}
	return *o.PageSize
}

func (o *QueryOptions) GetOffset() int {
	return (o.GetPage() - 1) * o.GetPageSize()
}

// PagedResult holds one page of items along with pagination metadata.
// TotalPages, HasPreviousPage and HasNextPage are derived and cannot be set.
type PagedResult[T any] struct {
	Items      []*T
	TotalCount int
	PageNumber int
	PageSize   int
}

// NewPagedResult constructs a result; a nil items slice becomes empty.
func NewPagedResult[T any](items []*T, totalCount int, pageNumber int, pageSize int) *PagedResult[T] {
	if items == nil {
		items = make([]*T, 0)
	}
	return &PagedResult[T]{Items: items, TotalCount: totalCount, PageNumber: pageNumber, PageSize: pageSize}
}

// TotalPages is ceil(TotalCount / PageSize), or 0 when PageSize <= 0.
func (p *PagedResult[T]) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return (p.TotalCount + p.PageSize - 1) / p.PageSize
}

func (p *PagedResult[T]) HasPreviousPage() bool {
	return p.PageNumber > 1
}

func (p *PagedResult[T]) HasNextPage() bool {
	return p.PageNumber < p.TotalPages()
}

// MarshalJSON includes the derived properties.
func (p PagedResult[T]) MarshalJSON() ([]byte, error) {
	items := p.Items
	if items == nil {
		items = make([]*T, 0)
	}
	return json.Marshal(struct {
		Items           []*T `json:"items"`
		TotalCount      int  `json:"total_count"`
		PageNumber      int  `json:"page_number"`
		PageSize        int  `json:"page_size"`
		TotalPages      int  `json:"total_pages"`
		HasPreviousPage bool `json:"has_previous_page"`
		HasNextPage     bool `json:"has_next_page"`
	}{
		Items:           items,
		TotalCount:      p.TotalCount,
		PageNumber:      p.PageNumber,
		PageSize:        p.PageSize,
		TotalPages:      p.TotalPages(),
		HasPreviousPage: p.HasPreviousPage(),
		HasNextPage:     p.HasNextPage(),
	})
}
