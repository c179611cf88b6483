// Package pagination computes clamped page windows over counted result sets.
package pagination

import (
	"strconv"
)

// Page is one window over a result set
type Page[T any] struct {
	Items    []T
	Number   int
	NumPages int
	PerPage  int
	Total    int64
}

// ParseNumber reads a page number from a query value. Anything that is not a
// positive integer reads as 1.
func ParseNumber(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// New builds an empty page for total items, clamping requested into [1, NumPages].
// An empty result set has exactly one (empty) page.
func New[T any](total int64, perPage, requested int) *Page[T] {
	if perPage < 1 {
		perPage = 1
	}
	numPages := int((total + int64(perPage) - 1) / int64(perPage))
	if numPages < 1 {
		numPages = 1
	}

	number := requested
	if number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}

	return &Page[T]{
		Number:   number,
		NumPages: numPages,
		PerPage:  perPage,
		Total:    total,
	}
}

// Offset is the number of items before this page
func (p *Page[T]) Offset() int {
	return (p.Number - 1) * p.PerPage
}

func (p *Page[T]) HasPrevious() bool {
	return p.Number > 1
}

func (p *Page[T]) HasNext() bool {
	return p.Number < p.NumPages
}

func (p *Page[T]) HasOtherPages() bool {
	return p.HasPrevious() || p.HasNext()
}

func (p *Page[T]) PreviousNumber() int {
	if !p.HasPrevious() {
		return p.Number
	}
	return p.Number - 1
}

func (p *Page[T]) NextNumber() int {
	if !p.HasNext() {
		return p.Number
	}
	return p.Number + 1
}

// Pages lists every page number, for rendering page links
func (p *Page[T]) Pages() []int {
	pages := make([]int, p.NumPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}
