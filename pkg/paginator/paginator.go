package paginator

import (
	"strconv"
	"strings"
)

const DefaultPerPage = 10

// Paginator splits a result set of known size into fixed-size pages.
type Paginator struct {
	PerPage int
}

func New(perPage int) Paginator {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	return Paginator{PerPage: perPage}
}

// Page describes one page of a result set. Number is 1-based.
type Page struct {
	Number   int
	NumPages int
	PerPage  int
	Count    int64
}

// Page resolves a raw page parameter against count items.
// Non-numeric input selects the first page, numbers below 1 clamp to the
// first page and numbers past the end clamp to the last one. An empty result
// set still has one (empty) page.
func (p Paginator) Page(raw string, count int64) Page {
	perPage := p.PerPage
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if count < 0 {
		count = 0
	}
	numPages := int((count + int64(perPage) - 1) / int64(perPage))
	if numPages < 1 {
		numPages = 1
	}

	n, err := strconv.Atoi(strings.TrimSpace(raw))
	switch {
	case err != nil, n < 1:
		n = 1
	case n > numPages:
		n = numPages
	}
	return Page{Number: n, NumPages: numPages, PerPage: perPage, Count: count}
}

func (pg Page) Offset() int { return (pg.Number - 1) * pg.PerPage }
func (pg Page) Limit() int  { return pg.PerPage }

func (pg Page) HasNext() bool     { return pg.Number < pg.NumPages }
func (pg Page) HasPrevious() bool { return pg.Number > 1 }
func (pg Page) HasOtherPages() bool {
	return pg.HasNext() || pg.HasPrevious()
}

func (pg Page) Next() int {
	if pg.HasNext() {
		return pg.Number + 1
	}
	return pg.Number
}

func (pg Page) Previous() int {
	if pg.HasPrevious() {
		return pg.Number - 1
	}
	return pg.Number
}

// rangeWidth is how many page links Range shows on each side of the current page.
const rangeWidth = 2

// Range lists the page numbers around the current one, for rendering page links.
func (pg Page) Range() []int {
	lo, hi := pg.Number-rangeWidth, pg.Number+rangeWidth
	if lo < 1 {
		lo = 1
	}
	if hi > pg.NumPages {
		hi = pg.NumPages
	}
	out := make([]int, 0, hi-lo+1)
	for n := lo; n <= hi; n++ {
		out = append(out, n)
	}
	return out
}
