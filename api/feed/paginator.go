package feed

import (
	"strconv"
	"strings"

	"Yatube/api/models"
)

// DefaultPageSize is the number of posts on one feed page.
const DefaultPageSize = 10

type Paginator struct {
	PerPage int
}

func (p Paginator) perPage() int {
	if p.PerPage < 1 {
		return DefaultPageSize
	}
	return p.PerPage
}

// NumPages is never below 1; an empty feed has one empty page.
func (p Paginator) NumPages(count int64) int {
	if count <= 0 {
		return 1
	}
	per := int64(p.perPage())
	return int((count + per - 1) / per)
}

// Clamp moves number onto the nearest existing page.
func (p Paginator) Clamp(number int, count int64) int {
	if number < 1 {
		return 1
	}
	if last := p.NumPages(count); number > last {
		return last
	}
	return number
}

func (p Paginator) Offset(number int) int {
	return (number - 1) * p.perPage()
}

// ParsePage reads the page query parameter. Anything that is not an integer
// selects the first page.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return n
}

// Page is one slice of a feed.
type Page struct {
	Posts    []models.Post `json:"posts"`
	Number   int           `json:"number"`
	NumPages int           `json:"num_pages"`
	Count    int64         `json:"count"`
	PerPage  int           `json:"per_page"`
}

func (p *Page) HasNext() bool {
	return p.Number < p.NumPages
}

func (p *Page) HasPrevious() bool {
	return p.Number > 1
}

func (p *Page) HasOtherPages() bool {
	return p.HasNext() || p.HasPrevious()
}

func (p *Page) NextNumber() int {
	return p.Number + 1
}

func (p *Page) PreviousNumber() int {
	return p.Number - 1
}

// PageRange lists every page number, for the paginator links.
func (p *Page) PageRange() []int {
	pages := make([]int, p.NumPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}
