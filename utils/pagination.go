package utils

import (
	"fmt"
	"net/http"
	"strconv"
)

// DefaultPerPage is the fixed page size for all list endpoints.
const DefaultPerPage = 25

// Meta holds pagination metadata for list responses.
type Meta struct {
	CurrentPage int   `json:"currentPage"`
	PerPage     int   `json:"perPage"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"lastPage"`
}

// Links holds navigation URLs for list responses. Prev and Next are null
// on the first and last page respectively.
type Links struct {
	First string  `json:"first"`
	Last  string  `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

// ParsePage extracts the page query parameter from a request, defaulting
// to 1 for missing or invalid values.
func ParsePage(r *http.Request) int {
	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	return page
}

// Offset returns the row offset for a page with the default page size.
func Offset(page int) int {
	return (page - 1) * DefaultPerPage
}

// BuildMeta computes pagination metadata from a total row count.
func BuildMeta(page int, total int64) Meta {
	lastPage := int((total + DefaultPerPage - 1) / DefaultPerPage)
	if lastPage < 1 {
		lastPage = 1
	}
	return Meta{
		CurrentPage: page,
		PerPage:     DefaultPerPage,
		Total:       total,
		LastPage:    lastPage,
	}
}

// BuildLinks derives first/last/prev/next URLs from the request URL and
// the computed metadata. Query parameters other than page are preserved.
func BuildLinks(r *http.Request, meta Meta) Links {
	links := Links{
		First: pageURL(r, 1),
		Last:  pageURL(r, meta.LastPage),
	}
	if meta.CurrentPage > 1 {
		prev := pageURL(r, meta.CurrentPage-1)
		links.Prev = &prev
	}
	if meta.CurrentPage < meta.LastPage {
		next := pageURL(r, meta.CurrentPage+1)
		links.Next = &next
	}
	return links
}

// pageURL rebuilds the request URL with the page parameter replaced
func pageURL(r *http.Request, page int) string {
	u := *r.URL
	q := u.Query()
	q.Set("page", fmt.Sprintf("%d", page))
	u.RawQuery = q.Encode()
	return u.String()
}
