package dto

import "github.com/Payphone-Digital/storefront/internal/grid"

// GridQuery is the query string of a grid page. Absent values leave the
// stored route state alone. Filters come either as raw filter tokens or as
// author/genre/price selections; a request carrying both is rejected.
type GridQuery struct {
	Page   *int     `form:"page"`
	Size   *int     `form:"size" binding:"omitempty,min=1"`
	Sort   *string  `form:"sort" binding:"omitempty,max=50"`
	Dir    *string  `form:"dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Filter []string `form:"filter" binding:"excluded_with=Author Genre Price"`
	Clear  bool     `form:"clear"`
	Author *string  `form:"author"`
	Genre  *string  `form:"genre"`
	Price  *string  `form:"price"`
}

// HasSelection reports whether author, genre or price was supplied.
func (q GridQuery) HasSelection() bool {
	return q.Author != nil || q.Genre != nil || q.Price != nil
}

// Input converts the query into grid input.
func (q GridQuery) Input() grid.Input {
	in := grid.Input{
		Page:          q.Page,
		PageSize:      q.Size,
		SortField:     q.Sort,
		SortDirection: q.Dir,
		Clear:         q.Clear,
	}
	if q.Filter != nil {
		in.Filters = append([]string{}, q.Filter...)
	}
	return in
}

// FilterRequest applies or clears the book filters. Empty or "all" values
// mean no filter on that facet.
type FilterRequest struct {
	AuthorID string `json:"author" binding:"omitempty,max=20"`
	GenreID  string `json:"genre" binding:"omitempty,max=10"`
	Price    string `json:"price" binding:"omitempty,oneof=all under7 7to14 over14"`
	Clear    bool   `json:"clear"`
}

type BookRequest struct {
	Title     string  `json:"title" binding:"required,min=1,max=200"`
	Price     float64 `json:"price" binding:"required,gt=0,lte=1000000"`
	GenreID   string  `json:"genre_id" binding:"required,max=10"`
	AuthorIDs []uint  `json:"author_ids" binding:"required,min=1,max=10,dive,gt=0"`
}

type AuthorRequest struct {
	FirstName string `json:"first_name" binding:"required,min=1,max=200"`
	LastName  string `json:"last_name" binding:"required,min=1,max=200"`
}

type GenreRequest struct {
	ID   string `json:"id" binding:"required,min=1,max=10,alphanum"`
	Name string `json:"name" binding:"required,min=1,max=25"`
}

type GenreResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type AuthorSummary struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
}

type BookSummary struct {
	ID    uint    `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
}

type BookResponse struct {
	ID      uint            `json:"id"`
	Title   string          `json:"title"`
	Price   float64         `json:"price"`
	Genre   GenreResponse   `json:"genre"`
	Authors []AuthorSummary `json:"authors"`
}

type AuthorResponse struct {
	ID        uint          `json:"id"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	Books     []BookSummary `json:"books"`
}

// GridLinks are query strings for the navigation a page offers. Each is
// built from a modified copy of the current route state.
type GridLinks struct {
	Sort  map[string]string `json:"sort"`
	First string            `json:"first"`
	Prev  string            `json:"prev,omitempty"`
	Next  string            `json:"next,omitempty"`
	Last  string            `json:"last"`
}

// GridPage is one rendered grid page.
type GridPage[T any] struct {
	Items      []T             `json:"data"`
	Count      int64           `json:"total"`
	TotalPages int             `json:"page_total"`
	Route      grid.RouteState `json:"route"`
	Links      GridLinks       `json:"links"`
}

// BookFilterOptions feed the filter drop-downs of the book grid.
type BookFilterOptions struct {
	Authors []AuthorSummary `json:"authors"`
	Genres  []GenreResponse `json:"genres"`
	Prices  []string        `json:"prices"`
}
