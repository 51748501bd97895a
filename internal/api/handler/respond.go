package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// envelope is the uniform JSON shape of every non-paginated response.
type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    any                 `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func respond(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, envelope{Success: true, Message: message, Data: data})
}

// paginationLinks follows the familiar first/last/prev/next shape; prev and
// next are null at the edges.
type paginationLinks struct {
	First string  `json:"first"`
	Last  string  `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

// paginationMeta describes the returned page. From and To are null when the
// page holds no rows.
type paginationMeta struct {
	CurrentPage int   `json:"current_page"`
	From        *int  `json:"from"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	To          *int  `json:"to"`
	Total       int64 `json:"total"`
}

type pagedEnvelope struct {
	Success bool            `json:"success"`
	Data    any             `json:"data"`
	Links   paginationLinks `json:"links"`
	Meta    paginationMeta  `json:"meta"`
}

// respondPage renders a paginated listing with links and meta built from the
// request URL. Links keep the caller's filter and sort parameters so that
// following next/prev never widens a filtered listing.
func respondPage(c echo.Context, data any, count, page, perPage, last int, total int64) error {
	// An empty page renders as [], never null.
	if count == 0 {
		data = []any{}
	}

	pageURL := pageURLBuilder(c, perPage)

	links := paginationLinks{
		First: pageURL(1),
		Last:  pageURL(last),
	}
	if page > 1 {
		prev := pageURL(page - 1)
		links.Prev = &prev
	}
	if page < last {
		next := pageURL(page + 1)
		links.Next = &next
	}

	meta := paginationMeta{
		CurrentPage: page,
		LastPage:    last,
		PerPage:     perPage,
		Total:       total,
	}
	if count > 0 {
		from := (page-1)*perPage + 1
		to := from + count - 1
		meta.From = &from
		meta.To = &to
	}

	return c.JSON(http.StatusOK, pagedEnvelope{Success: true, Data: data, Links: links, Meta: meta})
}

// pageURLBuilder returns a function rendering the request URL pointed at a
// given page, preserving every other query parameter of the request.
func pageURLBuilder(c echo.Context, perPage int) func(page int) string {
	u := c.Request().URL
	query := u.Query()
	query.Set("per_page", strconv.Itoa(perPage))

	return func(page int) string {
		query.Set("page", strconv.Itoa(page))
		return u.Path + "?" + query.Encode()
	}
}
