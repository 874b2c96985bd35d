package api

import (
	"net/http"
	"net/url"
	"strconv"
)

const defaultPageSize = 6

// pageParams carries the resolved page/limit query values.
type pageParams struct {
	page  int
	limit int
}

func (p pageParams) offset() int {
	return (p.page - 1) * p.limit
}

func parsePageParams(r *http.Request) pageParams {
	p := pageParams{page: 1, limit: defaultPageSize}
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			p.page = n
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			p.limit = n
		}
	}
	return p
}

// paginated is the list response envelope.
type paginated struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

// paginate wraps results in the envelope, deriving next/previous links from
// the request URL.
func paginate(r *http.Request, p pageParams, total int, results any) paginated {
	out := paginated{Count: total, Results: results}
	if p.offset()+p.limit < total {
		out.Next = pageLink(r.URL, p.page+1)
	}
	if p.page > 1 {
		out.Previous = pageLink(r.URL, p.page-1)
	}
	return out
}

func pageLink(u *url.URL, page int) *string {
	link := *u
	q := link.Query()
	q.Set("page", strconv.Itoa(page))
	link.RawQuery = q.Encode()
	s := link.String()
	return &s
}
