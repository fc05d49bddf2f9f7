package services

import (
	"alegria_backend/pkg/pagination"
)

// PageRequest is the navigation a client sends with a list call.
// Page is zero-based and is the page the client was showing before Action.
type PageRequest struct {
	Page     int
	PageSize int
	Action   pagination.Action
}

// DefaultPageRequest shows the first page with the default page size.
func DefaultPageRequest() PageRequest {
	return PageRequest{PageSize: pagination.DefaultItemsPerPage}
}

// Page is one window of a listing together with the state that produced it.
type Page[T any] struct {
	Items        []T `json:"items"`
	CurrentPage  int `json:"current_page"`
	ItemsPerPage int `json:"items_per_page"`
	PageCount    int `json:"page_count"`
	TotalItems   int `json:"total_items"`
}

// paginate counts the rows, moves the page by the requested action and fetches
// the resulting window. A page past the end, left over from a longer listing,
// is pulled back to the last page so the client never gets an empty window
// while rows exist.
func paginate[T any](req PageRequest, count func() (int, error), fetch func(offset, limit int) ([]T, error)) (*Page[T], error) {
	state, err := pagination.New(req.PageSize)
	if err != nil {
		return nil, err
	}

	total, err := count()
	if err != nil {
		return nil, err
	}

	state = state.AtPage(req.Page).Apply(req.Action, total)
	if last := state.PageCount(total) - 1; state.CurrentPage() > last || state.CurrentPage() < 0 {
		state = state.AtPage(last)
	}

	offset, limit := state.Window()
	items, err := fetch(offset, limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}

	return &Page[T]{
		Items:        items,
		CurrentPage:  state.CurrentPage(),
		ItemsPerPage: state.ItemsPerPage(),
		PageCount:    state.PageCount(total),
		TotalItems:   total,
	}, nil
}
