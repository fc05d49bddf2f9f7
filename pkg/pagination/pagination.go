package pagination

import (
	"errors"
	"strings"
)

// DefaultItemsPerPage is the page size used by every list screen unless told otherwise.
const DefaultItemsPerPage = 13

// ErrInvalidPageSize is returned when a state is built with a non-positive page size.
var ErrInvalidPageSize = errors.New("items per page must be greater than zero")

// Action identifies a navigation request coming from a list view.
type Action int

const (
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionBack
	ActionForward
)

// ParseAction maps a query value to an Action. Unknown values yield ActionNone.
func ParseAction(s string) Action {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return ActionUp
	case "down":
		return ActionDown
	case "back", "previous", "prev":
		return ActionBack
	case "forward", "next":
		return ActionForward
	default:
		return ActionNone
	}
}

func (a Action) String() string {
	switch a {
	case ActionUp:
		return "up"
	case ActionDown:
		return "down"
	case ActionBack:
		return "back"
	case ActionForward:
		return "forward"
	default:
		return "none"
	}
}

// State holds the page a list view is showing. It never references the dataset;
// the total item count is handed in whenever a boundary matters.
type State struct {
	itemsPerPage int
	currentPage  int
}

// New builds a state on the first page.
func New(itemsPerPage int) (State, error) {
	if itemsPerPage <= 0 {
		return State{}, ErrInvalidPageSize
	}
	return State{itemsPerPage: itemsPerPage}, nil
}

// Default returns a first-page state with DefaultItemsPerPage.
func Default() State {
	return State{itemsPerPage: DefaultItemsPerPage}
}

func (s State) ItemsPerPage() int { return s.itemsPerPage }

func (s State) CurrentPage() int { return s.currentPage }

// AtPage returns a copy positioned on page; negative pages become 0.
func (s State) AtPage(page int) State {
	if page < 0 {
		page = 0
	}
	s.currentPage = page
	return s
}

// Apply returns the state after action. Movement saturates at both ends.
func (s State) Apply(action Action, totalItems int) State {
	switch action {
	case ActionUp, ActionBack:
		if s.currentPage > 0 {
			s.currentPage--
		}
	case ActionDown, ActionForward:
		if s.currentPage < s.PageCount(totalItems)-1 {
			s.currentPage++
		}
	}
	return s
}

// Window returns the offset and limit of the current page.
func (s State) Window() (offset, limit int) {
	return s.currentPage * s.itemsPerPage, s.itemsPerPage
}

// PageCount is the number of pages needed for totalItems, never less than 1.
func (s State) PageCount(totalItems int) int {
	if totalItems <= 0 || s.itemsPerPage <= 0 {
		return 1
	}
	pages := totalItems / s.itemsPerPage
	if totalItems%s.itemsPerPage != 0 {
		pages++
	}
	return pages
}
