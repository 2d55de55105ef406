package pagination

import (
	"errors"
	"fmt"
)

var ErrInvalidPageSize = errors.New("invalid page size")

// PageSizes are the row counts a report page can be set to.
var PageSizes = []int{50, 100, 250, 500}

const DefaultPageSize = 100

func ValidPageSize(n int) error {
	for _, s := range PageSizes {
		if s == n {
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrInvalidPageSize, n)
}

// State is what the pager buttons and the "rows x-y of z" label render from.
// The row window comes from the server as-is.
type State struct {
	Page       int  `json:"page"`
	MaxPages   int  `json:"max_pages"`
	CanGoFirst bool `json:"can_go_first"`
	CanGoPrev  bool `json:"can_go_prev"`
	CanGoNext  bool `json:"can_go_next"`
	CanGoLast  bool `json:"can_go_last"`
	RowsStart  int  `json:"rows_start"`
	RowsEnd    int  `json:"rows_end"`
	RowsAll    int  `json:"rows_all"`
}

func Derive(page, maxPages, rowsStart, rowsEnd, rowsAll int) State {
	return State{
		Page:       page,
		MaxPages:   maxPages,
		CanGoFirst: page > 1,
		CanGoPrev:  page > 1,
		CanGoNext:  page < maxPages,
		CanGoLast:  page < maxPages,
		RowsStart:  rowsStart,
		RowsEnd:    rowsEnd,
		RowsAll:    rowsAll,
	}
}

// Nav is a pager button.
type Nav string

const (
	NavFirst Nav = "first"
	NavPrev  Nav = "prev"
	NavNext  Nav = "next"
	NavLast  Nav = "last"
)

// Navigate returns the page a pager click lands on. Clicks on disabled
// buttons leave the page unchanged.
func Navigate(page, maxPages int, nav Nav) (int, error) {
	st := Derive(page, maxPages, 0, 0, 0)
	switch nav {
	case NavFirst:
		if st.CanGoFirst {
			return 1, nil
		}
	case NavPrev:
		if st.CanGoPrev {
			return page - 1, nil
		}
	case NavNext:
		if st.CanGoNext {
			return page + 1, nil
		}
	case NavLast:
		if st.CanGoLast {
			return maxPages, nil
		}
	default:
		return page, fmt.Errorf("unknown page navigation %q", nav)
	}
	return page, nil
}
