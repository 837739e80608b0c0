package pagination

import "github.com/priceless-app/priceless-backend/pkg/types"

const (
	// DefaultLimit is the page size used when a limit is not provided.
	DefaultLimit = 10
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 100
)

// Params holds the raw page/limit query inputs. Zero means "not provided".
type Params struct {
	Page  int
	Limit int
}

// Window is the normalized offset/count pair handed to repositories.
type Window struct {
	Skip int
	Take int
	Page int
}

// Normalize bounds the inputs: page floors to 1, limit clamps to
// [1, MaxLimit] with DefaultLimit when absent.
func Normalize(params Params) Window {
	page := params.Page
	if page < 1 {
		page = 1
	}

	limit := params.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Window{
		Skip: (page - 1) * limit,
		Take: limit,
		Page: page,
	}
}

// Meta builds the response pagination block. The limit is floored at 1
// before dividing; Normalize already guarantees that, this is a guard for
// direct callers.
func Meta(total int, window Window) types.PaginationMeta {
	limit := window.Take
	if limit < 1 {
		limit = 1
	}
	pages := (total + limit - 1) / limit
	return types.PaginationMeta{
		Total: total,
		Page:  window.Page,
		Limit: limit,
		Pages: pages,
	}
}
