package domain

// PageWindow describes where the neighbouring pages of a list start.
// PrevOffset and NextOffset are nil when there is no such page.
type PageWindow struct {
	Offset     int  `json:"offset"`
	PerPage    int  `json:"per_page"`
	Total      int  `json:"total"`
	PrevOffset *int `json:"prev_offset,omitempty"`
	NextOffset *int `json:"next_offset,omitempty"`
}

// Paginate clamps offset into [0, total] and computes the neighbouring page offsets.
func Paginate(total, offset, perPage int) PageWindow {
	if perPage < 1 {
		perPage = 1
	}
	offset = min(max(offset, 0), total)

	w := PageWindow{Offset: offset, PerPage: perPage, Total: total}
	if offset > 0 {
		prev := max(0, offset-perPage)
		w.PrevOffset = &prev
	}
	if offset+perPage < total {
		next := offset + perPage
		w.NextOffset = &next
	}
	return w
}

// Bounds returns the slice bounds of the window.
func (w PageWindow) Bounds() (int, int) {
	return w.Offset, min(w.Offset+w.PerPage, w.Total)
}
