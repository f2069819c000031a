package shop

// PageSize is the number of products shown per listing page.
const PageSize = 20

// windowSize is how many page numbers are shown on each side of the
// current page when the page count is large.
const windowSize = 1

// maxFlatPages is the largest page count rendered without ellipses.
const maxFlatPages = 7

// NavControl is a previous/next pager control.
type NavControl struct {
	Page     int  `json:"page"`
	Disabled bool `json:"disabled"`
}

// PageControl is a numbered page button or an ellipsis gap.
type PageControl struct {
	Page     int  `json:"page,omitempty"`
	Current  bool `json:"current,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// Pagination describes the pager for one listing page.
type Pagination struct {
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
	Prev       NavControl    `json:"prev"`
	Next       NavControl    `json:"next"`
	Pages      []PageControl `json:"pages"`
}

// BuildPagination computes the pager controls for the given page over
// totalItems entries. With one page or fewer, no controls are produced.
// Large page counts get a window of pages around the current one, the
// first and last page, and ellipsis gaps where pages are skipped.
func BuildPagination(page, totalItems, perPage int) Pagination {
	totalPages := (totalItems + perPage - 1) / perPage

	p := Pagination{
		Page:       page,
		TotalPages: totalPages,
	}
	if totalPages <= 1 {
		return p
	}

	p.Prev = NavControl{Page: page - 1, Disabled: page == 1}
	p.Next = NavControl{Page: page + 1, Disabled: page == totalPages}

	if totalPages <= maxFlatPages {
		for i := 1; i <= totalPages; i++ {
			p.Pages = append(p.Pages, PageControl{Page: i, Current: i == page})
		}
		return p
	}

	p.Pages = append(p.Pages, PageControl{Page: 1, Current: page == 1})

	if page-windowSize > 2 {
		p.Pages = append(p.Pages, PageControl{Ellipsis: true})
	}

	lo := page - windowSize
	if lo < 2 {
		lo = 2
	}
	hi := page + windowSize
	if hi > totalPages-1 {
		hi = totalPages - 1
	}
	for i := lo; i <= hi; i++ {
		p.Pages = append(p.Pages, PageControl{Page: i, Current: i == page})
	}

	if page+windowSize < totalPages-1 {
		p.Pages = append(p.Pages, PageControl{Ellipsis: true})
	}

	p.Pages = append(p.Pages, PageControl{Page: totalPages, Current: page == totalPages})

	return p
}
