package query

// Page is the skip/limit window plus the metadata returned alongside a page
// of records.
type Page struct {
	Skip        int64
	Limit       int64
	TotalPages  int
	CurrentPage int
}

// Paginate converts a 1-based page number and page size into a query window.
// totalPages is ceil(totalCount/limit), floored at 1 so an empty collection
// still renders as one empty page. Out-of-range pages are not an error; the
// window simply selects nothing and the metadata stays accurate.
func Paginate(totalCount int64, page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	totalPages := int((totalCount + int64(limit) - 1) / int64(limit))
	if totalPages < 1 {
		totalPages = 1
	}
	return Page{
		Skip:        int64(page-1) * int64(limit),
		Limit:       int64(limit),
		TotalPages:  totalPages,
		CurrentPage: page,
	}
}
