package query

// Window returns the [start, end) slice bounds of page pageNumber over n
// records. Non-positive paging values and pages past the end give an empty
// window.
func Window(pageNumber, pageSize, n int) (start, end int) {
	if pageNumber < 1 || pageSize < 1 || n <= 0 {
		return 0, 0
	}
	skip := pageNumber - 1
	if skip > n/pageSize {
		return n, n
	}
	start = skip * pageSize
	if start >= n {
		return n, n
	}
	if pageSize >= n-start {
		return start, n
	}
	return start, start + pageSize
}

// TotalPages is the number of non-empty pages over n records.
func TotalPages(pageSize, n int) int {
	if pageSize < 1 || n <= 0 {
		return 0
	}
	pages := n / pageSize
	if n%pageSize != 0 {
		pages++
	}
	return pages
}
