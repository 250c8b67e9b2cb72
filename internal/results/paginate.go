package results

// paginate slices ranked results into one page, bounding PerPage to
// [1, maxPerPage] and defaulting an unset/invalid request to
// defaultPerPage (spec §4.6 "pagination").
func paginate(all []EndpointResult, req Pagination, defaultPerPage, maxPerPage int) ([]EndpointResult, PageInfo) {
	perPage := req.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	page := req.Page
	if page <= 0 {
		page = 1
	}

	total := len(all)
	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	info := PageInfo{
		Total:       total,
		Page:        page,
		PerPage:     perPage,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
	return all[start:end], info
}
