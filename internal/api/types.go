package api

// Series is the JSON view of an indexed series.
type Series struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
}

// Issue is the JSON view of an indexed issue.
type Issue struct {
	ID          string `json:"id"`
	SeriesID    string `json:"seriesId"`
	Path        string `json:"path"`
	FileName    string `json:"fileName"`
	CoverImage  string `json:"coverImage,omitempty"`
	PageCount   int    `json:"pageCount"`
	CurrentPage int    `json:"currentPage"`
}

// Status summarizes the served library.
type Status struct {
	LibraryRoot string `json:"libraryRoot"`
	SeriesCount int    `json:"seriesCount"`
	IssueCount  int    `json:"issueCount"`
}

// SeriesListResponse wraps the series collection endpoint payload.
type SeriesListResponse struct {
	Series []Series `json:"series"`
}

// IssueListResponse wraps the issue collection endpoint payload.
type IssueListResponse struct {
	Issues []Issue `json:"issues"`
}

// PageListResponse carries an issue's ordered page entry names.
type PageListResponse struct {
	Pages []string `json:"pages"`
}

// ProgressRequest is the body of the progress update endpoint.
type ProgressRequest struct {
	CurrentPage *int `json:"currentPage"`
}
