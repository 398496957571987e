package library

// Series groups issues under a display name derived from a directory.
type Series struct {
	ID   string
	Name string
	Path string
}

// Issue is one comic book, backed by exactly one archive file.
type Issue struct {
	ID       string
	SeriesID string
	// Path is the archive location relative to the library root and is
	// unique across all issues.
	Path     string
	FileName string
	// CoverImage is the entry name of the first page, cached after the
	// first page listing. Empty until then.
	CoverImage string
	// PageCount is advisory: recomputed and overwritten on every page
	// listing, never trusted as ground truth between scans.
	PageCount   int
	CurrentPage int
}
