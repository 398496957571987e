// Package comic reads comic book archives (.cbz) without extracting them.
//
// An archive holds one issue; every qualifying image entry inside it is a
// page. Discovery filters out directory entries, archive-tool metadata under
// __MACOSX/, and anything that is not a raster image, then orders the rest
// with natural sorting so "page2" precedes "page10". Page reads stream a
// single entry's decompressed bytes; the archive is never buffered whole.
package comic

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"

	"longbox/internal/natsort"
)

// Extension is the archive file extension recognized as a comic issue.
const Extension = ".cbz"

// metadataPrefix marks resource-fork entries written by macOS archive tools.
const metadataPrefix = "__MACOSX"

var (
	// ErrCorruptArchive reports a container that cannot be opened or whose
	// entry directory cannot be read. An archive with zero qualifying pages
	// is not corrupt; it lists as empty.
	ErrCorruptArchive = errors.New("corrupt archive")
	// ErrPageOutOfRange reports a page index outside the qualifying entries.
	ErrPageOutOfRange = errors.New("page index out of range")
	// ErrEntryRead reports an entry whose compressed data cannot be streamed.
	ErrEntryRead = errors.New("entry read failure")
)

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// ListPages returns the ordered page entry names of the archive at path.
func ListPages(archivePath string) ([]string, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrCorruptArchive, archivePath, err)
	}
	defer r.Close()
	return pageNames(&r.Reader), nil
}

// List enumerates pages from any random-access byte source holding a zip
// container, such as an in-memory buffer.
func List(source io.ReaderAt, size int64) ([]string, error) {
	r, err := zip.NewReader(source, size)
	if err != nil {
		return nil, fmt.Errorf("%w: read archive directory: %w", ErrCorruptArchive, err)
	}
	return pageNames(r), nil
}

// OpenPage opens a streaming read of the page at the given zero-based index,
// returning the decompressing reader and the entry's media type. The caller
// owns the reader and must close it; closing releases the archive handle on
// every path, including early consumer disconnects.
func OpenPage(archivePath string, index int) (io.ReadCloser, string, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, "", fmt.Errorf("%w: open %s: %w", ErrCorruptArchive, archivePath, err)
	}

	pages := pageFiles(&r.Reader)
	if index < 0 || index >= len(pages) {
		_ = r.Close()
		return nil, "", fmt.Errorf("%w: index %d of %d pages", ErrPageOutOfRange, index, len(pages))
	}

	entry := pages[index]
	rc, err := entry.Open()
	if err != nil {
		_ = r.Close()
		return nil, "", fmt.Errorf("%w: %s: %w", ErrEntryRead, entry.Name, err)
	}

	return &pageReader{entry: rc, archive: r}, MediaType(entry.Name), nil
}

// MediaType maps an entry name to its image media type by extension.
// Both .jpg and .jpeg map to the standard JPEG type.
func MediaType(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	if ext == "jpg" {
		ext = "jpeg"
	}
	return "image/" + ext
}

// pageReader streams one entry and tears down the archive handle with it.
type pageReader struct {
	entry   io.ReadCloser
	archive *zip.ReadCloser
}

func (p *pageReader) Read(b []byte) (int, error) {
	n, err := p.entry.Read(b)
	if err != nil && !errors.Is(err, io.EOF) {
		err = fmt.Errorf("%w: %w", ErrEntryRead, err)
	}
	return n, err
}

func (p *pageReader) Close() error {
	entryErr := p.entry.Close()
	archiveErr := p.archive.Close()
	if entryErr != nil {
		return entryErr
	}
	return archiveErr
}

func pageNames(r *zip.Reader) []string {
	files := pageFiles(r)
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	return names
}

func pageFiles(r *zip.Reader) []*zip.File {
	var pages []*zip.File
	for _, f := range r.File {
		if qualifies(f.Name) {
			pages = append(pages, f)
		}
	}
	slices.SortStableFunc(pages, func(a, b *zip.File) int {
		return natsort.Compare(a.Name, b.Name)
	})
	return pages
}

func qualifies(name string) bool {
	if strings.HasSuffix(name, "/") {
		return false
	}
	if strings.HasPrefix(name, metadataPrefix) {
		return false
	}
	_, ok := imageExtensions[strings.ToLower(path.Ext(name))]
	return ok
}
