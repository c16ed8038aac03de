// Package fetcher downloads and parses the reference datasets this tool
// depends on: the regional transit-quality table and the transit-stop
// registry, published as CSV/XLSX files (sometimes zipped) over HTTP or FTP.
package fetcher

import (
	"context"
	"io"
)

// Fetcher retrieves a dataset from a URL.
type Fetcher interface {
	// Download fetches the URL and returns the response body. The caller
	// must close the returned ReadCloser.
	Download(ctx context.Context, rawURL string) (io.ReadCloser, error)

	// DownloadToFile fetches the URL into a local file. Returns bytes written.
	DownloadToFile(ctx context.Context, rawURL, path string) (int64, error)
}
