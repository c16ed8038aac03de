package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/standort-labs/standort-cli/internal/fetcher"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the reference datasets",
	Long:  "Downloads the regional transit-quality table and the transit stop registry into the data directory. Zipped datasets are unpacked.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if cfg.Fetch.RegionsURL == "" && cfg.Fetch.StopsURL == "" {
			return eris.New("fetch: no dataset URLs configured (fetch.regions_url, fetch.stops_url)")
		}
		if err := os.MkdirAll(cfg.Fetch.DataDir, 0o755); err != nil {
			return eris.Wrapf(err, "fetch: create %s", cfg.Fetch.DataDir)
		}

		for name, rawURL := range map[string]string{
			"regions": cfg.Fetch.RegionsURL,
			"stops":   cfg.Fetch.StopsURL,
		} {
			if rawURL == "" {
				continue
			}
			path, err := fetchDataset(ctx, name, rawURL)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %s\n", name, path)
		}
		return nil
	},
}

// fetchDataset downloads one dataset, unpacking a zip wrapper when the
// URL points at one.
func fetchDataset(ctx context.Context, name, rawURL string) (string, error) {
	f, err := fetcherFor(rawURL)
	if err != nil {
		return "", err
	}

	dest := filepath.Join(cfg.Fetch.DataDir, name+remoteExt(rawURL))
	n, err := f.DownloadToFile(ctx, rawURL, dest)
	if err != nil {
		return "", eris.Wrapf(err, "fetch: download %s", name)
	}
	zap.L().Info("fetch: dataset downloaded",
		zap.String("dataset", name),
		zap.String("url", rawURL),
		zap.Int64("bytes", n),
	)

	if strings.EqualFold(filepath.Ext(dest), ".zip") {
		extracted, err := fetcher.ExtractFromZip(dest, ".csv", cfg.Fetch.DataDir)
		if err != nil {
			return "", err
		}
		_ = os.Remove(dest)
		return extracted, nil
	}
	return dest, nil
}

func fetcherFor(rawURL string) (fetcher.Fetcher, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, eris.Wrapf(err, "fetch: parse url %s", rawURL)
	}
	timeout := time.Duration(cfg.Fetch.TimeoutSecs) * time.Second
	switch u.Scheme {
	case "http", "https":
		return fetcher.NewHTTPFetcher(fetcher.HTTPOptions{Timeout: timeout}), nil
	case "ftp":
		return fetcher.NewFTPFetcher(timeout), nil
	default:
		return nil, eris.Errorf("fetch: unsupported scheme %q", u.Scheme)
	}
}

func remoteExt(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return filepath.Ext(u.Path)
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}
