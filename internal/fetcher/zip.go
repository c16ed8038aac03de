package fetcher

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ExtractFromZip extracts the first archive member whose name has the given
// suffix (case-insensitive) into destDir and returns the extracted path.
// Dataset portals commonly wrap a single CSV in a zip.
func ExtractFromZip(zipPath, suffix, destDir string) (string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", eris.Wrapf(err, "fetcher: open zip %s", zipPath)
	}
	defer r.Close() //nolint:errcheck

	for _, member := range r.File {
		if !strings.HasSuffix(strings.ToLower(member.Name), strings.ToLower(suffix)) {
			continue
		}

		dest := filepath.Join(destDir, filepath.Base(member.Name))
		if err := extractMember(member, dest); err != nil {
			return "", err
		}
		zap.L().Debug("fetcher: extracted zip member",
			zap.String("member", member.Name),
			zap.String("dest", dest),
		)
		return dest, nil
	}

	return "", eris.Errorf("fetcher: no %s member in %s", suffix, zipPath)
}

func extractMember(member *zip.File, dest string) error {
	rc, err := member.Open()
	if err != nil {
		return eris.Wrapf(err, "fetcher: open zip member %s", member.Name)
	}
	defer rc.Close() //nolint:errcheck

	out, err := os.Create(dest)
	if err != nil {
		return eris.Wrapf(err, "fetcher: create %s", dest)
	}
	defer out.Close() //nolint:errcheck

	if _, err := io.Copy(out, rc); err != nil {
		return eris.Wrapf(err, "fetcher: extract %s", member.Name)
	}
	return nil
}
