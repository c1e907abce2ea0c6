// Package naturalearth downloads the Natural Earth coastline shapefile
// drawn over the map panels.
package naturalearth

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultURL is the 1:110m physical coastline archive.
	DefaultURL = "https://naciscdn.org/naturalearth/110m/physical/ne_110m_coastline.zip"

	// CoastlineFile is the shapefile name inside DefaultURL's archive.
	CoastlineFile = "ne_110m_coastline.shp"

	maxArchiveSize = 64 << 20
)

// Shapefile members worth extracting; the rest of the archive is metadata.
var members = map[string]bool{
	".shp": true,
	".shx": true,
	".dbf": true,
	".prj": true,
	".cpg": true,
}

// Client fetches a zipped shapefile over HTTP.
type Client struct {
	httpClient *http.Client
	url        string
	logger     *slog.Logger
}

// NewClient creates a client for the archive at url.
func NewClient(url string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		url:    url,
		logger: logger,
	}
}

// Fetch downloads the archive and extracts its shapefile members into dir,
// returning the path of the .shp file.
func (c *Client) Fetch(ctx context.Context, dir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("coastline request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("coastline download: status %d: %s", resp.StatusCode, body)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxArchiveSize+1))
	if err != nil {
		return "", fmt.Errorf("read archive: %w", err)
	}
	if len(data) > maxArchiveSize {
		return "", fmt.Errorf("archive exceeds %d bytes", maxArchiveSize)
	}

	shp, err := extract(data, dir)
	if err != nil {
		return "", err
	}
	c.logger.Info("coastlines downloaded", "url", c.url, "path", shp, "bytes", len(data))
	return shp, nil
}

func extract(data []byte, dir string) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return "", fmt.Errorf("open archive: %w", err)
	}

	var shp string
	for _, f := range zr.File {
		// Base drops any directory part, including "..".
		name := filepath.Base(f.Name)
		ext := strings.ToLower(filepath.Ext(name))
		if f.FileInfo().IsDir() || !members[ext] {
			continue
		}
		path := filepath.Join(dir, name)
		if err := writeMember(f, path); err != nil {
			return "", err
		}
		if ext == ".shp" {
			shp = path
		}
	}
	if shp == "" {
		return "", errors.New("archive has no .shp file")
	}
	return shp, nil
}

func writeMember(f *zip.File, path string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxArchiveSize))
	if err != nil {
		return fmt.Errorf("read %s: %w", f.Name, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
