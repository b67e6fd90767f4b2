package http

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/sensa-code/climb"
)

// imageTimeout bounds a single image download.
const imageTimeout = 15 * time.Second

// Ensure ImageDownloader implements climb.ImageDownloader at compile time.
var _ climb.ImageDownloader = (*ImageDownloader)(nil)

// ImageDownloader retrieves article images over HTTP. A Referer header
// matching the article's origin is sent because many image hosts reject
// referer-less requests.
type ImageDownloader struct {
	client *http.Client
}

// NewImageDownloader creates a new ImageDownloader. If client is nil,
// http.DefaultClient is used.
func NewImageDownloader(client *http.Client) *ImageDownloader {
	if client == nil {
		client = http.DefaultClient
	}
	return &ImageDownloader{client: client}
}

// Download fetches imageURL and writes it to destPath.
func (d *ImageDownloader) Download(ctx context.Context, imageURL, destPath, referer string) error {
	ctx, cancel := context.WithTimeout(ctx, imageTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return climb.Errorf(climb.ENOTFOUND, "HTTP %d for image %s", resp.StatusCode, imageURL)
	}

	f, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		// Remove the partial file so a failed image is not mistaken
		// for a downloaded one.
		os.Remove(destPath)
		return err
	}
	return nil
}
