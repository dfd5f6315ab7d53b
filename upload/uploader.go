// Package upload implements the snapshot mode's "apply image to control"
// hook over plain HTTP. The engine only sees the error report.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"time"
)

// HTTPUploader posts an image file to <BaseURL>/controls/<n>/image.
type HTTPUploader struct {
	BaseURL   string
	ImagePath string
	Client    *http.Client
}

func New(baseURL, imagePath string) *HTTPUploader {
	return &HTTPUploader{
		BaseURL:   baseURL,
		ImagePath: imagePath,
		Client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Apply uploads the configured image for one control.
func (u *HTTPUploader) Apply(ctx context.Context, control int) error {
	data, err := os.ReadFile(u.ImagePath)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}

	url := fmt.Sprintf("%s/controls/%d/image", u.BaseURL, control)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := u.Client.Do(req)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("upload: unexpected status %s", resp.Status)
	}
	return nil
}
