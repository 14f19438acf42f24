// Package api is the HTTP client for the CAD backend's REST surface:
// model upload, named STEP export, screenshot hand-back and health.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/agentcad/agentcad/pkg/cad"
)

// Client talks to one backend instance.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given base URL, e.g.
// "http://localhost:8000".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// UploadModel posts a STEP file and returns the tessellated model.
func (c *Client) UploadModel(ctx context.Context, path string) (*cad.UploadResponse, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening model file: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("building upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finishing upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("uploading model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upload failed: %s", resp.Status)
	}

	var result cad.UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding upload response: %w", err)
	}
	if !result.Success {
		return nil, fmt.Errorf("upload rejected: %s", result.Error)
	}
	return &result, nil
}

// ExportSTEP posts the feature map and returns the named STEP file bytes
// and the filename suggested by the backend.
func (c *Client) ExportSTEP(ctx context.Context, features cad.ExportRequest) ([]byte, string, error) {
	payload, err := json.Marshal(features)
	if err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/export", bytes.NewReader(payload))
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("exporting STEP: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("export failed: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("reading export: %w", err)
	}

	filename := "model_named.step"
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil && params["filename"] != "" {
			filename = params["filename"]
		}
	}
	return data, filename, nil
}

// PostScreenshot hands a captured viewport image (a base64 PNG data URL)
// back to the backend.
func (c *Client) PostScreenshot(ctx context.Context, dataURL string) error {
	payload, err := json.Marshal(map[string]string{"image": dataURL})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/screenshot", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("posting screenshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("screenshot rejected: %s", resp.Status)
	}
	return nil
}

// Health reports whether the backend is reachable.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("backend unhealthy: %s", resp.Status)
	}
	return nil
}
