package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentcad/agentcad/pkg/cad"
)

func TestUploadModel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bracket.step")
	require.NoError(t, os.WriteFile(path, []byte("ISO-10303-21;"), 0o644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		file.Close()
		assert.Equal(t, "bracket.step", header.Filename)

		json.NewEncoder(w).Encode(cad.UploadResponse{
			Success:  true,
			Info:     &cad.ModelInfo{NumFaces: 7, LengthUnit: "mm", LengthScale: 1},
			Mesh:     &cad.MeshData{NumFaces: 7},
			Filename: "bracket.step",
		})
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL).UploadModel(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 7, resp.Info.NumFaces)
	assert.Equal(t, "bracket.step", resp.Filename)
}

func TestUploadModelBackendError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.step")
	require.NoError(t, os.WriteFile(path, []byte("junk"), 0o644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(cad.UploadResponse{Success: false, Error: "not a STEP file"})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).UploadModel(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a STEP file")
}

func TestExportSTEP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/export", r.URL.Path)

		var req cad.ExportRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Features, "bores")

		w.Header().Set("Content-Disposition", `attachment; filename="bracket_named.step"`)
		w.Write([]byte("ISO-10303-21;"))
	}))
	defer srv.Close()

	req := cad.ExportRequest{Features: map[string][]cad.FeatureMember{
		"bores": {{FaceID: 2, SubName: "cylindrical_1"}},
	}}
	data, filename, err := NewClient(srv.URL).ExportSTEP(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "bracket_named.step", filename)
	assert.Equal(t, "ISO-10303-21;", string(data))
}

func TestPostScreenshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/screenshot", r.URL.Path)
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Contains(t, payload["image"], "data:image/png;base64,")
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL).PostScreenshot(context.Background(), "data:image/png;base64,iVBOR")
	require.NoError(t, err)
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	assert.NoError(t, NewClient(srv.URL).Health(context.Background()))

	srv.Close()
	assert.Error(t, NewClient(srv.URL).Health(context.Background()))
}
