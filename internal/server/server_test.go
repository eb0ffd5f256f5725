package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func setupTestServer() *httptest.Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	apiServer := New("1.0.0-test", log.New(io.Discard))
	r.Mount("/api/v1", apiServer.Routes())

	return httptest.NewServer(r)
}

// solidPNG encodes a w x h single-color PNG in memory.
func solidPNG(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}

// multipartRequest builds a quilt request body with the given image payloads
// and form fields.
func multipartRequest(t *testing.T, images [][]byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for i, data := range images {
		part, err := mw.CreateFormFile("images", "tile.png")
		if err != nil {
			t.Fatalf("creating form file %d: %v", i, err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("writing form file %d: %v", i, err)
		}
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("writing field %s: %v", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}
	return &body, mw.FormDataContentType()
}

func TestHealthEndpoint(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/health")
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type application/json, got %s", ct)
	}

	var health healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if health.Status != "healthy" {
		t.Errorf("Expected status 'healthy', got %s", health.Status)
	}
	if health.Version != "1.0.0-test" {
		t.Errorf("Expected version '1.0.0-test', got %s", health.Version)
	}
	if health.Uptime < 0 {
		t.Errorf("Expected non-negative uptime, got %d", health.Uptime)
	}
	if time.Since(health.Timestamp) > time.Minute {
		t.Errorf("Timestamp seems too old: %v", health.Timestamp)
	}
}

func TestQuiltEndpoint_Success(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	images := [][]byte{
		solidPNG(t, 2, 2, color.NRGBA{255, 0, 0, 255}),
		solidPNG(t, 2, 2, color.NRGBA{0, 0, 255, 255}),
	}
	body, contentType := multipartRequest(t, images, map[string]string{
		"direction": "h",
		"sizing":    "actual",
	})

	resp, err := http.Post(server.URL+"/api/v1/quilt", contentType, body)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status 200, got %d. Body: %s", resp.StatusCode, payload)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected Content-Type image/png, got %s", ct)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID header")
	}

	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("Failed to decode response image: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 2 {
		t.Errorf("Expected 4x2 quilt, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestQuiltEndpoint_InvalidOption(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	images := [][]byte{solidPNG(t, 1, 1, color.NRGBA{0, 0, 0, 255})}
	body, contentType := multipartRequest(t, images, map[string]string{
		"stretch": "sideways",
	})

	resp, err := http.Post(server.URL+"/api/v1/quilt", contentType, body)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", resp.StatusCode)
	}

	var errResp errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if errResp.Code != "INVALID_OPTION" {
		t.Errorf("Expected code INVALID_OPTION, got %s", errResp.Code)
	}
}

func TestQuiltEndpoint_NoImages(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	body, contentType := multipartRequest(t, nil, map[string]string{"direction": "v"})

	resp, err := http.Post(server.URL+"/api/v1/quilt", contentType, body)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", resp.StatusCode)
	}

	var errResp errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if errResp.Code != "NO_IMAGES" {
		t.Errorf("Expected code NO_IMAGES, got %s", errResp.Code)
	}
}

func TestQuiltEndpoint_UndecodableImage(t *testing.T) {
	server := setupTestServer()
	defer server.Close()

	images := [][]byte{[]byte("this is not an image")}
	body, contentType := multipartRequest(t, images, nil)

	resp, err := http.Post(server.URL+"/api/v1/quilt", contentType, body)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("Expected status 422, got %d", resp.StatusCode)
	}
}

func TestConfigFromFormDefaults(t *testing.T) {
	cfg, err := configFromForm(nil)
	if err != nil {
		t.Fatalf("configFromForm(nil) error: %v", err)
	}
	if cfg.Sizing.String() != "largest" {
		t.Errorf("default sizing = %s, want largest", cfg.Sizing)
	}
	if cfg.Background.A != 255 {
		t.Errorf("default background should be opaque, got alpha %d", cfg.Background.A)
	}
}
