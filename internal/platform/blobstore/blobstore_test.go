package blobstore

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func seedBlob(t *testing.T, store BlobStore, ownerID, category, fileName, contentType, content string) *BlobMetadata {
	t.Helper()
	meta := BlobMetadata{
		FileName:    fileName,
		ContentType: contentType,
		OwnerID:     ownerID,
		Category:    category,
		CreatedBy:   "test-user",
	}
	result, err := store.Upload(context.Background(), meta, strings.NewReader(content))
	if err != nil {
		t.Fatalf("seedBlob: %v", err)
	}
	return result
}

func TestInMemoryBlobStore_Upload(t *testing.T) {
	store := NewInMemoryBlobStore()
	content := "fake-png-bytes"

	meta := BlobMetadata{
		FileName:    "photo.png",
		ContentType: "image/png",
		OwnerID:     "patient-1",
		Category:    "profile-photo",
		CreatedBy:   "user-1",
	}

	result, err := store.Upload(context.Background(), meta, strings.NewReader(content))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.ID == "" {
		t.Fatal("expected non-empty ID")
	}
	if result.Size != int64(len(content)) {
		t.Errorf("expected Size=%d, got %d", len(content), result.Size)
	}
	if result.Hash == "" {
		t.Fatal("expected non-empty Hash")
	}
	if result.CreatedAt.IsZero() {
		t.Fatal("expected non-zero CreatedAt")
	}
}

func TestInMemoryBlobStore_Upload_RejectsMissingFileName(t *testing.T) {
	store := NewInMemoryBlobStore()
	_, err := store.Upload(context.Background(), BlobMetadata{ContentType: "image/png"}, strings.NewReader("x"))
	if err != ErrMissingFileName {
		t.Fatalf("expected ErrMissingFileName, got %v", err)
	}
}

func TestInMemoryBlobStore_Upload_RejectsBadContentType(t *testing.T) {
	store := NewInMemoryBlobStore()
	meta := BlobMetadata{FileName: "x.exe", ContentType: "application/x-msdownload"}
	_, err := store.Upload(context.Background(), meta, strings.NewReader("x"))
	if err != ErrInvalidContentType {
		t.Fatalf("expected ErrInvalidContentType, got %v", err)
	}
}

func TestInMemoryBlobStore_Upload_RejectsBadCategory(t *testing.T) {
	store := NewInMemoryBlobStore()
	meta := BlobMetadata{FileName: "x.png", ContentType: "image/png", Category: "radiology"}
	_, err := store.Upload(context.Background(), meta, strings.NewReader("x"))
	if err != ErrInvalidCategory {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestInMemoryBlobStore_Upload_RejectsOversized(t *testing.T) {
	store := NewInMemoryBlobStore()
	meta := BlobMetadata{FileName: "big.png", ContentType: "image/png"}
	big := bytes.Repeat([]byte("a"), MaxFileSize+1)
	_, err := store.Upload(context.Background(), meta, bytes.NewReader(big))
	if err != ErrFileTooLarge {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestInMemoryBlobStore_DownloadRoundTrip(t *testing.T) {
	store := NewInMemoryBlobStore()
	seeded := seedBlob(t, store, "patient-1", "profile-photo", "photo.jpg", "image/jpeg", "jpeg-bytes")

	rc, meta, err := store.Download(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rc.Close()

	data, _ := io.ReadAll(rc)
	if string(data) != "jpeg-bytes" {
		t.Errorf("expected content round-trip, got %q", data)
	}
	if meta.FileName != "photo.jpg" {
		t.Errorf("expected photo.jpg, got %s", meta.FileName)
	}
}

func TestInMemoryBlobStore_DownloadNotFound(t *testing.T) {
	store := NewInMemoryBlobStore()
	_, _, err := store.Download(context.Background(), "missing")
	if err != ErrBlobNotFound {
		t.Fatalf("expected ErrBlobNotFound, got %v", err)
	}
}

func TestInMemoryBlobStore_Delete(t *testing.T) {
	store := NewInMemoryBlobStore()
	seeded := seedBlob(t, store, "patient-1", "document", "consent.pdf", "application/pdf", "pdf")

	if err := store.Delete(context.Background(), seeded.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Delete(context.Background(), seeded.ID); err != ErrBlobNotFound {
		t.Fatalf("expected ErrBlobNotFound on second delete, got %v", err)
	}
}

func TestInMemoryBlobStore_ListByOwner(t *testing.T) {
	store := NewInMemoryBlobStore()
	seedBlob(t, store, "patient-1", "profile-photo", "a.png", "image/png", "a")
	seedBlob(t, store, "patient-1", "document", "b.pdf", "application/pdf", "b")
	seedBlob(t, store, "patient-2", "profile-photo", "c.png", "image/png", "c")

	items, total, err := store.ListByOwner(context.Background(), "patient-1", "", 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("expected 2 blobs for patient-1, got total=%d len=%d", total, len(items))
	}

	items, total, err = store.ListByOwner(context.Background(), "patient-1", "document", 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || items[0].FileName != "b.pdf" {
		t.Errorf("expected only b.pdf, got total=%d", total)
	}
}

func TestBlobHandler_UploadAndFetch(t *testing.T) {
	store := NewInMemoryBlobStore()
	h := NewBlobHandler(store)
	e := echo.New()
	h.RegisterRoutes(e.Group("/api"))

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, _ := writer.CreateFormFile("file", "photo.png")
	part.Write([]byte("png-bytes"))
	writer.WriteField("owner_id", "patient-1")
	writer.WriteField("category", "profile-photo")
	writer.WriteField("content_type", "image/png")
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var meta BlobMetadata
	if err := json.Unmarshal(rec.Body.Bytes(), &meta); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/files/"+meta.ID, nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "png-bytes" {
		t.Errorf("expected content round-trip, got %q", rec.Body.String())
	}
}

func TestBlobHandler_NotFound(t *testing.T) {
	store := NewInMemoryBlobStore()
	h := NewBlobHandler(store)
	e := echo.New()
	h.RegisterRoutes(e.Group("/api"))

	req := httptest.NewRequest(http.MethodGet, "/api/files/nope/metadata", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
