package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"skillpath_backend/internal/config"
)

func TestLocalStorageProvider_UploadAndDelete(t *testing.T) {
	dir := t.TempDir()
	p := &LocalStorageProvider{Config: &config.StorageConfig{LocalPath: dir, PublicBaseURL: "https://cdn.example.com/"}}
	ctx := context.Background()

	url, err := p.Upload(ctx, "certificates/a.png", strings.NewReader("png"), 3, "image/png")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if url != "https://cdn.example.com/uploads/certificates/a.png" {
		t.Errorf("url = %q", url)
	}
	if _, err := os.Stat(filepath.Join(dir, "certificates", "a.png")); err != nil {
		t.Fatalf("stat uploaded file: %v", err)
	}

	if err := p.Delete(ctx, "certificates/a.png"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := p.Delete(ctx, "certificates/a.png"); err != nil {
		t.Fatalf("Delete() of missing object error = %v", err)
	}
}

func TestLocalStorageProvider_RejectsTraversal(t *testing.T) {
	p := &LocalStorageProvider{Config: &config.StorageConfig{LocalPath: t.TempDir()}}
	if _, err := p.Upload(context.Background(), "../escape.png", strings.NewReader("x"), 1, "image/png"); err == nil {
		t.Fatal("Upload() with traversal key should fail")
	}
}
