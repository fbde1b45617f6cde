package blobstore

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestMemoryStore_SaveAndOpen(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	info, err := s.Save(ctx, "report_file", "scan.pdf", "application/pdf", strings.NewReader("%PDF-1.4"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(info.Ref, "files/report_file-") || !strings.HasSuffix(info.Ref, ".pdf") {
		t.Errorf("unexpected ref %q", info.Ref)
	}
	if info.Size != 8 {
		t.Errorf("size = %d, want 8", info.Size)
	}

	rc, got, err := s.Open(ctx, info.Ref)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "%PDF-1.4" {
		t.Errorf("content round trip failed: %q", data)
	}
	if got.OriginalName != "scan.pdf" {
		t.Errorf("original name = %q", got.OriginalName)
	}
}

func TestMemoryStore_Validation(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.Save(ctx, "report_file", "", "application/pdf", strings.NewReader("x")); !errors.Is(err, ErrMissingFileName) {
		t.Errorf("expected ErrMissingFileName, got %v", err)
	}
	if _, err := s.Save(ctx, "report_file", "x.exe", "application/x-msdownload", strings.NewReader("x")); !errors.Is(err, ErrInvalidContentType) {
		t.Errorf("expected ErrInvalidContentType, got %v", err)
	}
}

func TestMemoryStore_CollisionGetsDistinctRef(t *testing.T) {
	s := NewMemoryStore()
	fixed := time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	ctx := context.Background()

	a, err := s.Save(ctx, "report_file", "a.pdf", "application/pdf", strings.NewReader("a"))
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	b, err := s.Save(ctx, "report_file", "b.pdf", "application/pdf", strings.NewReader("b"))
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if a.Ref == b.Ref {
		t.Errorf("same-instant saves share ref %q", a.Ref)
	}
}

func TestMemoryStore_OpenMissing(t *testing.T) {
	s := NewMemoryStore()
	_, _, err := s.Open(context.Background(), "files/nope.pdf")
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}
}

func TestDiskStore_SaveAndOpen(t *testing.T) {
	s, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	info, err := s.Save(ctx, "report_file", "scan.png", "image/png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	rc, got, err := s.Open(ctx, info.Ref)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "png-bytes" {
		t.Errorf("content round trip failed: %q", data)
	}
	if got.ContentType != "image/png" {
		t.Errorf("content type = %q", got.ContentType)
	}
}

func TestDiskStore_OpenRejectsTraversal(t *testing.T) {
	s, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	for _, ref := range []string{"../etc/passwd", "files/../../etc/passwd", "/etc/passwd"} {
		if _, _, err := s.Open(context.Background(), ref); !errors.Is(err, ErrFileNotFound) {
			t.Errorf("ref %q: expected ErrFileNotFound, got %v", ref, err)
		}
	}
}

func TestDiskStore_List(t *testing.T) {
	s, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()
	for i, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		instant := time.Date(2026, time.March, 5, 10, 0, i, 0, time.UTC)
		s.now = func() time.Time { return instant }
		if _, err := s.Save(ctx, "report_file", name, "application/pdf", strings.NewReader(name)); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
	}

	items, total, err := s.List(ctx, 2, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(items) != 2 {
		t.Errorf("page size = %d, want 2", len(items))
	}
}

func TestExtensionFor(t *testing.T) {
	cases := map[string]string{
		"application/pdf": "pdf",
		"image/png":       "png",
		"image/jpeg":      "jpeg",
		"weird":           "bin",
	}
	for in, want := range cases {
		if got := extensionFor(in); got != want {
			t.Errorf("extensionFor(%q) = %q, want %q", in, got, want)
		}
	}
}
