// Package blobstore is the upload collaborator of the record store: it
// receives one file per creation request, derives an extension consistent
// with the declared MIME type, stores the content durably and hands back an
// opaque reference string. Record-keeping code never inspects file bytes.
package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	ErrFileNotFound       = errors.New("stored file not found")
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrInvalidContentType = errors.New("content type is not allowed")
	ErrMissingFileName    = errors.New("file name is required")
)

// MaxFileSize is the maximum accepted upload in bytes (25 MB).
const MaxFileSize = 25 * 1024 * 1024

// AllowedContentTypes lists the accepted upload MIME types. The legacy
// uploader admitted PDF documents only; scanned images are also common.
var AllowedContentTypes = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
}

// FileInfo describes a stored upload.
type FileInfo struct {
	Ref          string    `json:"ref"`
	OriginalName string    `json:"original_name"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	StoredAt     time.Time `json:"stored_at"`
}

// Store is the contract for upload storage backends. Save returns the
// opaque reference later presented to Open.
type Store interface {
	Save(ctx context.Context, field, filename, contentType string, content io.Reader) (*FileInfo, error)
	Open(ctx context.Context, ref string) (io.ReadCloser, *FileInfo, error)
	List(ctx context.Context, limit, offset int) ([]*FileInfo, int, error)
}

// extensionFor derives the stored extension from the MIME subtype, the way
// the legacy uploader named its files.
func extensionFor(contentType string) string {
	if i := strings.IndexByte(contentType, '/'); i >= 0 {
		return contentType[i+1:]
	}
	return "bin"
}

func validate(filename, contentType string) error {
	if filename == "" {
		return ErrMissingFileName
	}
	if !AllowedContentTypes[contentType] {
		return fmt.Errorf("%w: %s", ErrInvalidContentType, contentType)
	}
	return nil
}

func refFor(field, contentType string, now time.Time) string {
	return fmt.Sprintf("files/%s-%d.%s", field, now.UnixMilli(), extensionFor(contentType))
}

// ---------------------------------------------------------------------------
// In-memory implementation
// ---------------------------------------------------------------------------

type storedFile struct {
	info    FileInfo
	content []byte
}

// MemoryStore is a thread-safe, in-memory Store for development and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	files map[string]*storedFile
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: make(map[string]*storedFile), now: time.Now}
}

func (s *MemoryStore) Save(_ context.Context, field, filename, contentType string, content io.Reader) (*FileInfo, error) {
	if err := validate(filename, contentType); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(content, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}
	if int64(len(data)) > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	ref := refFor(field, contentType, now)
	for i := 1; ; i++ {
		if _, taken := s.files[ref]; !taken {
			break
		}
		ref = fmt.Sprintf("files/%s-%d-%d.%s", field, now.UnixMilli(), i, extensionFor(contentType))
	}
	info := FileInfo{
		Ref:          ref,
		OriginalName: filename,
		ContentType:  contentType,
		Size:         int64(len(data)),
		StoredAt:     now.UTC(),
	}
	s.files[ref] = &storedFile{info: info, content: data}

	out := info
	return &out, nil
}

func (s *MemoryStore) Open(_ context.Context, ref string) (io.ReadCloser, *FileInfo, error) {
	s.mu.RLock()
	f, ok := s.files[ref]
	s.mu.RUnlock()
	if !ok {
		return nil, nil, ErrFileNotFound
	}
	info := f.info
	return io.NopCloser(bytes.NewReader(f.content)), &info, nil
}

func (s *MemoryStore) List(_ context.Context, limit, offset int) ([]*FileInfo, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*FileInfo, 0, len(s.files))
	for _, f := range s.files {
		info := f.info
		all = append(all, &info)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Ref < all[j].Ref })
	return page(all, limit, offset), len(all), nil
}

// ---------------------------------------------------------------------------
// Local-disk implementation
// ---------------------------------------------------------------------------

// DiskStore writes uploads under a base directory, mirroring the legacy
// public/files layout. The reference is the path relative to the base dir.
type DiskStore struct {
	mu   sync.Mutex
	base string
	now  func() time.Time
}

func NewDiskStore(base string) (*DiskStore, error) {
	if err := os.MkdirAll(filepath.Join(base, "files"), 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{base: base, now: time.Now}, nil
}

func (s *DiskStore) Save(_ context.Context, field, filename, contentType string, content io.Reader) (*FileInfo, error) {
	if err := validate(filename, contentType); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(content, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}
	if int64(len(data)) > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	ref := refFor(field, contentType, now)
	path := filepath.Join(s.base, filepath.FromSlash(ref))
	for i := 1; ; i++ {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			break
		}
		ref = fmt.Sprintf("files/%s-%d-%d.%s", field, now.UnixMilli(), i, extensionFor(contentType))
		path = filepath.Join(s.base, filepath.FromSlash(ref))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write upload: %w", err)
	}

	return &FileInfo{
		Ref:          ref,
		OriginalName: filename,
		ContentType:  contentType,
		Size:         int64(len(data)),
		StoredAt:     now.UTC(),
	}, nil
}

func (s *DiskStore) Open(_ context.Context, ref string) (io.ReadCloser, *FileInfo, error) {
	clean := filepath.Clean(filepath.FromSlash(ref))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return nil, nil, ErrFileNotFound
	}
	path := filepath.Join(s.base, clean)

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, fmt.Errorf("open upload: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("stat upload: %w", err)
	}
	info := &FileInfo{
		Ref:          filepath.ToSlash(clean),
		OriginalName: filepath.Base(clean),
		ContentType:  contentTypeFor(clean),
		Size:         st.Size(),
		StoredAt:     st.ModTime().UTC(),
	}
	return f, info, nil
}

func (s *DiskStore) List(_ context.Context, limit, offset int) ([]*FileInfo, int, error) {
	entries, err := os.ReadDir(filepath.Join(s.base, "files"))
	if err != nil {
		return nil, 0, fmt.Errorf("read upload dir: %w", err)
	}

	all := make([]*FileInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		st, err := e.Info()
		if err != nil {
			continue
		}
		all = append(all, &FileInfo{
			Ref:          "files/" + e.Name(),
			OriginalName: e.Name(),
			ContentType:  contentTypeFor(e.Name()),
			Size:         st.Size(),
			StoredAt:     st.ModTime().UTC(),
		})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Ref < all[j].Ref })
	return page(all, limit, offset), len(all), nil
}

func contentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpeg", ".jpg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}

func page(all []*FileInfo, limit, offset int) []*FileInfo {
	if limit <= 0 {
		limit = 20
	}
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}
