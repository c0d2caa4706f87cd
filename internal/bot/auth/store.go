package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/filex"
)

// Store persists the authorization document. Implementations must make Save
// durable before returning: a crash right after a successful call must not
// lose the change.
type Store interface {
	Load(ctx context.Context) (*Document, error)
	Save(ctx context.Context, doc *Document) error
}

// ---------- local file ----------

// FileStore keeps the document in a JSON file under a data directory
// relative to the working directory.
type FileStore struct {
	path string
}

func NewFileStore(dirName, fileName string) (*FileStore, error) {
	dir, err := filex.EnsureSubdDir(dirName)
	if err != nil {
		return nil, err
	}
	return &FileStore{path: filepath.Join(dir, fileName)}, nil
}

func (s *FileStore) Load(ctx context.Context) (*Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("read auth file: %w", err)
	}
	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("decode auth file: %w", err)
	}
	return doc, nil
}

func (s *FileStore) Save(ctx context.Context, doc *Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	// write-then-rename so a crash mid-write never leaves a torn file
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write auth file: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// ---------- bucket object ----------

// ObjectStorage is the slice of the storage repository the bucket store
// needs. The object lives under the hidden prefix, so it never shows up in
// user-visible listings.
type ObjectStorage interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) error
	Download(ctx context.Context, path string) ([]byte, error)
}

// BucketStore keeps the document as an object inside the managed bucket,
// which lets several bot processes share one allow-list.
type BucketStore struct {
	storage ObjectStorage
	key     string
}

func NewBucketStore(storage ObjectStorage, key string) *BucketStore {
	return &BucketStore{storage: storage, key: key}
}

func (s *BucketStore) Load(ctx context.Context) (*Document, error) {
	data, err := s.storage.Download(ctx, s.key)
	if err != nil {
		return nil, err
	}
	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("decode auth object: %w", err)
	}
	return doc, nil
}

func (s *BucketStore) Save(ctx context.Context, doc *Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return s.storage.Upload(ctx, s.key, data, "application/json")
}
