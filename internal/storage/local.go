package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"

	"sonicpdf/internal/resolver"
)

// localStorage keeps objects as plain files directly under root.
type localStorage struct {
	root string
}

// NewLocal returns a Storage rooted at dir. The directory must already exist.
func NewLocal(dir string) (Storage, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat upload dir: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("upload dir %s is not a directory", abs)
	}
	return &localStorage{root: abs}, nil
}

// Put writes to a temp file in root and renames it into place, so readers never see a partial file.
func (l *localStorage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return ObjectInfo{}, err
	}
	dst, err := l.pathFor(key)
	if err != nil {
		return ObjectInfo{}, err
	}

	tmp, err := os.CreateTemp(l.root, ".upload-*")
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return ObjectInfo{}, fmt.Errorf("write object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return ObjectInfo{}, fmt.Errorf("close object: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return ObjectInfo{}, fmt.Errorf("commit object: %w", err)
	}

	fi, err := os.Stat(dst)
	if err != nil {
		return ObjectInfo{}, err
	}
	return ObjectInfo{
		Key:          key,
		Location:     dst,
		Size:         n,
		ContentType:  contentTypeFor(key, opt.ContentType),
		LastModified: fi.ModTime(),
		Metadata:     opt.Metadata,
	}, nil
}

func (l *localStorage) Get(_ context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	res := resolver.Resolve(l.root, key)
	if !res.Found() {
		return nil, ObjectInfo{}, ErrNotExist
	}
	f, err := os.Open(res.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ObjectInfo{}, ErrNotExist
		}
		return nil, ObjectInfo{}, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ObjectInfo{}, err
	}
	return f, ObjectInfo{
		Key:          key,
		Location:     res.Path,
		Size:         fi.Size(),
		ContentType:  contentTypeFor(key, ""),
		LastModified: fi.ModTime(),
	}, nil
}

func (l *localStorage) Delete(_ context.Context, key string) error {
	p, err := l.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Ping checks that root is still a writable directory.
func (l *localStorage) Ping(_ context.Context) error {
	f, err := os.CreateTemp(l.root, ".ping-*")
	if err != nil {
		return fmt.Errorf("upload dir not writable: %w", err)
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

// pathFor only accepts flat keys; nested keys never come out of resolver.StoredName.
func (l *localStorage) pathFor(key string) (string, error) {
	if key == "" || key != filepath.Base(key) || key == "." || key == ".." {
		return "", fmt.Errorf("key %q: %w", key, resolver.ErrUnsafePath)
	}
	return filepath.Join(l.root, key), nil
}

func contentTypeFor(key, fallback string) string {
	if ct := mime.TypeByExtension(filepath.Ext(key)); ct != "" {
		return ct
	}
	if fallback != "" {
		return fallback
	}
	return "application/octet-stream"
}
