// Package resolver maps logical names to files under a root directory.
// Every name coming from a request is untrusted: anything that could escape the root
// (parent segments, absolute paths, NUL bytes) is rejected before the filesystem is touched.
package resolver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// StoredExt is the extension given to every uploaded document on disk.
const StoredExt = ".pdf"

// ErrUnsafePath is returned for names that are not allowed to reach the filesystem.
var ErrUnsafePath = errors.New("unsafe path")

// Status classifies the outcome of a lookup.
type Status int

const (
	StatusNotFound Status = iota
	StatusFound
	StatusRejected
)

// Result is the explicit outcome of resolving a name. Path is set only when Status is StatusFound.
type Result struct {
	Path   string
	Status Status
}

// Found reports whether the name resolved to a regular file.
func (r Result) Found() bool { return r.Status == StatusFound }

func found(p string) Result { return Result{Path: p, Status: StatusFound} }
func notFound() Result      { return Result{Status: StatusNotFound} }
func rejected() Result      { return Result{Status: StatusRejected} }

var idPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// StoredName returns the deterministic file name for a record id: "{id}.pdf".
func StoredName(id string) (string, error) {
	if !idPattern.MatchString(id) {
		return "", fmt.Errorf("id %q: %w", id, ErrUnsafePath)
	}
	return id + StoredExt, nil
}

// Resolve looks up rel (slash separated) under root. Directories count as not found.
func Resolve(root, rel string) Result {
	clean, err := cleanRelative(rel)
	if err != nil {
		return rejected()
	}
	if clean == "" {
		return notFound()
	}
	p := filepath.Join(root, clean)
	fi, err := os.Stat(p)
	if err != nil || fi.IsDir() {
		return notFound()
	}
	return found(p)
}

// Target is where an upload must be written. Name is relative to the upload root of whichever
// backend stores it; SafeName is the sanitized client filename, fit for logs and metadata only.
type Target struct {
	Name     string
	SafeName string
}

// ResolveWrite computes the write target for id. The stored name never depends on rawFilename.
func ResolveWrite(id, rawFilename string) (Target, error) {
	name, err := StoredName(id)
	if err != nil {
		return Target{}, err
	}
	safe := SanitizeFilename(rawFilename)
	if safe == "" {
		return Target{}, fmt.Errorf("filename %q: %w", rawFilename, ErrUnsafePath)
	}
	return Target{Name: name, SafeName: safe}, nil
}

func cleanRelative(rel string) (string, error) {
	if strings.ContainsRune(rel, 0) {
		return "", ErrUnsafePath
	}
	slashed := strings.ReplaceAll(rel, `\`, "/")
	if strings.HasPrefix(slashed, "/") || filepath.IsAbs(rel) || filepath.VolumeName(rel) != "" {
		return "", ErrUnsafePath
	}
	for _, seg := range strings.Split(slashed, "/") {
		if seg == ".." {
			return "", ErrUnsafePath
		}
	}
	clean := filepath.Clean(filepath.FromSlash(slashed))
	if clean == "." {
		return "", nil
	}
	return clean, nil
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// SanitizeFilename reduces a client filename to a safe base name: directory components are
// dropped, whitespace becomes "_", other unsafe characters are removed, and leading dots or
// underscores are trimmed. The result may be empty.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}
