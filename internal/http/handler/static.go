package handler

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"sonicpdf/internal/resolver"
)

const indexDocument = "index.html"

// wildcardPath returns the decoded "*" route parameter.
func wildcardPath(c *fiber.Ctx) (string, bool) {
	rel, ok := pathParam(c, "*")
	if !ok {
		return "", false
	}
	return strings.TrimPrefix(rel, "/"), true
}

// pathParam returns the percent-decoded route parameter key.
func pathParam(c *fiber.Ctx, key string) (string, bool) {
	v, err := url.PathUnescape(c.Params(key))
	if err != nil {
		return "", false
	}
	return v, true
}

// sendResolved streams a file the resolver has already located. The path never becomes part
// of the request URI, so names containing '?' or '#' are served as is.
func sendResolved(c *fiber.Ctx, p string) error {
	f, err := os.Open(p)
	if err != nil {
		return writeError(c, fiber.StatusNotFound, msgNotFound)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return writeError(c, fiber.StatusInternalServerError, msgInternal)
	}
	if ext := strings.TrimPrefix(filepath.Ext(p), "."); ext != "" {
		c.Type(ext)
	} else {
		c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	}
	return c.SendStream(f, int(fi.Size()))
}

// ServeDir serves files under root for a "prefix/*" route, answering 404 JSON for anything
// that does not resolve to a regular file.
func ServeDir(root string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rel, ok := wildcardPath(c)
		if !ok {
			return writeError(c, fiber.StatusNotFound, msgNotFound)
		}
		res := resolver.Resolve(root, rel)
		if !res.Found() {
			return writeError(c, fiber.StatusNotFound, msgNotFound)
		}
		return sendResolved(c, res.Path)
	}
}

// SPAFallback serves frontend assets, and index.html for every other path so the client-side
// router can take over. Paths under api/ are answered with 404 JSON before the filesystem is
// consulted, so a missing API route is never masked by the index document.
func SPAFallback(root string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rel, ok := wildcardPath(c)
		if ok && (rel == "api" || strings.HasPrefix(rel, "api/")) {
			return writeError(c, fiber.StatusNotFound, msgNotFound)
		}
		if ok {
			if res := resolver.Resolve(root, rel); res.Found() {
				return sendResolved(c, res.Path)
			}
		}
		index := resolver.Resolve(root, indexDocument)
		if !index.Found() {
			// Only reachable when the frontend build is absent.
			return writeError(c, fiber.StatusNotFound, msgNotFound)
		}
		return sendResolved(c, index.Path)
	}
}
