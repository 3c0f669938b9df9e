package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

const (
	msgPDFNotFound     = "PDF not found"
	msgFileNotFound    = "PDF file not found"
	msgNoFilePart      = "No file part"
	msgNoSelectedFile  = "No selected file"
	msgInvalidFilename = "Invalid file name"
	msgNotFound        = "Not found"
	msgInternal        = "Internal server error"
)

// errorPayload is the body of every error response.
type errorPayload struct {
	Error string `json:"error"`
}

// writeError writes {"error": message} with the given status. Messages are fixed, client-safe
// strings; internal error details are never put in the body.
func writeError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(errorPayload{Error: message})
}

// ErrorHandler returns a Fiber global error handler that renders framework errors in the same
// JSON shape as handler errors.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var e *fiber.Error
		if errors.As(err, &e) {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "Bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, msgNotFound)
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "Method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "File too large")
		default:
			return writeError(c, status, msgInternal)
		}
	}
}
