package handler

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"sonicpdf/internal/service"
)

// ListPDFs godoc
// @Summary List PDFs
// @Tags pdf
// @Produce json
// @Success 200 {array} model.PDF
// @Router /api/pdf/list [get]
func ListPDFs(svc service.PDFService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, msgInternal)
		}
		return c.JSON(items)
	}
}

// GetPDF godoc
// @Summary Get PDF details
// @Tags pdf
// @Produce json
// @Param id path string true "PDF id"
// @Success 200 {object} model.PDFDetail
// @Failure 404 {object} errorPayload
// @Router /api/pdf/{id} [get]
func GetPDF(svc service.PDFService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathParam(c, "id")
		if !ok {
			return writeError(c, fiber.StatusNotFound, msgPDFNotFound)
		}
		detail, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, msgPDFNotFound)
			}
			return writeError(c, fiber.StatusInternalServerError, msgInternal)
		}
		return c.JSON(detail)
	}
}

// GetPDFFile godoc
// @Summary Stream the PDF file
// @Tags pdf
// @Produce application/pdf
// @Param id path string true "PDF id"
// @Success 200 {file} binary
// @Failure 404 {object} errorPayload
// @Router /api/pdf/{id}/file [get]
func GetPDFFile(svc service.PDFService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathParam(c, "id")
		if !ok {
			return writeError(c, fiber.StatusNotFound, msgFileNotFound)
		}
		rc, info, err := svc.OpenFile(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrFileNotFound) {
				return writeError(c, fiber.StatusNotFound, msgFileNotFound)
			}
			return writeError(c, fiber.StatusInternalServerError, msgInternal)
		}
		c.Set(fiber.HeaderContentType, info.ContentType)
		c.Set(fiber.HeaderContentDisposition, `inline; filename="`+id+`.pdf"`)
		if !info.LastModified.IsZero() {
			c.Set(fiber.HeaderLastModified, info.LastModified.UTC().Format(http.TimeFormat))
		}
		// fasthttp closes rc once the body has been written.
		return c.SendStream(rc, int(info.Size))
	}
}

// UploadPDF godoc
// @Summary Upload a PDF
// @Tags pdf
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF file"
// @Param title formData string false "Title (default: Untitled PDF)"
// @Success 200 {object} model.PDF
// @Failure 400 {object} errorPayload
// @Router /api/pdf/upload [post]
func UploadPDF(svc service.PDFService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, msgNoFilePart)
		}

		files := form.File["file"]
		if len(files) == 0 {
			// A file input submitted without a selection arrives as a part with an empty
			// filename, which the multipart reader files under Value.
			if _, ok := form.Value["file"]; ok {
				return writeError(c, fiber.StatusBadRequest, msgNoSelectedFile)
			}
			return writeError(c, fiber.StatusBadRequest, msgNoFilePart)
		}
		fh := files[0]
		if fh.Filename == "" {
			return writeError(c, fiber.StatusBadRequest, msgNoSelectedFile)
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, msgNoFilePart)
		}
		defer f.Close()

		in := service.UploadInput{
			Reader:      f,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(fiber.HeaderContentType),
		}
		if titles := form.Value["title"]; len(titles) > 0 {
			in.Title = &titles[0]
		}

		rec, err := svc.Upload(c.UserContext(), in)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNoFile):
				return writeError(c, fiber.StatusBadRequest, msgNoFilePart)
			case errors.Is(err, service.ErrNoSelectedFile):
				return writeError(c, fiber.StatusBadRequest, msgNoSelectedFile)
			case errors.Is(err, service.ErrInvalidFilename):
				return writeError(c, fiber.StatusBadRequest, msgInvalidFilename)
			default:
				return writeError(c, fiber.StatusInternalServerError, msgInternal)
			}
		}
		return c.JSON(rec)
	}
}
