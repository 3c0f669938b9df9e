package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sonicpdf/internal/config"
	"sonicpdf/internal/service"
	"sonicpdf/internal/storage"
)

// MethodAny registers a route for every HTTP method.
const MethodAny = "*"

// Route is one entry of the dispatch table.
type Route struct {
	Name    string
	Method  string
	Path    string
	Handler fiber.Handler
}

// Deps are the collaborators the routes are built from.
type Deps struct {
	PDFs     service.PDFService
	Storage  storage.Storage
	Paths    config.PathsConfig
	Gatherer prometheus.Gatherer // nil disables /metrics
	Docs     bool                // serve swagger UI at /swagger/*
}

// Routes returns the dispatch table in precedence order. Fiber matches routes in registration
// order, so:
//  1. static API paths (list, upload) precede the /api/pdf/:id patterns;
//  2. the /api/* catch-all answers 404 JSON for every unmatched API path;
//  3. media and operational routes precede the SPA fallback;
//  4. the SPA fallback is last and matches everything else.
func Routes(d Deps) []Route {
	routes := []Route{
		{Name: "pdf.list", Method: fiber.MethodGet, Path: "/api/pdf/list", Handler: ListPDFs(d.PDFs)},
		{Name: "pdf.upload", Method: fiber.MethodPost, Path: "/api/pdf/upload", Handler: UploadPDF(d.PDFs)},
		{Name: "pdf.get", Method: fiber.MethodGet, Path: "/api/pdf/:id", Handler: GetPDF(d.PDFs)},
		{Name: "pdf.file", Method: fiber.MethodGet, Path: "/api/pdf/:id/file", Handler: GetPDFFile(d.PDFs)},
		{Name: "api.notfound", Method: MethodAny, Path: "/api/*", Handler: apiNotFound},
		{Name: "media.music", Method: fiber.MethodGet, Path: "/music/*", Handler: ServeDir(d.Paths.MusicDir)},
		{Name: "media.effects", Method: fiber.MethodGet, Path: "/effects/*", Handler: ServeDir(d.Paths.EffectsDir)},
		{Name: "ops.health", Method: fiber.MethodGet, Path: "/health", Handler: HealthCheck(d.Storage)},
		{Name: "ops.healthz", Method: fiber.MethodGet, Path: "/healthz", Handler: LivenessProbe()},
	}
	if d.Gatherer != nil {
		routes = append(routes, Route{
			Name:    "ops.metrics",
			Method:  fiber.MethodGet,
			Path:    "/metrics",
			Handler: adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})),
		})
	}
	if d.Docs {
		routes = append(routes, Route{Name: "ops.swagger", Method: fiber.MethodGet, Path: "/swagger/*", Handler: SwaggerUI()})
	}
	return append(routes, Route{Name: "spa.fallback", Method: fiber.MethodGet, Path: "/*", Handler: SPAFallback(d.Paths.FrontendDir)})
}

// RegisterRoutes attaches the dispatch table to app.
func RegisterRoutes(app *fiber.App, d Deps) {
	for _, r := range Routes(d) {
		var router fiber.Router
		switch r.Method {
		case MethodAny:
			router = app.All(r.Path, r.Handler)
		case fiber.MethodGet:
			router = app.Get(r.Path, r.Handler)
		default:
			router = app.Add(r.Method, r.Path, r.Handler)
		}
		router.Name(r.Name)
	}
}

func apiNotFound(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusNotFound, msgNotFound)
}
