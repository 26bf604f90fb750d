package handler

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/busline/bus-ticket-booking/internal/model"
	"github.com/busline/bus-ticket-booking/internal/repository"
	"github.com/labstack/echo/v4"
)

// BusHandler exposes CRUD endpoints for buses plus image upload.
// Uploaded files land on disk under UploadDir; only the relative path
// is stored in the database.
type BusHandler struct {
	Buses     *repository.BusRepo
	Companies *repository.CompanyRepo
	UploadDir string
}

func NewBusHandler(buses *repository.BusRepo, companies *repository.CompanyRepo, uploadDir string) *BusHandler {
	if buses == nil || companies == nil {
		panic("nil repository passed to NewBusHandler")
	}
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	return &BusHandler{Buses: buses, Companies: companies, UploadDir: uploadDir}
}

type busReq struct {
	CompanyID    uint64 `json:"company_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	LicensePlate string `json:"license_plate"`
	Capacity     uint32 `json:"capacity"`
}

// Create handles POST /v1/buses.
func (h *BusHandler) Create(c echo.Context) error {
	var body busReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" || body.CompanyID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and company_id are required"})
	}
	if _, err := h.Companies.GetByID(c.Request().Context(), body.CompanyID); err != nil {
		return respondRepoErr(c, err)
	}
	bus := &model.Bus{
		CompanyID:    body.CompanyID,
		Name:         name,
		Description:  strings.TrimSpace(body.Description),
		LicensePlate: strings.ToUpper(strings.TrimSpace(body.LicensePlate)),
		Capacity:     body.Capacity,
	}
	if err := h.Buses.Create(c.Request().Context(), bus); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "license plate already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create bus"})
	}
	return c.JSON(http.StatusCreated, bus)
}

// Get handles GET /v1/buses/:id and includes the bus's images.
func (h *BusHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	bus, err := h.Buses.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondRepoErr(c, err)
	}
	images, err := h.Buses.ListImages(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bus": bus, "images": images})
}

// List handles GET /v1/buses; ?company_id= narrows to one operator.
func (h *BusHandler) List(c echo.Context) error {
	if raw := strings.TrimSpace(c.QueryParam("company_id")); raw != "" {
		companyID, ok := parseQueryID(raw)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid company_id"})
		}
		items, err := h.Buses.ListByCompany(c.Request().Context(), companyID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		return c.JSON(http.StatusOK, echo.Map{"items": items})
	}
	items, err := h.Buses.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Update handles PUT /v1/buses/:id.
func (h *BusHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body busReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	bus := &model.Bus{
		ID:           id,
		Name:         name,
		Description:  strings.TrimSpace(body.Description),
		LicensePlate: strings.ToUpper(strings.TrimSpace(body.LicensePlate)),
		Capacity:     body.Capacity,
	}
	if err := h.Buses.Update(c.Request().Context(), bus); err != nil {
		return respondRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, bus)
}

// Delete handles DELETE /v1/buses/:id.  Buses with schedules respond
// 409; seats and image records are removed along with the bus.
func (h *BusHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Buses.Delete(c.Request().Context(), id); err != nil {
		return respondRepoErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// allowed image extensions for upload
var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

// UploadImage handles POST /v1/buses/:id/images with a multipart form
// field named "image".  The file is written under UploadDir/buses and
// a bus_images row records its relative path.
func (h *BusHandler) UploadImage(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.Buses.GetByID(c.Request().Context(), id); err != nil {
		return respondRepoErr(c, err)
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image file is required"})
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !imageExts[ext] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unsupported image type"})
	}
	if fh.Size > 5<<20 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image exceeds 5MB"})
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not read upload"})
	}
	defer src.Close()

	dir := filepath.Join(h.UploadDir, "buses")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not prepare upload dir"})
	}
	rel := filepath.Join("buses", fmt.Sprintf("bus_%d_%d%s", id, time.Now().UnixNano(), ext))
	dst, err := os.Create(filepath.Join(h.UploadDir, rel))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not store upload"})
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not store upload"})
	}

	img := &model.BusImage{
		BusID:     id,
		Path:      filepath.ToSlash(rel),
		IsPrimary: c.FormValue("is_primary") == "true",
	}
	if err := h.Buses.AddImage(c.Request().Context(), img); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not record image"})
	}
	return c.JSON(http.StatusCreated, img)
}
