package handler

import (
	"net/http"
	"strings"

	"github.com/busline/bus-ticket-booking/internal/model"
	"github.com/busline/bus-ticket-booking/internal/repository"
	"github.com/labstack/echo/v4"
)

// CompanyHandler exposes CRUD endpoints for bus operators.
type CompanyHandler struct {
	Companies *repository.CompanyRepo
}

func NewCompanyHandler(companies *repository.CompanyRepo) *CompanyHandler {
	if companies == nil {
		panic("nil repository passed to NewCompanyHandler")
	}
	return &CompanyHandler{Companies: companies}
}

type companyReq struct {
	CompanyName string `json:"company_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
}

// Create handles POST /v1/companies.
func (h *CompanyHandler) Create(c echo.Context) error {
	var body companyReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.CompanyName)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "company_name is required"})
	}
	company := &model.BusCompany{
		CompanyName: name,
		Phone:       strings.TrimSpace(body.Phone),
		Email:       strings.ToLower(strings.TrimSpace(body.Email)),
		Address:     strings.TrimSpace(body.Address),
	}
	if err := h.Companies.Create(c.Request().Context(), company); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "company already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create company"})
	}
	return c.JSON(http.StatusCreated, company)
}

// Get handles GET /v1/companies/:id.
func (h *CompanyHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	company, err := h.Companies.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, company)
}

// List handles GET /v1/companies.
func (h *CompanyHandler) List(c echo.Context) error {
	items, err := h.Companies.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Update handles PUT /v1/companies/:id.
func (h *CompanyHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body companyReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.CompanyName)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "company_name is required"})
	}
	company := &model.BusCompany{
		ID:          id,
		CompanyName: name,
		Phone:       strings.TrimSpace(body.Phone),
		Email:       strings.ToLower(strings.TrimSpace(body.Email)),
		Address:     strings.TrimSpace(body.Address),
	}
	if err := h.Companies.Update(c.Request().Context(), company); err != nil {
		return respondRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, company)
}

// Delete handles DELETE /v1/companies/:id.  Companies that still own
// buses respond 409.
func (h *CompanyHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Companies.Delete(c.Request().Context(), id); err != nil {
		return respondRepoErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
