package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/busline/bus-ticket-booking/internal/model"
	"github.com/busline/bus-ticket-booking/internal/repository"
	"github.com/labstack/echo/v4"
)

// ProviderHandler exposes CRUD endpoints for payment providers, the
// external channels a payment is collected through.
type ProviderHandler struct {
	Providers *repository.ProviderRepo
}

func NewProviderHandler(providers *repository.ProviderRepo) *ProviderHandler {
	if providers == nil {
		panic("nil repository passed to NewProviderHandler")
	}
	return &ProviderHandler{Providers: providers}
}

type providerReq struct {
	ProviderName string `json:"provider_name"`
	ProviderType string `json:"provider_type"`
	APIEndpoint  string `json:"api_endpoint"`
}

func (h *ProviderHandler) validate(c echo.Context, body *providerReq) (*model.PaymentProvider, error) {
	name := strings.TrimSpace(body.ProviderName)
	if name == "" {
		return nil, c.JSON(http.StatusBadRequest, echo.Map{"error": "provider_name is required"})
	}
	ptype := model.ProviderType(strings.ToUpper(strings.TrimSpace(body.ProviderType)))
	if !ptype.Valid() {
		return nil, c.JSON(http.StatusBadRequest, echo.Map{"error": "provider_type must be CARD, E-WALLET, BANK_TRANSFER or QR_CODE"})
	}
	endpoint := strings.TrimSpace(body.APIEndpoint)
	if endpoint != "" {
		u, err := url.Parse(endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, c.JSON(http.StatusBadRequest, echo.Map{"error": "api_endpoint must be a valid URL"})
		}
	}
	return &model.PaymentProvider{ProviderName: name, ProviderType: ptype, APIEndpoint: endpoint}, nil
}

// Create handles POST /v1/payment-providers.
func (h *ProviderHandler) Create(c echo.Context) error {
	var body providerReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	p, err := h.validate(c, &body)
	if p == nil {
		return err
	}
	if err := h.Providers.Create(c.Request().Context(), p); err != nil {
		return respondRepoErr(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// Get handles GET /v1/payment-providers/:id.
func (h *ProviderHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	p, err := h.Providers.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// List handles GET /v1/payment-providers; ?type= narrows to one
// provider type.
func (h *ProviderHandler) List(c echo.Context) error {
	var ptype model.ProviderType
	if raw := strings.TrimSpace(c.QueryParam("type")); raw != "" {
		ptype = model.ProviderType(strings.ToUpper(raw))
		if !ptype.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be CARD, E-WALLET, BANK_TRANSFER or QR_CODE"})
		}
	}
	items, err := h.Providers.List(c.Request().Context(), ptype)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Update handles PUT /v1/payment-providers/:id.
func (h *ProviderHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body providerReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	p, err := h.validate(c, &body)
	if p == nil {
		return err
	}
	p.ID = id
	if err := h.Providers.Update(c.Request().Context(), p); err != nil {
		return respondRepoErr(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /v1/payment-providers/:id.  Providers with
// recorded payments respond 409.
func (h *ProviderHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Providers.Delete(c.Request().Context(), id); err != nil {
		return respondRepoErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
