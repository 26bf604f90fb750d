package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Validation failures must be rejected before any repository or
// service call, so a zero-value handler is safe here.

func TestBookRejectsMissingIDs(t *testing.T) {
	h := &TicketHandler{}
	c, rec := newJSONContext(t, http.MethodPost, "/v1/tickets", `{"schedule_id":0,"seat_id":4}`)

	require.NoError(t, h.Book(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookRejectsUnknownSeatType(t *testing.T) {
	h := &TicketHandler{}
	c, rec := newJSONContext(t, http.MethodPost, "/v1/tickets", `{"schedule_id":1,"seat_id":4,"seat_type":"ECONOMY"}`)

	require.NoError(t, h.Book(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelRejectsBadID(t *testing.T) {
	h := &TicketHandler{}
	c, rec := newJSONContext(t, http.MethodPost, "/v1/tickets/abc/cancel", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")

	require.NoError(t, h.Cancel(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTicketListRejectsBadStatus(t *testing.T) {
	h := &TicketHandler{}
	c, rec := newJSONContext(t, http.MethodGet, "/v1/tickets?status=OPEN", "")

	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTicketRangeValidatesBounds(t *testing.T) {
	h := &TicketHandler{}

	c, rec := newJSONContext(t, http.MethodGet, "/v1/tickets/range?start=2026-09-10&end=2026-09-01", "")
	require.NoError(t, h.ByDateRange(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code, "end before start")

	c, rec = newJSONContext(t, http.MethodGet, "/v1/tickets/range?start=foo&end=2026-09-01", "")
	require.NoError(t, h.ByDateRange(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code, "malformed start")
}

func TestPaymentCreateRequiresAuth(t *testing.T) {
	h := &PaymentHandler{}
	c, rec := newJSONContext(t, http.MethodPost, "/v1/payments", `{"ticket_id":1,"provider_id":2,"payment_method":"CASH","amount":50}`)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPaymentCreateValidates(t *testing.T) {
	h := &PaymentHandler{}

	c, rec := newJSONContext(t, http.MethodPost, "/v1/payments", `{"ticket_id":1,"provider_id":2,"payment_method":"CRYPTO","amount":50}`)
	c.Set("user_id", uint64(9))
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code, "unknown method")

	c, rec = newJSONContext(t, http.MethodPost, "/v1/payments", `{"ticket_id":1,"provider_id":2,"payment_method":"CASH","amount":0}`)
	c.Set("user_id", uint64(9))
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code, "non-positive amount")

	c, rec = newJSONContext(t, http.MethodPost, "/v1/payments", `{"ticket_id":1,"payment_method":"CASH","amount":50}`)
	c.Set("user_id", uint64(9))
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing provider")
}
