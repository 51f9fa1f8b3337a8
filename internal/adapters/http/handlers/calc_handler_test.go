package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"vgt-backoffice/internal/core/freight"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCalcApp() *fiber.App {
	h := NewCalcHandler()
	app := fiber.New()
	app.Post("/calc/hire", h.Hire)
	app.Post("/calc/freight", h.Freight)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string, out interface{}) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestCalcFreight(t *testing.T) {
	var got struct {
		Success bool `json:"success"`
		Data    struct {
			Freight freight.Freight `json:"freight"`
		} `json:"data"`
	}

	status := postJSON(t, newCalcApp(), "/calc/freight",
		`{"rate_per_kg": "5", "charged_weight": 100, "unload_charges": "50", "mhc_charges": 20, "other_charges": "abc", "total_freight": 99999}`, &got)

	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, got.Success)
	f := got.Data.Freight
	assert.True(t, f.BasicFreight.Equal(decimal.NewFromInt(500)))
	assert.True(t, f.TotalFreight.Equal(decimal.NewFromInt(570)), "client totals are ignored")
	assert.Equal(t, "Five Hundred Seventy Rupees Only", f.AmountInWords)
}

func TestCalcFreightPending(t *testing.T) {
	var got struct {
		Data struct {
			Freight freight.Freight `json:"freight"`
		} `json:"data"`
	}

	postJSON(t, newCalcApp(), "/calc/freight", `{"freight_pending": true, "rate_per_kg": 5, "charged_weight": 100}`, &got)
	assert.True(t, got.Data.Freight.TotalFreight.IsZero())
}

func TestCalcHire(t *testing.T) {
	var got struct {
		Data struct {
			Hire freight.Hire `json:"hire"`
		} `json:"data"`
	}

	status := postJSON(t, newCalcApp(), "/calc/hire",
		`{"hire": 10000, "over_weight": "500", "extra_km_charges": 300, "detention_charges": 200, "advance_payment": 2000, "tds_percent": 2}`, &got)

	require.Equal(t, fiber.StatusOK, status)
	h := got.Data.Hire
	assert.Equal(t, "800.00", h.TotalExtra.StringFixed(2))
	assert.Equal(t, "11000.00", h.TotalHire.StringFixed(2))
	assert.Equal(t, "220.00", h.LessTDS.StringFixed(2))
	assert.Equal(t, "8780.00", h.BalanceAmount.StringFixed(2))
}

func TestCalcEmptyBody(t *testing.T) {
	var got struct {
		Data struct {
			Hire freight.Hire `json:"hire"`
		} `json:"data"`
	}

	req := httptest.NewRequest(fiber.MethodPost, "/calc/hire", nil)
	resp, err := newCalcApp().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.True(t, got.Data.Hire.BalanceAmount.IsZero())
}

func TestCalcMalformedBody(t *testing.T) {
	status := postJSON(t, newCalcApp(), "/calc/hire", `{"hire": `, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}
