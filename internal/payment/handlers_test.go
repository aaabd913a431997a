package payment_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-course/internal/common"
	"github.com/noah-isme/backend-course/internal/payment"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details any    `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env
}

func newHandler(st *fakePaymentStore, gw *fakeGatewayClient) *payment.Handler {
	return &payment.Handler{
		Svc:      newService(st, standardPricing(), gw),
		Gateway:  gw,
		Currency: "INR",
	}
}

func TestSubmitHandler(t *testing.T) {
	t.Parallel()

	st := &fakePaymentStore{}
	h := newHandler(st, &fakeGatewayClient{})

	body := `{"fullName":"Jane Doe","phone":"9876543210","email":"jane@example.com",` +
		`"orderId":"order_abc","amount":"29.85","status":"pending","date":"2026-08-30"}`
	rr := httptest.NewRecorder()
	h.Submit(rr, httptest.NewRequest(http.MethodPost, "/api/payment", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rr.Code)
	env := decodeEnvelope(t, rr)
	require.True(t, env.Success)
	require.Equal(t, "payment recorded", env.Message)
	require.Len(t, st.records, 1)
}

func TestSubmitHandlerMissingFields(t *testing.T) {
	t.Parallel()

	st := &fakePaymentStore{}
	h := newHandler(st, &fakeGatewayClient{})

	rr := httptest.NewRecorder()
	body := `{"fullName":"Jane Doe","phone":"9876543210"}`
	h.Submit(rr, httptest.NewRequest(http.MethodPost, "/api/payment", strings.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	env := decodeEnvelope(t, rr)
	require.False(t, env.Success)
	require.Equal(t, common.CodeValidation, env.Error.Code)
	require.Equal(t, "missing required fields", env.Error.Message)
	require.Empty(t, st.records)
}

func TestSubmitHandlerInvalidBody(t *testing.T) {
	t.Parallel()

	h := newHandler(&fakePaymentStore{}, &fakeGatewayClient{})
	rr := httptest.NewRecorder()
	h.Submit(rr, httptest.NewRequest(http.MethodPost, "/api/payment", strings.NewReader("{not json")))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "invalid body", decodeEnvelope(t, rr).Error.Message)
}

func patchRequest(id, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPatch, "/api/payment/"+id, strings.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestPatchStatusHandler(t *testing.T) {
	t.Parallel()

	st := &fakePaymentStore{}
	h := newHandler(st, &fakeGatewayClient{})
	require.NoError(t, h.Svc.Submit(context.Background(), validInput()))

	rr := httptest.NewRecorder()
	h.PatchStatus(rr, patchRequest("1", `{"status":"Success"}`))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "status updated", decodeEnvelope(t, rr).Message)
	require.Equal(t, "success", st.records[0].Status)

	rr = httptest.NewRecorder()
	h.PatchStatus(rr, patchRequest("999", `{"status":"failed"}`))
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, common.CodeNotFound, decodeEnvelope(t, rr).Error.Code)

	// A non-numeric id behaves like an unknown record.
	rr = httptest.NewRecorder()
	h.PatchStatus(rr, patchRequest("abc", `{"status":"failed"}`))
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	h.PatchStatus(rr, patchRequest("1", `{"status":"refunded"}`))
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "invalid status", decodeEnvelope(t, rr).Error.Message)
}

func TestListHandler(t *testing.T) {
	t.Parallel()

	st := &fakePaymentStore{}
	h := newHandler(st, &fakeGatewayClient{})
	require.NoError(t, h.Svc.Submit(context.Background(), validInput()))

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/api/payments", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	env := decodeEnvelope(t, rr)
	require.True(t, env.Success)

	var payments []payment.Payment
	require.NoError(t, json.Unmarshal(env.Data, &payments))
	require.Len(t, payments, 1)
	require.Equal(t, "29.85", payments[0].Amount)
	require.Equal(t, "order_abc", payments[0].OrderID)
}

func TestCreateOrderHandler(t *testing.T) {
	t.Parallel()

	gw := &fakeGatewayClient{orderID: "order_xyz"}
	h := newHandler(&fakePaymentStore{}, gw)

	rr := httptest.NewRecorder()
	body := `{"amount":29.85,"currency":"inr"}`
	h.CreateOrder(rr, httptest.NewRequest(http.MethodPost, "/api/razorpay/order", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rr.Code)
	env := decodeEnvelope(t, rr)
	require.True(t, env.Success)

	var data struct {
		OrderID  string `json:"orderId"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, "order_xyz", data.OrderID)
	require.Equal(t, int64(2985), data.Amount)
	require.Equal(t, "INR", data.Currency)
}

func TestCreateOrderHandlerDefaultsCurrency(t *testing.T) {
	t.Parallel()

	gw := &fakeGatewayClient{orderID: "order_xyz"}
	h := newHandler(&fakePaymentStore{}, gw)

	rr := httptest.NewRecorder()
	h.CreateOrder(rr, httptest.NewRequest(http.MethodPost, "/api/razorpay/order", strings.NewReader(`{"amount":100}`)))

	require.Equal(t, http.StatusOK, rr.Code)
	var data struct {
		Currency string `json:"currency"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rr).Data, &data))
	require.Equal(t, "INR", data.Currency)
}

func TestCreateOrderHandlerRejectsBadInput(t *testing.T) {
	t.Parallel()

	h := newHandler(&fakePaymentStore{}, &fakeGatewayClient{orderID: "order_xyz"})

	for _, body := range []string{
		`{"amount":0}`,
		`{"amount":-5}`,
		`{"amount":"abc"}`,
		`{"amount":10.005}`,
		`{"amount":10000001}`,
		`{"amount":100,"currency":"RUPEES"}`,
	} {
		rr := httptest.NewRecorder()
		h.CreateOrder(rr, httptest.NewRequest(http.MethodPost, "/api/razorpay/order", strings.NewReader(body)))
		require.Equal(t, http.StatusBadRequest, rr.Code, "body=%s", body)
		require.Equal(t, common.CodeValidation, decodeEnvelope(t, rr).Error.Code, "body=%s", body)
	}
}

func TestCreateOrderHandlerGatewayFailure(t *testing.T) {
	t.Parallel()

	gw := &fakeGatewayClient{createErr: errors.New("gateway down")}
	h := newHandler(&fakePaymentStore{}, gw)

	rr := httptest.NewRecorder()
	h.CreateOrder(rr, httptest.NewRequest(http.MethodPost, "/api/razorpay/order", strings.NewReader(`{"amount":100}`)))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	env := decodeEnvelope(t, rr)
	require.False(t, env.Success)
	require.Equal(t, common.CodeGateway, env.Error.Code)
	require.Equal(t, "failed to create gateway order", env.Error.Message)
	require.Equal(t, "gateway down", env.Error.Details)
}
