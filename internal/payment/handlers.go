package payment

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-course/internal/common"
	"github.com/noah-isme/backend-course/internal/gateway"
	"github.com/noah-isme/backend-course/internal/obs"
	"github.com/noah-isme/backend-course/internal/validate"
)

var (
	valid      = validator.New()
	currencyRe = regexp.MustCompile(`^[A-Za-z]{3}$`)
	// maxOrderAmount matches the basePrice cap, so order amounts stay inside
	// the same numeric range as stored prices.
	maxOrderAmount = decimal.NewFromInt(10_000_000)
)

// Handler exposes HTTP endpoints for payment submission, status updates,
// listing and gateway order creation.
type Handler struct {
	Svc     *Service
	Gateway gateway.Client
	// Currency is the default order currency when the client omits one.
	Currency string
}

type submitReq struct {
	FullName  string `json:"fullName" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	Email     string `json:"email" validate:"required"`
	PaymentID string `json:"paymentId"`
	OrderID   string `json:"orderId" validate:"required"`
	Amount    string `json:"amount" validate:"required"`
	Status    string `json:"status" validate:"required"`
	Date      string `json:"date" validate:"required"`
}

type orderReq struct {
	Amount   json.Number `json:"amount"`
	Currency string      `json:"currency"`
}

// Submit records a payment attempt after validation and reconciliation.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "invalid body", nil)
		return
	}
	if err := valid.Struct(req); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "missing required fields", nil)
		return
	}
	err := h.Svc.Submit(r.Context(), SubmitInput{
		FullName:  req.FullName,
		Phone:     req.Phone,
		Email:     req.Email,
		PaymentID: req.PaymentID,
		OrderID:   req.OrderID,
		Amount:    req.Amount,
		Status:    req.Status,
		Date:      req.Date,
	})
	if err != nil {
		common.Fail(w, err)
		return
	}
	common.OK(w, http.StatusOK, "payment recorded", nil)
}

// PatchStatus updates the status of an existing payment record.
func (h *Handler) PatchStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(strings.TrimSpace(chi.URLParam(r, "id")), 10, 64)
	if err != nil {
		common.Fail(w, common.NotFoundError("payment not found"))
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "invalid body", nil)
		return
	}
	if err := h.Svc.UpdateStatus(r.Context(), id, req.Status); err != nil {
		common.Fail(w, err)
		return
	}
	common.OK(w, http.StatusOK, "status updated", nil)
}

// List returns every payment record, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	payments, err := h.Svc.List(r.Context())
	if err != nil {
		common.Fail(w, err)
		return
	}
	common.OK(w, http.StatusOK, "", payments)
}

// CreateOrder opens a gateway order for the supplied amount and returns the
// gateway-assigned order id.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req orderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "invalid body", nil)
		return
	}
	amount, err := validate.NumberInRange("amount", req.Amount.String(), decimal.Zero, maxOrderAmount, true)
	if err != nil {
		common.Fail(w, err)
		return
	}
	minor := amount.Mul(decimal.NewFromInt(100))
	if !minor.IsInteger() {
		common.Fail(w, common.ValidationError("invalid amount"))
		return
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = strings.ToUpper(strings.TrimSpace(h.Currency))
	}
	if currency == "" {
		currency = "INR"
	}
	if !currencyRe.MatchString(currency) {
		common.Fail(w, common.ValidationError("invalid currency"))
		return
	}

	orderID, err := h.Gateway.CreateOrder(r.Context(), minor.IntPart(), currency)
	if err != nil {
		if obs.GatewayOrderTotal != nil {
			obs.GatewayOrderTotal.WithLabelValues("error").Inc()
		}
		app := common.GatewayError("failed to create gateway order", err)
		app.Details = err.Error()
		common.Fail(w, app)
		return
	}
	if obs.GatewayOrderTotal != nil {
		obs.GatewayOrderTotal.WithLabelValues("success").Inc()
	}
	common.OK(w, http.StatusOK, "", map[string]any{
		"orderId":  orderID,
		"amount":   minor.IntPart(),
		"currency": currency,
	})
}
