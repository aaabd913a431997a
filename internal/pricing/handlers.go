package pricing

import (
	"encoding/json"
	"net/http"

	"github.com/noah-isme/backend-course/internal/common"
)

// Handler exposes HTTP endpoints for the pricing record.
type Handler struct {
	Svc *Service
}

type updateReq struct {
	BasePrice          json.Number `json:"basePrice"`
	DiscountPercentage json.Number `json:"discountPercentage"`
}

// Get returns the current pricing with the computed final price.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Svc.Get(r.Context())
	if err != nil {
		common.Fail(w, err)
		return
	}
	common.OK(w, http.StatusOK, "", p)
}

// Update overwrites the pricing record and returns the updated values.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "invalid body", nil)
		return
	}
	if req.BasePrice == "" || req.DiscountPercentage == "" {
		common.JSONError(w, http.StatusBadRequest, common.CodeValidation, "missing required fields", nil)
		return
	}
	p, err := h.Svc.Update(r.Context(), req.BasePrice.String(), req.DiscountPercentage.String())
	if err != nil {
		common.Fail(w, err)
		return
	}
	common.OK(w, http.StatusOK, "pricing updated", p)
}
