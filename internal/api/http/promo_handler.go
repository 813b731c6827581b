package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"gearbook-backend/internal/domain"
	"gearbook-backend/internal/service"
)

// PromoHandler serves promo validation plus the operator-only admin
// endpoints.
type PromoHandler struct {
	promos service.PromoService
}

func NewPromoHandler(promos service.PromoService) *PromoHandler {
	return &PromoHandler{promos: promos}
}

type validatePromoRequest struct {
	Code          string `json:"code"`
	OrderSubtotal string `json:"order_subtotal"`
}

// Validate handles POST /api/v1/promos/validate. A rejected code is a
// 200 with valid=false so storefronts can render the reason inline.
func (h *PromoHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req validatePromoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Code == "" {
		writeBadRequest(w, "code is required")
		return
	}
	subtotal, err := decimal.NewFromString(req.OrderSubtotal)
	if err != nil || subtotal.IsNegative() {
		writeBadRequest(w, "order_subtotal must be a non-negative decimal string")
		return
	}
	result, err := h.promos.ValidatePromo(r.Context(), req.Code, actorFrom(r).UserID, subtotal)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type createPromoRequest struct {
	Code           string     `json:"code"`
	DiscountType   string     `json:"discount_type"`
	DiscountValue  string     `json:"discount_value"`
	MinOrderAmount string     `json:"min_order_amount"`
	MaxDiscount    *string    `json:"max_discount"`
	MaxUses        *int32     `json:"max_uses"`
	MaxUsesPerUser int32      `json:"max_uses_per_user"`
	StartsAt       *time.Time `json:"starts_at"`
	ExpiresAt      *time.Time `json:"expires_at"`
}

// Create handles POST /api/v1/admin/promos
func (h *PromoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPromoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	value, err := decimal.NewFromString(req.DiscountValue)
	if err != nil {
		writeBadRequest(w, "discount_value must be a decimal string")
		return
	}
	minOrder := decimal.Zero
	if req.MinOrderAmount != "" {
		minOrder, err = decimal.NewFromString(req.MinOrderAmount)
		if err != nil || minOrder.IsNegative() {
			writeBadRequest(w, "min_order_amount must be a non-negative decimal string")
			return
		}
	}
	var maxDiscount *decimal.Decimal
	if req.MaxDiscount != nil {
		md, err := decimal.NewFromString(*req.MaxDiscount)
		if err != nil || md.IsNegative() {
			writeBadRequest(w, "max_discount must be a non-negative decimal string")
			return
		}
		maxDiscount = &md
	}

	pc := &domain.PromoCode{
		Code:           req.Code,
		DiscountType:   domain.DiscountType(req.DiscountType),
		DiscountValue:  value,
		MinOrderAmount: minOrder,
		MaxDiscount:    maxDiscount,
		MaxUses:        req.MaxUses,
		MaxUsesPerUser: req.MaxUsesPerUser,
		ExpiresAt:      req.ExpiresAt,
		IsActive:       true,
	}
	if req.StartsAt != nil {
		pc.StartsAt = *req.StartsAt
	}
	if err := h.promos.CreatePromo(r.Context(), pc); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, pc)
}

// Deactivate handles DELETE /api/v1/admin/promos/{id}
func (h *PromoHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.promos.DeactivatePromo(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
