package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"gearbook-backend/internal/domain"
	"gearbook-backend/internal/logger"
	"gearbook-backend/internal/service"
)

// errorResponse is the uniform error body. Code is a stable machine
// token; Message is for humans and may change wording at any time.
type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain errors onto HTTP statuses. Anything unmapped
// is a 500 with a generic body so internals never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	var (
		status = http.StatusInternalServerError
		code   = "internal"
		msg    = "internal server error"
	)

	var dre *domain.DateRangeError
	var pe *domain.PromoError
	var te *domain.TransitionError

	switch {
	case errors.As(err, &dre):
		status, code, msg = http.StatusBadRequest, "invalid_date_range", dre.Error()
	case errors.As(err, &pe):
		status, code, msg = http.StatusUnprocessableEntity, "promo_rejected", pe.Error()
	case errors.As(err, &te):
		status, code, msg = http.StatusConflict, "invalid_transition", te.Error()
	case errors.Is(err, domain.ErrInsufficientInventory):
		status, code, msg = http.StatusConflict, "insufficient_inventory", err.Error()
	case errors.Is(err, domain.ErrInsufficientCredit):
		status, code, msg = http.StatusConflict, "insufficient_credit", err.Error()
	case errors.Is(err, domain.ErrPaymentFailed):
		status, code, msg = http.StatusPaymentRequired, "payment_failed", err.Error()
	case errors.Is(err, domain.ErrNotFound):
		status, code, msg = http.StatusNotFound, "not_found", err.Error()
	case errors.Is(err, domain.ErrItemInactive):
		status, code, msg = http.StatusConflict, "item_inactive", err.Error()
	case errors.Is(err, domain.ErrInvalidQuantity):
		status, code, msg = http.StatusBadRequest, "invalid_quantity", err.Error()
	case errors.Is(err, domain.ErrInvalidInput):
		status, code, msg = http.StatusBadRequest, "invalid_input", err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		status, code, msg = http.StatusForbidden, "forbidden", err.Error()
	case errors.Is(err, service.ErrNotExtendable):
		status, code, msg = http.StatusConflict, "not_extendable", err.Error()
	default:
		logger.Error("Unhandled request error", "error", err)
	}

	var body errorResponse
	body.Error.Code = code
	body.Error.Message = msg
	writeJSON(w, status, body)
}

func writeBadRequest(w http.ResponseWriter, message string) {
	var body errorResponse
	body.Error.Code = "bad_request"
	body.Error.Message = message
	writeJSON(w, http.StatusBadRequest, body)
}
