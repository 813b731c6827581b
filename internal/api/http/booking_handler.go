package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"gearbook-backend/internal/domain"
	"gearbook-backend/internal/service"
)

var errInvalidWalletCredit = errors.New("wallet_credit must be a non-negative decimal string")

// BookingHandler serves the quote, booking and lifecycle endpoints
type BookingHandler struct {
	reservations service.ReservationService
	lifecycle    service.LifecycleService
}

func NewBookingHandler(reservations service.ReservationService, lifecycle service.LifecycleService) *BookingHandler {
	return &BookingHandler{reservations: reservations, lifecycle: lifecycle}
}

type quoteRequest struct {
	ItemID       int32  `json:"item_id"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Quantity     int32  `json:"quantity"`
	PromoCode    string `json:"promo_code"`
	WalletCredit string `json:"wallet_credit"`
}

func (q *quoteRequest) toService(renterID int32) (service.QuoteRequest, error) {
	credit := decimal.Zero
	if q.WalletCredit != "" {
		var err error
		credit, err = decimal.NewFromString(q.WalletCredit)
		if err != nil || credit.IsNegative() {
			return service.QuoteRequest{}, errInvalidWalletCredit
		}
	}
	return service.QuoteRequest{
		ItemID:       q.ItemID,
		RenterID:     renterID,
		StartDate:    q.StartDate,
		EndDate:      q.EndDate,
		Quantity:     q.Quantity,
		PromoCode:    q.PromoCode,
		WalletCredit: credit,
	}, nil
}

// Quote handles POST /api/v1/quotes. Repeatable: quoting never writes.
func (h *BookingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	sreq, err := req.toService(actorFrom(r).UserID)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	bd, err := h.reservations.Quote(r.Context(), sreq)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bd)
}

// CreateBooking handles POST /api/v1/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	sreq, err := req.toService(actorFrom(r).UserID)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	confirm := service.ConfirmRequest{QuoteRequest: sreq}
	if claims := claimsFrom(r); claims != nil {
		confirm.RenterEmail = claims.Email
	}
	booking, err := h.reservations.ConfirmBooking(r.Context(), confirm)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

// GetBooking handles GET /api/v1/bookings/{id}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	booking, err := h.reservations.GetBooking(r.Context(), actorFrom(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// ListBookings handles GET /api/v1/bookings for the calling renter.
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	status := r.URL.Query().Get("status")
	bookings, total, err := h.reservations.ListBookings(r.Context(), actorFrom(r).UserID, status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"bookings": bookings,
		"total":    total,
		"page":     page,
	})
}

type transitionRequest struct {
	Event string `json:"event"`
}

// Transition handles POST /api/v1/bookings/{id}/transition
func (h *BookingHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	event := domain.BookingEvent(req.Event)
	switch event {
	case domain.EventPaymentCaptured, domain.EventPickup, domain.EventReturn, domain.EventCancel:
	default:
		writeBadRequest(w, "unknown event")
		return
	}
	booking, err := h.lifecycle.Transition(r.Context(), actorFrom(r), id, event)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

type extendRequest struct {
	NewEndDate string `json:"new_end_date"`
}

// Extend handles POST /api/v1/bookings/{id}/extend
func (h *BookingHandler) Extend(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req extendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	booking, err := h.lifecycle.ExtendBooking(r.Context(), actorFrom(r), id, req.NewEndDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// pathID parses the {name} path variable as an int32, writing a 400 on
// failure.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int32, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id < 1 {
		writeBadRequest(w, "invalid "+name)
		return 0, false
	}
	return int32(id), true
}

func pagination(r *http.Request) (page, pageSize int32) {
	page, pageSize = 1, 20
	if v, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 32); err == nil && v > 0 {
		page = int32(v)
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("page_size"), 10, 32); err == nil && v > 0 && v <= 100 {
		pageSize = int32(v)
	}
	return page, pageSize
}
