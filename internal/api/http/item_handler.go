package http

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"gearbook-backend/internal/domain"
	"gearbook-backend/internal/service"
)

// ItemHandler serves the public catalog plus the operator-only item
// admin endpoints.
type ItemHandler struct {
	catalog service.CatalogService
}

func NewItemHandler(catalog service.CatalogService) *ItemHandler {
	return &ItemHandler{catalog: catalog}
}

type itemRequest struct {
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	Category         string  `json:"category"`
	DailyRate        string  `json:"daily_rate"`
	WeeklyRate       *string `json:"weekly_rate"`
	DamageDeposit    string  `json:"damage_deposit"`
	ReplacementValue string  `json:"replacement_value"`
	QuantityTotal    int32   `json:"quantity_total"`
	Condition        string  `json:"condition"`
}

func (req *itemRequest) toDomain() (*domain.InventoryItem, error) {
	daily, err := decimal.NewFromString(req.DailyRate)
	if err != nil {
		return nil, errDecimalField("daily_rate")
	}
	var weekly *decimal.Decimal
	if req.WeeklyRate != nil {
		w, err := decimal.NewFromString(*req.WeeklyRate)
		if err != nil {
			return nil, errDecimalField("weekly_rate")
		}
		weekly = &w
	}
	deposit := decimal.Zero
	if req.DamageDeposit != "" {
		deposit, err = decimal.NewFromString(req.DamageDeposit)
		if err != nil {
			return nil, errDecimalField("damage_deposit")
		}
	}
	replacement := decimal.Zero
	if req.ReplacementValue != "" {
		replacement, err = decimal.NewFromString(req.ReplacementValue)
		if err != nil {
			return nil, errDecimalField("replacement_value")
		}
	}
	return &domain.InventoryItem{
		Name:             req.Name,
		Description:      req.Description,
		Category:         req.Category,
		DailyRate:        daily,
		WeeklyRate:       weekly,
		DamageDeposit:    deposit,
		ReplacementValue: replacement,
		QuantityTotal:    req.QuantityTotal,
		Condition:        domain.ItemCondition(req.Condition),
		IsActive:         true,
	}, nil
}

// List handles GET /api/v1/items. Renters only see active gear;
// operators can pass all=true.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	activeOnly := true
	if r.URL.Query().Get("all") == "true" && actorFrom(r).Operator {
		activeOnly = false
	}
	items, total, err := h.catalog.ListItems(r.Context(), activeOnly, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": total,
		"page":  page,
	})
}

// Get handles GET /api/v1/items/{id}
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	item, err := h.catalog.GetItem(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Create handles POST /api/v1/admin/items
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	item, err := req.toDomain()
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := h.catalog.CreateItem(r.Context(), item); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// Update handles PUT /api/v1/admin/items/{id}
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	item, err := req.toDomain()
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	item.ID = id
	if err := h.catalog.UpdateItem(r.Context(), item); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Deactivate handles DELETE /api/v1/admin/items/{id}
func (h *ItemHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeactivateItem(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type fieldError struct{ field string }

func errDecimalField(field string) error { return &fieldError{field: field} }

func (e *fieldError) Error() string {
	return e.field + " must be a decimal string"
}
