package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"gearbook-backend/internal/security"
	"gearbook-backend/internal/service"
)

// Services bundles everything the router wires handlers to.
type Services struct {
	Reservations service.ReservationService
	Lifecycle    service.LifecycleService
	Promos       service.PromoService
	Catalog      service.CatalogService
	Wallet       service.WalletService
}

// NewRouter builds the full route table. Everything under /api/v1
// except the health check requires a valid bearer token; /admin routes
// additionally require the operator role.
func NewRouter(svcs Services, tokens security.TokenManager) *mux.Router {
	router := mux.NewRouter()
	router.Use(LoggingMiddleware)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	bookings := NewBookingHandler(svcs.Reservations, svcs.Lifecycle)
	promos := NewPromoHandler(svcs.Promos)
	items := NewItemHandler(svcs.Catalog)
	wallet := NewWalletHandler(svcs.Wallet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(tokens))

	api.HandleFunc("/quotes", bookings.Quote).Methods("POST")
	api.HandleFunc("/bookings", bookings.CreateBooking).Methods("POST")
	api.HandleFunc("/bookings", bookings.ListBookings).Methods("GET")
	api.HandleFunc("/bookings/{id:[0-9]+}", bookings.GetBooking).Methods("GET")
	api.HandleFunc("/bookings/{id:[0-9]+}/transition", bookings.Transition).Methods("POST")
	api.HandleFunc("/bookings/{id:[0-9]+}/extend", bookings.Extend).Methods("POST")

	api.HandleFunc("/promos/validate", promos.Validate).Methods("POST")

	api.HandleFunc("/items", items.List).Methods("GET")
	api.HandleFunc("/items/{id:[0-9]+}", items.Get).Methods("GET")

	api.HandleFunc("/wallet", wallet.GetBalance).Methods("GET")
	api.HandleFunc("/wallet/transactions", wallet.ListTransactions).Methods("GET")

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(RequireOperator)

	admin.HandleFunc("/items", items.Create).Methods("POST")
	admin.HandleFunc("/items/{id:[0-9]+}", items.Update).Methods("PUT")
	admin.HandleFunc("/items/{id:[0-9]+}", items.Deactivate).Methods("DELETE")

	admin.HandleFunc("/promos", promos.Create).Methods("POST")
	admin.HandleFunc("/promos/{id:[0-9]+}", promos.Deactivate).Methods("DELETE")

	return router
}
