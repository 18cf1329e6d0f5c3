package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/mstgnz/monetico/handler"
	"github.com/mstgnz/monetico/infra/config"
	"github.com/mstgnz/monetico/infra/opensearch"
)

// Routes registers all API routes
func Routes(r chi.Router, merchants *config.MerchantStore, osClient *opensearch.Client) {
	validate := config.App().Validator

	checkoutHandler := handler.NewCheckoutHandler(merchants, validate)
	merchantHandler := handler.NewMerchantHandler(merchants, validate)
	healthHandler := handler.NewHealthHandler(merchants, osClient)

	r.Get("/health", healthHandler.CheckHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/checkout/{merchant}", checkoutHandler.Checkout)

		r.Route("/merchants", func(r chi.Router) {
			r.Get("/", merchantHandler.ListMerchants)
			r.Get("/stats", merchantHandler.GetStats)
			r.Put("/{merchant}", merchantHandler.SetMerchant)
			r.Get("/{merchant}", merchantHandler.GetMerchant)
			r.Delete("/{merchant}", merchantHandler.DeleteMerchant)
		})
	})
}
