package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter monta as rotas da API sobre os handlers informados.
func NewRouter(tokens *TokenHandler, allocations *AllocationHandler, distributions *DistributionHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/tokens", func(r chi.Router) {
		r.Post("/preview", tokens.PreviewDraft)
		r.Post("/", tokens.CreateToken)
		r.Get("/", tokens.ListTokens)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", tokens.GetToken)
			r.Put("/", tokens.UpdateToken)
			r.Get("/versions", tokens.ListVersions)
			r.Get("/versions/{version}", tokens.GetVersion)
			r.Post("/tranches", tokens.AddTranche)
			r.Delete("/tranches/{trancheID}", tokens.RemoveTranche)
			r.Patch("/status", tokens.UpdateStatus)
			r.Post("/mint", tokens.RegisterMint)
			r.Post("/mint/verify", tokens.VerifyMint)
		})
	})

	r.Route("/allocations", func(r chi.Router) {
		r.Post("/", allocations.CreateAllocation)
		r.Get("/", allocations.ListAllocations)
		r.Patch("/status", allocations.BulkUpdateStatus)
	})
	r.Get("/captable/summary", allocations.Summary)

	r.Route("/distributions", func(r chi.Router) {
		r.Post("/", distributions.CreateDistribution)
		r.Get("/", distributions.ListDistributions)
	})

	return r
}
