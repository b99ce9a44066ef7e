package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tuanleanh/shopline-backend/api/responses"
	pagesvc "github.com/tuanleanh/shopline-backend/internal/pages"
	pkgerrors "github.com/tuanleanh/shopline-backend/pkg/errors"
	"github.com/tuanleanh/shopline-backend/pkg/logger"
)

// PageList returns the published storefront pages in display order.
func PageList(svc pagesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "page service unavailable"))
			return
		}

		pages, err := svc.ListPages(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, pages)
	}
}

// PageDetail returns one published page by slug.
func PageDetail(svc pagesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "page service unavailable"))
			return
		}

		page, err := svc.GetPage(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}
