package controllers

import (
	"net/http"
	"strings"

	"github.com/quickkart/quickkart-backend/api/responses"
	"github.com/quickkart/quickkart-backend/api/validators"
	catalogsvc "github.com/quickkart/quickkart-backend/internal/catalog"
	pkgerrors "github.com/quickkart/quickkart-backend/pkg/errors"
	"github.com/quickkart/quickkart-backend/pkg/logger"
	"github.com/quickkart/quickkart-backend/pkg/pagination"
)

// CatalogList serves the paginated active product listing.
func CatalogList(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := catalogsvc.ListFilters{}
		if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
			filters.Category = &category
		}
		if subcategory := strings.TrimSpace(r.URL.Query().Get("subcategory")); subcategory != "" {
			filters.Subcategory = &subcategory
		}

		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		list, err := svc.ListProducts(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// CatalogDetail serves one active product by id.
func CatalogDetail(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// CatalogSearch serves the in-memory substring search. A degraded result is
// still a 200; the payload carries the flag.
func CatalogSearch(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		// Zero means no caller cap; the snapshot bound still applies.
		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Search(r.Context(), r.URL.Query().Get("q"), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
