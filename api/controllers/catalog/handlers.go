package catalog

import (
	"net/http"
	"strings"

	"github.com/cukedoh/bakery-backend/api/responses"
	catalogsvc "github.com/cukedoh/bakery-backend/internal/catalog"
	"github.com/cukedoh/bakery-backend/pkg/enums"
	pkgerrors "github.com/cukedoh/bakery-backend/pkg/errors"
	"github.com/cukedoh/bakery-backend/pkg/logger"
)

// ListCakes returns active cakes, optionally filtered by ?type=.
func ListCakes(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cakeType := enums.CakeType(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("type"))))
		if cakeType != "" && !cakeType.Valid() {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "unknown cake type"))
			return
		}

		cakes, err := svc.ListCakes(r.Context(), cakeType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cakes)
	}
}

// ListVariants returns active customization options for one axis.
func ListVariants(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		axis := enums.VariantType(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("type"))))

		variants, err := svc.ListVariants(r.Context(), axis)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, variants)
	}
}

// ListRefreshments returns active refreshments, optionally filtered by
// ?category=.
func ListRefreshments(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := enums.RefreshmentCategory(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("category"))))

		refreshments, err := svc.ListRefreshments(r.Context(), category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, refreshments)
	}
}
