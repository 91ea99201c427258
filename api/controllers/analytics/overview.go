// Package analytics exposes the back-office dashboard endpoint.
package analytics

import (
	"net/http"

	"github.com/angelmondragon/stride-storefront/api/responses"
	"github.com/angelmondragon/stride-storefront/api/validators"
	"github.com/angelmondragon/stride-storefront/internal/analytics"
	"github.com/angelmondragon/stride-storefront/pkg/logger"
)

func Overview(service analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		window, err := resolveWindow(r, timeNowUTC())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		lowStock, err := validators.ParseQueryInt(r, "low_stock", analytics.DefaultLowStockThreshold, 1, 1000)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		top, err := validators.ParseQueryInt(r, "top", analytics.DefaultTopProducts, 1, 50)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := service.Overview(ctx, analytics.OverviewRequest{
			Window:            window,
			LowStockThreshold: lowStock,
			TopProducts:       top,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
