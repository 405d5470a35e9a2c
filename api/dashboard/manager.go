package dashboard

import (
	"net/http"
	"opsdesk_server/api/middleware"
	"opsdesk_server/handling"
	"opsdesk_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type DashboardRoutesManager struct {
	logger       *gecho.Logger
	statsService *services.StatsService
	mw           *middleware.Middleware
}

func NewDashboardRoutesManager(
	logger *gecho.Logger,
	statsService *services.StatsService,
	mw *middleware.Middleware,
) *DashboardRoutesManager {
	return &DashboardRoutesManager{
		logger:       logger,
		statsService: statsService,
		mw:           mw,
	}
}

func (drm *DashboardRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/dashboard", func(r chi.Router) {
		r.Use(drm.mw.UserAuthMiddleware)

		r.Get("/stats", drm.FetchDashboardStats)
	})
}

// FetchDashboardStats handles GET /dashboard/stats
func (drm *DashboardRoutesManager) FetchDashboardStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := drm.statsService.GetDashboardStats(ctx)
	if err != nil {
		handling.HandleError(err, "Failed to compute dashboard stats", drm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(stats),
		gecho.Send(),
	)
}
