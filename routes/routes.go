package routes

import (
	"net/http"

	"villapik/accounts"
	"villapik/auth"
	"villapik/live"
	"villapik/middleware"
	"villapik/ratelim"
	"villapik/reservations"
	"villapik/residences"
	"villapik/settings"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/residencepic/*filepath", http.Dir("static/residencepic"))
}

func AddAuthRoutes(router *httprouter.Router) {
	router.POST("/api/auth/register", auth.Register)
	router.POST("/api/auth/login", auth.Login)
	router.POST("/api/auth/logout", auth.LogoutUser)
	router.POST("/api/auth/token/refresh", auth.RefreshToken)
}

func AddResidenceRoutes(router *httprouter.Router) {
	router.GET("/api/residences", residences.GetResidences)
	router.GET("/api/residences/:residenceid", residences.GetResidence)

	router.POST("/api/residences", middleware.RequireAdmin(residences.CreateResidence))
	router.PUT("/api/residences/:residenceid", middleware.RequireAdmin(residences.UpdateResidence))
	router.DELETE("/api/residences/:residenceid", middleware.RequireAdmin(residences.DeleteResidence))
	router.PATCH("/api/residences/:residenceid/sold", middleware.RequireAdmin(residences.ToggleSold))

	router.POST("/api/residences/:residenceid/image", middleware.RequireAdmin(residences.UploadImage))
	router.POST("/api/residences/:residenceid/gallery", middleware.RequireAdmin(residences.UploadGallery))

	router.POST("/api/admin/seed", middleware.RequireAdmin(residences.SeedResidences))
}

func AddSettingsRoutes(router *httprouter.Router) {
	router.GET("/api/settings", settings.GetSiteSettings)
	router.PUT("/api/settings", middleware.RequireAdmin(settings.UpdateSiteSettings))
}

func AddReservationRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/send", rateLimiter.Limit(reservations.SubmitReservation))
	router.POST("/api/contact", rateLimiter.Limit(reservations.SubmitContact))
}

func AddAccountRoutes(router *httprouter.Router) {
	router.GET("/api/accounts", middleware.RequireAdmin(accounts.GetConnectedAccounts))
	router.POST("/api/accounts/google", middleware.RequireAdmin(accounts.ConnectGoogle))
	router.DELETE("/api/accounts/google", middleware.RequireAdmin(accounts.DisconnectGoogle))
	router.DELETE("/api/accounts/line", middleware.RequireAdmin(accounts.DisconnectLine))

	router.POST("/api/line/connect", middleware.RequireAdmin(accounts.StartLineConnect))
	// The provider redirects the popup here; no auth header is present.
	router.GET("/api/line/callback", accounts.LineCallback)
}

func AddLiveRoutes(router *httprouter.Router, hub *live.Hub) {
	// Authenticate lets upgrade requests through untouched; the handler
	// itself validates the query-string token and the admin role.
	router.GET("/ws/updates", live.WebSocketHandler(hub))
}
