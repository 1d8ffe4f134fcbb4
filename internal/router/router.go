package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/autostrada/auction-api/internal/handler"
	"github.com/autostrada/auction-api/internal/middleware"
	"github.com/autostrada/auction-api/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies
// the necessary middleware.  Unauthenticated operations live under
// /v1/auth, while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token: the presented token is revoked
	// and a new pair is issued.
	g.POST("/refresh", a.Refresh)
	// Logout accepts either a refresh_token body (single session) or a
	// bearer token (all sessions), so it stays outside the JWT group.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse endpoints.  The
// JSON listing and detail routes sit behind the response cache; the SSE
// stream must never be cached, so it is registered without middleware.
func RegisterPublic(e *echo.Echo, p *handler.PublicAuctionHandler, ls *handler.LiveStreamHandler, cache echo.MiddlewareFunc) {
	e.GET("/v1/auctions", p.List, cache)
	e.GET("/v1/auctions/:id", p.Get, cache)
	e.GET("/v1/auctions/:id/bids", p.History, cache)
	e.GET("/v1/auctions/:id/live", ls.Stream)
}

// RegisterBidding registers the authenticated bidding endpoints.  Any
// authenticated non-seller party may bid; the self-bid rule is enforced
// per auction inside the handler, so sellers keep the ability to bid on
// other sellers' vehicles.
func RegisterBidding(e *echo.Echo, b *handler.BidHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.POST("/auctions/:id/bids", b.Place)
	g.GET("/my-bids", b.MyBids)
}

// RegisterSeller registers listing management for sellers.  Admins can
// also manage listings, which keeps support operations possible.
func RegisterSeller(e *echo.Echo, s *handler.SellerAuctionHandler, img *handler.ImageHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleSeller, model.RoleAdmin))
	g.POST("/auctions", s.Create)
	g.GET("/my-auctions", s.Mine)
	g.DELETE("/auctions/:id", s.Cancel)
	g.POST("/auctions/:id/images", img.Upload)
	g.DELETE("/auctions/:id/images/:imageID", img.Delete)
}

// RegisterAdmin registers the moderation and user-management endpoints.
func RegisterAdmin(e *echo.Echo, aa *handler.AdminAuctionHandler, au *handler.AdminUserHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin))
	g.GET("/auctions", aa.Queue)
	g.POST("/auctions/:id/approve", aa.Approve)
	g.POST("/auctions/:id/reject", aa.Reject)
	g.GET("/users", au.List)
	g.GET("/users/:id", au.Get)
	g.PATCH("/users/:id", au.UpdateFlags)
	g.DELETE("/users/:id", au.Delete)
	g.GET("/analytics", au.Analytics)
}

// RegisterProfile registers the caller-scoped profile, watch list and
// notification endpoints.
func RegisterProfile(e *echo.Echo, p *handler.ProfileHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.GET("/profile", p.Get)
	g.PUT("/profile", p.Update)
	g.PUT("/favorites/:id", p.AddFavorite)
	g.DELETE("/favorites/:id", p.RemoveFavorite)
	g.GET("/favorites", p.ListFavorites)
	g.GET("/notifications", p.Notifications)
	g.POST("/notifications/:id/read", p.MarkNotificationRead)
	g.POST("/notifications/read-all", p.MarkAllNotificationsRead)
}
