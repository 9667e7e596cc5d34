package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"family_album/internal/handlers"
	"family_album/internal/jwtmiddleware"
	"family_album/internal/tokens"
)

type Deps struct {
	Codec         *tokens.Codec
	Auth          *handlers.AuthHandler
	Users         *handlers.UserHandler
	Media         *handlers.MediaHandler
	Likes         *handlers.LikeHandler
	Comments      *handlers.CommentHandler
	Notifications *handlers.NotificationHandler
	Search        *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/refresh", d.Auth.Refresh)
	auth.POST("/logout", d.Auth.Logout, jwtmiddleware.OptionalAuth(d.Codec))
	auth.GET("/me", d.Auth.Me, jwtmiddleware.RequireAuth(d.Codec))

	media := api.Group("/media", jwtmiddleware.RequireAuth(d.Codec))
	media.GET("", d.Media.List)
	media.GET("/dates", d.Media.Dates)
	media.GET("/search", d.Search.Search)
	media.GET("/:id", d.Media.Get)
	media.GET("/:id/download", d.Media.DownloadURL)
	media.POST("", d.Media.Upload, jwtmiddleware.RequireAdmin)
	media.DELETE("/:id", d.Media.Delete)

	media.POST("/:id/like", d.Likes.Toggle)
	media.GET("/:id/likes", d.Likes.List)
	media.GET("/:id/likes/count", d.Likes.Count)

	media.POST("/:id/comments", d.Comments.Create)
	media.GET("/:id/comments", d.Comments.List)
	media.DELETE("/:id/comments/:commentId", d.Comments.Delete)

	notifications := api.Group("/notifications", jwtmiddleware.RequireAuth(d.Codec))
	notifications.GET("", d.Notifications.List)
	notifications.GET("/unread-count", d.Notifications.UnreadCount)
	notifications.PATCH("/:id/read", d.Notifications.MarkRead)
	notifications.PATCH("/read-all", d.Notifications.MarkAllRead)

	users := api.Group("/users", jwtmiddleware.RequireAuth(d.Codec))
	users.PATCH("/me", d.Users.UpdateProfile)
	users.PATCH("/me/password", d.Users.ChangePassword)
	users.GET("", d.Users.List, jwtmiddleware.RequireAdmin)
	users.PATCH("/:id/role", d.Users.UpdateRole, jwtmiddleware.RequireAdmin)
}
