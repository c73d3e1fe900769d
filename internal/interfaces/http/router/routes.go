package router

import (
	"github.com/joachimaross/quemiai-sub000/internal/interfaces/http/handler"
)

// SocialRoutes builds the route group for the social platform API
func SocialRoutes(h *handler.SocialHandler) *DomainGroup {
	g := NewDomainGroup("social", "/social")
	g.POST("/connect/:platform", h.Connect)
	g.DELETE("/disconnect/:platform", h.Disconnect)
	g.GET("/connections", h.ListConnections)
	g.GET("/user-data", h.GetUserData)
	g.GET("/posts", h.GetPosts)
	g.GET("/feed", h.GetFeed)
	g.POST("/post", h.Publish)
	return g
}

// SystemRoutes builds the health and ping route group
func SystemRoutes(h *handler.SystemHandler) *DomainGroup {
	g := NewDomainGroup("system", "")
	g.GET("/health", h.Health)
	g.GET("/ping", h.Ping)
	return g
}
