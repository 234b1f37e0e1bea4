package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Controllers struct {
	Rooms           *RoomController
	Users           *UserController
	Ingredients     *IngredientController
	Recommendations *RecommendationController
	Feed            *FeedController
}

func SetupRouter(allowedOrigins []string, c Controllers) *gin.Engine {
	router := gin.Default()
	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowCredentials = true
	config.AllowHeaders = []string{
		"Authorization",
		"Content-Type",
		"Origin",
		"Accept",
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	router.Use(cors.New(config))
	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")

	if c.Users != nil {
		users := api.Group("/users")
		users.POST("/create", c.Users.CreateUser)
		users.GET("/:userID", c.Users.GetUser)
		users.PUT("/:userID/preferences", c.Users.UpdatePreferences)
	}

	rooms := api.Group("/rooms")

	if c.Rooms != nil {
		rooms.POST("/create", c.Rooms.CreateRoom)
		rooms.POST("/leave", c.Rooms.LeaveRoom)
		rooms.GET("/:roomID", c.Rooms.GetRoom)
		rooms.GET("/:roomID/members", c.Rooms.ListMembers)
		rooms.POST("/:roomID/join", c.Rooms.JoinRoom)
	}

	if c.Recommendations != nil {
		rooms.POST("/:roomID/recommendations", c.Recommendations.Generate)
		rooms.POST("/:roomID/lucky", c.Recommendations.Lucky)
	}

	if c.Ingredients != nil {
		rooms.GET("/:roomID/ingredients", c.Ingredients.List)
		rooms.POST("/:roomID/ingredients", c.Ingredients.Add)
		rooms.PUT("/:roomID/ingredients/:name", c.Ingredients.Update)
		rooms.DELETE("/:roomID/ingredients/:name", c.Ingredients.Delete)
	}

	if c.Feed != nil {
		rooms.GET("/:roomID/ws", c.Feed.Subscribe)
	}

	return router
}
