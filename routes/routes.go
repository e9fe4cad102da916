package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/whogoodluck/chatapp/controllers"
	"github.com/whogoodluck/chatapp/middlewares"
)

// RegisterRoutes wires the controllers into a gin engine with CORS and
// token auth on everything past register/login.
func RegisterRoutes(
	users *controllers.UserController,
	conversations *controllers.ConversationController,
	messages *controllers.MessageController,
	jwtSecret string,
) *gin.Engine {
	r := gin.Default()

	corsConfig := cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	r.Use(cors.New(corsConfig))

	api := r.Group("/api")

	api.POST("/register", users.Register)
	api.POST("/login", users.Login)

	protected := api.Group("")
	protected.Use(middlewares.TokenAuthMiddleware(jwtSecret))
	{
		protected.POST("/logout", users.Logout)
		protected.GET("/userinfo", users.GetUserInfo)
		protected.PUT("/profile", users.UpdateProfile)
		protected.PUT("/password", users.ChangePassword)
		protected.GET("/users/search", users.SearchUsers)

		protected.GET("/conversations", conversations.List)
		protected.POST("/conversations", conversations.Create)
		protected.GET("/conversations/:id", conversations.GetByID)
		protected.PUT("/conversations/:id", conversations.Update)
		protected.DELETE("/conversations/:id", conversations.Delete)
		protected.POST("/conversations/:id/participants", conversations.AddParticipant)
		protected.DELETE("/conversations/:id/participants/:userId", conversations.RemoveParticipant)

		protected.GET("/conversations/:id/messages", messages.List)
		protected.POST("/conversations/:id/messages", messages.Send)
		protected.POST("/conversations/:id/read", messages.MarkRead)
		protected.GET("/conversations/:id/unread", messages.UnreadCount)

		protected.PUT("/messages/:id", messages.Update)
		protected.DELETE("/messages/:id", messages.Delete)
	}

	return r
}
