package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/homeplate/homeplate-app/cache"
	"github.com/homeplate/homeplate-app/controllers"
	"github.com/homeplate/homeplate-app/events"
	"github.com/homeplate/homeplate-app/middlewares"
	"github.com/homeplate/homeplate-app/services"
)

// SetupRouter wires services, controllers and route groups. The publisher
// may be nil (event stream disabled); tests pass a miniredis-backed cart
// store.
func SetupRouter(db *gorm.DB, carts *cache.CartStore, publisher *events.OrderPublisher) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	notifService := services.NewNotificationService(db)
	orderService := services.NewOrderService(db, notifService, publisher)
	verificationService := services.NewVerificationService(db, notifService)

	userCtrl := controllers.NewUserController(db)
	menuCtrl := controllers.NewMenuItemController(db)
	orderCtrl := controllers.NewOrderController(orderService)
	notifCtrl := controllers.NewNotificationController(notifService)
	chatCtrl := controllers.NewChatController(orderService, notifService)
	cartCtrl := controllers.NewCartController(db, carts, orderService)
	verificationCtrl := controllers.NewVerificationController(verificationService)
	adminCtrl := controllers.NewAdminController(db)
	liveCtrl := controllers.NewLiveController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Browsing the marketplace needs no account.
	r.GET("/menu-items", menuCtrl.GetAllMenuItems)
	r.GET("/menu-items/:item_id", menuCtrl.GetMenuItemByID)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/api")
	auth.Use(middlewares.AuthMiddleware())

	// Profile
	auth.GET("/profile", userCtrl.GetProfile)
	auth.PATCH("/profile", userCtrl.UpdateProfile)
	auth.POST("/logout", userCtrl.Logout)

	// Cart (customer app)
	auth.GET("/cart", cartCtrl.GetCart)
	auth.POST("/cart/items", cartCtrl.AddItem)
	auth.PATCH("/cart/items", cartCtrl.UpdateItem)
	auth.DELETE("/cart", cartCtrl.ClearCart)
	auth.POST("/cart/checkout", cartCtrl.Checkout)

	// Orders
	auth.POST("/orders", orderCtrl.CreateOrder)
	auth.GET("/orders", orderCtrl.GetMyOrders)
	auth.GET("/orders/incoming", orderCtrl.GetCookOrders)
	auth.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	auth.PATCH("/orders/:order_id/status", orderCtrl.UpdateStatus)
	auth.PATCH("/orders/:order_id/payment", orderCtrl.UpdatePaymentStatus)

	// Chat per order
	auth.GET("/orders/:order_id/chat", chatCtrl.GetThread)
	auth.POST("/orders/:order_id/chat", chatCtrl.SendMessage)

	// Notifications
	auth.GET("/notifications", notifCtrl.GetMyNotifications)
	auth.GET("/notifications/unread-count", notifCtrl.GetUnreadCount)
	auth.PATCH("/notifications/:notif_id/read", notifCtrl.MarkAsRead)
	auth.PATCH("/notifications/read-all", notifCtrl.MarkAllAsRead)
	auth.DELETE("/notifications/:notif_id", notifCtrl.DeleteNotification)

	// Cook menu management (cook app)
	auth.POST("/menu-items", menuCtrl.CreateMenuItem)
	auth.PATCH("/menu-items/:item_id", menuCtrl.UpdateMenuItem)
	auth.DELETE("/menu-items/:item_id", menuCtrl.DeleteMenuItem)

	// Cook verification
	auth.POST("/verification", verificationCtrl.StartVerification)
	auth.GET("/verification", verificationCtrl.GetStatus)
	auth.POST("/verification/decide", verificationCtrl.SubmitDecision)

	// Admin portal
	auth.GET("/admin/stats", adminCtrl.GetDashboardStats)
	auth.GET("/admin/orders", adminCtrl.GetAllOrders)
	auth.GET("/admin/users", adminCtrl.GetAllUsers)
	auth.POST("/admin/users/:user_id/grant-admin", userCtrl.GrantAdminRole)

	// WebSocket feeds authenticate via query token.
	ws := r.Group("/ws")
	ws.Use(middlewares.WebSocketAuthMiddleware())
	{
		ws.GET("/feed", liveCtrl.UserFeed)
		ws.GET("/orders/:order_id", liveCtrl.OrderThread)
	}

	return r
}
