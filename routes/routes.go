package routes

import (
	"home-flavours/handlers"
	"home-flavours/middleware"
	"home-flavours/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handler) {
	authRequired := middleware.AuthRequired(h.Auth)

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth
		public.POST("/auth/register", h.Register)
		public.POST("/auth/login", h.Login)

		// Weekly menu & tiffin makers (no auth needed)
		public.GET("/menu", h.GetWeeklyMenu)
		public.GET("/menu/today", h.GetTodayMenu)
		public.GET("/menu/:day", h.GetDayMenu)
		public.GET("/makers", h.ListMakers)
		public.GET("/makers/:id/menu", h.GetMakerMenu)

		public.GET("/state-machine", h.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(authRequired)
	{
		auth.POST("/auth/logout", h.Logout)
		auth.GET("/profile", h.GetProfile)
	}

	// Browsers cannot send headers on a websocket handshake
	r.GET("/api/ws", middleware.WebSocketAuthRequired(h.Auth), h.OrdersWS)

	// ── Customer routes ────────────────────────────────────────────
	customer := r.Group("/api/customer")
	customer.Use(authRequired, middleware.RoleRequired(models.RoleCustomer))
	{
		customer.GET("/cart", h.GetCart)
		customer.POST("/cart", h.AddToCart)
		customer.DELETE("/cart", h.ClearCart)
		customer.PUT("/cart/:id", h.UpdateCartEntry)
		customer.DELETE("/cart/:id", h.RemoveCartEntry)

		customer.POST("/orders", h.PlaceOrder)
		customer.GET("/orders", h.GetMyOrders)
		customer.GET("/orders/:id", h.GetOrderDetail)
		customer.PUT("/orders/:id/cancel", h.CancelOrder)

		customer.GET("/dashboard", h.CustomerDashboard)
	}

	// ── Tiffin maker routes ────────────────────────────────────────
	maker := r.Group("/api/maker")
	maker.Use(authRequired, middleware.RoleRequired(models.RoleTiffinMaker))
	{
		// Profile
		maker.POST("/profile", h.CreateMakerProfile)
		maker.GET("/profile", h.GetMakerProfile)
		maker.PUT("/profile", h.UpdateMakerProfile)

		// Menu management
		maker.GET("/menu", h.GetMyMenu)
		maker.POST("/menu", h.AddMenuItem)
		maker.PUT("/menu/:itemId", h.UpdateMenuItem)
		maker.PUT("/menu/:itemId/availability", h.SetMenuItemAvailability)
		maker.DELETE("/menu/:itemId", h.DeleteMenuItem)

		// Order management
		maker.GET("/orders", h.GetMakerOrders)
		maker.PUT("/orders/:id/status", h.UpdateOrderStatus)

		maker.GET("/dashboard", h.MakerDashboard)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(authRequired, middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/overview", h.AdminOverview)

		admin.GET("/users", h.AdminGetAllUsers)
		admin.POST("/users", h.AdminCreateUser)
		admin.DELETE("/users/:id", h.AdminDeleteUser)

		admin.GET("/makers", h.AdminGetAllMakers)
		admin.POST("/makers", h.AdminCreateMaker)
		admin.PUT("/makers/:id/active", h.AdminSetMakerActive)
		admin.DELETE("/makers/:id", h.AdminDeleteMaker)

		admin.GET("/orders", h.AdminGetAllOrders)
		admin.PUT("/orders/:id/status", h.UpdateOrderStatus)

		admin.DELETE("/carts", h.AdminClearCarts)
	}
}
