package httpapi

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Cyril-dot/billionBackend/internal/auth"
	"github.com/Cyril-dot/billionBackend/internal/common"
	"github.com/Cyril-dot/billionBackend/internal/config"
	"github.com/Cyril-dot/billionBackend/internal/httpapi/handlers"
	"github.com/Cyril-dot/billionBackend/internal/httpapi/middleware"
	"github.com/Cyril-dot/billionBackend/internal/notify"
	"github.com/Cyril-dot/billionBackend/internal/realtime"
	"github.com/Cyril-dot/billionBackend/internal/store/redisstore"
)

func NewRouter(db *gorm.DB, cfg config.Config, rds *redisstore.Store, hub *realtime.Hub, sink notify.Sink) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(cors.Default())

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	h := handlers.NewHandler(db, cfg, rds, hub, sink)

	r.GET("/ping", func(c *gin.Context) { common.OK(c, gin.H{"status": "ok"}) })

	v1 := r.Group("/api/v1")

	// registration + auth
	v1.POST("/captcha", h.SendCaptcha)
	v1.POST("/auth/register", h.RegisterCustomer)
	v1.POST("/auth/login", h.LoginCustomer)
	v1.POST("/auth/merchant/register", h.RegisterMerchant)
	v1.POST("/auth/merchant/login", h.LoginMerchant)

	// public catalog
	v1.GET("/products", h.ListProducts)
	v1.GET("/products/:id", h.GetProduct)

	authed := v1.Group("/")
	authed.Use(middleware.AuthRequired(cfg.JWTSecret))
	authed.GET("/me", h.Me)

	// customers
	customer := authed.Group("/")
	customer.Use(middleware.RoleRequired(auth.RoleCustomer))
	{
		customer.GET("/cart", h.GetCart)
		customer.GET("/cart/count", h.GetCartCount)
		customer.POST("/cart", h.AddToCart)
		customer.PATCH("/cart/:item_id", h.UpdateCartQuantity)
		customer.DELETE("/cart/:item_id", h.RemoveFromCart)
		customer.DELETE("/cart", h.ClearCart)

		customer.POST("/orders", h.PlaceOrder)
		customer.GET("/orders", h.ListMyOrders)
		customer.GET("/orders/:id", h.GetOrder)
		customer.POST("/orders/:id/cancel", h.CancelOrder)

		customer.POST("/chat/start", h.StartChat)
		customer.GET("/chat/rooms", h.MyChatRooms)
		customer.POST("/chat/rooms/:room_id/send", h.CustomerSendMessage)
	}

	// merchants
	merchant := authed.Group("/merchant")
	merchant.Use(middleware.RoleRequired(auth.RoleMerchant))
	{
		merchant.GET("/products", h.ListMyProducts)
		merchant.POST("/products", h.CreateProduct)
		merchant.PUT("/products/:id", h.UpdateProduct)
		merchant.DELETE("/products/:id", h.DeleteProduct)

		merchant.GET("/orders", h.ListOrdersByStatus)
		merchant.PATCH("/orders/:id/status", h.UpdateOrderStatus)

		merchant.GET("/chat/rooms", h.MerchantChatRooms)
		merchant.POST("/chat/rooms/:room_id/reply", h.MerchantSendMessage)
	}

	// either side of a conversation
	authed.GET("/chat/rooms/:room_id/history", h.ChatHistory)
	authed.GET("/chat/rooms/:room_id/ws", h.ChatLiveChannel)

	return r
}
