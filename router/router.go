package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/novus318/resoi.server/controllers"
	"github.com/novus318/resoi.server/middlewares"
	"github.com/novus318/resoi.server/services"
	"github.com/novus318/resoi.server/ws"
)

func SetupRouter(db *gorm.DB, svc *services.OrderService, hub *ws.Hub) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:3001"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	orderCtrl := controllers.NewOrderController(db, svc)
	onlineCtrl := controllers.NewOnlineOrderController(db, svc)
	tableCtrl := controllers.NewTableController(db)
	staffCtrl := controllers.NewStaffController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Real-time order feed for dashboards.
	r.GET("/ws/orders", controllers.OrderFeedHandler(hub))

	api := r.Group("/api")

	createLimiter := middlewares.NewOrderRateLimiter()

	table := api.Group("/table")
	{
		table.POST("/create/table-order", createLimiter, orderCtrl.CreateTableOrder)
		table.PUT("/update/table-order-status", orderCtrl.UpdateOrderStatus)
		table.PUT("/update/table-order", orderCtrl.UpdateCart)
		table.GET("/get-order/:order_id", orderCtrl.GetOrder)
		table.POST("/order-paymentMethod", orderCtrl.SetPaymentMethod)
		table.POST("/table-order/online-pay", orderCtrl.PayOnline)
		table.GET("/order-status/:order_id", orderCtrl.OrderStatus)
		table.GET("/get-store/ordersToday", orderCtrl.OrdersToday)
	}

	online := api.Group("/online")
	{
		online.POST("/create/order", createLimiter, onlineCtrl.CreateOrder)
		online.GET("/order-status/:order_id", orderCtrl.OrderStatus)
	}

	api.GET("/tables", tableCtrl.GetAllTables)
	api.POST("/staff/:staff_id/advance", staffCtrl.RecordAdvance)

	return r
}
