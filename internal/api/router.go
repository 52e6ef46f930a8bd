package api

import (
	"github.com/gin-gonic/gin"
	"github.com/leon37/ReceiptLedger/internal/api/controller"
	"github.com/leon37/ReceiptLedger/internal/api/middleware"
)

// Controllers 注册路由需要的全部 controller
type Controllers struct {
	Auth     *controller.AuthController
	Category *controller.CategoryController
	Friend   *controller.FriendController
	Receipt  *controller.ReceiptController
	Item     *controller.ItemController
	Split    *controller.SplitController
	Rule     *controller.RuleController
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, ctrls Controllers) {
	r.Use(middleware.Cors())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	public := r.Group("/api/v1/auth")
	{
		public.POST("/register", ctrls.Auth.Register)
		public.POST("/login", ctrls.Auth.Login)
		public.POST("/reset/request", ctrls.Auth.RequestReset)
		public.POST("/reset", ctrls.Auth.ResetPassword)
	}

	// API 组
	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth())
	{
		protected.GET("/profile", ctrls.Auth.GetProfile)
		protected.PUT("/profile", ctrls.Auth.UpdateProfile)

		protected.POST("/categories", ctrls.Category.Add)
		protected.GET("/categories", ctrls.Category.List)
		protected.POST("/categories/delete", ctrls.Category.Delete)
		protected.POST("/categories/star", ctrls.Category.ToggleStar)
		protected.GET("/categories/costs", ctrls.Category.Costs)

		protected.POST("/friends/request", ctrls.Friend.Request)
		protected.POST("/friends/respond", ctrls.Friend.Respond)
		protected.GET("/friends", ctrls.Friend.List)
		protected.POST("/friends/remove", ctrls.Friend.Remove)

		protected.POST("/receipts", ctrls.Receipt.Upload)
		protected.GET("/receipts", ctrls.Receipt.List)
		protected.GET("/receipts/:id", ctrls.Receipt.Get)
		protected.PUT("/receipts/:id", ctrls.Receipt.Update)
		protected.DELETE("/receipts/:id", ctrls.Receipt.Delete)
		protected.GET("/merchants", ctrls.Receipt.Merchants)

		protected.POST("/items", ctrls.Item.Create)
		protected.GET("/items", ctrls.Item.List)
		protected.POST("/items/update", ctrls.Item.Update)
		protected.POST("/items/delete", ctrls.Item.Delete)

		protected.POST("/items/:id/split", ctrls.Split.CreateItemSplit)
		protected.GET("/items/:id/split/users", ctrls.Split.ItemSharedUsers)
		protected.GET("/items/:id/split/amounts", ctrls.Split.ItemSharedAmounts)
		protected.POST("/receipts/:id/split", ctrls.Split.CreateReceiptSplit)
		protected.GET("/receipts/:id/split/users", ctrls.Split.ReceiptSharedUsers)
		protected.GET("/receipts/:id/split/amounts", ctrls.Split.ReceiptSharedAmounts)

		protected.POST("/rules", ctrls.Rule.Create)
		protected.GET("/rules", ctrls.Rule.List)
		protected.POST("/rules/update", ctrls.Rule.Update)
		protected.POST("/rules/delete", ctrls.Rule.Delete)

		protected.POST("/dates", ctrls.Item.AddImportantDate)
		protected.GET("/dates", ctrls.Item.ListImportantDates)
		protected.POST("/dates/update", ctrls.Item.UpdateImportantDate)
		protected.POST("/dates/delete", ctrls.Item.DeleteImportantDate)
	}
}
