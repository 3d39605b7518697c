package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rizanep/waqthecombackend1/internal/transport/http/handler"
	"github.com/rizanep/waqthecombackend1/internal/transport/http/middleware"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	Product      *handler.ProductHandler
	Category     *handler.CategoryHandler
	Cart         *handler.CartHandler
	Wishlist     *handler.WishlistHandler
	Order        *handler.OrderHandler
	Notification *handler.NotificationHandler
	Payment      *handler.PaymentHandler
}

func RegisterRoutes(app *fiber.App, h *Handlers, wsHandler func(*websocket.Conn)) {
	requireAuth := middleware.NewAuthMiddleware()
	requireAdmin := middleware.NewRequireAdminMiddleware()

	app.Post("/register", h.Auth.Register)
	app.Get("/register", requireAuth, requireAdmin, h.Auth.ListUsers)
	app.Get("/register/:id", requireAuth, h.Auth.GetUser)
	app.Patch("/register/:id", requireAuth, h.Auth.UpdateUser)
	app.Post("/login", h.Auth.Login)
	app.Post("/refresh", h.Auth.Refresh)
	app.Post("/forgot-password", h.Auth.ForgotPassword)
	app.Post("/reset-password", h.Auth.ResetPassword)

	app.Get("/products", h.Product.List)
	app.Get("/products/:id", h.Product.FindByID)
	app.Post("/products", requireAuth, requireAdmin, h.Product.Create)
	app.Patch("/products/:id", requireAuth, requireAdmin, h.Product.Update)
	app.Delete("/products/:id", requireAuth, requireAdmin, h.Product.Delete)

	app.Get("/categories", h.Category.List)
	app.Post("/categories", requireAuth, requireAdmin, h.Category.Create)
	app.Delete("/categories/:id", requireAuth, requireAdmin, h.Category.Delete)

	app.Get("/cart", requireAuth, h.Cart.List)
	app.Post("/cart", requireAuth, h.Cart.Add)
	app.Patch("/cart/:id", requireAuth, h.Cart.Update)
	app.Delete("/cart/:id", requireAuth, h.Cart.Delete)

	app.Get("/wishlist", requireAuth, h.Wishlist.List)
	app.Post("/wishlist", requireAuth, h.Wishlist.Add)
	app.Delete("/wishlist/:id", requireAuth, h.Wishlist.Delete)

	app.Post("/order", requireAuth, h.Order.Create)
	app.Get("/order", requireAuth, h.Order.List)
	app.Get("/order/:id", requireAuth, h.Order.GetByID)
	app.Patch("/order/:id", requireAuth, requireAdmin, h.Order.ChangeStatus)

	app.Get("/notifications", requireAuth, h.Notification.List)
	app.Patch("/notifications/:id/read", requireAuth, h.Notification.MarkRead)
	app.Delete("/notifications/clear-all", requireAuth, h.Notification.ClearAll)

	app.Post("/create-order", requireAuth, h.Payment.CreateOrder)
	app.Post("/verify-payment", requireAuth, h.Payment.VerifyPayment)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/notifications/:userId", websocket.New(wsHandler))
}
