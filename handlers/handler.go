package handlers

import (
	"net/http"
	"os"
	"strconv"

	"github.com/didi5-com/dotlesspaints/internal/auth"
	"github.com/didi5-com/dotlesspaints/internal/cart"
	"github.com/didi5-com/dotlesspaints/internal/messages"
	"github.com/didi5-com/dotlesspaints/internal/orders"
	"github.com/didi5-com/dotlesspaints/internal/payments"
	"github.com/didi5-com/dotlesspaints/internal/products"
	"github.com/didi5-com/dotlesspaints/internal/site"
	"github.com/didi5-com/dotlesspaints/internal/stores/kafka"
	"github.com/didi5-com/dotlesspaints/internal/users"
	"github.com/didi5-com/dotlesspaints/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	u        users.Conf
	p        products.Conf
	c        cart.Conf
	o        orders.Conf
	pm       payments.Conf
	msg      messages.Conf
	s        site.Conf
	k        *kafka.Conf
	keys     *auth.Keys
	validate *validator.Validate
}

func NewHandler(u users.Conf, p products.Conf, c cart.Conf, o orders.Conf, pm payments.Conf,
	msg messages.Conf, s site.Conf, k *kafka.Conf, keys *auth.Keys) *Handler {
	return &Handler{
		u:        u,
		p:        p,
		c:        c,
		o:        o,
		pm:       pm,
		msg:      msg,
		s:        s,
		k:        k,
		keys:     keys,
		validate: validator.New(),
	}
}

// API builds the storefront router: public catalog and auth endpoints, an
// authenticated customer group, and an admin group gated on the admin role.
func API(endpointPrefix string, keys *auth.Keys, h *Handler) *gin.Engine {

	r := gin.New()
	mode := os.Getenv("GIN_MODE")
	if mode == gin.ReleaseMode {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	m := middleware.NewMid(keys)

	r.Use(middleware.Logger(), gin.Recovery())
	r.GET("/ping", healthCheck)

	v1 := r.Group(endpointPrefix)
	{
		v1.POST("/auth/signup", h.Signup)
		v1.POST("/auth/login", h.Login)
		v1.POST("/auth/google", h.GoogleLogin)

		v1.GET("/products", h.ListProducts)
		v1.GET("/products/categories", h.ListCategories)
		v1.GET("/products/:id", h.GetProduct)
		v1.GET("/payment-methods", h.ListActivePaymentMethods)
		v1.GET("/site/customizations", h.SiteCustomizations)
		v1.GET("/site/styles", h.SiteStyles)
		v1.POST("/contact", h.SubmitContactMessage)

		v1.Use(m.Authentication())
		v1.GET("/profile", m.Authorize(h.GetProfile, auth.RoleUser))
		v1.PUT("/profile", m.Authorize(h.UpdateProfile, auth.RoleUser))

		v1.POST("/cart/items", m.Authorize(h.AddToCart, auth.RoleUser))
		v1.GET("/cart", m.Authorize(h.GetCart, auth.RoleUser))
		v1.GET("/cart/total", m.Authorize(h.GetCartTotal, auth.RoleUser))
		v1.PUT("/cart/items/:id", m.Authorize(h.UpdateCartItem, auth.RoleUser))
		v1.DELETE("/cart/items/:id", m.Authorize(h.RemoveCartItem, auth.RoleUser))

		v1.POST("/checkout", m.Authorize(h.Checkout, auth.RoleUser))
		v1.GET("/orders", m.Authorize(h.ListMyOrders, auth.RoleUser))
		v1.GET("/orders/:id", m.Authorize(h.GetMyOrder, auth.RoleUser))
		v1.POST("/orders/:id/verify-payment", m.Authorize(h.VerifyGatewayPayment, auth.RoleUser))
		v1.POST("/orders/:id/confirm-payment", m.Authorize(h.ConfirmSelfReportedPayment, auth.RoleUser))
	}

	admin := r.Group(endpointPrefix + "/admin")
	{
		admin.Use(m.Authentication())
		admin.GET("/dashboard", m.Authorize(h.Dashboard, auth.RoleAdmin))

		admin.GET("/products", m.Authorize(h.AdminListProducts, auth.RoleAdmin))
		admin.POST("/products", m.Authorize(h.CreateProduct, auth.RoleAdmin))
		admin.PUT("/products/:id", m.Authorize(h.UpdateProduct, auth.RoleAdmin))
		admin.DELETE("/products/:id", m.Authorize(h.DeleteProduct, auth.RoleAdmin))

		admin.GET("/orders", m.Authorize(h.AdminListOrders, auth.RoleAdmin))
		admin.GET("/orders/:id", m.Authorize(h.AdminGetOrder, auth.RoleAdmin))
		admin.PUT("/orders/:id/status", m.Authorize(h.AdminUpdateOrderStatus, auth.RoleAdmin))
		admin.PUT("/orders/:id/payment-status", m.Authorize(h.AdminResolvePayment, auth.RoleAdmin))

		admin.GET("/users", m.Authorize(h.AdminListUsers, auth.RoleAdmin))

		admin.GET("/messages", m.Authorize(h.AdminListMessages, auth.RoleAdmin))
		admin.PUT("/messages/:id/read", m.Authorize(h.AdminMarkMessageRead, auth.RoleAdmin))

		admin.GET("/payment-methods", m.Authorize(h.AdminListPaymentMethods, auth.RoleAdmin))
		admin.POST("/payment-methods", m.Authorize(h.AdminCreatePaymentMethod, auth.RoleAdmin))
		admin.PUT("/payment-methods/:id", m.Authorize(h.AdminUpdatePaymentMethod, auth.RoleAdmin))
		admin.DELETE("/payment-methods/:id", m.Authorize(h.AdminDeletePaymentMethod, auth.RoleAdmin))

		admin.GET("/customizations", m.Authorize(h.AdminListCustomizations, auth.RoleAdmin))
		admin.POST("/customizations", m.Authorize(h.AdminCreateCustomization, auth.RoleAdmin))
		admin.PUT("/customizations/:id", m.Authorize(h.AdminUpdateCustomization, auth.RoleAdmin))
		admin.DELETE("/customizations/:id", m.Authorize(h.AdminDeleteCustomization, auth.RoleAdmin))
	}

	return r
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// currentUserID pulls the authenticated user's id from the request claims.
func currentUserID(c *gin.Context) (string, bool) {
	claims, ok := c.Request.Context().Value(auth.ClaimsKey).(auth.Claims)
	if !ok {
		return "", false
	}
	return claims.Subject, true
}

// queryInt reads an integer query parameter, falling back on absence or
// garbage.
func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
