package handlers

import (
	"log/slog"
	"net/http"

	"github.com/didi5-com/dotlesspaints/internal/orders"
	"github.com/didi5-com/dotlesspaints/pkg/ctxmanage"
	"github.com/didi5-com/dotlesspaints/pkg/logkey"

	"github.com/gin-gonic/gin"
)

// Dashboard aggregates the numbers the admin console shows on its landing
// page.
func (h *Handler) Dashboard(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	ctx := c.Request.Context()

	totalProducts, err := h.p.CountProducts(ctx)
	if err != nil {
		slog.Error("error counting products", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	totalOrders, err := h.o.CountOrders(ctx)
	if err != nil {
		slog.Error("error counting orders", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	pendingVerification, err := h.o.CountOrdersByStatus(ctx, orders.StatusPendingVerification)
	if err != nil {
		slog.Error("error counting pending verifications", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	totalUsers, err := h.u.CountUsers(ctx)
	if err != nil {
		slog.Error("error counting users", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	unreadMessages, err := h.msg.CountUnread(ctx)
	if err != nil {
		slog.Error("error counting unread messages", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	revenue, err := h.o.PaidRevenue(ctx)
	if err != nil {
		slog.Error("error summing revenue", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	recent, err := h.o.RecentOrders(ctx, 5)
	if err != nil {
		slog.Error("error fetching recent orders", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_products":       totalProducts,
		"total_orders":         totalOrders,
		"pending_verification": pendingVerification,
		"total_users":          totalUsers,
		"unread_messages":      unreadMessages,
		"paid_revenue":         revenue,
		"recent_orders":        recent,
	})
}

func (h *Handler) AdminListUsers(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := queryInt(c, "page_size", 20)
	if pageSize < 1 {
		pageSize = 20
	}

	list, err := h.u.ListUsers(c.Request.Context(), c.Query("search"), pageSize, (page-1)*pageSize)
	if err != nil {
		slog.Error("error listing users", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": list, "page": page})
}
