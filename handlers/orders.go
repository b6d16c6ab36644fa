package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/didi5-com/dotlesspaints/internal/orders"
	"github.com/didi5-com/dotlesspaints/pkg/ctxmanage"
	"github.com/didi5-com/dotlesspaints/pkg/logkey"

	"github.com/gin-gonic/gin"
)

// Checkout turns the caller's cart into an order against the selected payment
// method.
func (h *Handler) Checkout(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	userID, ok := currentUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var no orders.NewOrder
	if err := c.ShouldBindJSON(&no); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.validate.Struct(no); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	order, err := h.o.Checkout(c.Request.Context(), userID, no)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrEmptyCart):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		case errors.Is(err, orders.ErrInvalidPaymentMethod):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid payment method"})
		default:
			slog.Error("checkout failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed"})
		}
		return
	}

	slog.Info("order created", slog.String(logkey.TraceID, traceId), slog.String("OrderID", order.ID))
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) ListMyOrders(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	userID, ok := currentUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	list, err := h.o.ListUserOrders(c.Request.Context(), userID, queryInt(c, "page", 1), queryInt(c, "page_size", 10))
	if err != nil {
		slog.Error("error listing orders", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": list})
}

func (h *Handler) GetMyOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	userID, ok := currentUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	order, err := h.o.GetUserOrder(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		slog.Error("error fetching order", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	c.JSON(http.StatusOK, order)
}

// VerifyGatewayPayment confirms a gateway payment by verifying the buyer's
// transaction reference with the gateway. Already-paid orders come back
// unchanged rather than as an error.
func (h *Handler) VerifyGatewayPayment(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	userID, ok := currentUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var request struct {
		Reference string `json:"reference"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	order, err := h.o.ConfirmGatewayPayment(c.Request.Context(), userID, c.Param("id"), request.Reference)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrAlreadyPaid):
			c.JSON(http.StatusOK, gin.H{"message": "already paid", "order": order})
		case errors.Is(err, orders.ErrNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, orders.ErrMissingReference):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "No payment reference provided"})
		case errors.Is(err, orders.ErrVerificationFailed):
			slog.Error("payment verification failed", slog.String(logkey.TraceID, traceId),
				slog.String(logkey.ERROR, err.Error()), slog.String("OrderID", c.Param("id")))
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "Payment verification failed"})
		default:
			slog.Error("error confirming payment", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Payment confirmation failed"})
		}
		return
	}

	slog.Info("payment verified", slog.String(logkey.TraceID, traceId), slog.String("OrderID", order.ID))
	c.JSON(http.StatusOK, gin.H{"message": "Payment verified", "order": order})
}

// ConfirmSelfReportedPayment records that the buyer claims to have paid by
// bank transfer or crypto; the order waits for admin reconciliation.
func (h *Handler) ConfirmSelfReportedPayment(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	userID, ok := currentUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	order, err := h.o.ConfirmSelfReportedPayment(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrAlreadyPaid):
			c.JSON(http.StatusOK, gin.H{"message": "already paid", "order": order})
		case errors.Is(err, orders.ErrNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		default:
			slog.Error("error confirming payment", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Payment confirmation failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment recorded, awaiting verification", "order": order})
}

func (h *Handler) AdminListOrders(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	list, err := h.o.ListOrders(c.Request.Context(), c.Query("status"), queryInt(c, "page", 1), queryInt(c, "page_size", 20))
	if err != nil {
		slog.Error("error listing orders", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": list})
}

func (h *Handler) AdminGetOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	order, err := h.o.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		slog.Error("error fetching order", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *Handler) AdminUpdateOrderStatus(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var request struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	err := h.o.UpdateStatus(c.Request.Context(), c.Param("id"), request.Status)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrInvalidStatus):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid order status"})
		case errors.Is(err, orders.ErrNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		default:
			slog.Error("error updating order status", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Order status update failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order status updated"})
}

// AdminResolvePayment settles a self-reported payment as paid or failed.
func (h *Handler) AdminResolvePayment(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var request struct {
		PaymentStatus string `json:"payment_status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	order, err := h.o.ResolvePaymentStatus(c.Request.Context(), c.Param("id"), request.PaymentStatus)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrAlreadyPaid):
			c.JSON(http.StatusOK, gin.H{"message": "already paid", "order": order})
		case errors.Is(err, orders.ErrInvalidStatus):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Payment status must be paid or failed"})
		case errors.Is(err, orders.ErrNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		default:
			slog.Error("error resolving payment", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Payment resolution failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment status updated", "order": order})
}
