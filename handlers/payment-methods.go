package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/didi5-com/dotlesspaints/internal/payments"
	"github.com/didi5-com/dotlesspaints/pkg/ctxmanage"
	"github.com/didi5-com/dotlesspaints/pkg/logkey"

	"github.com/gin-gonic/gin"
)

// ListActivePaymentMethods serves the checkout page: active methods only,
// with configuration stripped to what the buyer needs to see.
func (h *Handler) ListActivePaymentMethods(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	list, err := h.pm.ListMethods(c.Request.Context(), true)
	if err != nil {
		slog.Error("error listing payment methods", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payment methods"})
		return
	}

	// Secret keys never leave the server.
	for i := range list {
		delete(list[i].Configuration, "secret_key")
	}

	c.JSON(http.StatusOK, gin.H{"payment_methods": list})
}

func (h *Handler) AdminListPaymentMethods(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	list, err := h.pm.ListMethods(c.Request.Context(), false)
	if err != nil {
		slog.Error("error listing payment methods", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payment methods"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment_methods": list})
}

func (h *Handler) AdminCreatePaymentMethod(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var nm payments.NewPaymentMethod
	if err := c.ShouldBindJSON(&nm); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.validate.Struct(nm); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	method, err := h.pm.InsertMethod(c.Request.Context(), nm)
	if err != nil {
		if errors.Is(err, payments.ErrInvalidConfiguration) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		slog.Error("error inserting payment method", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Payment method creation failed"})
		return
	}

	c.JSON(http.StatusCreated, method)
}

func (h *Handler) AdminUpdatePaymentMethod(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var nm payments.NewPaymentMethod
	if err := c.ShouldBindJSON(&nm); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.validate.Struct(nm); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	method, err := h.pm.UpdateMethod(c.Request.Context(), c.Param("id"), nm)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrInvalidConfiguration):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, payments.ErrNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Payment method not found"})
		default:
			slog.Error("error updating payment method", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Payment method update failed"})
		}
		return
	}

	c.JSON(http.StatusOK, method)
}

func (h *Handler) AdminDeletePaymentMethod(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	if err := h.pm.DeleteMethod(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, payments.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Payment method not found"})
			return
		}
		slog.Error("error deleting payment method", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Payment method deletion failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment method deleted"})
}
