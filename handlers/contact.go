package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/didi5-com/dotlesspaints/internal/messages"
	"github.com/didi5-com/dotlesspaints/pkg/ctxmanage"
	"github.com/didi5-com/dotlesspaints/pkg/logkey"

	"github.com/gin-gonic/gin"
)

func (h *Handler) SubmitContactMessage(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var nm messages.NewContactMessage
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

	msg, err := h.msg.InsertMessage(c.Request.Context(), nm)
	if err != nil {
		slog.Error("error inserting contact message", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit message"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Message sent successfully", "id": msg.ID})
}

func (h *Handler) AdminListMessages(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	list, err := h.msg.ListMessages(c.Request.Context(), queryInt(c, "page", 1), queryInt(c, "page_size", 20))
	if err != nil {
		slog.Error("error listing contact messages", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": list})
}

func (h *Handler) AdminMarkMessageRead(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	if err := h.msg.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, messages.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Message not found"})
			return
		}
		slog.Error("error marking message read", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message marked as read"})
}
