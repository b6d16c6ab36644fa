package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/didi5-com/dotlesspaints/internal/site"
	"github.com/didi5-com/dotlesspaints/pkg/ctxmanage"
	"github.com/didi5-com/dotlesspaints/pkg/logkey"

	"github.com/gin-gonic/gin"
)

// SiteCustomizations resolves active content fragments for one section, or
// the whole site when no section is given. With a key it resolves a single
// element, "" when the element is absent or inactive.
func (h *Handler) SiteCustomizations(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	if key := c.Query("key"); key != "" {
		value, err := h.s.ResolveValue(c.Request.Context(), c.Query("section"), key)
		if err != nil {
			slog.Error("error resolving customization", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customization"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"key": key, "content": value})
		return
	}

	content, err := h.s.Resolve(c.Request.Context(), c.Query("section"))
	if err != nil {
		slog.Error("error resolving customizations", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customizations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"customizations": content})
}

// SiteStyles resolves active style fragments the same way.
func (h *Handler) SiteStyles(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	styles, err := h.s.ResolveStyles(c.Request.Context(), c.Query("section"))
	if err != nil {
		slog.Error("error resolving styles", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch styles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"styles": styles})
}

func (h *Handler) AdminListCustomizations(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	list, err := h.s.ListCustomizations(c.Request.Context(), queryInt(c, "page", 1), queryInt(c, "page_size", 50))
	if err != nil {
		slog.Error("error listing customizations", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customizations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"customizations": list})
}

func (h *Handler) AdminCreateCustomization(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var nc site.NewCustomization
	if err := c.ShouldBindJSON(&nc); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.validate.Struct(nc); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	custom, err := h.s.InsertCustomization(c.Request.Context(), nc)
	if err != nil {
		slog.Error("error inserting customization", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Customization creation failed"})
		return
	}

	c.JSON(http.StatusCreated, custom)
}

func (h *Handler) AdminUpdateCustomization(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	var nc site.NewCustomization
	if err := c.ShouldBindJSON(&nc); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.validate.Struct(nc); err != nil {
		slog.Error("validation failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": http.StatusText(http.StatusBadRequest)})
		return
	}

	custom, err := h.s.UpdateCustomization(c.Request.Context(), c.Param("id"), nc)
	if err != nil {
		if errors.Is(err, site.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Customization not found"})
			return
		}
		slog.Error("error updating customization", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Customization update failed"})
		return
	}

	c.JSON(http.StatusOK, custom)
}

func (h *Handler) AdminDeleteCustomization(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	if err := h.s.DeleteCustomization(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, site.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Customization not found"})
			return
		}
		slog.Error("error deleting customization", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Customization deletion failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customization deleted"})
}
