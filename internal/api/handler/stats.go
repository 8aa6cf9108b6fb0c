package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Stats returns the server snapshot together with the support counters.
func (h *Handler) Stats(c *gin.Context) {
	server, err := h.Hub.Stats(c.Request.Context())
	if err != nil {
		h.writeHubError(c, err)
		return
	}
	contacts, err := h.Hub.ContactStats(c.Request.Context())
	if err != nil {
		h.writeHubError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"server": server, "contacts": contacts})
}
