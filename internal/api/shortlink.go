package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/service"
)

// ShortLinkHandler redirects /s/<short id> to the recipe page
type ShortLinkHandler struct {
	shortLinks service.IShortLinkService
}

func NewShortLinkHandler(shortLinks service.IShortLinkService) *ShortLinkHandler {
	return &ShortLinkHandler{shortLinks: shortLinks}
}

func (h *ShortLinkHandler) Redirect(c *gin.Context) {
	id, err := h.shortLinks.Resolve(c.Request.Context(), c.Param("short_id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			notFound(c)
			return
		}
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/recipes/%d", id))
}
