package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetTreatments lists the catalog. ?fields=name returns names only.
func (h *Handler) GetTreatments(c *gin.Context) {
	if c.Query("fields") == "name" {
		names, err := h.Store.ListTreatmentNames(c.Request.Context())
		if err != nil {
			h.fail(c, "Failed to retrieve treatments", err)
			return
		}
		c.JSON(http.StatusOK, names)
		return
	}

	treatments, err := h.Store.ListTreatments(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to retrieve treatments", err)
		return
	}
	c.JSON(http.StatusOK, treatments)
}

// GetAvailable lists every treatment with the slots still open on ?date=.
// The date is not validated.
func (h *Handler) GetAvailable(c *gin.Context) {
	treatments, err := h.Availability.Available(c.Request.Context(), c.Query("date"))
	if err != nil {
		h.fail(c, "Failed to compute availability", err)
		return
	}
	c.JSON(http.StatusOK, treatments)
}
