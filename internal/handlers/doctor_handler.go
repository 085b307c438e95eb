package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/doctors-portal-api/internal/models"
)

func (h *Handler) GetDoctors(c *gin.Context) {
	doctors, err := h.Store.ListDoctors(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to retrieve doctors", err)
		return
	}
	c.JSON(http.StatusOK, doctors)
}

func (h *Handler) AddDoctor(c *gin.Context) {
	var doctor models.Doctor
	if err := c.ShouldBindJSON(&doctor); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	doctor.ID = primitive.NilObjectID

	result, err := h.Store.InsertDoctor(c.Request.Context(), &doctor)
	if err != nil {
		h.fail(c, "Failed to add doctor", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) DeleteDoctor(c *gin.Context) {
	result, err := h.Store.DeleteDoctor(c.Request.Context(), c.Param("email"))
	if err != nil {
		h.fail(c, "Failed to delete doctor", err)
		return
	}
	c.JSON(http.StatusOK, result)
}
