package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/doctors-portal-api/internal/middleware"
	"github.com/harentsoaR/doctors-portal-api/internal/models"
	"github.com/harentsoaR/doctors-portal-api/internal/services"
	"github.com/harentsoaR/doctors-portal-api/internal/store"
)

// GetBookings lists the caller's own bookings. ?patient= has to match the
// token subject.
func (h *Handler) GetBookings(c *gin.Context) {
	patient := c.Query("patient")
	if patient != middleware.CurrentEmail(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden access"})
		return
	}

	bookings, err := h.Store.ListBookingsByPatient(c.Request.Context(), patient)
	if err != nil {
		h.fail(c, "Failed to retrieve bookings", err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// CreateBooking stores a booking unless the patient already holds one for
// the same treatment and date. A duplicate is not an HTTP error: the answer
// is 200 with success=false and the existing booking.
//
// The lookup and the insert are separate calls. Unless a locker is
// configured, two identical concurrent requests can both be inserted.
func (h *Handler) CreateBooking(c *gin.Context) {
	var booking models.Booking
	if err := c.ShouldBindJSON(&booking); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	booking.ID = primitive.NilObjectID
	ctx := c.Request.Context()

	key := services.BookingLockKey(booking.Treatment, booking.Date, booking.Patient)
	release, ok, err := h.Locker.Acquire(ctx, key)
	if err != nil {
		h.fail(c, "Failed to create booking", err)
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{"success": false})
		return
	}
	defer release()

	existing, err := h.Store.FindBooking(ctx, booking.Treatment, booking.Date, booking.Patient)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": false, "booking": existing})
		return
	case !errors.Is(err, store.ErrNotFound):
		h.fail(c, "Failed to create booking", err)
		return
	}

	result, err := h.Store.InsertBooking(ctx, &booking)
	if err != nil {
		h.fail(c, "Failed to create booking", err)
		return
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = id
	}

	h.Notifier.BookingCreated(booking)
	c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
}
