package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/harentsoaR/doctors-portal-api/internal/middleware"
	"github.com/harentsoaR/doctors-portal-api/internal/models"
	"github.com/harentsoaR/doctors-portal-api/internal/services"
	"github.com/harentsoaR/doctors-portal-api/internal/utils"
)

// Store is the persistence the HTTP surface needs. *store.MongoStore
// satisfies it.
type Store interface {
	Ping(ctx context.Context) error

	ListTreatments(ctx context.Context) ([]models.Treatment, error)
	ListTreatmentNames(ctx context.Context) ([]models.TreatmentName, error)
	ListBookingsByDate(ctx context.Context, date string) ([]models.Booking, error)

	ListUsers(ctx context.Context) ([]models.User, error)
	FindUser(ctx context.Context, email string) (*models.User, error)
	UpsertUser(ctx context.Context, email string, fields bson.M) (*models.UpdateResult, error)
	PromoteAdmin(ctx context.Context, email string) (*models.UpdateResult, error)

	ListBookingsByPatient(ctx context.Context, patient string) ([]models.Booking, error)
	FindBooking(ctx context.Context, treatment, date, patient string) (*models.Booking, error)
	InsertBooking(ctx context.Context, booking *models.Booking) (*models.InsertResult, error)

	ListDoctors(ctx context.Context) ([]models.Doctor, error)
	InsertDoctor(ctx context.Context, doctor *models.Doctor) (*models.InsertResult, error)
	DeleteDoctor(ctx context.Context, email string) (*models.DeleteResult, error)
}

type Notifier interface {
	BookingCreated(booking models.Booking)
}

type Handler struct {
	Store        Store
	Tokens       *utils.TokenManager
	Availability *services.AvailabilityService
	Notifier     Notifier
	Locker       services.BookingLocker
	Log          zerolog.Logger
}

func NewHandler(store Store, tokens *utils.TokenManager, notifier Notifier, locker services.BookingLocker, log zerolog.Logger) *Handler {
	if locker == nil {
		locker = services.NoopLocker{}
	}
	return &Handler{
		Store:        store,
		Tokens:       tokens,
		Availability: services.NewAvailabilityService(store),
		Notifier:     notifier,
		Locker:       locker,
		Log:          log,
	}
}

// fail logs err and answers 500 with msg.
func (h *Handler) fail(c *gin.Context, msg string, err error) {
	_ = c.Error(err)
	h.Log.Error().Err(err).Str("request_id", c.GetString(middleware.RequestIDKey)).Msg(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

func (h *Handler) Home(c *gin.Context) {
	c.String(http.StatusOK, "Hello From Doctor's Portal!")
}
