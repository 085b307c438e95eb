package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/doctors-portal-api/internal/models"
)

const (
	TreatmentsCollection = "treatments"
	BookingsCollection   = "bookings"
	UsersCollection      = "users"
	DoctorsCollection    = "doctors"
)

// ErrNotFound is returned by single-document lookups that match nothing.
var ErrNotFound = errors.New("not found")

// MongoStore wraps the four clinic collections. Every method is a single
// driver call; nothing here spans collections or runs in a transaction.
type MongoStore struct {
	db *mongo.Database
}

func New(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

// Connect opens the process-wide client and verifies it with a ping. Nested
// free-form documents decode as maps so they render as JSON objects.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}

func (s *MongoStore) ListTreatments(ctx context.Context) ([]models.Treatment, error) {
	treatments := make([]models.Treatment, 0)
	if err := s.findAll(ctx, TreatmentsCollection, bson.M{}, &treatments); err != nil {
		return nil, fmt.Errorf("list treatments: %w", err)
	}
	return treatments, nil
}

// ListTreatmentNames projects only the name of each treatment.
func (s *MongoStore) ListTreatmentNames(ctx context.Context) ([]models.TreatmentName, error) {
	names := make([]models.TreatmentName, 0)
	opts := options.Find().SetProjection(bson.M{"name": 1})
	if err := s.findAll(ctx, TreatmentsCollection, bson.M{}, &names, opts); err != nil {
		return nil, fmt.Errorf("list treatment names: %w", err)
	}
	return names, nil
}

func (s *MongoStore) InsertTreatments(ctx context.Context, treatments []models.Treatment) (int, error) {
	if len(treatments) == 0 {
		return 0, nil
	}
	docs := make([]interface{}, len(treatments))
	for i := range treatments {
		docs[i] = treatments[i]
	}
	res, err := s.db.Collection(TreatmentsCollection).InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("insert treatments: %w", err)
	}
	return len(res.InsertedIDs), nil
}

func (s *MongoStore) ListUsers(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)
	if err := s.findAll(ctx, UsersCollection, bson.M{}, &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *MongoStore) FindUser(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.Collection(UsersCollection).FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user %q: %w", email, err)
	}
	return &user, nil
}

// UpsertUser sets the given fields on the user with this email, creating the
// record when there is none.
func (s *MongoStore) UpsertUser(ctx context.Context, email string, fields bson.M) (*models.UpdateResult, error) {
	opts := options.Update().SetUpsert(true)
	res, err := s.db.Collection(UsersCollection).UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": fields}, opts)
	if err != nil {
		return nil, fmt.Errorf("upsert user %q: %w", email, err)
	}
	return models.NewUpdateResult(res), nil
}

func (s *MongoStore) PromoteAdmin(ctx context.Context, email string) (*models.UpdateResult, error) {
	update := bson.M{"$set": bson.M{"role": models.RoleAdmin}}
	res, err := s.db.Collection(UsersCollection).UpdateOne(ctx, bson.M{"email": email}, update)
	if err != nil {
		return nil, fmt.Errorf("promote user %q: %w", email, err)
	}
	return models.NewUpdateResult(res), nil
}

func (s *MongoStore) ListBookingsByPatient(ctx context.Context, patient string) ([]models.Booking, error) {
	bookings := make([]models.Booking, 0)
	if err := s.findAll(ctx, BookingsCollection, bson.M{"patient": patient}, &bookings); err != nil {
		return nil, fmt.Errorf("list bookings for %q: %w", patient, err)
	}
	return bookings, nil
}

func (s *MongoStore) ListBookingsByDate(ctx context.Context, date string) ([]models.Booking, error) {
	bookings := make([]models.Booking, 0)
	if err := s.findAll(ctx, BookingsCollection, bson.M{"date": date}, &bookings); err != nil {
		return nil, fmt.Errorf("list bookings on %q: %w", date, err)
	}
	return bookings, nil
}

// FindBooking looks up the booking a patient holds for a treatment on a date.
func (s *MongoStore) FindBooking(ctx context.Context, treatment, date, patient string) (*models.Booking, error) {
	filter := bson.M{"treatment": treatment, "date": date, "patient": patient}
	var booking models.Booking
	err := s.db.Collection(BookingsCollection).FindOne(ctx, filter).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find booking: %w", err)
	}
	return &booking, nil
}

func (s *MongoStore) InsertBooking(ctx context.Context, booking *models.Booking) (*models.InsertResult, error) {
	res, err := s.db.Collection(BookingsCollection).InsertOne(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}
	return models.NewInsertResult(res), nil
}

func (s *MongoStore) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	doctors := make([]models.Doctor, 0)
	if err := s.findAll(ctx, DoctorsCollection, bson.M{}, &doctors); err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return doctors, nil
}

func (s *MongoStore) InsertDoctor(ctx context.Context, doctor *models.Doctor) (*models.InsertResult, error) {
	res, err := s.db.Collection(DoctorsCollection).InsertOne(ctx, doctor)
	if err != nil {
		return nil, fmt.Errorf("insert doctor: %w", err)
	}
	return models.NewInsertResult(res), nil
}

func (s *MongoStore) DeleteDoctor(ctx context.Context, email string) (*models.DeleteResult, error) {
	res, err := s.db.Collection(DoctorsCollection).DeleteOne(ctx, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("delete doctor %q: %w", email, err)
	}
	return models.NewDeleteResult(res), nil
}

func (s *MongoStore) findAll(ctx context.Context, collection string, filter interface{}, out interface{}, opts ...*options.FindOptions) error {
	cursor, err := s.db.Collection(collection).Find(ctx, filter, opts...)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}
