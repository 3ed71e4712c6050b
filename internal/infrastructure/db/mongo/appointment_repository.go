package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/salonbook/booking-api/internal/core/domain"
	"github.com/salonbook/booking-api/internal/core/ports"
)

const appointmentsCollection = "appointments"

type AppointmentRepository struct {
	coll *mongo.Collection
}

func NewAppointmentRepository(db *mongo.Database) *AppointmentRepository {
	return &AppointmentRepository{coll: db.Collection(appointmentsCollection)}
}

type mongoAppointment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	ServiceID string             `bson:"service_id"`
	Date      string             `bson:"date"`
	Time      string             `bson:"time"`
	Status    string             `bson:"status"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (ma *mongoAppointment) toDomain() *domain.Appointment {
	return &domain.Appointment{
		ID:        ma.ID.Hex(),
		UserID:    ma.UserID,
		ServiceID: ma.ServiceID,
		Date:      ma.Date,
		Time:      ma.Time,
		Status:    domain.AppointmentStatus(ma.Status),
		CreatedAt: ma.CreatedAt,
		UpdatedAt: ma.UpdatedAt,
	}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoAppointment{
		UserID:    a.UserID,
		ServiceID: a.ServiceID,
		Date:      a.Date,
		Time:      a.Time,
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt.UTC(),
		UpdatedAt: a.UpdatedAt.UTC(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		// the (user_id, date, time) unique index settled a create race
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrBookingConflict
		}
		return nil, fmt.Errorf("insert appointment: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id string) (*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.NewValidationError("id", "invalid appointment ID")
	}

	var ma mongoAppointment
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("find appointment: %w", err)
	}
	return ma.toDomain(), nil
}

// FindConflict looks up the caller's non-cancelled appointment at the exact
// (date, time) slot.
func (r *AppointmentRepository) FindConflict(ctx context.Context, userID, date, timeOfDay string) (*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"user_id": userID,
		"date":    date,
		"time":    timeOfDay,
		"status":  bson.M{"$ne": string(domain.StatusCancelled)},
	}

	var ma mongoAppointment
	if err := r.coll.FindOne(ctx, filter).Decode(&ma); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("find conflict: %w", err)
	}
	return ma.toDomain(), nil
}

func (r *AppointmentRepository) List(ctx context.Context, skip, limit int) ([]*domain.Appointment, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count appointments: %w", err)
	}

	opts := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list appointments: %w", err)
	}
	defer cursor.Close(ctx)

	items := make([]*domain.Appointment, 0, limit)
	for cursor.Next(ctx) {
		var ma mongoAppointment
		if err := cursor.Decode(&ma); err != nil {
			return nil, 0, fmt.Errorf("decode appointment: %w", err)
		}
		items = append(items, ma.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("list appointments: %w", err)
	}
	return items, total, nil
}

// UpdateByID applies the patch and returns the updated document. The status
// enum and time shape are re-checked here so a caller bypassing the service
// layer cannot write a malformed document.
func (r *AppointmentRepository) UpdateByID(ctx context.Context, id string, patch ports.AppointmentPatch) (*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.NewValidationError("id", "invalid appointment ID")
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.ServiceID != nil {
		set["service_id"] = *patch.ServiceID
	}
	if patch.Date != nil {
		set["date"] = *patch.Date
	}
	if patch.Time != nil {
		if !timePatternOK(*patch.Time) {
			return nil, domain.NewValidationError("time", "must match the 24-hour HH:MM format")
		}
		set["time"] = *patch.Time
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, domain.NewValidationError("status", "must be one of Pending, Confirmed, Cancelled")
		}
		set["status"] = string(*patch.Status)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var ma mongoAppointment
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&ma)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAppointmentNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrBookingConflict
		}
		return nil, fmt.Errorf("update appointment: %w", err)
	}
	return ma.toDomain(), nil
}

func (r *AppointmentRepository) DeleteByID(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.NewValidationError("id", "invalid appointment ID")
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAppointmentNotFound
	}
	return nil
}

// EnsureIndexes creates the authoritative no-double-booking constraint: a
// unique (user_id, date, time) index scoped to non-cancelled appointments.
func (r *AppointmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "date", Value: 1},
				{Key: "time", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"status": bson.M{"$in": []string{
						string(domain.StatusPending),
						string(domain.StatusConfirmed),
					}},
				}),
		},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func timePatternOK(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	hh := int(s[0]-'0')*10 + int(s[1]-'0')
	mm := int(s[3]-'0')*10 + int(s[4]-'0')
	return hh < 24 && mm < 60
}
