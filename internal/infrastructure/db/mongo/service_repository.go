package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/salonbook/booking-api/internal/core/domain"
	"github.com/salonbook/booking-api/internal/core/ports"
)

const servicesCollection = "services"

type ServiceRepository struct {
	coll *mongo.Collection
}

func NewServiceRepository(db *mongo.Database) *ServiceRepository {
	return &ServiceRepository{coll: db.Collection(servicesCollection)}
}

type mongoService struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Name            string             `bson:"name"`
	Price           float64            `bson:"price"`
	DurationMinutes int                `bson:"duration"`
}

func (ms *mongoService) toDomain() *domain.Service {
	return &domain.Service{
		ID:              ms.ID.Hex(),
		Name:            ms.Name,
		Price:           ms.Price,
		DurationMinutes: ms.DurationMinutes,
	}
}

func (r *ServiceRepository) FindByID(ctx context.Context, id string) (*domain.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrServiceNotFound
	}

	var ms mongoService
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&ms); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrServiceNotFound
		}
		return nil, fmt.Errorf("find service: %w", err)
	}
	return ms.toDomain(), nil
}

func (r *ServiceRepository) List(ctx context.Context, skip, limit int) ([]*domain.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer cursor.Close(ctx)

	items := make([]*domain.Service, 0, limit)
	for cursor.Next(ctx) {
		var ms mongoService
		if err := cursor.Decode(&ms); err != nil {
			return nil, fmt.Errorf("decode service: %w", err)
		}
		items = append(items, ms.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return items, nil
}

func (r *ServiceRepository) Create(ctx context.Context, s *domain.Service) (*domain.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoService{
		Name:            s.Name,
		Price:           s.Price,
		DurationMinutes: s.DurationMinutes,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert service: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *ServiceRepository) UpdateByID(ctx context.Context, id string, patch ports.ServicePatch) (*domain.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrServiceNotFound
	}

	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.DurationMinutes != nil {
		set["duration"] = *patch.DurationMinutes
	}
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var ms mongoService
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&ms)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrServiceNotFound
		}
		return nil, fmt.Errorf("update service: %w", err)
	}
	return ms.toDomain(), nil
}

func (r *ServiceRepository) DeleteByID(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrServiceNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrServiceNotFound
	}
	return nil
}
