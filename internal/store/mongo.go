package store

import (
	"context"
	"errors"
	"time"

	"github.com/uipafrica/evaluation-backend/internal/database"
	"github.com/uipafrica/evaluation-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection(database.EvaluationsCollection)}
}

// IsDup reports whether err is a unique-index violation, i.e. a collision on
// referenceNumber or token. The caller treats this as retryable.
func IsDup(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

func (s *MongoStore) Insert(ctx context.Context, eval *models.Evaluation) error {
	res, err := s.col.InsertOne(ctx, eval)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		eval.ID = oid
	}
	return nil
}

func (s *MongoStore) FindByToken(ctx context.Context, token string) (*models.Evaluation, error) {
	var eval models.Evaluation
	err := s.col.FindOne(ctx, bson.M{"token": token}).Decode(&eval)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &eval, nil
}

func (s *MongoStore) AcknowledgeByToken(ctx context.Context, token string, ack models.AcknowledgeRequest) (*models.Evaluation, error) {
	now := time.Now()
	update := bson.M{"$set": bson.M{
		"employeeComments":   ack.EmployeeComments,
		"signatureName":      ack.SignatureName,
		"signatureTimestamp": now,
		"acknowledged":       true,
		"updatedAt":          now,
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var eval models.Evaluation
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"token": token, "acknowledged": false},
		update, opts).Decode(&eval)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &eval, nil
}

// searchFindOptions strips the access token from admin result sets and
// returns results newest first.
func searchFindOptions() *options.FindOptions {
	return options.Find().
		SetProjection(bson.M{"token": 0}).
		SetSort(bson.M{"createdAt": -1})
}

func (s *MongoStore) Search(ctx context.Context, filters models.SearchFilters) ([]models.Evaluation, error) {
	cursor, err := s.col.Find(ctx, buildSearchFilter(filters), searchFindOptions())
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	evaluations := make([]models.Evaluation, 0)
	if err := cursor.All(ctx, &evaluations); err != nil {
		return nil, err
	}
	return evaluations, nil
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (*models.Evaluation, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrNotFound
	}

	opts := options.FindOne().SetProjection(bson.M{"token": 0})

	var eval models.Evaluation
	err = s.col.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&eval)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &eval, nil
}

// buildSearchFilter mirrors the admin dashboard queries: case-insensitive
// substring matches on name and department, start/end anchored review-period
// bounds (not interval overlap), and a general OR search over name,
// department and reference number. Field filters AND-combine with each other
// and with the OR group.
func buildSearchFilter(f models.SearchFilters) bson.M {
	query := bson.M{}

	if f.EmployeeName != "" {
		query["employeeName"] = bson.M{"$regex": f.EmployeeName, "$options": "i"}
	}

	if f.Department != "" {
		query["department"] = bson.M{"$regex": f.Department, "$options": "i"}
	}

	if f.ReviewPeriodFrom != nil {
		query["reviewPeriodFrom"] = bson.M{"$gte": *f.ReviewPeriodFrom}
	}
	if f.ReviewPeriodTo != nil {
		query["reviewPeriodTo"] = bson.M{"$lte": *f.ReviewPeriodTo}
	}

	if f.Search != "" {
		query["$or"] = []bson.M{
			{"employeeName": bson.M{"$regex": f.Search, "$options": "i"}},
			{"department": bson.M{"$regex": f.Search, "$options": "i"}},
			{"referenceNumber": bson.M{"$regex": f.Search, "$options": "i"}},
		}
	}

	return query
}
