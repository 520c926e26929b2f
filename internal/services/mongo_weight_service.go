package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/donteatkebab/backend/internal/models"
)

// MongoWeightService stores weight entries in the "weight_logs" collection.
// Resubmission for the same (user_id, log_date) overwrites.
type MongoWeightService struct {
	col *mongo.Collection
}

func NewMongoWeightService(ctx context.Context, db *mongo.Database) *MongoWeightService {
	col := db.Collection("weight_logs")

	// Best-effort unique index backing the upsert key.
	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "log_date", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return &MongoWeightService{col: col}
}

func (s *MongoWeightService) Upsert(ctx context.Context, userID string, date models.Date, weight float64) (*models.WeightLog, error) {
	filter := bson.M{"user_id": userID, "log_date": date.String()}

	_, err := s.col.UpdateOne(
		ctx,
		filter,
		bson.M{
			"$set":         bson.M{"weight": weight},
			"$setOnInsert": bson.M{"user_id": userID, "log_date": date.String()},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, err
	}

	var row models.WeightLog
	if err := s.col.FindOne(ctx, filter).Decode(&row); err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *MongoWeightService) ListByUser(ctx context.Context, userID string, start, end *models.Date) ([]models.WeightLog, error) {
	filter := bson.M{"user_id": userID}
	if start != nil || end != nil {
		bounds := bson.M{}
		if start != nil {
			bounds["$gte"] = start.String()
		}
		if end != nil {
			bounds["$lte"] = end.String()
		}
		filter["log_date"] = bounds
	}

	cur, err := s.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "log_date", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	logs := make([]models.WeightLog, 0)
	if err := cur.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (s *MongoWeightService) ListByDate(ctx context.Context, date models.Date) ([]models.WeightLog, error) {
	cur, err := s.col.Find(ctx, bson.M{"log_date": date.String()})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	logs := make([]models.WeightLog, 0)
	if err := cur.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
