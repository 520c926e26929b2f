package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/donteatkebab/backend/internal/models"
)

// MongoProfileService stores profiles in the "profiles" collection, keyed
// by the identity provider's user ID as _id.
type MongoProfileService struct {
	col *mongo.Collection
}

func NewMongoProfileService(db *mongo.Database) *MongoProfileService {
	return &MongoProfileService{col: db.Collection("profiles")}
}

func usernameFromEmail(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}

func (s *MongoProfileService) GetOrCreate(ctx context.Context, userID, email string) (*models.Profile, error) {
	var prof models.Profile
	err := s.col.FindOne(ctx, bson.M{"_id": userID}).Decode(&prof)
	if err == nil {
		return &prof, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	prof = models.Profile{
		ID:        userID,
		Email:     email,
		Username:  usernameFromEmail(email),
		FullName:  "",
		AvatarURL: nil,
		UpdatedAt: time.Now().UTC(),
	}
	if _, err := s.col.InsertOne(ctx, prof); err != nil {
		// If a race created it, fetch again.
		var retry models.Profile
		if err2 := s.col.FindOne(ctx, bson.M{"_id": userID}).Decode(&retry); err2 == nil {
			return &retry, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrProfileCreateFailed, err)
	}
	return &prof, nil
}

func (s *MongoProfileService) Upsert(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.Profile, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if req.Username != nil {
		set["username"] = *req.Username
	}
	if req.FullName != nil {
		set["full_name"] = *req.FullName
	}
	if req.AvatarURL != nil {
		set["avatar_url"] = *req.AvatarURL
	}

	_, err := s.col.UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$set": set},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, err
	}

	var prof models.Profile
	if err := s.col.FindOne(ctx, bson.M{"_id": userID}).Decode(&prof); err != nil {
		return nil, err
	}
	return &prof, nil
}

func (s *MongoProfileService) SetAvatarURL(ctx context.Context, userID, url string) error {
	_, err := s.col.UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"avatar_url": url, "updated_at": time.Now().UTC()}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (s *MongoProfileService) ListAll(ctx context.Context) ([]models.Profile, error) {
	cur, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	profiles := make([]models.Profile, 0)
	if err := cur.All(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}
