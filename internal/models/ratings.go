package models

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RatingForUser returns the one rating a user has given an item, or
// ErrNoRecord if they have not rated it yet.
func (m *MongoDB) RatingForUser(ctx context.Context, id primitive.ObjectID, kind ItemKind, username string) (*Rating, error) {
	var r Rating
	filter := bson.M{"_assignedTo": id, "onModel": kind, "username": username}
	err := m.Ratings.FindOne(ctx, filter).Decode(&r)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoRecord
		}
		return nil, err
	}
	return &r, nil
}

// UpsertRating writes a rating keyed by (item, kind, username), replacing
// any earlier rating from the same user.
func (m *MongoDB) UpsertRating(ctx context.Context, r *Rating) error {
	filter := bson.M{"_assignedTo": r.AssignedTo, "onModel": r.OnModel, "username": r.Username}
	update := bson.M{"$set": bson.M{"rating": r.Rating, "date": r.Date}}
	opts := options.Update().SetUpsert(true)
	_, err := m.Ratings.UpdateOne(ctx, filter, update, opts)
	return err
}

func (m *MongoDB) RatingsForItem(ctx context.Context, id primitive.ObjectID, kind ItemKind) ([]*Rating, error) {
	var ratings []*Rating
	cur, err := m.Ratings.Find(ctx, bson.M{"_assignedTo": id, "onModel": kind})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	err = cur.All(ctx, &ratings)
	return ratings, err
}
