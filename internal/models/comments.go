package models

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *MongoDB) InsertComment(ctx context.Context, c *Comment) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	_, err := m.Comments.InsertOne(ctx, c)
	return err
}

// CommentsForItem returns an item's comments, newest first.
func (m *MongoDB) CommentsForItem(ctx context.Context, id primitive.ObjectID, kind ItemKind) ([]*Comment, error) {
	var comments []*Comment
	filter := bson.M{"_assignedTo": id, "onModel": kind}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := m.Comments.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	err = cur.All(ctx, &comments)
	return comments, err
}

// DeleteCommentsForItem removes every comment referencing the item and
// reports how many were removed.
func (m *MongoDB) DeleteCommentsForItem(ctx context.Context, id primitive.ObjectID, kind ItemKind) (int64, error) {
	res, err := m.Comments.DeleteMany(ctx, bson.M{"_assignedTo": id, "onModel": kind})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
