package models

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB holds the collection handles for the whole site. Each component
// receives this store (or a narrow interface over it) explicitly.
type MongoDB struct {
	Books    *mongo.Collection
	Movies   *mongo.Collection
	Comments *mongo.Collection
	Ratings  *mongo.Collection
	Users    *mongo.Collection
}

func NewMongoDB(db *mongo.Database) *MongoDB {
	return &MongoDB{
		Books:    db.Collection("books"),
		Movies:   db.Collection("movies"),
		Comments: db.Collection("comments"),
		Ratings:  db.Collection("ratings"),
		Users:    db.Collection("users"),
	}
}

func (m *MongoDB) FindBook(ctx context.Context, id primitive.ObjectID) (*Book, error) {
	var b Book
	err := m.Books.FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoRecord
		}
		return nil, err
	}
	return &b, nil
}

func (m *MongoDB) FindMovie(ctx context.Context, id primitive.ObjectID) (*Movie, error) {
	var mv Movie
	err := m.Movies.FindOne(ctx, bson.M{"_id": id}).Decode(&mv)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoRecord
		}
		return nil, err
	}
	return &mv, nil
}

func (m *MongoDB) InsertBook(ctx context.Context, b *Book) error {
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	_, err := m.Books.InsertOne(ctx, b)
	return err
}

func (m *MongoDB) InsertMovie(ctx context.Context, mv *Movie) error {
	if mv.ID.IsZero() {
		mv.ID = primitive.NewObjectID()
	}
	_, err := m.Movies.InsertOne(ctx, mv)
	return err
}

// UpdateBook overwrites the editable fields of an existing book. The image
// is only replaced when a new one was uploaded.
func (m *MongoDB) UpdateBook(ctx context.Context, id primitive.ObjectID, b *Book, replaceImage bool) error {
	set := bson.M{
		"title":       b.Title,
		"author":      b.Author,
		"releaseYear": b.ReleaseYear,
		"description": b.Description,
	}
	if replaceImage {
		set["image"] = b.Image
	}
	res, err := m.Books.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNoRecord
	}
	return nil
}

func (m *MongoDB) UpdateMovie(ctx context.Context, id primitive.ObjectID, mv *Movie, replaceImage bool) error {
	set := bson.M{
		"title":       mv.Title,
		"director":    mv.Director,
		"releaseYear": mv.ReleaseYear,
		"description": mv.Description,
	}
	if replaceImage {
		set["image"] = mv.Image
	}
	res, err := m.Movies.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNoRecord
	}
	return nil
}

// DeleteBook removes a book if present. ErrNoRecord means the id matched
// nothing in the books collection.
func (m *MongoDB) DeleteBook(ctx context.Context, id primitive.ObjectID) error {
	res, err := m.Books.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNoRecord
	}
	return nil
}

func (m *MongoDB) DeleteMovie(ctx context.Context, id primitive.ObjectID) error {
	res, err := m.Movies.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNoRecord
	}
	return nil
}

// SetItemRating persists the recomputed aggregate onto the item document.
func (m *MongoDB) SetItemRating(ctx context.Context, id primitive.ObjectID, kind ItemKind, average float64, count int) error {
	coll := m.Books
	if kind == KindMovie {
		coll = m.Movies
	}
	update := bson.M{"$set": bson.M{"averageRating": average, "ratingCount": count}}
	res, err := coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNoRecord
	}
	return nil
}

// SearchBooks lists books, optionally filtered by a case-insensitive
// search over title and author.
func (m *MongoDB) SearchBooks(ctx context.Context, search string) ([]*Book, error) {
	var books []*Book
	cur, err := m.Books.Find(ctx, searchFilter(search, "title", "author"))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	err = cur.All(ctx, &books)
	return books, err
}

func (m *MongoDB) SearchMovies(ctx context.Context, search string) ([]*Movie, error) {
	var movies []*Movie
	cur, err := m.Movies.Find(ctx, searchFilter(search, "title", "director"))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	err = cur.All(ctx, &movies)
	return movies, err
}

func searchFilter(search string, fields ...string) bson.M {
	if search == "" {
		return bson.M{}
	}
	or := make([]bson.M, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: bson.M{"$regex": search, "$options": "i"}})
	}
	return bson.M{"$or": or}
}
