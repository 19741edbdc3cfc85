package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNoRecord is returned when a lookup matches nothing. Callers must not
// confuse it with storage failures, which are returned as-is.
var ErrNoRecord = errors.New("models: no matching record found")

// ItemKind discriminates which collection a polymorphic reference targets.
type ItemKind string

const (
	KindBook  ItemKind = "Book"
	KindMovie ItemKind = "Movie"
)

// Image is a cover image stored inline on an item.
type Image struct {
	Data        []byte `bson:"data,omitempty"`
	ContentType string `bson:"contentType,omitempty"`
}

type Book struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Title         string             `bson:"title"`
	Author        string             `bson:"author"`
	ReleaseYear   int                `bson:"releaseYear"`
	Description   string             `bson:"description"`
	Image         Image              `bson:"image,omitempty"`
	AverageRating float64            `bson:"averageRating"`
	RatingCount   int                `bson:"ratingCount"`
}

type Movie struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Title         string             `bson:"title"`
	Director      string             `bson:"director"`
	ReleaseYear   int                `bson:"releaseYear"`
	Description   string             `bson:"description"`
	Image         Image              `bson:"image,omitempty"`
	AverageRating float64            `bson:"averageRating"`
	RatingCount   int                `bson:"ratingCount"`
}

// Item is the unified view of a book or movie. Books and movies live in
// disjoint collections but share the same interaction surface (comments,
// ratings), so everything downstream of the resolver works on Item.
type Item struct {
	ID            primitive.ObjectID
	Kind          ItemKind
	Title         string
	Creator       string
	ReleaseYear   int
	Description   string
	Image         Image
	AverageRating float64
	RatingCount   int
}

func (b *Book) Item() *Item {
	return &Item{
		ID:            b.ID,
		Kind:          KindBook,
		Title:         b.Title,
		Creator:       b.Author,
		ReleaseYear:   b.ReleaseYear,
		Description:   b.Description,
		Image:         b.Image,
		AverageRating: b.AverageRating,
		RatingCount:   b.RatingCount,
	}
}

func (m *Movie) Item() *Item {
	return &Item{
		ID:            m.ID,
		Kind:          KindMovie,
		Title:         m.Title,
		Creator:       m.Director,
		ReleaseYear:   m.ReleaseYear,
		Description:   m.Description,
		Image:         m.Image,
		AverageRating: m.AverageRating,
		RatingCount:   m.RatingCount,
	}
}

func (i *Item) HasImage() bool {
	return len(i.Image.Data) > 0
}

// Comment references its item through the (AssignedTo, OnModel) pair.
type Comment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Username   string             `bson:"username"`
	Text       string             `bson:"text"`
	Date       time.Time          `bson:"date"`
	AssignedTo primitive.ObjectID `bson:"_assignedTo"`
	OnModel    ItemKind           `bson:"onModel"`
}

// Rating is one user's rating of one item. At most one row exists per
// (AssignedTo, OnModel, Username) triple; the upsert in SaveRating keeps
// that invariant, there is no database-level constraint behind it.
type Rating struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Username   string             `bson:"username"`
	Rating     int                `bson:"rating"`
	Date       time.Time          `bson:"date"`
	AssignedTo primitive.ObjectID `bson:"_assignedTo"`
	OnModel    ItemKind           `bson:"onModel"`
}

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	CreatedAt    time.Time          `bson:"created_at"`
}
