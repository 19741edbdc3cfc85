// Package reviews implements the interaction layer shared by books and
// movies: resolving an item id against the two collections, submitting
// comments and ratings, and deleting items together with their comments.
package reviews

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/torozsom/MnB-ReviewSite/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrInvalidRating rejects rating values outside [1,5] before any write.
	ErrInvalidRating = errors.New("reviews: rating must be between 1 and 5")

	ErrMissingUsername = errors.New("reviews: username is required")
	ErrEmptyComment    = errors.New("reviews: comment text is required")
)

type itemStore interface {
	FindBook(ctx context.Context, id primitive.ObjectID) (*models.Book, error)
	FindMovie(ctx context.Context, id primitive.ObjectID) (*models.Movie, error)
	DeleteBook(ctx context.Context, id primitive.ObjectID) error
	DeleteMovie(ctx context.Context, id primitive.ObjectID) error
	SetItemRating(ctx context.Context, id primitive.ObjectID, kind models.ItemKind, average float64, count int) error
}

type commentStore interface {
	InsertComment(ctx context.Context, c *models.Comment) error
	CommentsForItem(ctx context.Context, id primitive.ObjectID, kind models.ItemKind) ([]*models.Comment, error)
	DeleteCommentsForItem(ctx context.Context, id primitive.ObjectID, kind models.ItemKind) (int64, error)
}

type ratingStore interface {
	RatingForUser(ctx context.Context, id primitive.ObjectID, kind models.ItemKind, username string) (*models.Rating, error)
	UpsertRating(ctx context.Context, r *models.Rating) error
	RatingsForItem(ctx context.Context, id primitive.ObjectID, kind models.ItemKind) ([]*models.Rating, error)
}

// Service is the review-site core. The storage handles are injected so the
// same logic runs against Mongo in production and in-memory fakes in tests.
type Service struct {
	items    itemStore
	comments commentStore
	ratings  ratingStore
	infoLog  *log.Logger
	errorLog *log.Logger
}

func New(items itemStore, comments commentStore, ratings ratingStore, infoLog, errorLog *log.Logger) *Service {
	return &Service{
		items:    items,
		comments: comments,
		ratings:  ratings,
		infoLog:  infoLog,
		errorLog: errorLog,
	}
}

// Resolve finds the item an id refers to. Books are checked before movies
// at every call site; keep that order. A miss on both collections is
// models.ErrNoRecord; storage failures are returned untouched so callers
// never mistake an outage for a missing item.
func (s *Service) Resolve(ctx context.Context, id string) (*models.Item, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrNoRecord
	}

	book, err := s.items.FindBook(ctx, oid)
	if err == nil {
		return book.Item(), nil
	}
	if !errors.Is(err, models.ErrNoRecord) {
		return nil, err
	}

	movie, err := s.items.FindMovie(ctx, oid)
	if err != nil {
		return nil, err
	}
	return movie.Item(), nil
}

// ItemDetails is everything the details page needs: the item, its comments
// newest first, and the viewer's own rating (0 when anonymous or unrated).
type ItemDetails struct {
	Item       *models.Item
	Comments   []*models.Comment
	UserRating int
}

// Details resolves an item and loads its comments and the viewer's prior
// rating. Failures loading comments or the viewer's rating degrade to an
// empty list / zero and are logged; a resolver failure does not.
func (s *Service) Details(ctx context.Context, id, username string) (*ItemDetails, error) {
	item, err := s.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}

	d := &ItemDetails{Item: item}

	comments, err := s.comments.CommentsForItem(ctx, item.ID, item.Kind)
	if err != nil {
		s.errorLog.Printf("loading comments for %s %s: %v", item.Kind, id, err)
	} else {
		d.Comments = comments
	}

	if username != "" {
		r, err := s.ratings.RatingForUser(ctx, item.ID, item.Kind, username)
		switch {
		case err == nil:
			d.UserRating = r.Rating
		case !errors.Is(err, models.ErrNoRecord):
			s.errorLog.Printf("loading rating of %q for %s %s: %v", username, item.Kind, id, err)
		}
	}
	return d, nil
}

// SubmitRating stores a user's rating of an item, replacing any earlier
// rating from the same user, and recomputes the item's aggregate. The
// returned item carries the fresh average and count.
func (s *Service) SubmitRating(ctx context.Context, id, username string, value int) (*models.Item, error) {
	if username == "" {
		return nil, ErrMissingUsername
	}
	if value < 1 || value > 5 {
		return nil, ErrInvalidRating
	}

	item, err := s.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}

	r := &models.Rating{
		Username:   username,
		Rating:     value,
		Date:       time.Now(),
		AssignedTo: item.ID,
		OnModel:    item.Kind,
	}
	if err := s.ratings.UpsertRating(ctx, r); err != nil {
		return nil, err
	}

	// Read-all, recompute, write-back. Two concurrent submissions for the
	// same item can interleave here and the later aggregate write wins;
	// the earlier one is lost. Accepted at this system's load.
	average, count, err := s.recomputeAggregate(ctx, item.ID, item.Kind)
	if err != nil {
		return nil, err
	}
	if err := s.items.SetItemRating(ctx, item.ID, item.Kind, average, count); err != nil {
		return nil, err
	}

	item.AverageRating = average
	item.RatingCount = count
	return item, nil
}

func (s *Service) recomputeAggregate(ctx context.Context, id primitive.ObjectID, kind models.ItemKind) (float64, int, error) {
	ratings, err := s.ratings.RatingsForItem(ctx, id, kind)
	if err != nil {
		return 0, 0, err
	}
	if len(ratings) == 0 {
		return 0, 0, nil
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Rating
	}
	return float64(sum) / float64(len(ratings)), len(ratings), nil
}

// AddComment attaches a comment to whichever item the id resolves to.
func (s *Service) AddComment(ctx context.Context, id, username, text string) error {
	if username == "" {
		return ErrMissingUsername
	}
	if strings.TrimSpace(text) == "" {
		return ErrEmptyComment
	}

	item, err := s.Resolve(ctx, id)
	if err != nil {
		return err
	}

	return s.comments.InsertComment(ctx, &models.Comment{
		Username:   username,
		Text:       text,
		Date:       time.Now(),
		AssignedTo: item.ID,
		OnModel:    item.Kind,
	})
}

// Delete removes an item and cascades its comments, reporting which
// collection matched. The item deletion is authoritative: a failed comment
// cascade is logged and leaves orphans rather than rolling back. Ratings
// are left in place and go stale with the item.
func (s *Service) Delete(ctx context.Context, id string) (models.ItemKind, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return "", models.ErrNoRecord
	}

	kind := models.KindBook
	err = s.items.DeleteBook(ctx, oid)
	if errors.Is(err, models.ErrNoRecord) {
		kind = models.KindMovie
		err = s.items.DeleteMovie(ctx, oid)
	}
	if err != nil {
		return "", err
	}

	n, err := s.comments.DeleteCommentsForItem(ctx, oid, kind)
	if err != nil {
		s.errorLog.Printf("deleting comments for %s %s: %v", kind, id, err)
	} else {
		s.infoLog.Printf("deleted %s %s and %d comments", kind, id, n)
	}
	return kind, nil
}
