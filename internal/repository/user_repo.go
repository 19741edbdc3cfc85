package repository

import (
	"context"
	"errors"
	"time"

	"github.com/torozsom/MnB-ReviewSite/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrDuplicateUser      = errors.New("repository: username or email already taken")
	ErrInvalidCredentials = errors.New("repository: invalid username or password")
)

type UserRepository struct {
	Collection *mongo.Collection
}

// Insert registers a new user with a bcrypt-hashed password. Uniqueness of
// username and email is checked with a single $or lookup first.
func (m *UserRepository) Insert(ctx context.Context, username, email, password string) error {
	filter := bson.M{"$or": []bson.M{{"username": username}, {"email": email}}}
	err := m.Collection.FindOne(ctx, filter).Err()
	if err == nil {
		return ErrDuplicateUser
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return err
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		CreatedAt:    time.Now(),
	}
	_, err = m.Collection.InsertOne(ctx, user)
	return err
}

// Authenticate verifies a username/password pair. Unknown users and wrong
// passwords both come back as ErrInvalidCredentials.
func (m *UserRepository) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	var user models.User
	err := m.Collection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	return user, nil
}
