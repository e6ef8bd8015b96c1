package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Jayeshfarkunde27/To-let/internal/platform/logger"
	"github.com/Jayeshfarkunde27/To-let/internal/user/entity"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrDuplicateEmail = errors.New("email already exists")
	ErrUserNotFound   = errors.New("user not found")
)

type mongoUser struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	Name      string             `bson:"name"`
	Password  string             `bson:"password"`
	Role      entity.Role        `bson:"role"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (m *mongoUser) toEntity() *entity.User {
	return &entity.User{
		ID:        m.ID.Hex(),
		Email:     m.Email,
		Name:      m.Name,
		Password:  m.Password,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type UserRepository struct {
	db     *mongo.Database
	redis  *redis.Client
	logger *logger.Logger
}

func NewUserRepository(db *mongo.Database, rds *redis.Client, log *logger.Logger) *UserRepository {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Ensure indexes (idempotent operation)
	userCollection := db.Collection("users")
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := userCollection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Warn("Failed to create indexes for users collection (may already exist)", zap.Error(err))
	}

	return &UserRepository{
		db:     db,
		redis:  rds,
		logger: log.Named("UserRepository"),
	}
}

// CreateUser hashes the password and inserts the profile. The assigned ID is
// written back to user.ID.
func (r *UserRepository) CreateUser(ctx context.Context, user *entity.User) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		r.logger.Error("Failed to hash password during user creation", zap.String("email", user.Email), zap.Error(err))
		return err
	}

	now := time.Now()
	dbUser := &mongoUser{
		ID:        primitive.NewObjectID(),
		Email:     user.Email,
		Name:      user.Name,
		Password:  string(hashedPassword),
		Role:      user.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.db.Collection("users").InsertOne(ctx, dbUser); err != nil {
		var writeException mongo.WriteException
		if errors.As(err, &writeException) {
			for _, writeError := range writeException.WriteErrors {
				if writeError.Code == 11000 && strings.Contains(writeError.Message, "email_1") {
					r.logger.Warn("Duplicate email during user creation", zap.String("email", user.Email))
					return ErrDuplicateEmail
				}
			}
		}
		r.logger.Error("Database error during user creation", zap.String("email", user.Email), zap.Error(err))
		return err
	}

	user.ID = dbUser.ID.Hex()
	user.Password = dbUser.Password
	user.CreatedAt = now
	user.UpdatedAt = now
	r.logger.Info("User created", zap.String("user_id", user.ID))
	return nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	var dbUser mongoUser
	err := r.db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&dbUser)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		r.logger.Error("Database error fetching user by email", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	return dbUser.toEntity(), nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, userID string) (*entity.User, error) {
	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	var dbUser mongoUser
	err = r.db.Collection("users").FindOne(ctx, bson.M{"_id": objectID}).Decode(&dbUser)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		r.logger.Error("Database error fetching user by ID", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return dbUser.toEntity(), nil
}

// GetEmail resolves a user's email address, for notification senders.
func (r *UserRepository) GetEmail(ctx context.Context, userID string) (string, error) {
	user, err := r.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Email, nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, userID string, role entity.Role) error {
	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ErrUserNotFound
	}

	update := bson.M{
		"$set": bson.M{
			"role":       role,
			"updated_at": time.Now(),
		},
	}
	result, err := r.db.Collection("users").UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		r.logger.Error("Database error updating role", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}
	r.logger.Info("User role set", zap.String("user_id", userID), zap.String("role", string(role)))
	return nil
}

// CacheToken stores a session token in Redis.
func (r *UserRepository) CacheToken(ctx context.Context, userID, token string, expiration time.Duration) error {
	return r.redis.Set(ctx, "token:"+userID, token, expiration).Err()
}

// InvalidateToken removes a session token from Redis.
func (r *UserRepository) InvalidateToken(ctx context.Context, userID string) error {
	return r.redis.Del(ctx, "token:"+userID).Err()
}

// GetToken retrieves a cached session token. A missing token is not an error.
func (r *UserRepository) GetToken(ctx context.Context, userID string) (string, error) {
	token, err := r.redis.Get(ctx, "token:"+userID).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return token, err
}
