package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/oykulab/masal-api/internal/model"
)

// StoryRepository defines the interface for story-related database operations.
type StoryRepository interface {
	CreateStory(ctx context.Context, story *model.Story) (*model.Story, error)
	GetStory(ctx context.Context, id string) (*model.Story, error)

	// ListStoriesByUser returns the user's stories, newest first.
	ListStoriesByUser(ctx context.Context, userID bson.ObjectID) ([]*model.Story, error)

	// SetTranslation stores the translated text and target language on the story.
	SetTranslation(ctx context.Context, id string, translated string, language string) (*model.Story, error)

	DeleteStory(ctx context.Context, id string) error
}

const storyCollection = "stories"

type storyMongoRepository struct {
	db *mongo.Database
}

// NewStoryMongoRepository creates a MongoDB-backed StoryRepository.
func NewStoryMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) StoryRepository {
	collection := db.Collection(storyCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create story indexes")
	}

	return &storyMongoRepository{db: db}
}

func (r *storyMongoRepository) CreateStory(ctx context.Context, story *model.Story) (*model.Story, error) {
	now := time.Now()
	story.CreatedAt = now
	story.UpdatedAt = now

	result, err := r.db.Collection(storyCollection).InsertOne(ctx, story)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		story.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return story, nil
}

func (r *storyMongoRepository) GetStory(ctx context.Context, id string) (*model.Story, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	result := r.db.Collection(storyCollection).FindOne(ctx, bson.M{"_id": objectID})

	var story model.Story
	if err := result.Decode(&story); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &story, nil
}

func (r *storyMongoRepository) ListStoriesByUser(
	ctx context.Context,
	userID bson.ObjectID,
) ([]*model.Story, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.db.Collection(storyCollection).Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stories []*model.Story
	for cursor.Next(ctx) {
		var story model.Story
		if err := cursor.Decode(&story); err != nil {
			return nil, err
		}
		stories = append(stories, &story)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return stories, nil
}

func (r *storyMongoRepository) SetTranslation(
	ctx context.Context,
	id string,
	translated string,
	language string,
) (*model.Story, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	result := r.db.Collection(storyCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{
			"translated_story": translated,
			"language":         language,
			"updated_at":       time.Now(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var story model.Story
	if err := result.Decode(&story); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &story, nil
}

func (r *storyMongoRepository) DeleteStory(ctx context.Context, id string) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	result, err := r.db.Collection(storyCollection).DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}
