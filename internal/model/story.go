package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Story represents a generated story and, optionally, its translation.
type Story struct {
	ID              bson.ObjectID `bson:"_id,omitempty"`
	Topic           string        `bson:"topic"`
	OriginalStory   string        `bson:"original_story"`
	TranslatedStory string        `bson:"translated_story,omitempty"`
	Language        string        `bson:"language,omitempty"`
	UserID          bson.ObjectID `bson:"user_id"`
	CreatedAt       time.Time     `bson:"created_at"`
	UpdatedAt       time.Time     `bson:"updated_at"`
}
