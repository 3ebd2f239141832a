package handler

import (
	"time"

	"github.com/oykulab/masal-api/internal/model"
)

type RegisterRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

type AuthResponse struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type GenerateStoryRequest struct {
	Topic string `json:"topic" validate:"required"`
}

type GenerateStoryResponse struct {
	Story   string `json:"story"`
	StoryID string `json:"storyId"`
}

type TranslateStoryRequest struct {
	StoryID  string `json:"storyId"  validate:"required"`
	Story    string `json:"story"    validate:"required"`
	Language string `json:"language" validate:"required"`
}

type TranslateStoryResponse struct {
	TranslatedStory string `json:"translatedStory"`
}

type StoryResponse struct {
	ID              string    `json:"_id"`
	Topic           string    `json:"topic"`
	OriginalStory   string    `json:"originalStory"`
	TranslatedStory string    `json:"translatedStory,omitempty"`
	Language        string    `json:"language,omitempty"`
	User            string    `json:"user"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func newStoryResponse(story *model.Story) StoryResponse {
	return StoryResponse{
		ID:              story.ID.Hex(),
		Topic:           story.Topic,
		OriginalStory:   story.OriginalStory,
		TranslatedStory: story.TranslatedStory,
		Language:        story.Language,
		User:            story.UserID.Hex(),
		CreatedAt:       story.CreatedAt,
		UpdatedAt:       story.UpdatedAt,
	}
}
