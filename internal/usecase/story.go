package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/oykulab/masal-api/internal/model"
	"github.com/oykulab/masal-api/internal/openrouter"
	"github.com/oykulab/masal-api/internal/repository"
)

// StoryUsecase defines the business logic for generating, translating and
// managing stories.
type StoryUsecase interface {
	Generate(ctx context.Context, userID bson.ObjectID, topic string) (*model.Story, error)
	Translate(ctx context.Context, params TranslateParams) (*model.Story, error)
	List(ctx context.Context, userID bson.ObjectID) ([]*model.Story, error)
	Get(ctx context.Context, id string) (*model.Story, error)
	Delete(ctx context.Context, userID bson.ObjectID, id string) error
}

// TranslateParams defines the parameters for translating a story.
type TranslateParams struct {
	StoryID  string
	Story    string
	Language string
}

var (
	ErrStoryNotFound       = errors.New("story not found")
	ErrNotStoryOwner       = errors.New("story belongs to another user")
	ErrUnsupportedLanguage = errors.New("unsupported translation language")
)

const generatePrompt = "Bir çocuk için, konusu '%s' olan, hayal gücünü geliştiren, sürükleyici ve anlamlı " +
	"bir hikaye yaz. Hikaye, başlangıcı, gelişmesi ve bir sonucu olan net bir olay örgüsüne sahip olmalı. " +
	"Karakterler ilgi çekici ve olaylar çocuklar için anlaşılır olmalı. Hikayenin sonunda küçük bir ders " +
	"veya pozitif bir mesaj içermesi harika olur. Lütfen hikayeyi en fazla 300 kelime olacak şekilde oluştur."

const translatePrompt = "Translate the following Turkish story to %s at an A1/A2 level for a child. " +
	"Keep the meaning and tone of the original story. Story: %s"

var supportedLanguages = map[string]bool{
	"english": true,
	"french":  true,
}

type storyUsecase struct {
	storyRepo repository.StoryRepository
	completer openrouter.Completer
}

// NewStoryUsecase creates a new instance of StoryUsecase.
func NewStoryUsecase(storyRepo repository.StoryRepository, completer openrouter.Completer) StoryUsecase {
	return &storyUsecase{
		storyRepo: storyRepo,
		completer: completer,
	}
}

func (u *storyUsecase) Generate(ctx context.Context, userID bson.ObjectID, topic string) (*model.Story, error) {
	text, err := u.completer.Complete(ctx, fmt.Sprintf(generatePrompt, topic))
	if err != nil {
		return nil, err
	}

	return u.storyRepo.CreateStory(ctx, &model.Story{
		Topic:         topic,
		OriginalStory: text,
		UserID:        userID,
	})
}

func (u *storyUsecase) Translate(ctx context.Context, params TranslateParams) (*model.Story, error) {
	language := strings.ToLower(params.Language)
	if !supportedLanguages[language] {
		return nil, ErrUnsupportedLanguage
	}

	text, err := u.completer.Complete(ctx, fmt.Sprintf(translatePrompt, language, params.Story))
	if err != nil {
		return nil, err
	}

	story, err := u.storyRepo.SetTranslation(ctx, params.StoryID, text, language)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStoryNotFound
		}
		return nil, err
	}

	return story, nil
}

func (u *storyUsecase) List(ctx context.Context, userID bson.ObjectID) ([]*model.Story, error) {
	return u.storyRepo.ListStoriesByUser(ctx, userID)
}

func (u *storyUsecase) Get(ctx context.Context, id string) (*model.Story, error) {
	story, err := u.storyRepo.GetStory(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStoryNotFound
		}
		return nil, err
	}

	return story, nil
}

func (u *storyUsecase) Delete(ctx context.Context, userID bson.ObjectID, id string) error {
	story, err := u.storyRepo.GetStory(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrStoryNotFound
		}
		return err
	}

	if story.UserID != userID {
		return ErrNotStoryOwner
	}

	if err := u.storyRepo.DeleteStory(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrStoryNotFound
		}
		return err
	}

	return nil
}
