package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/oykulab/masal-api/internal/mailer"
	"github.com/oykulab/masal-api/internal/model"
	"github.com/oykulab/masal-api/internal/repository"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*model.User)}
}

func (r *memUserRepo) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, repository.ErrDuplicateEmail
		}
	}
	user.ID = bson.NewObjectID()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	u := *user
	r.users[user.ID.Hex()] = &u
	return user, nil
}

func (r *memUserRepo) GetUser(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u2 := *u
	return &u2, nil
}

func (r *memUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			u2 := *u
			return &u2, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) SetPasswordReset(_ context.Context, id, tokenHash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordResetToken = tokenHash
	u.PasswordResetExpires = expiresAt
	u.UpdatedAt = time.Now()
	return nil
}

func (r *memUserRepo) ConsumePasswordReset(_ context.Context, tokenHash, passwordHash string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.PasswordResetToken == tokenHash && u.PasswordResetExpires.After(time.Now()) {
			u.PasswordHash = passwordHash
			u.PasswordResetToken = ""
			u.PasswordResetExpires = time.Time{}
			u.UpdatedAt = time.Now()
			u2 := *u
			return &u2, nil
		}
	}
	return nil, repository.ErrNotFound
}

type memStoryRepo struct {
	mu      sync.Mutex
	stories map[string]*model.Story
}

func newMemStoryRepo() *memStoryRepo {
	return &memStoryRepo{stories: make(map[string]*model.Story)}
}

func (r *memStoryRepo) CreateStory(_ context.Context, story *model.Story) (*model.Story, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	story.ID = bson.NewObjectID()
	now := time.Now()
	story.CreatedAt = now
	story.UpdatedAt = now
	s := *story
	r.stories[story.ID.Hex()] = &s
	return story, nil
}

func (r *memStoryRepo) GetStory(_ context.Context, id string) (*model.Story, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	s2 := *s
	return &s2, nil
}

func (r *memStoryRepo) ListStoriesByUser(_ context.Context, userID bson.ObjectID) ([]*model.Story, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var stories []*model.Story
	for _, s := range r.stories {
		if s.UserID == userID {
			s2 := *s
			stories = append(stories, &s2)
		}
	}
	sort.Slice(stories, func(i, j int) bool {
		return stories[i].CreatedAt.After(stories[j].CreatedAt)
	})
	return stories, nil
}

func (r *memStoryRepo) SetTranslation(_ context.Context, id, translated, language string) (*model.Story, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	s.TranslatedStory = translated
	s.Language = language
	s.UpdatedAt = time.Now()
	s2 := *s
	return &s2, nil
}

func (r *memStoryRepo) DeleteStory(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.stories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.stories, id)
	return nil
}

type fakeCompleter struct {
	text    string
	err     error
	prompts []string
}

func (c *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	if c.err != nil {
		return "", c.err
	}
	return c.text, nil
}

type fakeSender struct {
	to       []string
	subject  string
	htmlBody string
	err      error
}

func (s *fakeSender) Send(email mailer.Email) error {
	return s.SendHTML(email.To, email.Subject, email.HTMLBody)
}

func (s *fakeSender) SendHTML(to []string, subject, htmlBody string) error {
	s.to = to
	s.subject = subject
	s.htmlBody = htmlBody
	return s.err
}
