package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/oykulab/masal-api/internal/auth"
	"github.com/oykulab/masal-api/internal/config"
	"github.com/oykulab/masal-api/internal/mailer"
	"github.com/oykulab/masal-api/internal/model"
	"github.com/oykulab/masal-api/internal/openrouter"
	"github.com/oykulab/masal-api/internal/repository"
	"github.com/oykulab/masal-api/internal/usecase"
	"github.com/oykulab/masal-api/internal/validation"
)

// In-memory repositories backing the full handler stack in tests.

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
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
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID.Hex()] = &clone
	return user, nil
}

func (r *memUserRepo) GetUser(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
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
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

type memStoryRepo struct {
	mu      sync.Mutex
	stories map[string]*model.Story
}

func (r *memStoryRepo) CreateStory(_ context.Context, story *model.Story) (*model.Story, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	story.ID = bson.NewObjectID()
	story.CreatedAt = time.Now()
	story.UpdatedAt = story.CreatedAt
	clone := *story
	r.stories[story.ID.Hex()] = &clone
	return story, nil
}

func (r *memStoryRepo) GetStory(_ context.Context, id string) (*model.Story, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.stories[id]; ok {
		clone := *s
		return &clone, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memStoryRepo) ListStoriesByUser(_ context.Context, userID bson.ObjectID) ([]*model.Story, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var stories []*model.Story
	for _, s := range r.stories {
		if s.UserID == userID {
			clone := *s
			stories = append(stories, &clone)
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
	clone := *s
	return &clone, nil
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

type fakeSender struct {
	mu       sync.Mutex
	htmlBody string
}

func (s *fakeSender) Send(email mailer.Email) error {
	return s.SendHTML(email.To, email.Subject, email.HTMLBody)
}

func (s *fakeSender) SendHTML(_ []string, _ string, htmlBody string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.htmlBody = htmlBody
	return nil
}

type fakeCompleter struct {
	text string
	err  error
}

func (c *fakeCompleter) Complete(context.Context, string) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return c.text, nil
}

type testEnv struct {
	router    chi.Router
	userRepo  *memUserRepo
	storyRepo *memStoryRepo
	sender    *fakeSender
	completer *fakeCompleter
	jwtAuth   auth.JWTAuthenticator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		userRepo:  &memUserRepo{users: make(map[string]*model.User)},
		storyRepo: &memStoryRepo{stories: make(map[string]*model.Story)},
		sender:    &fakeSender{},
		completer: &fakeCompleter{text: "Bir zamanlar cesur bir kedi varmış."},
	}
	env.router = buildRouter(t, env, env.completer)
	return env
}

func buildRouter(t *testing.T, env *testEnv, completer openrouter.Completer) chi.Router {
	t.Helper()

	logger := zerolog.Nop()
	cfg := &config.Config{
		Environment:         "test",
		AppPasswordResetURL: "http://localhost:5173/resetpassword",
		Token: config.TokenConfig{
			Secret:                      "test-secret",
			Issuer:                      "masal-api-test",
			ExpiresIn:                   30 * 24 * time.Hour,
			PasswordResetTokenExpiresIn: 10 * time.Minute,
		},
	}

	env.jwtAuth = auth.NewJWTAuthenticator(cfg.Token.Secret, cfg.Token.Issuer, cfg.Token.ExpiresIn)

	authUsecase := usecase.NewAuthUsecase(env.userRepo, env.jwtAuth)
	resetUsecase := usecase.NewPasswordResetUsecase(env.userRepo, env.sender, &logger, cfg)
	storyUsecase := usecase.NewStoryUsecase(env.storyRepo, completer)

	validator := validation.New(&logger)
	authHandler := NewAuthHandler(authUsecase, resetUsecase, validator, &logger)
	storyHandler := NewStoryHandler(storyUsecase, validator, &logger)
	authGate := Authenticator(env.jwtAuth, env.userRepo, &logger)

	return NewRouter(authHandler, storyHandler, authGate, &logger)
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (e *testEnv) register(t *testing.T, name, email, password string) AuthResponse {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[AuthResponse](t, rec)
}
