package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/oykulab/masal-api/internal/openrouter"
	"github.com/oykulab/masal-api/internal/usecase"
	"github.com/oykulab/masal-api/internal/validation"
)

const (
	msgTopicRequired        = "Hikaye konusu zorunludur."
	msgTranslateRequired    = "Hikaye, hikaye ID'si ve hedef dil zorunludur."
	msgUnsupportedLanguage  = "Çeviri şimdilik sadece İngilizce ve Fransızca için desteklenmektedir."
	msgUpstreamConfigError  = "Sunucu yapılandırma hatası: AI servisine bağlanılamadı."
	msgStoryGenerateFailed  = "Hikaye oluşturulamadı."
	msgStoryTranslateFailed = "Hikaye çevrilemedi."
	msgStoryNotFound        = "Hikaye bulunamadı"
	msgStoryDeleteForbidden = "Bu hikayeyi silmeye yetkiniz yok"
	msgStoryDeleted         = "Hikaye başarıyla silindi"
)

// StoryHandler serves the protected story routes. Every handler assumes the
// Authenticator middleware has attached the caller to the request context.
type StoryHandler struct {
	storyUsecase usecase.StoryUsecase
	validator    *validation.Validator
	logger       *zerolog.Logger
}

// NewStoryHandler creates a new StoryHandler instance.
func NewStoryHandler(
	storyUsecase usecase.StoryUsecase,
	validator *validation.Validator,
	logger *zerolog.Logger,
) *StoryHandler {
	return &StoryHandler{
		storyUsecase: storyUsecase,
		validator:    validator,
		logger:       logger,
	}
}

// Routes mounts the story routes on the given router.
func (h *StoryHandler) Routes(r chi.Router) {
	r.Post("/generate", h.Generate)
	r.Post("/translate", h.Translate)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Delete("/{id}", h.Delete)
}

func (h *StoryHandler) Generate(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, msgTokenInvalid)
		return
	}

	var req GenerateStoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, msgTopicRequired)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondMessage(w, http.StatusBadRequest, msgTopicRequired)
		return
	}

	story, err := h.storyUsecase.Generate(r.Context(), user.ID, req.Topic)
	if err != nil {
		if errors.Is(err, openrouter.ErrNotConfigured) {
			h.logger.Error().Msg("openrouter api key is missing")
			respondMessage(w, http.StatusInternalServerError, msgUpstreamConfigError)
			return
		}

		h.logger.Error().Err(err).Msg("failed to generate story")
		respondMessage(w, http.StatusInternalServerError, msgStoryGenerateFailed)
		return
	}

	respondJSON(w, http.StatusCreated, GenerateStoryResponse{
		Story:   story.OriginalStory,
		StoryID: story.ID.Hex(),
	})
}

func (h *StoryHandler) Translate(w http.ResponseWriter, r *http.Request) {
	var req TranslateStoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, msgTranslateRequired)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondMessage(w, http.StatusBadRequest, msgTranslateRequired)
		return
	}

	story, err := h.storyUsecase.Translate(r.Context(), usecase.TranslateParams{
		StoryID:  req.StoryID,
		Story:    req.Story,
		Language: req.Language,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUnsupportedLanguage):
			respondMessage(w, http.StatusBadRequest, msgUnsupportedLanguage)
		case errors.Is(err, usecase.ErrStoryNotFound):
			respondMessage(w, http.StatusNotFound, msgStoryNotFound+".")
		case errors.Is(err, openrouter.ErrNotConfigured):
			h.logger.Error().Msg("openrouter api key is missing")
			respondMessage(w, http.StatusInternalServerError, msgUpstreamConfigError)
		default:
			h.logger.Error().Err(err).Msg("failed to translate story")
			respondMessage(w, http.StatusInternalServerError, msgStoryTranslateFailed)
		}
		return
	}

	respondJSON(w, http.StatusOK, TranslateStoryResponse{
		TranslatedStory: story.TranslatedStory,
	})
}

func (h *StoryHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, msgTokenInvalid)
		return
	}

	stories, err := h.storyUsecase.List(r.Context(), user.ID)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list stories")
		respondMessage(w, http.StatusInternalServerError, msgServerError)
		return
	}

	response := make([]StoryResponse, 0, len(stories))
	for _, story := range stories {
		response = append(response, newStoryResponse(story))
	}

	respondJSON(w, http.StatusOK, response)
}

func (h *StoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	story, err := h.storyUsecase.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, usecase.ErrStoryNotFound) {
			respondMessage(w, http.StatusNotFound, msgStoryNotFound)
			return
		}

		h.logger.Error().Err(err).Msg("failed to get story")
		respondMessage(w, http.StatusInternalServerError, msgServerError)
		return
	}

	respondJSON(w, http.StatusOK, newStoryResponse(story))
}

func (h *StoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, msgTokenInvalid)
		return
	}

	err := h.storyUsecase.Delete(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrStoryNotFound):
			respondMessage(w, http.StatusNotFound, msgStoryNotFound)
		case errors.Is(err, usecase.ErrNotStoryOwner):
			respondMessage(w, http.StatusUnauthorized, msgStoryDeleteForbidden)
		default:
			h.logger.Error().Err(err).Msg("failed to delete story")
			respondMessage(w, http.StatusInternalServerError, msgServerError)
		}
		return
	}

	respondMessage(w, http.StatusOK, msgStoryDeleted)
}
