package handlers

import (
	"github.com/bloolabb/bloolabb_api/shared"
	"github.com/gofiber/fiber/v2"
)

type ContentHandler struct {
	contentSvc ContentServiceInterface
}

func NewContentHandler(contentSvc ContentServiceInterface) *ContentHandler {
	return &ContentHandler{
		contentSvc: contentSvc,
	}
}

// @Summary List tracks
// @Description Active learning tracks in display order
// @Tags content
// @Produce json
// @Success 200 {object} shared.Response{data=[]dto.TrackResponse}
// @Router /api/v1/tracks [get]
func (h *ContentHandler) ListTracks(c *fiber.Ctx) error {
	tracks, err := h.contentSvc.ListTracks()
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderCacheControl, "max-age=60")
	return shared.ResponseJSON(c, fiber.StatusOK, "Success", tracks)
}

// @Summary List modules of a track
// @Description Modules with their lessons. Completed flags are filled when a token is sent.
// @Tags content
// @Produce json
// @Param trackId path string true "Track ID or slug"
// @Success 200 {object} shared.Response{data=[]dto.ModuleResponse}
// @Router /api/v1/tracks/{trackId}/modules [get]
func (h *ContentHandler) ListModules(c *fiber.Ctx) error {
	modules, err := h.contentSvc.ListModules(c.Params("trackId"), currentUser(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", modules)
}

// @Summary Get lesson
// @Description Lesson content and exercises, without answers
// @Tags content
// @Produce json
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} shared.Response{data=dto.LessonResponse}
// @Router /api/v1/lessons/{lessonId} [get]
func (h *ContentHandler) GetLesson(c *fiber.Ctx) error {
	lesson, err := h.contentSvc.GetLesson(c.Params("lessonId"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", lesson)
}
