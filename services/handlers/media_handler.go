package handlers

import (
	"github.com/bloolabb/bloolabb_api/shared"
	"github.com/gofiber/fiber/v2"
)

type MediaHandler struct {
	mediaSvc MediaServiceInterface
}

func NewMediaHandler(mediaSvc MediaServiceInterface) *MediaHandler {
	return &MediaHandler{
		mediaSvc: mediaSvc,
	}
}

// @Summary Upload badge icon (Admin)
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param badgeId path string true "Badge ID"
// @Param icon formData file true "Icon file (JPG, PNG, WEBP, GIF, SVG)"
// @Success 200 {object} shared.Response{data=dto.MediaUploadResponse}
// @Router /api/v1/admin/badges/{badgeId}/icon [post]
func (h *MediaHandler) UploadBadgeIcon(c *fiber.Ctx) error {
	file, err := c.FormFile("icon")
	if err != nil {
		return shared.NewBadRequestError(err, "No icon file provided")
	}

	response, err := h.mediaSvc.UploadBadgeIcon(c.UserContext(), c.Params("badgeId"), file)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Icon uploaded successfully", response)
}

// @Summary Upload lesson media (Admin)
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param lessonId path string true "Lesson ID"
// @Param media formData file true "Image, audio or video file"
// @Success 200 {object} shared.Response{data=dto.MediaUploadResponse}
// @Router /api/v1/admin/lessons/{lessonId}/media [post]
func (h *MediaHandler) UploadLessonMedia(c *fiber.Ctx) error {
	file, err := c.FormFile("media")
	if err != nil {
		return shared.NewBadRequestError(err, "No media file provided")
	}

	response, err := h.mediaSvc.UploadLessonMedia(c.UserContext(), c.Params("lessonId"), file)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Media uploaded successfully", response)
}
