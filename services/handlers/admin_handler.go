package handlers

import (
	"net/http"
	"strconv"

	"github.com/bloolabb/bloolabb_api/dto"
	"github.com/bloolabb/bloolabb_api/shared"
	"github.com/gofiber/fiber/v2"
)

const maxImportSize = 5 * 1024 * 1024

type AdminHandler struct {
	userSvc    UserServiceInterface
	contentSvc ContentServiceInterface
	badgeSvc   BadgeServiceInterface
}

func NewAdminHandler(userSvc UserServiceInterface, contentSvc ContentServiceInterface, badgeSvc BadgeServiceInterface) *AdminHandler {
	return &AdminHandler{
		userSvc:    userSvc,
		contentSvc: contentSvc,
		badgeSvc:   badgeSvc,
	}
}

// ==================== USERS ====================

// @Summary Get all users (Admin)
// @Description Paged user list with XP totals (admin only)
// @Tags admin
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param search query string false "Search term"
// @Success 200 {object} shared.Response{data=dto.AdminUserListResponse}
// @Router /api/v1/admin/users [get]
func (h *AdminHandler) AdminGetUsers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	users, err := h.userSvc.AdminGetUsers(page, limit, c.Query("search"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Users retrieved successfully", users)
}

// @Summary Reset user progress (Admin)
// @Description Deletes progress and badges and zeroes XP and streaks
// @Tags admin
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param userId path string true "User ID"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/admin/users/{userId}/reset-progress [post]
func (h *AdminHandler) AdminResetProgress(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return shared.ResponseJSON(c, http.StatusBadRequest, "User ID is required", nil)
	}

	if err := h.userSvc.AdminResetProgress(c.UserContext(), userID); err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "User progress reset successfully", nil)
}

// @Summary Platform statistics (Admin)
// @Tags admin
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Success 200 {object} shared.Response{data=dto.AdminStatsResponse}
// @Router /api/v1/admin/stats [get]
func (h *AdminHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.userSvc.GetAdminStats()
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", stats)
}

// ==================== TRACKS ====================

// @Summary List all tracks (Admin)
// @Tags admin
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Success 200 {object} shared.Response{data=[]dto.TrackResponse}
// @Router /api/v1/admin/tracks [get]
func (h *AdminHandler) ListTracks(c *fiber.Ctx) error {
	tracks, err := h.contentSvc.AdminListTracks()
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, fiber.StatusOK, "Success", tracks)
}

// @Summary Create track (Admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param trackRequest body dto.TrackRequest true "Track"
// @Success 201 {object} shared.Response{data=dto.TrackResponse}
// @Router /api/v1/admin/tracks [post]
func (h *AdminHandler) CreateTrack(c *fiber.Ctx) error {
	var req dto.TrackRequest
	if err := parseRequest(c, &req); err != nil {
		return err
	}

	track, err := h.contentSvc.CreateTrack(&req)
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, fiber.StatusCreated, "Track created successfully", track)
}

// @Summary Update track (Admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param trackId path string true "Track ID or slug"
// @Param trackRequest body dto.TrackRequest true "Track"
// @Success 200 {object} shared.Response{data=dto.TrackResponse}
// @Router /api/v1/admin/tracks/{trackId} [put]
func (h *AdminHandler) UpdateTrack(c *fiber.Ctx) error {
	var req dto.TrackRequest
	if err := parseRequest(c, &req); err != nil {
		return err
	}

	track, err := h.contentSvc.UpdateTrack(c.Params("trackId"), &req)
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, fiber.StatusOK, "Track updated successfully", track)
}

// @Summary Delete track (Admin)
// @Description Only tracks without modules can be deleted
// @Tags admin
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param trackId path string true "Track ID or slug"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/admin/tracks/{trackId} [delete]
func (h *AdminHandler) DeleteTrack(c *fiber.Ctx) error {
	if err := h.contentSvc.DeleteTrack(c.Params("trackId")); err != nil {
		return err
	}
	return shared.ResponseJSON(c, fiber.StatusOK, "Track deleted successfully", nil)
}

// ==================== MODULES ====================

// @Summary Create module (Admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param moduleRequest body dto.ModuleRequest true "Module"
// @Success 201 {object} shared.Response{data=dto.ModuleResponse}
// @Router /api/v1/admin/modules [post]
func (h *AdminHandler) CreateModule(c *fiber.Ctx) error {
	var req dto.ModuleRequest
	if err := parseRequest(c, &req); err != nil {
		return err
	}

	module, err := h.contentSvc.CreateModule(&req)
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, fiber.StatusCreated, "Module created successfully", module)
}

// @Summary Update module (Admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param moduleId path string true "Module ID"
// @Param moduleRequest body dto.ModuleRequest true "Module"
// @Success 200 {object} shared.Response{data=dto.ModuleResponse}
// @Router /api/v1/admin/modules/{moduleId} [put]
func (h *AdminHandler) UpdateModule(c *fiber.Ctx) error {
	var req dto.ModuleRequest
	if err := parseRequest(c, &req); err != nil {
		return err
	}

	module, err := h.contentSvc.UpdateModule(c.Params("moduleId"), &req)
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, fiber.StatusOK, "Module updated successfully", module)
}

// @Summary Delete module (Admin)
// @Tags admin
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param moduleId path string true "Module ID"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/admin/modules/{moduleId} [delete]
func (h *AdminHandler) DeleteModule(c *fiber.Ctx) error {
	if err := h.contentSvc.DeleteModule(c.Params("moduleId")); err != nil {
		return err
	}
	return shared.ResponseJSON(c, fiber.StatusOK, "Module deleted successfully", nil)
}

// ==================== LESSONS ====================

// @Summary Create lesson (Admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param lessonRequest body dto.LessonRequest true "Lesson"
// @Success 201 {object} shared.Response{data=dto.LessonResponse}
// @Router /api/v1/admin/lessons [post]
func (h *AdminHandler) CreateLesson(c *fiber.Ctx) error {
	var req dto.LessonRequest
	if err := parseRequest(c, &req); err != nil {
		return err
	}

	lesson, err := h.contentSvc.CreateLesson(&req)
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, fiber.StatusCreated, "Lesson created successfully", lesson)
}

// @Summary Update lesson (Admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param lessonId path string true "Lesson ID"
// @Param lessonRequest body dto.LessonRequest true "Lesson"
// @Success 200 {object} shared.Response{data=dto.LessonResponse}
// @Router /api/v1/admin/lessons/{lessonId} [put]
func (h *AdminHandler) UpdateLesson(c *fiber.Ctx) error {
	var req dto.LessonRequest
	if err := parseRequest(c, &req); err != nil {
		return err
	}

	lesson, err := h.contentSvc.UpdateLesson(c.Params("lessonId"), &req)
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, fiber.StatusOK, "Lesson updated successfully", lesson)
}

// @Summary Delete lesson (Admin)
// @Tags admin
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/admin/lessons/{lessonId} [delete]
func (h *AdminHandler) DeleteLesson(c *fiber.Ctx) error {
	if err := h.contentSvc.DeleteLesson(c.Params("lessonId")); err != nil {
		return err
	}
	return shared.ResponseJSON(c, fiber.StatusOK, "Lesson deleted successfully", nil)
}

// ==================== EXERCISES ====================

// @Summary List exercises with answers (Admin)
// @Tags admin
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} shared.Response{data=[]dto.AdminExerciseResponse}
// @Router /api/v1/admin/lessons/{lessonId}/exercises [get]
func (h *AdminHandler) ListExercises(c *fiber.Ctx) error {
	exercises, err := h.contentSvc.AdminListExercises(c.Params("lessonId"))
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, fiber.StatusOK, "Success", exercises)
}

// @Summary Create exercise (Admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param lessonId path string true "Lesson ID"
// @Param exerciseRequest body dto.ExerciseRequest true "Exercise"
// @Success 201 {object} shared.Response{data=dto.AdminExerciseResponse}
// @Router /api/v1/admin/lessons/{lessonId}/exercises [post]
func (h *AdminHandler) CreateExercise(c *fiber.Ctx) error {
	var req dto.ExerciseRequest
	if err := parseRequest(c, &req); err != nil {
		return err
	}

	exercise, err := h.contentSvc.CreateExercise(c.Params("lessonId"), &req)
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, fiber.StatusCreated, "Exercise created successfully", exercise)
}

// @Summary Update exercise (Admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param exerciseId path string true "Exercise ID"
// @Param exerciseRequest body dto.ExerciseRequest true "Exercise"
// @Success 200 {object} shared.Response{data=dto.AdminExerciseResponse}
// @Router /api/v1/admin/exercises/{exerciseId} [put]
func (h *AdminHandler) UpdateExercise(c *fiber.Ctx) error {
	var req dto.ExerciseRequest
	if err := parseRequest(c, &req); err != nil {
		return err
	}

	exercise, err := h.contentSvc.UpdateExercise(c.Params("exerciseId"), &req)
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, fiber.StatusOK, "Exercise updated successfully", exercise)
}

// @Summary Delete exercise (Admin)
// @Tags admin
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param exerciseId path string true "Exercise ID"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/admin/exercises/{exerciseId} [delete]
func (h *AdminHandler) DeleteExercise(c *fiber.Ctx) error {
	if err := h.contentSvc.DeleteExercise(c.Params("exerciseId")); err != nil {
		return err
	}
	return shared.ResponseJSON(c, fiber.StatusOK, "Exercise deleted successfully", nil)
}

// @Summary Import exercises from a spreadsheet (Admin)
// @Description xlsx columns: type, question, options separated by |, correct_answer, explanation
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param lessonId path string true "Lesson ID"
// @Param file formData file true "xlsx file"
// @Success 200 {object} shared.Response{data=dto.ImportExercisesResponse}
// @Router /api/v1/admin/lessons/{lessonId}/exercises/import [post]
func (h *AdminHandler) ImportExercises(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return shared.NewBadRequestError(err, "No spreadsheet provided")
	}
	if file.Size > maxImportSize {
		return shared.NewBadRequestError(nil, "Spreadsheet too large. Maximum size: 5MB")
	}

	src, err := file.Open()
	if err != nil {
		return shared.NewInternalError(err, "Failed to open uploaded file")
	}
	defer src.Close()

	resp, err := h.contentSvc.ImportExercises(c.Params("lessonId"), src)
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, fiber.StatusOK, "Exercises imported", resp)
}

// ==================== BADGES ====================

// @Summary List all badges (Admin)
// @Tags admin
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Success 200 {object} shared.Response{data=[]dto.BadgeResponse}
// @Router /api/v1/admin/badges [get]
func (h *AdminHandler) ListBadges(c *fiber.Ctx) error {
	badges, err := h.badgeSvc.AdminListBadges()
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, fiber.StatusOK, "Success", badges)
}

// @Summary Create badge (Admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param badgeRequest body dto.BadgeRequest true "Badge"
// @Success 201 {object} shared.Response{data=dto.BadgeResponse}
// @Router /api/v1/admin/badges [post]
func (h *AdminHandler) CreateBadge(c *fiber.Ctx) error {
	var req dto.BadgeRequest
	if err := parseRequest(c, &req); err != nil {
		return err
	}

	badge, err := h.badgeSvc.CreateBadge(&req)
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, fiber.StatusCreated, "Badge created successfully", badge)
}

// @Summary Update badge (Admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param badgeId path string true "Badge ID"
// @Param badgeRequest body dto.BadgeRequest true "Badge"
// @Success 200 {object} shared.Response{data=dto.BadgeResponse}
// @Router /api/v1/admin/badges/{badgeId} [put]
func (h *AdminHandler) UpdateBadge(c *fiber.Ctx) error {
	var req dto.BadgeRequest
	if err := parseRequest(c, &req); err != nil {
		return err
	}

	badge, err := h.badgeSvc.UpdateBadge(c.Params("badgeId"), &req)
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, fiber.StatusOK, "Badge updated successfully", badge)
}

// @Summary Delete badge (Admin)
// @Tags admin
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param badgeId path string true "Badge ID"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/admin/badges/{badgeId} [delete]
func (h *AdminHandler) DeleteBadge(c *fiber.Ctx) error {
	if err := h.badgeSvc.DeleteBadge(c.Params("badgeId")); err != nil {
		return err
	}
	return shared.ResponseJSON(c, fiber.StatusOK, "Badge deleted successfully", nil)
}
