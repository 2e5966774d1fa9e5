package handlers

import (
	"github.com/bloolabb/bloolabb_api/dto"
	"github.com/bloolabb/bloolabb_api/shared"
	"github.com/gofiber/fiber/v2"
)

type ExerciseHandler struct {
	exerciseSvc ExerciseServiceInterface
}

func NewExerciseHandler(exerciseSvc ExerciseServiceInterface) *ExerciseHandler {
	return &ExerciseHandler{
		exerciseSvc: exerciseSvc,
	}
}

// @Summary Submit lesson answers
// @Description Grades the answers, records progress and awards XP once per lesson
// @Tags exercises
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param submitRequest body dto.SubmitExercisesRequest true "Answers keyed by exercise index"
// @Success 200 {object} shared.Response{data=dto.SubmitExercisesResponse}
// @Router /api/v1/exercises/submit [post]
func (h *ExerciseHandler) SubmitExercises(c *fiber.Ctx) error {
	var req dto.SubmitExercisesRequest
	if err := parseRequest(c, &req); err != nil {
		return err
	}

	resp, err := h.exerciseSvc.SubmitExercises(c.UserContext(), currentUser(c), &req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Start an exercise session
// @Tags exercises
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param lessonId path string true "Lesson ID"
// @Success 201 {object} shared.Response{data=dto.SessionResponse}
// @Router /api/v1/lessons/{lessonId}/session [post]
func (h *ExerciseHandler) StartSession(c *fiber.Ctx) error {
	session, err := h.exerciseSvc.StartSession(c.UserContext(), currentUser(c), c.Params("lessonId"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Session started", session)
}

// @Summary Get an exercise session
// @Tags exercises
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param sessionId path string true "Session ID"
// @Success 200 {object} shared.Response{data=dto.SessionResponse}
// @Router /api/v1/sessions/{sessionId} [get]
func (h *ExerciseHandler) GetSession(c *fiber.Ctx) error {
	session, err := h.exerciseSvc.GetSession(c.UserContext(), currentUser(c), c.Params("sessionId"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", session)
}

// @Summary Answer the current exercise
// @Tags exercises
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param sessionId path string true "Session ID"
// @Param answerRequest body dto.SessionAnswerRequest true "Answer"
// @Success 200 {object} shared.Response{data=dto.SessionResponse}
// @Router /api/v1/sessions/{sessionId}/answer [put]
func (h *ExerciseHandler) AnswerSession(c *fiber.Ctx) error {
	var req dto.SessionAnswerRequest
	if err := parseRequest(c, &req); err != nil {
		return err
	}

	session, err := h.exerciseSvc.AnswerSession(c.UserContext(), currentUser(c), c.Params("sessionId"), req.Answer)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", session)
}

// @Summary Go to the next exercise
// @Description Leaving the last exercise grades and records the session
// @Tags exercises
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param sessionId path string true "Session ID"
// @Success 200 {object} shared.Response{data=dto.SessionResponse}
// @Router /api/v1/sessions/{sessionId}/next [post]
func (h *ExerciseHandler) NextExercise(c *fiber.Ctx) error {
	session, err := h.exerciseSvc.NextExercise(c.UserContext(), currentUser(c), c.Params("sessionId"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", session)
}

// @Summary Go back one exercise
// @Tags exercises
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param sessionId path string true "Session ID"
// @Success 200 {object} shared.Response{data=dto.SessionResponse}
// @Router /api/v1/sessions/{sessionId}/prev [post]
func (h *ExerciseHandler) PrevExercise(c *fiber.Ctx) error {
	session, err := h.exerciseSvc.PrevExercise(c.UserContext(), currentUser(c), c.Params("sessionId"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", session)
}

// @Summary Submit the session
// @Description Grades and records the session. After a failed save, calling it again retries.
// @Tags exercises
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param sessionId path string true "Session ID"
// @Success 200 {object} shared.Response{data=dto.SessionResponse}
// @Router /api/v1/sessions/{sessionId}/submit [post]
func (h *ExerciseHandler) SubmitSession(c *fiber.Ctx) error {
	session, err := h.exerciseSvc.SubmitSession(c.UserContext(), currentUser(c), c.Params("sessionId"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", session)
}
