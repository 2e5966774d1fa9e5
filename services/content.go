package services

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alphabatem/common/context"
	"github.com/bloolabb/bloolabb_api/dto"
	"github.com/bloolabb/bloolabb_api/gamification"
	"github.com/bloolabb/bloolabb_api/model"
	"github.com/bloolabb/bloolabb_api/services/repositories"
	"github.com/bloolabb/bloolabb_api/shared"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const (
	importMaxRows      = 500
	importOptionsSplit = "|"
)

type ContentService struct {
	context.DefaultService

	content  *repositories.ContentRepository
	progress *repositories.ProgressRepository
}

const CONTENT_SVC = "content_svc"

func (svc ContentService) Id() string {
	return CONTENT_SVC
}

func (svc *ContentService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *ContentService) Start() error {
	db := svc.Service(POSTGRES_SVC).(*PostgresService).Db()
	svc.content = repositories.NewContentRepository(db)
	svc.progress = repositories.NewProgressRepository(db)
	return nil
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewNotFoundError(err, what+" not found")
	}
	return HandleDBError(err)
}

// ==================== CATALOG ====================

func (svc *ContentService) ListTracks() ([]dto.TrackResponse, error) {
	tracks, err := svc.content.ListTracks(true)
	if err != nil {
		return nil, HandleDBError(err)
	}

	counts, err := svc.content.ModuleCounts()
	if err != nil {
		return nil, HandleDBError(err)
	}

	resp := make([]dto.TrackResponse, 0, len(tracks))
	for _, t := range tracks {
		item := toTrackResponse(&t)
		item.ModuleCount = counts[t.ID]
		resp = append(resp, item)
	}
	return resp, nil
}

// ListModules returns the modules of a track with lesson summaries. When
// userID is set each lesson carries the caller's completion flag.
func (svc *ContentService) ListModules(trackID, userID string) ([]dto.ModuleResponse, error) {
	track, err := svc.content.GetTrack(trackID)
	if err != nil {
		return nil, notFound(err, "Track")
	}
	if !track.IsActive {
		return nil, shared.NewNotFoundError(nil, "Track not found")
	}

	modules, err := svc.content.ListModules(track.ID, true)
	if err != nil {
		return nil, HandleDBError(err)
	}

	var lessonIDs []string
	for _, m := range modules {
		for _, l := range m.Lessons {
			lessonIDs = append(lessonIDs, l.ID)
		}
	}

	exerciseCounts, err := svc.content.ExerciseCounts(lessonIDs)
	if err != nil {
		return nil, HandleDBError(err)
	}

	completed := map[string]bool{}
	if userID != "" {
		if completed, err = svc.progress.CompletedLessonIDs(userID); err != nil {
			return nil, HandleDBError(err)
		}
	}

	resp := make([]dto.ModuleResponse, 0, len(modules))
	for _, m := range modules {
		item := toModuleResponse(&m)
		for _, l := range m.Lessons {
			item.Lessons = append(item.Lessons, dto.LessonSummary{
				ID:            l.ID,
				Title:         l.Title,
				XPReward:      l.XPReward,
				OrderIndex:    l.OrderIndex,
				ExerciseCount: exerciseCounts[l.ID],
				Completed:     completed[l.ID],
			})
		}
		resp = append(resp, item)
	}
	return resp, nil
}

// GetLesson returns an active lesson with its exercises, answer keys removed.
func (svc *ContentService) GetLesson(lessonID string) (*dto.LessonResponse, error) {
	lesson, err := svc.content.GetLessonWithExercises(lessonID)
	if err != nil {
		return nil, notFound(err, "Lesson")
	}
	if !lesson.IsActive {
		return nil, shared.NewNotFoundError(nil, "Lesson not found")
	}
	return toLessonResponse(lesson), nil
}

// ==================== ADMIN: TRACKS ====================

func (svc *ContentService) AdminListTracks() ([]dto.TrackResponse, error) {
	tracks, err := svc.content.ListTracks(false)
	if err != nil {
		return nil, HandleDBError(err)
	}

	resp := make([]dto.TrackResponse, 0, len(tracks))
	for _, t := range tracks {
		resp = append(resp, toTrackResponse(&t))
	}
	return resp, nil
}

func (svc *ContentService) CreateTrack(req *dto.TrackRequest) (*dto.TrackResponse, error) {
	track := &model.Track{IsActive: true}
	applyTrackRequest(track, req)

	if err := svc.content.CreateTrack(track); err != nil {
		return nil, HandleDBError(err)
	}

	resp := toTrackResponse(track)
	return &resp, nil
}

func (svc *ContentService) UpdateTrack(id string, req *dto.TrackRequest) (*dto.TrackResponse, error) {
	track, err := svc.content.GetTrack(id)
	if err != nil {
		return nil, notFound(err, "Track")
	}

	applyTrackRequest(track, req)
	if err := svc.content.UpdateTrack(track); err != nil {
		return nil, HandleDBError(err)
	}

	resp := toTrackResponse(track)
	return &resp, nil
}

func (svc *ContentService) DeleteTrack(id string) error {
	track, err := svc.content.GetTrack(id)
	if err != nil {
		return notFound(err, "Track")
	}

	modules, err := svc.content.ListModules(track.ID, false)
	if err != nil {
		return HandleDBError(err)
	}
	if len(modules) > 0 {
		return shared.NewBadRequestError(nil, "Track still has modules")
	}
	if err := svc.content.DeleteTrack(track.ID); err != nil {
		return notFound(err, "Track")
	}
	return nil
}

// ==================== ADMIN: MODULES ====================

func (svc *ContentService) CreateModule(req *dto.ModuleRequest) (*dto.ModuleResponse, error) {
	track, err := svc.content.GetTrack(req.TrackID)
	if err != nil {
		return nil, notFound(err, "Track")
	}

	module := &model.Module{IsActive: true}
	applyModuleRequest(module, req)
	module.TrackID = track.ID

	if err := svc.content.CreateModule(module); err != nil {
		return nil, HandleDBError(err)
	}

	resp := toModuleResponse(module)
	return &resp, nil
}

func (svc *ContentService) UpdateModule(id string, req *dto.ModuleRequest) (*dto.ModuleResponse, error) {
	module, err := svc.content.GetModule(id)
	if err != nil {
		return nil, notFound(err, "Module")
	}
	track, err := svc.content.GetTrack(req.TrackID)
	if err != nil {
		return nil, notFound(err, "Track")
	}

	applyModuleRequest(module, req)
	module.TrackID = track.ID
	if err := svc.content.UpdateModule(module); err != nil {
		return nil, HandleDBError(err)
	}

	resp := toModuleResponse(module)
	return &resp, nil
}

func (svc *ContentService) DeleteModule(id string) error {
	if err := svc.content.DeleteModule(id); err != nil {
		return notFound(err, "Module")
	}
	return nil
}

// ==================== ADMIN: LESSONS ====================

func (svc *ContentService) CreateLesson(req *dto.LessonRequest) (*dto.LessonResponse, error) {
	if _, err := svc.content.GetModule(req.ModuleID); err != nil {
		return nil, notFound(err, "Module")
	}

	lesson := &model.Lesson{IsActive: true}
	applyLessonRequest(lesson, req)

	if err := svc.content.CreateLesson(lesson); err != nil {
		return nil, HandleDBError(err)
	}
	return toLessonResponse(lesson), nil
}

func (svc *ContentService) UpdateLesson(id string, req *dto.LessonRequest) (*dto.LessonResponse, error) {
	lesson, err := svc.content.GetLesson(id)
	if err != nil {
		return nil, notFound(err, "Lesson")
	}
	if _, err := svc.content.GetModule(req.ModuleID); err != nil {
		return nil, notFound(err, "Module")
	}

	applyLessonRequest(lesson, req)
	if err := svc.content.UpdateLesson(lesson); err != nil {
		return nil, HandleDBError(err)
	}
	return toLessonResponse(lesson), nil
}

func (svc *ContentService) DeleteLesson(id string) error {
	if err := svc.content.DeleteLesson(id); err != nil {
		return notFound(err, "Lesson")
	}
	return nil
}

func (svc *ContentService) SetLessonMedia(id, url string) error {
	if _, err := svc.content.GetLesson(id); err != nil {
		return notFound(err, "Lesson")
	}
	return HandleDBError(svc.content.SetLessonMediaURL(id, url))
}

// ==================== ADMIN: EXERCISES ====================

// AdminListExercises includes the answer keys.
func (svc *ContentService) AdminListExercises(lessonID string) ([]dto.AdminExerciseResponse, error) {
	lesson, err := svc.content.GetLessonWithExercises(lessonID)
	if err != nil {
		return nil, notFound(err, "Lesson")
	}

	resp := make([]dto.AdminExerciseResponse, 0, len(lesson.Exercises))
	for _, e := range lesson.Exercises {
		resp = append(resp, toAdminExerciseResponse(&e))
	}
	return resp, nil
}

func (svc *ContentService) CreateExercise(lessonID string, req *dto.ExerciseRequest) (*dto.AdminExerciseResponse, error) {
	if _, err := svc.content.GetLesson(lessonID); err != nil {
		return nil, notFound(err, "Lesson")
	}
	if err := checkExercise(req.Type, req.Options, req.CorrectAnswer); err != nil {
		return nil, shared.NewBadRequestError(err, err.Error())
	}

	exercise := model.Exercise{LessonID: lessonID}
	applyExerciseRequest(&exercise, req)

	batch := []model.Exercise{exercise}
	if err := svc.content.CreateExercises(batch); err != nil {
		return nil, HandleDBError(err)
	}

	created, err := svc.content.GetExercise(batch[0].ID)
	if err != nil {
		return nil, HandleDBError(err)
	}
	resp := toAdminExerciseResponse(created)
	return &resp, nil
}

func (svc *ContentService) UpdateExercise(id string, req *dto.ExerciseRequest) (*dto.AdminExerciseResponse, error) {
	exercise, err := svc.content.GetExercise(id)
	if err != nil {
		return nil, notFound(err, "Exercise")
	}
	if err := checkExercise(req.Type, req.Options, req.CorrectAnswer); err != nil {
		return nil, shared.NewBadRequestError(err, err.Error())
	}

	applyExerciseRequest(exercise, req)
	if err := svc.content.UpdateExercise(exercise); err != nil {
		return nil, HandleDBError(err)
	}

	resp := toAdminExerciseResponse(exercise)
	return &resp, nil
}

func (svc *ContentService) DeleteExercise(id string) error {
	if err := svc.content.DeleteExercise(id); err != nil {
		return notFound(err, "Exercise")
	}
	return nil
}

// ImportExercises appends the exercises of the first sheet of an xlsx
// workbook to a lesson. Columns: type, question, options (separated by "|"),
// correct_answer, explanation. A header row is skipped when present. Invalid
// rows are reported and skipped; valid rows are stored in one batch.
func (svc *ContentService) ImportExercises(lessonID string, r io.Reader) (*dto.ImportExercisesResponse, error) {
	if _, err := svc.content.GetLesson(lessonID); err != nil {
		return nil, notFound(err, "Lesson")
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, shared.NewBadRequestError(err, "Invalid spreadsheet")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, shared.NewBadRequestError(nil, "Spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, shared.NewBadRequestError(err, "Failed to read spreadsheet rows")
	}
	if len(rows) > importMaxRows+1 {
		return nil, shared.NewBadRequestError(nil, fmt.Sprintf("Spreadsheet has more than %d rows", importMaxRows))
	}

	order, err := svc.content.NextExerciseOrder(lessonID)
	if err != nil {
		return nil, HandleDBError(err)
	}

	resp := &dto.ImportExercisesResponse{LessonID: lessonID, Skipped: []dto.ImportRowError{}}
	var exercises []model.Exercise

	for i, row := range rows {
		rowNum := i + 1
		if i == 0 && isImportHeader(row) {
			continue
		}
		if isBlankRow(row) {
			continue
		}

		exercise, err := parseImportRow(row)
		if err != nil {
			resp.Skipped = append(resp.Skipped, dto.ImportRowError{Row: rowNum, Reason: err.Error()})
			continue
		}

		exercise.LessonID = lessonID
		exercise.OrderIndex = order
		order++
		exercises = append(exercises, *exercise)
	}

	if err := svc.content.CreateExercises(exercises); err != nil {
		return nil, HandleDBError(err)
	}
	resp.Imported = len(exercises)

	log.WithFields(log.Fields{
		"lesson_id": lessonID,
		"imported":  resp.Imported,
		"skipped":   len(resp.Skipped),
	}).Info("Exercises imported")

	return resp, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func isImportHeader(row []string) bool {
	return strings.EqualFold(cell(row, 0), "type") && strings.EqualFold(cell(row, 1), "question")
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseImportRow(row []string) (*model.Exercise, error) {
	kind := strings.ToLower(cell(row, 0))
	question := cell(row, 1)
	answer := cell(row, 3)

	var options []string
	if raw := cell(row, 2); raw != "" {
		for _, opt := range strings.Split(raw, importOptionsSplit) {
			if opt = strings.TrimSpace(opt); opt != "" {
				options = append(options, opt)
			}
		}
	}

	if question == "" {
		return nil, errors.New("question is required")
	}
	if answer == "" {
		return nil, errors.New("correct_answer is required")
	}
	if err := checkExercise(kind, options, answer); err != nil {
		return nil, err
	}

	exercise := &model.Exercise{
		Type:          kind,
		Question:      question,
		CorrectAnswer: answer,
		Explanation:   cell(row, 4),
	}
	exercise.SetOptions(options)
	return exercise, nil
}

// checkExercise makes sure an answer key can actually be matched.
func checkExercise(kind string, options []string, answer string) error {
	switch gamification.ExerciseType(kind) {
	case gamification.ExerciseMultipleChoice:
		if len(options) < 2 {
			return errors.New("multiple_choice needs at least two options")
		}
		for _, opt := range options {
			if gamification.IsAnswerCorrect(gamification.ExerciseMultipleChoice, opt, answer) {
				return nil
			}
		}
		return errors.New("correct_answer must be one of the options")
	case gamification.ExerciseFillBlank, gamification.ExerciseCaseStudy:
		return nil
	default:
		return fmt.Errorf("unknown exercise type %q", kind)
	}
}

// ==================== MAPPING ====================

func applyTrackRequest(track *model.Track, req *dto.TrackRequest) {
	track.Slug = strings.ToLower(strings.TrimSpace(req.Slug))
	track.Title = req.Title
	track.Description = req.Description
	track.OrderIndex = req.OrderIndex
	if req.IsActive != nil {
		track.IsActive = *req.IsActive
	}
}

func applyModuleRequest(module *model.Module, req *dto.ModuleRequest) {
	module.TrackID = req.TrackID
	module.Title = req.Title
	module.Description = req.Description
	module.OrderIndex = req.OrderIndex
	if req.IsActive != nil {
		module.IsActive = *req.IsActive
	}
}

func applyLessonRequest(lesson *model.Lesson, req *dto.LessonRequest) {
	lesson.ModuleID = req.ModuleID
	lesson.Title = req.Title
	lesson.Content = req.Content
	lesson.XPReward = req.XPReward
	lesson.MediaURL = req.MediaURL
	lesson.OrderIndex = req.OrderIndex
	if req.IsActive != nil {
		lesson.IsActive = *req.IsActive
	}
}

func applyExerciseRequest(exercise *model.Exercise, req *dto.ExerciseRequest) {
	exercise.Type = req.Type
	exercise.Question = req.Question
	exercise.CorrectAnswer = strings.TrimSpace(req.CorrectAnswer)
	exercise.Explanation = req.Explanation
	exercise.OrderIndex = req.OrderIndex
	exercise.SetOptions(req.Options)
}

func toTrackResponse(t *model.Track) dto.TrackResponse {
	return dto.TrackResponse{
		ID:          t.ID,
		Slug:        t.Slug,
		Title:       t.Title,
		Description: t.Description,
		OrderIndex:  t.OrderIndex,
	}
}

func toModuleResponse(m *model.Module) dto.ModuleResponse {
	return dto.ModuleResponse{
		ID:          m.ID,
		TrackID:     m.TrackID,
		Title:       m.Title,
		Description: m.Description,
		OrderIndex:  m.OrderIndex,
		Lessons:     []dto.LessonSummary{},
	}
}

func toExerciseResponse(e *model.Exercise) dto.ExerciseResponse {
	return dto.ExerciseResponse{
		ID:         e.ID,
		Type:       e.Type,
		Question:   e.Question,
		Options:    e.OptionList(),
		OrderIndex: e.OrderIndex,
	}
}

func toAdminExerciseResponse(e *model.Exercise) dto.AdminExerciseResponse {
	return dto.AdminExerciseResponse{
		ExerciseResponse: toExerciseResponse(e),
		LessonID:         e.LessonID,
		CorrectAnswer:    e.CorrectAnswer,
		Explanation:      e.Explanation,
		UpdatedAt:        e.UpdatedAt,
	}
}

func toLessonResponse(l *model.Lesson) *dto.LessonResponse {
	resp := &dto.LessonResponse{
		ID:        l.ID,
		ModuleID:  l.ModuleID,
		Title:     l.Title,
		Content:   l.Content,
		XPReward:  l.XPReward,
		MediaURL:  l.MediaURL,
		Exercises: make([]dto.ExerciseResponse, 0, len(l.Exercises)),
	}
	for i := range l.Exercises {
		resp.Exercises = append(resp.Exercises, toExerciseResponse(&l.Exercises[i]))
	}
	return resp
}
