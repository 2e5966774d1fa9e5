package repositories

import (
	"github.com/bloolabb/bloolabb_api/model"
	"gorm.io/gorm"
)

type ContentRepository struct {
	BaseRepository
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// ==================== TRACKS ====================

func (ds *ContentRepository) ListTracks(activeOnly bool) ([]model.Track, error) {
	var tracks []model.Track
	query := ds.db.Model(&model.Track{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("order_index ASC, id ASC").Find(&tracks).Error
	return tracks, err
}

func (ds *ContentRepository) GetTrack(id string) (*model.Track, error) {
	var track model.Track
	if err := ds.db.Where("id = ? OR slug = ?", id, id).First(&track).Error; err != nil {
		return nil, err
	}
	return &track, nil
}

func (ds *ContentRepository) CreateTrack(track *model.Track) error {
	if track.ID == "" {
		track.ID = newID()
	}
	return ds.db.Create(track).Error
}

func (ds *ContentRepository) UpdateTrack(track *model.Track) error {
	return ds.db.Save(track).Error
}

func (ds *ContentRepository) DeleteTrack(id string) error {
	return deleteByID(ds.db, &model.Track{}, id)
}

// ModuleCounts maps track id to its number of active modules.
func (ds *ContentRepository) ModuleCounts() (map[string]int, error) {
	var rows []struct {
		TrackID string
		Count   int
	}
	err := ds.db.Model(&model.Module{}).
		Select("track_id, COUNT(*) AS count").
		Where("is_active = ?", true).
		Group("track_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.TrackID] = r.Count
	}
	return counts, nil
}

// ==================== MODULES ====================

// ListModules returns the modules of a track with their active lessons preloaded.
func (ds *ContentRepository) ListModules(trackID string, activeOnly bool) ([]model.Module, error) {
	var modules []model.Module
	query := ds.db.Where("track_id = ?", trackID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			if activeOnly {
				db = db.Where("is_active = ?", true)
			}
			return db.Order("order_index ASC, id ASC")
		}).
		Order("order_index ASC, id ASC").
		Find(&modules).Error
	return modules, err
}

func (ds *ContentRepository) GetModule(id string) (*model.Module, error) {
	var module model.Module
	if err := ds.db.Where("id = ?", id).First(&module).Error; err != nil {
		return nil, err
	}
	return &module, nil
}

func (ds *ContentRepository) CreateModule(module *model.Module) error {
	if module.ID == "" {
		module.ID = newID()
	}
	return ds.db.Create(module).Error
}

func (ds *ContentRepository) UpdateModule(module *model.Module) error {
	return ds.db.Save(module).Error
}

func (ds *ContentRepository) DeleteModule(id string) error {
	return deleteByID(ds.db, &model.Module{}, id)
}

// ==================== LESSONS ====================

func (ds *ContentRepository) GetLesson(id string) (*model.Lesson, error) {
	var lesson model.Lesson
	if err := ds.db.Where("id = ?", id).First(&lesson).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

// GetLessonWithExercises loads the lesson and its exercises in display order.
func (ds *ContentRepository) GetLessonWithExercises(id string) (*model.Lesson, error) {
	var lesson model.Lesson
	err := ds.db.
		Preload("Exercises", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC, id ASC")
		}).
		Where("id = ?", id).
		First(&lesson).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (ds *ContentRepository) CreateLesson(lesson *model.Lesson) error {
	if lesson.ID == "" {
		lesson.ID = newID()
	}
	return ds.db.Create(lesson).Error
}

func (ds *ContentRepository) UpdateLesson(lesson *model.Lesson) error {
	return ds.db.Omit("Exercises").Save(lesson).Error
}

func (ds *ContentRepository) SetLessonMediaURL(id, url string) error {
	return ds.db.Model(&model.Lesson{}).Where("id = ?", id).Update("media_url", url).Error
}

func (ds *ContentRepository) DeleteLesson(id string) error {
	return ds.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lesson_id = ?", id).Delete(&model.Exercise{}).Error; err != nil {
			return err
		}
		return deleteByID(tx, &model.Lesson{}, id)
	})
}

func (ds *ContentRepository) ListActiveLessons() ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := ds.db.Where("is_active = ?", true).Find(&lessons).Error
	return lessons, err
}

// ExerciseCounts maps lesson id to its number of exercises.
func (ds *ContentRepository) ExerciseCounts(lessonIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(lessonIDs))
	if len(lessonIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		LessonID string
		Count    int
	}
	err := ds.db.Model(&model.Exercise{}).
		Select("lesson_id, COUNT(*) AS count").
		Where("lesson_id IN ?", lessonIDs).
		Group("lesson_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		counts[r.LessonID] = r.Count
	}
	return counts, nil
}

// ==================== EXERCISES ====================

func (ds *ContentRepository) GetExercise(id string) (*model.Exercise, error) {
	var exercise model.Exercise
	if err := ds.db.Where("id = ?", id).First(&exercise).Error; err != nil {
		return nil, err
	}
	return &exercise, nil
}

func (ds *ContentRepository) CreateExercises(exercises []model.Exercise) error {
	if len(exercises) == 0 {
		return nil
	}
	for i := range exercises {
		if exercises[i].ID == "" {
			exercises[i].ID = newID()
		}
	}
	return ds.db.CreateInBatches(exercises, 100).Error
}

func (ds *ContentRepository) UpdateExercise(exercise *model.Exercise) error {
	return ds.db.Save(exercise).Error
}

func (ds *ContentRepository) DeleteExercise(id string) error {
	return deleteByID(ds.db, &model.Exercise{}, id)
}

// NextExerciseOrder returns the order index after the last exercise of a lesson.
func (ds *ContentRepository) NextExerciseOrder(lessonID string) (int, error) {
	var next int
	err := ds.db.Model(&model.Exercise{}).
		Where("lesson_id = ?", lessonID).
		Select("COALESCE(MAX(order_index) + 1, 0)").
		Scan(&next).Error
	return next, err
}

func deleteByID(db *gorm.DB, value interface{}, id string) error {
	res := db.Where("id = ?", id).Delete(value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
