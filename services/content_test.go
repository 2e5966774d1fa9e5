package services

import (
	"bytes"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/bloolabb/bloolabb_api/dto"
	"github.com/bloolabb/bloolabb_api/model"
	"github.com/bloolabb/bloolabb_api/services/repositories"
	"github.com/bloolabb/bloolabb_api/shared"
	"github.com/xuri/excelize/v2"
)

func newTestContentService(t *testing.T) *ContentService {
	t.Helper()
	db := newTestDB(t)
	return &ContentService{
		content:  repositories.NewContentRepository(db),
		progress: repositories.NewProgressRepository(db),
	}
}

func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, axis, &row); err != nil {
			t.Fatal(err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf
}

func TestGetLessonHidesAnswerKey(t *testing.T) {
	svc := newTestContentService(t)
	seedLesson(t, svc.content.DB(), "lesson-a", 10,
		model.Exercise{Type: "multiple_choice", Question: "Pick one", CorrectAnswer: "B"},
	)

	lesson, err := svc.GetLesson("lesson-a")
	if err != nil {
		t.Fatal(err)
	}
	if len(lesson.Exercises) != 1 {
		t.Fatalf("exercises = %d", len(lesson.Exercises))
	}

	body, err := shared.JSONMarshal(lesson)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(body), "correct_answer") {
		t.Fatalf("answer key leaked: %s", body)
	}

	_, err = svc.GetLesson("nope")
	if appErr, ok := shared.GetAppError(err); !ok || appErr.StatusCode != http.StatusNotFound {
		t.Fatalf("err = %v", err)
	}
}

func TestListModulesMarksCompletedLessons(t *testing.T) {
	svc := newTestContentService(t)
	db := svc.content.DB()
	seedLesson(t, db, "lesson-b", 10, model.Exercise{Type: "case_study", Question: "Q", CorrectAnswer: "A"})
	user := seedUser(t, db, "mod")

	_, err := svc.progress.RecordSubmission(repositories.Submission{
		UserID: user.ID, LessonID: "lesson-b", Score: 100, Passed: true, XPReward: 10, Now: time.Now().UTC(),
	})
	if err != nil {
		t.Fatal(err)
	}

	modules, err := svc.ListModules("track-lesson-b", user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(modules) != 1 || len(modules[0].Lessons) != 1 {
		t.Fatalf("modules = %+v", modules)
	}
	got := modules[0].Lessons[0]
	if !got.Completed || got.ExerciseCount != 1 {
		t.Fatalf("lesson summary = %+v", got)
	}

	anonymous, err := svc.ListModules("t_lesson-b", "")
	if err != nil {
		t.Fatal(err)
	}
	if anonymous[0].Lessons[0].Completed {
		t.Fatal("anonymous caller sees completion")
	}
}

func TestImportExercises(t *testing.T) {
	svc := newTestContentService(t)
	seedLesson(t, svc.content.DB(), "lesson-c", 10, model.Exercise{Type: "case_study", Question: "Existing", CorrectAnswer: "x"})

	buf := workbook(t, [][]interface{}{
		{"type", "question", "options", "correct_answer", "explanation"},
		{"multiple_choice", "Capital of France?", "Paris | Rome | Berlin", "paris", "It is Paris."},
		{"fill_blank", "___ is the capital of ___", "", "Paris;France", ""},
		{"multiple_choice", "Missing answer option", "A|B", "C", ""},
		{"", "", "", "", ""},
		{"essay", "Unknown type", "", "x", ""},
		{"case_study", "", "", "x", ""},
	})

	resp, err := svc.ImportExercises("lesson-c", buf)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Imported != 2 {
		t.Fatalf("imported = %d, want 2", resp.Imported)
	}
	if len(resp.Skipped) != 3 {
		t.Fatalf("skipped = %+v", resp.Skipped)
	}
	if resp.Skipped[0].Row != 4 || resp.Skipped[1].Row != 6 || resp.Skipped[2].Row != 7 {
		t.Fatalf("skipped rows = %+v", resp.Skipped)
	}

	exercises, err := svc.AdminListExercises("lesson-c")
	if err != nil {
		t.Fatal(err)
	}
	if len(exercises) != 3 {
		t.Fatalf("exercises = %d, want 3", len(exercises))
	}
	if exercises[1].Question != "Capital of France?" || exercises[1].OrderIndex != 1 {
		t.Fatalf("first import = %+v", exercises[1])
	}
	if len(exercises[1].Options) != 3 || exercises[1].Options[0] != "Paris" {
		t.Fatalf("options = %v", exercises[1].Options)
	}
}

func TestImportExercisesRejectsGarbage(t *testing.T) {
	svc := newTestContentService(t)
	seedLesson(t, svc.content.DB(), "lesson-d", 10)

	_, err := svc.ImportExercises("lesson-d", strings.NewReader("not a workbook"))
	if appErr, ok := shared.GetAppError(err); !ok || appErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("err = %v", err)
	}

	_, err = svc.ImportExercises("missing", workbook(t, nil))
	if appErr, ok := shared.GetAppError(err); !ok || appErr.StatusCode != http.StatusNotFound {
		t.Fatalf("err = %v", err)
	}
}

func TestAdminTrackCRUD(t *testing.T) {
	svc := newTestContentService(t)
	inactive := false

	track, err := svc.CreateTrack(&dto.TrackRequest{Slug: " Finance ", Title: "Finance"})
	if err != nil {
		t.Fatal(err)
	}
	if track.Slug != "finance" {
		t.Fatalf("slug = %q", track.Slug)
	}

	if _, err := svc.CreateTrack(&dto.TrackRequest{Slug: "finance", Title: "Again"}); err == nil {
		t.Fatal("duplicate slug accepted")
	}

	if _, err := svc.UpdateTrack(track.ID, &dto.TrackRequest{Slug: "finance", Title: "Money", IsActive: &inactive}); err != nil {
		t.Fatal(err)
	}
	public, err := svc.ListTracks()
	if err != nil {
		t.Fatal(err)
	}
	if len(public) != 0 {
		t.Fatalf("inactive track listed: %+v", public)
	}

	if err := svc.DeleteTrack(track.ID); err != nil {
		t.Fatal(err)
	}
	all, err := svc.AdminListTracks()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 0 {
		t.Fatalf("tracks after delete = %d", len(all))
	}
}
