package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/bloolabb/bloolabb_api/model"
	"github.com/bloolabb/bloolabb_api/services/repositories"
	"github.com/bloolabb/bloolabb_api/shared"
)

type memoryObjectStore struct {
	objects map[string][]byte
	deleted []string
	err     error
}

func (s *memoryObjectStore) UploadFile(_ context.Context, objectName string, reader io.Reader, _ int64, _ string) error {
	if s.err != nil {
		return s.err
	}
	b, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.objects[objectName] = b
	return nil
}

func (s *memoryObjectStore) PublicURL(objectName string) string {
	return "http://cdn.test/media/" + objectName
}

func (s *memoryObjectStore) DeleteFile(_ context.Context, objectName string) error {
	delete(s.objects, objectName)
	s.deleted = append(s.deleted, objectName)
	return nil
}

func fileHeader(t *testing.T, field, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatal(err)
	}
	return req.MultipartForm.File[field][0]
}

func newTestMediaService(t *testing.T) (*MediaService, *memoryObjectStore) {
	t.Helper()
	db := newTestDB(t)
	store := &memoryObjectStore{objects: map[string][]byte{}}

	svc := &MediaService{
		store: store,
		badges: &BadgeService{
			badges: repositories.NewBadgeRepository(db),
			users:  repositories.NewUserRepository(db),
		},
		content: &ContentService{
			content:  repositories.NewContentRepository(db),
			progress: repositories.NewProgressRepository(db),
		},
		now: fixedClock(time.Unix(1767225600, 0)),
	}

	if err := svc.badges.badges.CreateBadge(&model.Badge{ID: "b1", Name: "Star", ConditionType: "xp_milestone", ConditionValue: 10, IsActive: true}); err != nil {
		t.Fatal(err)
	}
	seedLesson(t, db, "lesson-m", 10)
	return svc, store
}

func TestUploadBadgeIcon(t *testing.T) {
	svc, store := newTestMediaService(t)

	resp, err := svc.UploadBadgeIcon(context.Background(), "b1", fileHeader(t, "icon", "Star.PNG", "image/png", []byte("png-bytes")))
	if err != nil {
		t.Fatal(err)
	}
	if resp.ObjectKey != "badges/b1_1767225600.png" {
		t.Fatalf("object key = %q", resp.ObjectKey)
	}
	if string(store.objects[resp.ObjectKey]) != "png-bytes" {
		t.Fatal("object not stored")
	}

	badge, err := svc.badges.badges.GetBadge("b1")
	if err != nil {
		t.Fatal(err)
	}
	if badge.IconURL != resp.URL {
		t.Fatalf("icon url = %q, want %q", badge.IconURL, resp.URL)
	}
}

func TestUploadValidation(t *testing.T) {
	svc, store := newTestMediaService(t)
	ctx := context.Background()

	_, err := svc.UploadBadgeIcon(ctx, "b1", fileHeader(t, "icon", "clip.mp4", "video/mp4", []byte("x")))
	if appErr, ok := shared.GetAppError(err); !ok || appErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("video icon err = %v", err)
	}

	big := []byte(strings.Repeat("a", maxIconSize+1))
	_, err = svc.UploadBadgeIcon(ctx, "b1", fileHeader(t, "icon", "big.png", "image/png", big))
	if appErr, ok := shared.GetAppError(err); !ok || appErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("oversized icon err = %v", err)
	}

	if len(store.objects) != 0 {
		t.Fatal("rejected files reached storage")
	}
}

func TestUploadLessonMediaRollsBackOnMissingLesson(t *testing.T) {
	svc, store := newTestMediaService(t)

	_, err := svc.UploadLessonMedia(context.Background(), "ghost", fileHeader(t, "media", "intro.mp3", "audio/mpeg", []byte("mp3")))
	if appErr, ok := shared.GetAppError(err); !ok || appErr.StatusCode != http.StatusNotFound {
		t.Fatalf("err = %v", err)
	}
	if len(store.objects) != 0 || len(store.deleted) != 1 {
		t.Fatalf("orphan not removed: objects=%v deleted=%v", store.objects, store.deleted)
	}

	resp, err := svc.UploadLessonMedia(context.Background(), "lesson-m", fileHeader(t, "media", "intro.mp3", "audio/mpeg", []byte("mp3")))
	if err != nil {
		t.Fatal(err)
	}
	lesson, err := svc.content.GetLesson("lesson-m")
	if err != nil {
		t.Fatal(err)
	}
	if lesson.MediaURL != resp.URL {
		t.Fatalf("media url = %q", lesson.MediaURL)
	}
}

func TestUploadStorageFailure(t *testing.T) {
	svc, store := newTestMediaService(t)
	store.err = errors.New("minio down")

	_, err := svc.UploadBadgeIcon(context.Background(), "b1", fileHeader(t, "icon", "a.png", "image/png", []byte("x")))
	if appErr, ok := shared.GetAppError(err); !ok || appErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("err = %v", err)
	}
}
