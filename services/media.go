package services

import (
	stdContext "context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/bloolabb/bloolabb_api/dto"
	"github.com/bloolabb/bloolabb_api/shared"
	log "github.com/sirupsen/logrus"
)

const (
	maxIconSize  = 2 * 1024 * 1024
	maxMediaSize = 20 * 1024 * 1024
)

var (
	imageExts = []string{".jpg", ".jpeg", ".png", ".webp", ".gif", ".svg"}
	mediaExts = []string{".jpg", ".jpeg", ".png", ".webp", ".gif", ".mp3", ".mp4", ".webm"}
)

type MediaService struct {
	context.DefaultService

	store   ObjectStore
	badges  *BadgeService
	content *ContentService
	now     func() time.Time
}

const MEDIA_SVC = "media_svc"

func (svc MediaService) Id() string {
	return MEDIA_SVC
}

func (svc *MediaService) Configure(ctx *context.Context) error {
	svc.now = time.Now
	return svc.DefaultService.Configure(ctx)
}

func (svc *MediaService) Start() error {
	svc.store = svc.Service(MINIO_SVC).(*MinIOService)
	svc.badges = svc.Service(BADGE_SVC).(*BadgeService)
	svc.content = svc.Service(CONTENT_SVC).(*ContentService)
	return nil
}

func (svc *MediaService) UploadBadgeIcon(ctx stdContext.Context, badgeID string, file *multipart.FileHeader) (*dto.MediaUploadResponse, error) {
	if !hasExt(file.Filename, imageExts) {
		return nil, shared.NewBadRequestError(nil, "Invalid image file format. Supported: JPG, PNG, WEBP, GIF, SVG")
	}
	if file.Size > maxIconSize {
		return nil, shared.NewBadRequestError(nil, "Icon file too large. Maximum size: 2MB")
	}

	resp, err := svc.upload(ctx, "badges", badgeID, file)
	if err != nil {
		return nil, err
	}

	if err := svc.badges.SetBadgeIcon(badgeID, resp.URL); err != nil {
		svc.discard(ctx, resp.ObjectKey)
		return nil, err
	}
	return resp, nil
}

func (svc *MediaService) UploadLessonMedia(ctx stdContext.Context, lessonID string, file *multipart.FileHeader) (*dto.MediaUploadResponse, error) {
	if !hasExt(file.Filename, mediaExts) {
		return nil, shared.NewBadRequestError(nil, "Invalid media file format. Supported: JPG, PNG, WEBP, GIF, MP3, MP4, WEBM")
	}
	if file.Size > maxMediaSize {
		return nil, shared.NewBadRequestError(nil, "Media file too large. Maximum size: 20MB")
	}

	resp, err := svc.upload(ctx, "lessons", lessonID, file)
	if err != nil {
		return nil, err
	}

	if err := svc.content.SetLessonMedia(lessonID, resp.URL); err != nil {
		svc.discard(ctx, resp.ObjectKey)
		return nil, err
	}
	return resp, nil
}

func (svc *MediaService) upload(ctx stdContext.Context, dir, ownerID string, file *multipart.FileHeader) (*dto.MediaUploadResponse, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	objectName := fmt.Sprintf("%s/%s_%d%s", dir, ownerID, svc.now().Unix(), ext)
	contentType := file.Header.Get("Content-Type")

	src, err := file.Open()
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to open uploaded file")
	}
	defer src.Close()

	if err := svc.store.UploadFile(ctx, objectName, src, file.Size, contentType); err != nil {
		return nil, shared.NewInternalError(err, "Failed to upload file to storage")
	}

	log.WithFields(log.Fields{"object": objectName, "size": file.Size}).Info("Uploaded media file")

	return &dto.MediaUploadResponse{
		ObjectKey:   objectName,
		URL:         svc.store.PublicURL(objectName),
		ContentType: contentType,
		Size:        file.Size,
	}, nil
}

func (svc *MediaService) discard(ctx stdContext.Context, objectName string) {
	if err := svc.store.DeleteFile(ctx, objectName); err != nil {
		log.WithError(err).WithField("object", objectName).Warn("Failed to remove orphaned upload")
	}
}

func hasExt(filename string, allowed []string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}
