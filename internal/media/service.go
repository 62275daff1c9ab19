package media

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/farmdirect/farmdirect-backend/pkg/auth"
	"github.com/farmdirect/farmdirect-backend/pkg/db/models"
	"github.com/farmdirect/farmdirect-backend/pkg/enums"
	pkgerrors "github.com/farmdirect/farmdirect-backend/pkg/errors"
)

const maxUploadBytes = 20 * 1024 * 1024

var allowedMimeTypes = []string{"image/png", "image/jpeg", "image/webp", "image/gif"}

type mediaRepository interface {
	Create(ctx context.Context, media *models.Media) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Media, error)
	Update(ctx context.Context, media *models.Media) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type objectStore interface {
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
	PublicURL(bucket, object string) string
	DeleteObject(ctx context.Context, bucket, object string) error
}

// Service handles image uploads: a presign step that records a pending
// row and hands the client a direct PUT URL, a finalize step once the
// bytes are in the bucket, and removal.
type Service struct {
	repo      mediaRepository
	store     objectStore
	bucket    string
	uploadTTL time.Duration
}

// NewService constructs the media service.
func NewService(repo mediaRepository, store objectStore, bucket string, uploadTTL time.Duration) (Service, error) {
	if repo == nil {
		return Service{}, errors.New("media: repository is required")
	}
	if store == nil {
		return Service{}, errors.New("media: object store is required")
	}
	if bucket == "" {
		return Service{}, errors.New("media: bucket is required")
	}
	if uploadTTL <= 0 {
		return Service{}, errors.New("media: upload ttl must be positive")
	}
	return Service{repo: repo, store: store, bucket: bucket, uploadTTL: uploadTTL}, nil
}

// PresignUpload records a pending media row and returns a signed PUT
// URL. Farmers and admins only; customers have nothing to upload.
func (s Service) PresignUpload(ctx context.Context, principal pkgAuth.Principal, input PresignInput) (*PresignOutput, error) {
	if !principal.IsAdmin() && !principal.IsFarmer() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only farmers and admins upload media")
	}

	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file_name is required")
	}
	if input.SizeBytes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size_bytes must be positive")
	}
	if input.SizeBytes > maxUploadBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("size_bytes must be at most %d", maxUploadBytes))
	}
	mimeType := strings.TrimSpace(input.MimeType)
	if !isAllowedMime(mimeType) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mime_type not allowed")
	}

	mediaID := uuid.New()
	objectKey := buildObjectKey(mediaID, fileName)

	var altText *string
	if alt := strings.TrimSpace(input.AltText); alt != "" {
		altText = &alt
	}
	row := &models.Media{
		ID:        mediaID,
		OwnerID:   principal.UserID,
		ObjectKey: objectKey,
		MimeType:  mimeType,
		SizeBytes: input.SizeBytes,
		AltText:   altText,
		Status:    enums.MediaStatusPending,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist media row")
	}

	expiresAt := time.Now().Add(s.uploadTTL)
	signedURL, err := s.store.SignedURL(s.bucket, objectKey, mimeType, s.uploadTTL)
	if err != nil {
		_ = s.repo.Delete(ctx, mediaID)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign upload url")
	}

	return &PresignOutput{
		MediaID:      mediaID,
		ObjectKey:    objectKey,
		SignedPUTURL: signedURL,
		ContentType:  mimeType,
		ExpiresAt:    expiresAt,
	}, nil
}

// FinalizeUpload marks a pending row uploaded and records its public
// URL. Only the uploader or an admin may finalize.
func (s Service) FinalizeUpload(ctx context.Context, principal pkgAuth.Principal, mediaID uuid.UUID) (*MediaDTO, error) {
	row, err := s.loadOwned(ctx, principal, mediaID)
	if err != nil {
		return nil, err
	}
	if row.Status == enums.MediaStatusDeleted {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "media was deleted")
	}

	publicURL := s.store.PublicURL(s.bucket, row.ObjectKey)
	row.Status = enums.MediaStatusUploaded
	row.PublicURL = &publicURL
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update media row")
	}
	return FromModel(row), nil
}

// Delete removes the object and its row. Only the uploader or an
// admin may delete.
func (s Service) Delete(ctx context.Context, principal pkgAuth.Principal, mediaID uuid.UUID) error {
	row, err := s.loadOwned(ctx, principal, mediaID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteObject(ctx, s.bucket, row.ObjectKey); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete object")
	}
	if err := s.repo.Delete(ctx, row.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete media row")
	}
	return nil
}

// GetByID returns one media record.
func (s Service) GetByID(ctx context.Context, id uuid.UUID) (*MediaDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "media not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load media")
	}
	return FromModel(row), nil
}

func (s Service) loadOwned(ctx context.Context, principal pkgAuth.Principal, id uuid.UUID) (*models.Media, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "media not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load media")
	}
	if !principal.IsAdmin() && row.OwnerID != principal.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not the media owner")
	}
	return row, nil
}

func isAllowedMime(mimeType string) bool {
	for _, candidate := range allowedMimeTypes {
		if strings.EqualFold(candidate, mimeType) {
			return true
		}
	}
	return false
}

func buildObjectKey(id uuid.UUID, fileName string) string {
	cleanName := sanitizeFileName(fileName)
	if cleanName == "" {
		cleanName = id.String()
	}
	return fmt.Sprintf("media/%s/%s", id.String(), cleanName)
}

func sanitizeFileName(name string) string {
	clean := path.Base(strings.TrimSpace(name))
	if clean == "" || clean == "." || clean == "/" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case r == '/' || r == '\\' || unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-_.")
}
