package media

import (
	"time"

	"github.com/google/uuid"

	"github.com/farmdirect/farmdirect-backend/pkg/db/models"
)

// PresignInput models a request for a direct-upload URL.
type PresignInput struct {
	FileName  string `json:"file_name" validate:"required"`
	MimeType  string `json:"mime_type" validate:"required"`
	SizeBytes int64  `json:"size_bytes" validate:"gt=0"`
	AltText   string `json:"alt_text"`
}

// PresignOutput is returned after the pending media row is created.
type PresignOutput struct {
	MediaID      uuid.UUID `json:"media_id"`
	ObjectKey    string    `json:"object_key"`
	SignedPUTURL string    `json:"signed_put_url"`
	ContentType  string    `json:"content_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// MediaDTO is the serialized media record.
type MediaDTO struct {
	ID        uuid.UUID `json:"id"`
	ObjectKey string    `json:"object_key"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	AltText   *string   `json:"alt_text,omitempty"`
	PublicURL *string   `json:"public_url,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// FromModel maps the DB row to its DTO.
func FromModel(m *models.Media) *MediaDTO {
	if m == nil {
		return nil
	}
	return &MediaDTO{
		ID:        m.ID,
		ObjectKey: m.ObjectKey,
		MimeType:  m.MimeType,
		SizeBytes: m.SizeBytes,
		AltText:   m.AltText,
		PublicURL: m.PublicURL,
		Status:    m.Status.String(),
		CreatedAt: m.CreatedAt,
	}
}
