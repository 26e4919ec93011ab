package registration

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/samyukta/registration-service/internal/domain"
)

var deckExtensions = map[string]string{
	"application/pdf":               ".pdf",
	"application/vnd.ms-powerpoint": ".ppt",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": ".pptx",
}

type PitchDeckCmd struct {
	RegistrationID string
	ActorID        string
	ActorRole      string
	ContentType    string
	Size           int64
}

// PitchDeckUploadURL hands out a presigned PUT for a team's pitch deck and
// records the object key on the registration.
func (s *Service) PitchDeckUploadURL(ctx context.Context, cmd PitchDeckCmd) (*PresignedUpload, error) {
	if s.storage == nil {
		return nil, domain.ErrUnavailable("pitch deck uploads are not configured")
	}

	ct := strings.ToLower(strings.TrimSpace(cmd.ContentType))
	ext, ok := deckExtensions[ct]
	if !ok {
		return nil, domain.ErrValidationMeta("invalid content type", map[string]string{
			"content_type": "must be a PDF or PowerPoint file",
		})
	}
	if cmd.Size <= 0 || cmd.Size > s.maxDeckBytes {
		return nil, domain.ErrValidationMeta("invalid size", map[string]string{
			"size": fmt.Sprintf("must be between 1 and %d bytes", s.maxDeckBytes),
		})
	}

	r, err := s.repo.GetByID(ctx, cmd.RegistrationID)
	if err != nil {
		return nil, err
	}
	if !canView(r, cmd.ActorID, cmd.ActorRole) {
		return nil, domain.ErrForbidden("not allowed")
	}
	if r.Status == domain.StatusRejected {
		return nil, domain.ErrInvalidState("registration was rejected")
	}
	if r.Demand()[domain.CategoryPitch] == 0 {
		return nil, domain.ErrInvalidState("team has no startup pitch participants")
	}

	key := fmt.Sprintf("pitch-decks/%s/%s%s", r.ID, uuid.NewString(), ext)
	up, err := s.storage.PresignPut(ctx, key, ct, cmd.Size)
	if err != nil {
		return nil, domain.ErrUnavailable("could not prepare upload")
	}
	if err := s.repo.SetPitchDeck(ctx, r.ID, key, s.clock.Now()); err != nil {
		return nil, err
	}
	return &up, nil
}
