package application

import (
	"context"
	"path"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/famcare/chat-service/internal/domain/apperr"
	"github.com/famcare/chat-service/internal/domain/entity"
	repo "github.com/famcare/chat-service/internal/domain/repository"
	"github.com/famcare/chat-service/pkg/helpers"
)

// DefaultPageSize is the conversation window applied when the caller does
// not paginate.
const DefaultPageSize = 50

// MessageService implements contact listing, conversation retrieval and
// message persistence. It never pushes; the REST facade asks the gateway to
// push only after a successful persist.
type MessageService struct {
	Users     repo.UserRepository
	Messages  repo.MessageRepository
	Logger    *logrus.Logger
	GCS       *storage.Client
	GCSBucket string
}

func NewMessageService(users repo.UserRepository, messages repo.MessageRepository, logger *logrus.Logger, gcs *storage.Client, gcsBucket string) *MessageService {
	return &MessageService{Users: users, Messages: messages, Logger: logger, GCS: gcs, GCSBucket: gcsBucket}
}

// ListContacts returns every user except the requester, banned users
// excluded. No pagination; the UI filters on top of this raw list.
func (s *MessageService) ListContacts(ctx context.Context, requesterID string) ([]*entity.User, error) {
	return s.Users.ListContacts(ctx, requesterID)
}

// GetConversation returns both directions of the pair, ascending by
// creation time. Page defaults to 1 and limit to DefaultPageSize.
func (s *MessageService) GetConversation(ctx context.Context, requesterID, otherID string, page, limit int) ([]*entity.Message, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	return s.Messages.Conversation(ctx, requesterID, otherID, page, limit)
}

type SendMessageInput struct {
	SenderID   string
	ReceiverID string
	Text       string
	ImageRef   string
}

// SendMessage validates and persists a message. At least one of text/image
// is required; the receiver must exist. Inline data-URI images are uploaded
// to GCS first so the stored record carries a durable reference.
func (s *MessageService) SendMessage(ctx context.Context, in SendMessageInput) (*entity.Message, error) {
	if in.Text == "" && in.ImageRef == "" {
		return nil, apperr.Validation("message must contain text or image")
	}
	receiver, err := s.Users.GetByID(ctx, in.ReceiverID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.NotFound("receiver not found")
		}
		return nil, err
	}

	imageURL := in.ImageRef
	if ct, data, ok := helpers.ParseDataURI(in.ImageRef); ok {
		if s.GCS == nil || s.GCSBucket == "" {
			return nil, apperr.Validation("inline image upload is not configured")
		}
		object := path.Join("messages", in.SenderID, uuid.NewString()+helpers.ExtForContentType(ct))
		imageURL, err = helpers.UploadBytesToGCS(ctx, s.GCS, s.GCSBucket, object, ct, data)
		if err != nil {
			return nil, apperr.Internal(err)
		}
	}

	m := &entity.Message{
		SenderID:   in.SenderID,
		ReceiverID: receiver.ID,
		Text:       in.Text,
		ImageURL:   imageURL,
	}
	if err := s.Messages.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}
