package mocks

import (
	"context"

	"github.com/murmurhq/murmur-api/internal/domain"
	"github.com/murmurhq/murmur-api/internal/store"
)

// MockMessageStore implements store.MessageStore for testing
type MockMessageStore struct {
	// CreateMessageFn allows test cases to mock the CreateMessage behavior
	CreateMessageFn func(ctx context.Context, msg *domain.Message) error

	// ListMessagesByUserFn allows test cases to mock the ListMessagesByUser behavior
	ListMessagesByUserFn func(ctx context.Context, userID int64) ([]domain.Message, error)

	// GetMessageByIDFn allows test cases to mock the GetMessageByID behavior
	GetMessageByIDFn func(ctx context.Context, id int64) (*domain.Message, error)

	// LikeMessageFn allows test cases to mock the LikeMessage behavior
	LikeMessageFn func(ctx context.Context, userID, messageID int64) (bool, int64, error)

	// CreateCommentFn allows test cases to mock the CreateComment behavior
	CreateCommentFn func(ctx context.Context, comment *domain.Comment) (int64, error)

	// ListCommentsByMessageFn allows test cases to mock the ListCommentsByMessage behavior
	ListCommentsByMessageFn func(ctx context.Context, messageID int64) ([]domain.Comment, error)

	// Default values used when functions aren't explicitly defined
	Message      *domain.Message
	Messages     []domain.Message
	Comments     []domain.Comment
	AlreadyLiked bool
	OwnerID      int64
	Err          error
}

// CreateMessage implements the store.MessageStore interface
func (m *MockMessageStore) CreateMessage(ctx context.Context, msg *domain.Message) error {
	if m.CreateMessageFn != nil {
		return m.CreateMessageFn(ctx, msg)
	}
	if m.Err == nil && m.Message != nil {
		msg.ID = m.Message.ID
	}
	return m.Err
}

// ListMessagesByUser implements the store.MessageStore interface
func (m *MockMessageStore) ListMessagesByUser(ctx context.Context, userID int64) ([]domain.Message, error) {
	if m.ListMessagesByUserFn != nil {
		return m.ListMessagesByUserFn(ctx, userID)
	}
	return m.Messages, m.Err
}

// GetMessageByID implements the store.MessageStore interface
func (m *MockMessageStore) GetMessageByID(ctx context.Context, id int64) (*domain.Message, error) {
	if m.GetMessageByIDFn != nil {
		return m.GetMessageByIDFn(ctx, id)
	}
	return m.Message, m.Err
}

// LikeMessage implements the store.MessageStore interface
func (m *MockMessageStore) LikeMessage(ctx context.Context, userID, messageID int64) (bool, int64, error) {
	if m.LikeMessageFn != nil {
		return m.LikeMessageFn(ctx, userID, messageID)
	}
	return m.AlreadyLiked, m.OwnerID, m.Err
}

// CreateComment implements the store.MessageStore interface
func (m *MockMessageStore) CreateComment(ctx context.Context, comment *domain.Comment) (int64, error) {
	if m.CreateCommentFn != nil {
		return m.CreateCommentFn(ctx, comment)
	}
	return m.OwnerID, m.Err
}

// ListCommentsByMessage implements the store.MessageStore interface
func (m *MockMessageStore) ListCommentsByMessage(ctx context.Context, messageID int64) ([]domain.Comment, error) {
	if m.ListCommentsByMessageFn != nil {
		return m.ListCommentsByMessageFn(ctx, messageID)
	}
	return m.Comments, m.Err
}

// Ensure MockMessageStore implements the interface
var _ store.MessageStore = (*MockMessageStore)(nil)
