package store

import (
	"context"

	"github.com/murmurhq/murmur-api/internal/domain"
)

// MessageStore defines the interface for message, like, and comment
// persistence.
type MessageStore interface {
	// CreateMessage saves a new message to the store and assigns its ID.
	// Returns validation errors from the domain Message if data is invalid.
	CreateMessage(ctx context.Context, msg *domain.Message) error

	// ListMessagesByUser retrieves all messages owned by the given user,
	// each with its comments attached in creation order.
	// Returns an empty slice when the user has no messages.
	ListMessagesByUser(ctx context.Context, userID int64) ([]domain.Message, error)

	// GetMessageByID retrieves a single message with its comments attached.
	// Returns ErrMessageNotFound if the message does not exist.
	GetMessageByID(ctx context.Context, id int64) (*domain.Message, error)

	// LikeMessage records a like by userID on messageID. The insert and the
	// like-count increment run in a single transaction; a duplicate like is
	// detected by the store's uniqueness constraint, in which case
	// alreadyLiked is true and the count is left unchanged.
	// ownerID is the ID of the message's owner, for cache invalidation.
	// Returns ErrMessageNotFound if the message does not exist.
	LikeMessage(ctx context.Context, userID, messageID int64) (alreadyLiked bool, ownerID int64, err error)

	// CreateComment saves a new comment and assigns its ID.
	// ownerID is the ID of the commented message's owner.
	// Returns ErrMessageNotFound if the message does not exist.
	CreateComment(ctx context.Context, comment *domain.Comment) (ownerID int64, err error)

	// ListCommentsByMessage retrieves the comments on a message in creation
	// order. Returns an empty slice when the message has no comments.
	ListCommentsByMessage(ctx context.Context, messageID int64) ([]domain.Comment, error)
}
