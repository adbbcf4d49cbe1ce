package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/murmurhq/murmur-api/internal/api/shared"
	"github.com/murmurhq/murmur-api/internal/domain"
	"github.com/murmurhq/murmur-api/internal/platform/logger"
	"github.com/murmurhq/murmur-api/internal/platform/redis"
	"github.com/murmurhq/murmur-api/internal/store"
)

// FeedCache is the cache-aside layer in front of the message feed. The redis
// implementation satisfies it; handlers tolerate a nil cache.
type FeedCache interface {
	GetFeed(ctx context.Context, userID int64) ([]domain.Message, error)
	SetFeed(ctx context.Context, userID int64, messages []domain.Message) error
	Invalidate(ctx context.Context, userID int64) error
}

// Ensure the redis implementation satisfies the interface
var _ FeedCache = (*redis.FeedCache)(nil)

// MessageHandler handles message-related API requests.
type MessageHandler struct {
	messageStore store.MessageStore
	feedCache    FeedCache // may be nil when caching is disabled
}

// NewMessageHandler creates a new MessageHandler with the given dependencies.
func NewMessageHandler(messageStore store.MessageStore, feedCache FeedCache) *MessageHandler {
	return &MessageHandler{
		messageStore: messageStore,
		feedCache:    feedCache,
	}
}

// CreateMessage handles POST /v1/message.
func (h *MessageHandler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req CreateMessageRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid Input")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid Input")
		return
	}

	msg, err := domain.NewMessage(userID, req.Message)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid Input")
		return
	}

	if err := h.messageStore.CreateMessage(r.Context(), msg); err != nil {
		HandleAPIError(w, r, err, "Internal Server Error")
		return
	}

	h.invalidateFeed(r.Context(), userID)

	shared.RespondWithJSON(w, r, http.StatusOK, CreatedResponse{
		Success: true,
		ID:      msg.ID,
		Message: "Message Created",
	})
}

// ListMessages handles GET /v1/messages. The feed is scoped to the
// authenticated caller and served cache-aside when a cache is configured.
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
		return
	}

	log := logger.FromContextOrDefault(r.Context(), slog.Default())

	if h.feedCache != nil {
		messages, err := h.feedCache.GetFeed(r.Context(), userID)
		if err == nil {
			shared.RespondWithJSON(w, r, http.StatusOK, DataResponse{
				Success: true,
				Data:    messages,
				Message: "Messages retrieved",
			})
			return
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			log.Warn("feed cache read failed",
				slog.Int64("user_id", userID),
				slog.String("error", err.Error()))
		}
	}

	messages, err := h.messageStore.ListMessagesByUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Internal Server Error")
		return
	}

	if h.feedCache != nil {
		if err := h.feedCache.SetFeed(r.Context(), userID, messages); err != nil {
			log.Warn("feed cache write failed",
				slog.Int64("user_id", userID),
				slog.String("error", err.Error()))
		}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DataResponse{
		Success: true,
		Data:    messages,
		Message: "Messages retrieved",
	})
}

// GetMessage handles GET /v1/message/{id}. The lookup is by path ID
// regardless of who posted the message.
func (h *MessageHandler) GetMessage(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUserIDFromContext(r); !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
		return
	}

	messageID, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid Input")
		return
	}

	msg, err := h.messageStore.GetMessageByID(r.Context(), messageID)
	if err != nil {
		HandleAPIError(w, r, err, "Internal Server Error")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DataResponse{
		Success: true,
		Data:    msg,
		Message: "Message retrieved",
	})
}

// LikeMessage handles POST /v1/message/like. Liking the same message twice
// is a no-op reported as "Already liked".
func (h *MessageHandler) LikeMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req LikeMessageRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid Input")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid Input")
		return
	}

	alreadyLiked, ownerID, err := h.messageStore.LikeMessage(r.Context(), userID, req.MessageID)
	if err != nil {
		HandleAPIError(w, r, err, "Internal Server Error")
		return
	}

	if alreadyLiked {
		shared.RespondWithJSON(w, r, http.StatusOK, StatusResponse{
			Message: "Already liked",
		})
		return
	}

	h.invalidateFeed(r.Context(), ownerID)

	shared.RespondWithJSON(w, r, http.StatusOK, StatusResponse{
		Success: true,
		Message: "Message Liked",
	})
}

// CommentMessage handles POST /v1/message/{id}/comment.
func (h *MessageHandler) CommentMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
		return
	}

	messageID, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid Input")
		return
	}

	var req CommentMessageRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid Input")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid Input")
		return
	}

	comment, err := domain.NewComment(userID, messageID, req.Content)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid Input")
		return
	}

	ownerID, err := h.messageStore.CreateComment(r.Context(), comment)
	if err != nil {
		HandleAPIError(w, r, err, "Internal Server Error")
		return
	}

	h.invalidateFeed(r.Context(), ownerID)

	shared.RespondWithJSON(w, r, http.StatusOK, CreatedResponse{
		Success: true,
		ID:      comment.ID,
		Message: "Added comment",
	})
}

// ListComments handles GET /v1/message/{id}/comments.
func (h *MessageHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUserIDFromContext(r); !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
		return
	}

	messageID, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid Input")
		return
	}

	// A missing message yields an empty list rather than a 404.
	comments, err := h.messageStore.ListCommentsByMessage(r.Context(), messageID)
	if err != nil {
		HandleAPIError(w, r, err, "Internal Server Error")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DataResponse{
		Success: true,
		Data:    comments,
		Message: "Comments retrieved",
	})
}

// invalidateFeed drops the owner's cached feed after a write. Cache failures
// only log; the write already succeeded.
func (h *MessageHandler) invalidateFeed(ctx context.Context, userID int64) {
	if h.feedCache == nil || userID <= 0 {
		return
	}
	if err := h.feedCache.Invalidate(ctx, userID); err != nil {
		logger.FromContextOrDefault(ctx, slog.Default()).Warn("feed cache invalidation failed",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()))
	}
}
