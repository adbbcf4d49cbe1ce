package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/murmurhq/murmur-api/internal/domain"
	"github.com/murmurhq/murmur-api/internal/platform/logger"
	"github.com/murmurhq/murmur-api/internal/store"
)

// PostgresMessageStore implements the store.MessageStore interface
// using a PostgreSQL database as the storage backend.
//
// It holds a *sql.DB rather than a DBTX because LikeMessage manages its own
// transaction.
type PostgresMessageStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresMessageStore creates a new PostgreSQL implementation of the
// MessageStore interface.
func NewPostgresMessageStore(db *sql.DB, log *slog.Logger) *PostgresMessageStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresMessageStore{
		db:     db,
		logger: log.With(slog.String("component", "message_store")),
	}
}

// Ensure PostgresMessageStore implements store.MessageStore interface
var _ store.MessageStore = (*PostgresMessageStore)(nil)

// CreateMessage implements store.MessageStore.CreateMessage.
func (s *PostgresMessageStore) CreateMessage(ctx context.Context, msg *domain.Message) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := msg.Validate(); err != nil {
		log.Warn("message validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("user_id", msg.UserID))
		return err
	}

	query := `
		INSERT INTO messages (user_id, message, likes, created_at)
		VALUES ($1, $2, 0, $3)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query, msg.UserID, msg.Text, msg.CreatedAt).Scan(&msg.ID)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: %v", store.ErrUserNotFound, err)
		}
		log.Error("failed to create message",
			slog.String("error", err.Error()),
			slog.Int64("user_id", msg.UserID))
		return MapError(err)
	}

	log.Info("message created successfully",
		slog.Int64("message_id", msg.ID),
		slog.Int64("user_id", msg.UserID))
	return nil
}

// ListMessagesByUser implements store.MessageStore.ListMessagesByUser.
// Comments are attached to each message in creation order.
func (s *PostgresMessageStore) ListMessagesByUser(ctx context.Context, userID int64) ([]domain.Message, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, message, likes, created_at
		FROM messages
		WHERE user_id = $1
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list messages",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	messages := []domain.Message{}
	index := map[int64]int{}
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.ID, &msg.UserID, &msg.Text, &msg.Likes, &msg.CreatedAt); err != nil {
			log.Error("failed to scan message row", slog.String("error", err.Error()))
			return nil, err
		}
		msg.Comments = []domain.Comment{}
		index[msg.ID] = len(messages)
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(messages) == 0 {
		return messages, nil
	}

	// One pass over all comments on the user's messages, grouped in Go.
	commentQuery := `
		SELECT c.id, c.user_id, c.message_id, c.content, c.created_at
		FROM comments c
		JOIN messages m ON m.id = c.message_id
		WHERE m.user_id = $1
		ORDER BY c.id
	`
	commentRows, err := s.db.QueryContext(ctx, commentQuery, userID)
	if err != nil {
		log.Error("failed to list comments for messages",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return nil, MapError(err)
	}
	defer closeRows(commentRows, log)

	for commentRows.Next() {
		var c domain.Comment
		if err := commentRows.Scan(&c.ID, &c.UserID, &c.MessageID, &c.Content, &c.CreatedAt); err != nil {
			log.Error("failed to scan comment row", slog.String("error", err.Error()))
			return nil, err
		}
		if i, ok := index[c.MessageID]; ok {
			messages[i].Comments = append(messages[i].Comments, c)
		}
	}
	if err := commentRows.Err(); err != nil {
		return nil, err
	}

	log.Debug("listed messages",
		slog.Int64("user_id", userID),
		slog.Int("count", len(messages)))
	return messages, nil
}

// GetMessageByID implements store.MessageStore.GetMessageByID.
// Returns store.ErrMessageNotFound if the message does not exist.
func (s *PostgresMessageStore) GetMessageByID(ctx context.Context, id int64) (*domain.Message, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, message, likes, created_at
		FROM messages
		WHERE id = $1
	`

	var msg domain.Message
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&msg.ID,
		&msg.UserID,
		&msg.Text,
		&msg.Likes,
		&msg.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("message not found", slog.Int64("message_id", id))
			return nil, store.ErrMessageNotFound
		}
		log.Error("failed to get message by ID",
			slog.String("error", err.Error()),
			slog.Int64("message_id", id))
		return nil, MapError(err)
	}

	comments, err := s.ListCommentsByMessage(ctx, id)
	if err != nil {
		return nil, err
	}
	msg.Comments = comments

	return &msg, nil
}

// LikeMessage implements store.MessageStore.LikeMessage.
//
// The like insert and the like-count increment run in one transaction. The
// UNIQUE (user_id, message_id) constraint on likes makes the operation safe
// under concurrent duplicate requests: exactly one of them inserts a row and
// increments the count, the rest observe alreadyLiked.
func (s *PostgresMessageStore) LikeMessage(ctx context.Context, userID, messageID int64) (bool, int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin like transaction", slog.String("error", err.Error()))
		return false, 0, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	insert := `
		INSERT INTO likes (user_id, message_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, message_id) DO NOTHING
	`
	result, err := tx.ExecContext(ctx, insert, userID, messageID)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Debug("like on missing message",
				slog.Int64("message_id", messageID),
				slog.Int64("user_id", userID))
			return false, 0, fmt.Errorf("%w: %v", store.ErrMessageNotFound, err)
		}
		log.Error("failed to insert like",
			slog.String("error", err.Error()),
			slog.Int64("message_id", messageID),
			slog.Int64("user_id", userID))
		return false, 0, MapError(err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return false, 0, err
	}
	if inserted == 0 {
		// Like already existed; nothing changed, nothing to commit.
		log.Debug("duplicate like ignored",
			slog.Int64("message_id", messageID),
			slog.Int64("user_id", userID))
		return true, 0, nil
	}

	var ownerID int64
	increment := `
		UPDATE messages
		SET likes = likes + 1
		WHERE id = $1
		RETURNING user_id
	`
	if err := tx.QueryRowContext(ctx, increment, messageID).Scan(&ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, 0, store.ErrMessageNotFound
		}
		log.Error("failed to increment like count",
			slog.String("error", err.Error()),
			slog.Int64("message_id", messageID))
		return false, 0, MapError(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit like transaction", slog.String("error", err.Error()))
		return false, 0, err
	}

	log.Info("message liked",
		slog.Int64("message_id", messageID),
		slog.Int64("user_id", userID))
	return false, ownerID, nil
}

// CreateComment implements store.MessageStore.CreateComment.
// Returns store.ErrMessageNotFound if the message does not exist.
func (s *PostgresMessageStore) CreateComment(ctx context.Context, comment *domain.Comment) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := comment.Validate(); err != nil {
		log.Warn("comment validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("message_id", comment.MessageID))
		return 0, err
	}

	query := `
		INSERT INTO comments (user_id, message_id, content, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		comment.UserID,
		comment.MessageID,
		comment.Content,
		comment.CreatedAt,
	).Scan(&comment.ID)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Debug("comment on missing message",
				slog.Int64("message_id", comment.MessageID))
			return 0, fmt.Errorf("%w: %v", store.ErrMessageNotFound, err)
		}
		log.Error("failed to create comment",
			slog.String("error", err.Error()),
			slog.Int64("message_id", comment.MessageID),
			slog.Int64("user_id", comment.UserID))
		return 0, MapError(err)
	}

	// The insert passed the foreign key check, so the message exists.
	var ownerID int64
	ownerQuery := `SELECT user_id FROM messages WHERE id = $1`
	if err := s.db.QueryRowContext(ctx, ownerQuery, comment.MessageID).Scan(&ownerID); err != nil {
		log.Error("failed to resolve message owner",
			slog.String("error", err.Error()),
			slog.Int64("message_id", comment.MessageID))
		return 0, MapError(err)
	}

	log.Info("comment created successfully",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("message_id", comment.MessageID))
	return ownerID, nil
}

// ListCommentsByMessage implements store.MessageStore.ListCommentsByMessage.
func (s *PostgresMessageStore) ListCommentsByMessage(ctx context.Context, messageID int64) ([]domain.Comment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, message_id, content, created_at
		FROM comments
		WHERE message_id = $1
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, messageID)
	if err != nil {
		log.Error("failed to list comments",
			slog.String("error", err.Error()),
			slog.Int64("message_id", messageID))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	comments := []domain.Comment{}
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.UserID, &c.MessageID, &c.Content, &c.CreatedAt); err != nil {
			log.Error("failed to scan comment row", slog.String("error", err.Error()))
			return nil, err
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}

func closeRows(rows *sql.Rows, log *slog.Logger) {
	if err := rows.Close(); err != nil {
		log.Error("failed to close rows", slog.String("error", err.Error()))
	}
}
