package domain

import (
	"errors"
	"time"
	"unicode/utf8"
)

// Content validation errors
var (
	ErrEmptyMessageText = errors.New("message text cannot be empty")
	ErrMessageTooLong   = errors.New("message text must be at most 255 characters long")
	ErrEmptyComment     = errors.New("comment content cannot be empty")
	ErrCommentTooLong   = errors.New("comment content must be at most 255 characters long")
	ErrInvalidUserID    = errors.New("user ID must be positive")
	ErrInvalidMessageID = errors.New("message ID must be positive")
)

// MaxContentLen bounds both message text and comment content, counted in
// runes so multibyte text gets the same limit the request validators apply.
const MaxContentLen = 255

// Message is a short post owned by its creator. Likes is a monotonically
// incremented counter; Comments are attached on reads that include them.
type Message struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Text      string    `json:"message"`
	Likes     int       `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
	Comments  []Comment `json:"comments"`
}

// Comment is an immutable remark on a message.
type Comment struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	MessageID int64     `json:"messageId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Like records that a user liked a message. At most one Like exists per
// (user, message) pair, enforced by a database uniqueness constraint.
type Like struct {
	ID        int64 `json:"id"`
	UserID    int64 `json:"userId"`
	MessageID int64 `json:"messageId"`
}

// NewMessage creates a new Message for the given owner.
// The ID is assigned by the database on insert.
func NewMessage(userID int64, text string) (*Message, error) {
	msg := &Message{
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
		Comments:  []Comment{},
	}

	if err := msg.Validate(); err != nil {
		return nil, err
	}

	return msg, nil
}

// Validate checks if the Message has valid data.
func (m *Message) Validate() error {
	if m.UserID <= 0 {
		return ErrInvalidUserID
	}
	if m.Text == "" {
		return ErrEmptyMessageText
	}
	if utf8.RuneCountInString(m.Text) > MaxContentLen {
		return ErrMessageTooLong
	}
	return nil
}

// NewComment creates a new Comment on the given message.
func NewComment(userID, messageID int64, content string) (*Comment, error) {
	comment := &Comment{
		UserID:    userID,
		MessageID: messageID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	if err := comment.Validate(); err != nil {
		return nil, err
	}

	return comment, nil
}

// Validate checks if the Comment has valid data.
func (c *Comment) Validate() error {
	if c.UserID <= 0 {
		return ErrInvalidUserID
	}
	if c.MessageID <= 0 {
		return ErrInvalidMessageID
	}
	if c.Content == "" {
		return ErrEmptyComment
	}
	if utf8.RuneCountInString(c.Content) > MaxContentLen {
		return ErrCommentTooLong
	}
	return nil
}
