package api

// Common request/response structures

// SignUpRequest defines the payload for the user sign-up endpoint.
type SignUpRequest struct {
	Username string `json:"username" validate:"required,min=3,max=20"`
	Password string `json:"password" validate:"required,min=8,max=26"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=20"`
	Password string `json:"password" validate:"required,min=8,max=26"`
}

// CreateMessageRequest defines the payload for posting a message.
type CreateMessageRequest struct {
	Message string `json:"message" validate:"required,min=1,max=255"`
}

// LikeMessageRequest defines the payload for liking a message.
type LikeMessageRequest struct {
	MessageID int64 `json:"messageId" validate:"required,gt=0"`
}

// CommentMessageRequest defines the payload for commenting on a message.
type CommentMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=255"`
}

// CreatedResponse is the envelope for operations that create a row and
// report its new ID.
type CreatedResponse struct {
	Success bool   `json:"success"`
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// DataResponse is the envelope for read operations.
type DataResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
}

// StatusResponse is the envelope for operations that only report an outcome.
// Success is omitted when false so the duplicate-like body stays flat.
type StatusResponse struct {
	Success bool   `json:"success,omitempty"`
	Message string `json:"message"`
}

// LoginResponse is the envelope for a successful login.
type LoginResponse struct {
	Success bool      `json:"success"`
	User    LoginUser `json:"user"`
}

// LoginUser carries the authenticated user's ID and token.
type LoginUser struct {
	ID    int64  `json:"id"`
	Token string `json:"token"`
}
