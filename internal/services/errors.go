package services

import "errors"

// Domain errors. Handlers translate these to HTTP statuses; anything
// else escaping a service is treated as an internal error.
var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrSelfVote        = errors.New("cannot vote on your own post")
	ErrNotVoted        = errors.New("you have not voted on this post")
	ErrInvalidVoteType = errors.New("vote type must be positive or negative")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("user with this email already exists")

	ErrInvalidToken  = errors.New("invalid or expired token")
	ErrTokenNotFound = errors.New("refresh token not found or expired")
)
