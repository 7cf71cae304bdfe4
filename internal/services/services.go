package services

import (
	"context"
	"errors"
	"time"

	"github.com/anlevch/go-taskboard/internal/models"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrUserPasswordMismatch = errors.New("user password mismatch")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionExpired       = errors.New("session expired")

	ErrTaskNotFound = errors.New("task not found")
	// ErrTaskAccessDenied is returned when a task exists but belongs
	// to another owner and the caller is not privileged. The delivery
	// layer maps it to a response that carries no existence detail,
	// so an unprivileged caller cannot probe for other users' ids.
	ErrTaskAccessDenied = errors.New("task access denied")
)

type TaskService interface {
	// List returns one page of the caller's tasks matching the
	// filter. A privileged caller sees every owner's tasks. An empty
	// page is a normal result, not an error.
	List(ctx context.Context, caller models.Caller, filter models.TaskFilter) (*TaskPage, error)

	// Get returns a single task by id. It returns ErrTaskNotFound if
	// no such task exists, or ErrTaskAccessDenied if it belongs to
	// another owner and the caller is not privileged.
	Get(ctx context.Context, caller models.Caller, id string) (*models.Task, error)

	// Create stores a new pending task owned by the caller. The input
	// is validated at the delivery boundary before it reaches here.
	Create(ctx context.Context, caller models.Caller, params CreateTaskParams) (*models.Task, error)

	// Update overwrites the task's mutable fields and manages the
	// completed-at timestamp based on the completion transition.
	// Same not-found and access semantics as Get.
	Update(ctx context.Context, caller models.Caller, id string, params UpdateTaskParams) (*models.Task, error)

	// Delete removes the task permanently. Deleting the same id twice
	// yields ErrTaskNotFound the second time.
	Delete(ctx context.Context, caller models.Caller, id string) error

	// Stats aggregates counts over the caller's visible tasks, using
	// the same ownership scope as List.
	Stats(ctx context.Context, caller models.Caller) (*models.TaskStats, error)
}

type TaskPage struct {
	Items    []models.Task
	Total    int
	Page     int
	PageSize int
}

// TotalPages is the page count implied by the total match count and
// the page size.
func (p *TaskPage) TotalPages() int {
	if p.Total == 0 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

type CreateTaskParams struct {
	Title       string
	Description string
	DueDate     *time.Time
}

// UpdateTaskParams lists exactly the mutable task fields. All of them
// overwrite the stored values; the completion transition is resolved
// by the service against the previously stored state.
type UpdateTaskParams struct {
	Title       string
	Description string
	DueDate     *time.Time
	Completed   bool
}

type AuthService interface {
	// Login authenticates the user by email and password.
	//
	// It deletes all sessions with the same user ID and creates
	// a new session and generates a new JWT token pair.
	//
	// It returns ErrUserNotFound if the user with the given
	// email doesn't exist or ErrUserPasswordMismatch if the
	// given password doesn't match the user's password.
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Refresh updates the session with the given refresh token.
	//
	// It returns ErrSessionNotFound if the session with the
	// given refresh token doesn't exist or ErrSessionExpired
	// if the session is expired.
	Refresh(ctx context.Context, params RefreshParams) (*LoginResult, error)

	// Register a user with the given email and password.
	//
	// It hashes the password, generates a unique ID and creates a
	// session with the given fingerprint and a fresh JWT token pair.
	//
	// It returns ErrUserAlreadyExists if the user
	// with the given email already exists.
	Register(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Logout invalidates all sessions with the given user ID.
	Logout(ctx context.Context, userID string) error
}

type SessionService interface {
	// ResolveCaller loads the session and its user and returns the
	// caller identity for the request, together with the session
	// fingerprint for the middleware to verify.
	ResolveCaller(ctx context.Context, sessionID string) (models.Caller, string, error)
}

type LoginParams struct {
	Email       string
	Password    string
	Fingerprint string
}

type LoginResult struct {
	UserID                string
	SessionID             string
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

type RefreshParams struct {
	RefreshToken string
	Fingerprint  string
}
