package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/anlevch/go-taskboard/internal/models"
)

type sessionServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewSessionService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) SessionService {
	return &sessionServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *sessionServiceImpl) ResolveCaller(ctx context.Context, sessionID string) (models.Caller, string, error) {
	const selectSessionWithUserQuery = `
SELECT s.user_id,
       s.fingerprint,
       u.role
FROM sessions s
         JOIN users u ON u.id = s.user_id
WHERE s.id = $1
`
	var (
		userID      string
		fingerprint string
		role        string
	)
	err := s.pgPool.QueryRow(
		ctx,
		selectSessionWithUserQuery,
		sessionID,
	).Scan(
		&userID,
		&fingerprint,
		&role,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("session_id", sessionID).
				Msg("session not found")
			return models.Caller{}, "", ErrSessionNotFound
		}

		s.logger.Error().
			Err(err).
			Str("session_id", sessionID).
			Msg("failed to select session by id")
		return models.Caller{}, "", err
	}
	s.logger.Debug().
		Str("session_id", sessionID).
		Str("user_id", userID).
		Msg("resolved caller from session")

	caller := models.Caller{
		ID:         userID,
		Privileged: role == models.RoleAdmin,
	}
	return caller, fingerprint, nil
}
