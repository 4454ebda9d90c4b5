package repositories

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/skysquad/skysquad/pkg/repositories/models"
)

const pgUniqueViolationCode = "23505"

type PostgresRepository struct {
	conn *pgx.Conn
}

// NewPostgresRepository connects to the database and applies the
// embedded migrations. The caller is responsible for calling Close().
func NewPostgresRepository(ctx context.Context, connStr string) (*PostgresRepository, error) {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %v", err)
	}

	for _, entry := range entries {
		migration, err := fs.ReadFile(migrationsFS, "migrations/"+entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %v", entry.Name(), err)
		}

		if _, err := conn.Exec(ctx, string(migration)); err != nil {
			return nil, fmt.Errorf("failed to execute migration %s: %v", entry.Name(), err)
		}
	}

	return &PostgresRepository{
		conn: conn,
	}, nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	return r.conn.Close(ctx)
}

func (r *PostgresRepository) CreateUser(ctx context.Context, username string, email string, passwordHash string) (*models.User, error) {
	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	q := `
	INSERT INTO users (id, username, email, password_hash, created_at)
	VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.conn.Exec(ctx, q, user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode {
			return nil, &ErrUsernameExists{}
		}
		return nil, fmt.Errorf("failed to insert user: %v", err)
	}

	return user, nil
}

func (r *PostgresRepository) scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	var lastLogin *time.Time
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Experience,
		&user.Level,
		&user.TotalStars,
		&user.SpecialStars,
		&user.LoginStreak,
		&lastLogin,
		&user.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan user: %v", err)
	}
	if lastLogin != nil {
		user.LastLogin = *lastLogin
	}
	return user, nil
}

func (r *PostgresRepository) GetUser(ctx context.Context, userID string) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1;`
	return r.scanUser(r.conn.QueryRow(ctx, q, userID))
}

func (r *PostgresRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE username = $1;`
	return r.scanUser(r.conn.QueryRow(ctx, q, username))
}

func (r *PostgresRepository) UpdateUserProgression(ctx context.Context, userID string, experience int, level int) error {
	q := `UPDATE users SET experience = $1, level = $2 WHERE id = $3;`
	if _, err := r.conn.Exec(ctx, q, experience, level, userID); err != nil {
		return fmt.Errorf("failed to update user progression: %v", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateUserStars(ctx context.Context, userID string, totalStars int, specialStars int) error {
	q := `UPDATE users SET total_stars = $1, special_stars = $2 WHERE id = $3;`
	if _, err := r.conn.Exec(ctx, q, totalStars, specialStars, userID); err != nil {
		return fmt.Errorf("failed to update user stars: %v", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateUserLoginStreak(ctx context.Context, userID string, streak int, lastLogin time.Time) error {
	q := `UPDATE users SET login_streak = $1, last_login = $2 WHERE id = $3;`
	if _, err := r.conn.Exec(ctx, q, streak, lastLogin, userID); err != nil {
		return fmt.Errorf("failed to update user login streak: %v", err)
	}
	return nil
}

func (r *PostgresRepository) UnlockAchievement(ctx context.Context, userID string, achievementID string) (bool, error) {
	q := `
	INSERT INTO user_achievements (user_id, achievement_id, unlocked_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (user_id, achievement_id) DO NOTHING;
	`
	result, err := r.conn.Exec(ctx, q, userID, achievementID, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("failed to unlock achievement: %v", err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *PostgresRepository) ListUnlockedAchievements(ctx context.Context, userID string) ([]string, error) {
	q := `SELECT achievement_id FROM user_achievements WHERE user_id = $1 ORDER BY unlocked_at;`
	rows, err := r.conn.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query achievements: %v", err)
	}
	defer rows.Close()

	var achievementIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %v", err)
		}
		achievementIDs = append(achievementIDs, id)
	}

	return achievementIDs, rows.Err()
}

func (r *PostgresRepository) GetChallengeProgress(ctx context.Context, userID string, challengeID string) (int, error) {
	q := `SELECT progress FROM user_challenges WHERE user_id = $1 AND challenge_id = $2;`
	var progress int
	if err := r.conn.QueryRow(ctx, q, userID, challengeID).Scan(&progress); err != nil {
		if err == pgx.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to scan challenge progress: %v", err)
	}
	return progress, nil
}

func (r *PostgresRepository) AddChallengeProgress(ctx context.Context, userID string, challengeID string, delta int) error {
	q := `
	INSERT INTO user_challenges (user_id, challenge_id, progress)
	VALUES ($1, $2, $3)
	ON CONFLICT (user_id, challenge_id) DO UPDATE SET progress = user_challenges.progress + excluded.progress;
	`
	if _, err := r.conn.Exec(ctx, q, userID, challengeID, delta); err != nil {
		return fmt.Errorf("failed to add challenge progress: %v", err)
	}
	return nil
}
