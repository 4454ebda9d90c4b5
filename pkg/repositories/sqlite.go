package repositories

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/skysquad/skysquad/pkg/repositories/models"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(ctx context.Context, path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}
	// SQLite handles one writer at a time, and in-memory databases are
	// per-connection.
	db.SetMaxOpenConns(1)

	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %v", err)
	}

	for _, entry := range entries {
		migration, err := fs.ReadFile(migrationsFS, "migrations/"+entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %v", entry.Name(), err)
		}

		if _, err := db.ExecContext(ctx, string(migration)); err != nil {
			return nil, fmt.Errorf("failed to execute migration %s: %v", entry.Name(), err)
		}
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) CreateUser(ctx context.Context, username string, email string, passwordHash string) (*models.User, error) {
	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	q := `
	INSERT INTO users (id, username, email, password_hash, created_at)
	VALUES (?, ?, ?, ?, ?);
	`
	_, err := r.db.ExecContext(ctx, q, user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, &ErrUsernameExists{}
		}
		return nil, fmt.Errorf("failed to insert user: %v", err)
	}

	return user, nil
}

const userColumns = `id, username, email, password_hash, experience, level, total_stars, special_stars, login_streak, last_login, created_at`

func (r *SQLiteRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var lastLogin sql.NullTime
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
		if err == sql.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan user: %v", err)
	}
	if lastLogin.Valid {
		user.LastLogin = lastLogin.Time
	}
	return user, nil
}

func (r *SQLiteRepository) GetUser(ctx context.Context, userID string) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = ?;`
	return r.scanUser(r.db.QueryRowContext(ctx, q, userID))
}

func (r *SQLiteRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE username = ?;`
	return r.scanUser(r.db.QueryRowContext(ctx, q, username))
}

func (r *SQLiteRepository) UpdateUserProgression(ctx context.Context, userID string, experience int, level int) error {
	q := `UPDATE users SET experience = ?, level = ? WHERE id = ?;`
	if _, err := r.db.ExecContext(ctx, q, experience, level, userID); err != nil {
		return fmt.Errorf("failed to update user progression: %v", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateUserStars(ctx context.Context, userID string, totalStars int, specialStars int) error {
	q := `UPDATE users SET total_stars = ?, special_stars = ? WHERE id = ?;`
	if _, err := r.db.ExecContext(ctx, q, totalStars, specialStars, userID); err != nil {
		return fmt.Errorf("failed to update user stars: %v", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateUserLoginStreak(ctx context.Context, userID string, streak int, lastLogin time.Time) error {
	q := `UPDATE users SET login_streak = ?, last_login = ? WHERE id = ?;`
	if _, err := r.db.ExecContext(ctx, q, streak, lastLogin, userID); err != nil {
		return fmt.Errorf("failed to update user login streak: %v", err)
	}
	return nil
}

func (r *SQLiteRepository) UnlockAchievement(ctx context.Context, userID string, achievementID string) (bool, error) {
	q := `
	INSERT INTO user_achievements (user_id, achievement_id, unlocked_at)
	VALUES (?, ?, ?)
	ON CONFLICT (user_id, achievement_id) DO NOTHING;
	`
	result, err := r.db.ExecContext(ctx, q, userID, achievementID, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("failed to unlock achievement: %v", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %v", err)
	}
	return rows > 0, nil
}

func (r *SQLiteRepository) ListUnlockedAchievements(ctx context.Context, userID string) ([]string, error) {
	q := `SELECT achievement_id FROM user_achievements WHERE user_id = ? ORDER BY unlocked_at;`
	rows, err := r.db.QueryContext(ctx, q, userID)
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

func (r *SQLiteRepository) GetChallengeProgress(ctx context.Context, userID string, challengeID string) (int, error) {
	q := `SELECT progress FROM user_challenges WHERE user_id = ? AND challenge_id = ?;`
	var progress int
	if err := r.db.QueryRowContext(ctx, q, userID, challengeID).Scan(&progress); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to scan challenge progress: %v", err)
	}
	return progress, nil
}

func (r *SQLiteRepository) AddChallengeProgress(ctx context.Context, userID string, challengeID string, delta int) error {
	q := `
	INSERT INTO user_challenges (user_id, challenge_id, progress)
	VALUES (?, ?, ?)
	ON CONFLICT (user_id, challenge_id) DO UPDATE SET progress = progress + excluded.progress;
	`
	if _, err := r.db.ExecContext(ctx, q, userID, challengeID, delta); err != nil {
		return fmt.Errorf("failed to add challenge progress: %v", err)
	}
	return nil
}
