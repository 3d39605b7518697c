package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rizanep/waqthecombackend1/internal/domain"
	"github.com/rizanep/waqthecombackend1/pkg/mylogger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	ListAdmins(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id int64, input *domain.UpdateUserInput, passwordHash string) error
	UpdatePassword(ctx context.Context, username, passwordHash string) error
}

const userColumns = `id, username, name, phn, email, role, blocked, active, is_admin, password_hash, created_at`

type userRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	tracer trace.Tracer
}

func NewUserRepository(pool *pgxpool.Pool, logger *zap.Logger) UserRepository {
	return &userRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("repository/user_repo"),
	}
}

func scanUser(row pgx.Row, u *domain.User) error {
	return row.Scan(
		&u.ID, &u.Username, &u.Name, &u.Phone, &u.Email,
		&u.Role, &u.Blocked, &u.Active, &u.IsAdmin, &u.PasswordHash, &u.CreatedAt,
	)
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("username", user.Username),
	)

	query := `
		INSERT INTO users (username, name, phn, email, role, blocked, active, is_admin, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id;
	`

	err := r.pool.QueryRow(
		ctx,
		query,
		user.Username,
		user.Name,
		user.Phone,
		user.Email,
		user.Role,
		user.Blocked,
		user.Active,
		user.IsAdmin,
		user.PasswordHash,
	).Scan(&user.ID)
	if err != nil {
		var pgError *pgconn.PgError
		if errors.As(err, &pgError) && pgError.Code == "23505" {
			return 0, ErrUserAlreadyExists
		}

		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Error inserting user",
			zap.String("username", user.Username),
			zap.Error(err),
		)

		return 0, fmt.Errorf("error inserting user: %w", err)
	}

	return user.ID, nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.GetByID")
	defer span.End()

	span.SetAttributes(attribute.Int64("id", id))

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1;`

	var u domain.User
	if err := scanUser(r.pool.QueryRow(ctx, query, id), &u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}

		span.RecordError(err)
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	return &u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.GetByEmail")
	defer span.End()

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1;`

	var u domain.User
	if err := scanUser(r.pool.QueryRow(ctx, query, email), &u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}

		span.RecordError(err)
		return nil, fmt.Errorf("error getting user by email: %w", err)
	}

	return &u, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.GetByUsername")
	defer span.End()

	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1;`

	var u domain.User
	if err := scanUser(r.pool.QueryRow(ctx, query, username), &u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}

		span.RecordError(err)
		return nil, fmt.Errorf("error getting user by username: %w", err)
	}

	return &u, nil
}

func (r *userRepo) List(ctx context.Context) ([]domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.List")
	defer span.End()

	query := `SELECT ` + userColumns + ` FROM users ORDER BY id;`

	return r.queryUsers(ctx, span, query)
}

func (r *userRepo) ListAdmins(ctx context.Context) ([]domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.ListAdmins")
	defer span.End()

	query := `SELECT ` + userColumns + ` FROM users WHERE is_admin = TRUE ORDER BY id;`

	return r.queryUsers(ctx, span, query)
}

func (r *userRepo) queryUsers(ctx context.Context, span trace.Span, query string) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("error querying users: %w", err)
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		var u domain.User
		if err := scanUser(rows, &u); err != nil {
			span.RecordError(err)

			return nil, fmt.Errorf("error scanning user: %w", err)
		}

		result = append(result, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

func (r *userRepo) Update(ctx context.Context, id int64, input *domain.UpdateUserInput, passwordHash string) error {
	ctx, span := r.tracer.Start(ctx, "UserRepository.Update")
	defer span.End()

	span.SetAttributes(attribute.Int64("id", id))

	var updates []string
	var args []interface{}
	argId := 1

	if input.Name != nil {
		updates = append(updates, fmt.Sprintf("name = $%d", argId))
		args = append(args, *input.Name)
		argId++
	}

	if input.Phone != nil {
		updates = append(updates, fmt.Sprintf("phn = $%d", argId))
		args = append(args, *input.Phone)
		argId++
	}

	if input.Email != nil {
		updates = append(updates, fmt.Sprintf("email = $%d", argId))
		args = append(args, *input.Email)
		argId++
	}

	if input.Role != nil {
		updates = append(updates, fmt.Sprintf("role = $%d", argId))
		args = append(args, *input.Role)
		argId++
	}

	if input.Blocked != nil {
		updates = append(updates, fmt.Sprintf("blocked = $%d", argId))
		args = append(args, *input.Blocked)
		argId++
	}

	if input.Active != nil {
		updates = append(updates, fmt.Sprintf("active = $%d", argId))
		args = append(args, *input.Active)
		argId++
	}

	if input.IsAdmin != nil {
		updates = append(updates, fmt.Sprintf("is_admin = $%d", argId))
		args = append(args, *input.IsAdmin)
		argId++
	}

	if passwordHash != "" {
		updates = append(updates, fmt.Sprintf("password_hash = $%d", argId))
		args = append(args, passwordHash)
		argId++
	}

	if len(updates) == 0 {
		return nil
	}

	query := `UPDATE users SET ` + strings.Join(updates, ", ") + fmt.Sprintf(" WHERE id = $%d", argId)
	args = append(args, id)

	commandTag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to update user",
			zap.Int64("id", id),
			zap.Error(err),
		)

		return fmt.Errorf("error updating user: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *userRepo) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	ctx, span := r.tracer.Start(ctx, "UserRepository.UpdatePassword")
	defer span.End()

	query := `
		UPDATE users
		SET password_hash = $2
		WHERE username = $1;
	`

	commandTag, err := r.pool.Exec(ctx, query, username, passwordHash)
	if err != nil {
		span.RecordError(err)

		return fmt.Errorf("error updating password: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}
