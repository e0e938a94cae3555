package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-study-keeper/internal/logger"
	"github.com/MKhiriev/go-study-keeper/models"
)

const usersTable = "users"

var userColumns = []string{"user_id", "email", "password_hash", "token_version", "created_at"}

// userRepository is the SQL implementation of [UserRepository].
// It handles account creation, lookup and credential updates against the
// "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser persists a new user record and returns it with server-assigned
// fields (UserID, SessionVersion, CreatedAt).
//
// Error handling:
//   - unique violation on email → [ErrLoginAlreadyExists].
//   - any other driver-level error → wrapped [ErrExecutingStatement].
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.
		Insert(usersTable).
		Columns("email", "password_hash", "token_version", "created_at").
		Values(user.Email, user.PasswordHash, 1, time.Now().UTC()).
		Suffix("RETURNING user_id, email, password_hash, token_version, created_at").
		ToSql()
	if err != nil {
		return models.User{}, errors.Join(ErrBuildingSQLQuery, err)
	}

	created, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrLoginAlreadyExists
		}
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error creating user")
		return models.User{}, r.db.wrap(ErrExecutingStatement, err)
	}

	return created, nil
}

// FindUserByEmail retrieves the user registered with email or
// [ErrNoUserWasFound].
func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindUserByEmail", sq.Eq{"email": email})
}

// FindUserByID retrieves the user with userID or [ErrNoUserWasFound].
func (r *userRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindUserByID", sq.Eq{"user_id": userID})
}

func (r *userRepository) findOne(ctx context.Context, fn string, where sq.Eq) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.Select(userColumns...).From(usersTable).Where(where).ToSql()
	if err != nil {
		return models.User{}, errors.Join(ErrBuildingSQLQuery, err)
	}

	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNoUserWasFound
	}
	if err != nil {
		log.Err(err).Str("func", fn).Msg("error: scanning error")
		return models.User{}, r.db.wrap(ErrScanningRow, err)
	}

	return user, nil
}

// UpdateEmail changes the sign-in address and invalidates existing sessions.
func (r *userRepository) UpdateEmail(ctx context.Context, userID int64, email string) error {
	err := r.exec(ctx, "*userRepository.UpdateEmail", r.db.builder.
		Update(usersTable).
		Set("email", email).
		Set("token_version", sq.Expr("token_version + 1")).
		Where(sq.Eq{"user_id": userID}))
	if isUniqueViolation(err) {
		return ErrLoginAlreadyExists
	}
	return err
}

// UpdatePasswordHash stores a new hash and invalidates existing sessions.
func (r *userRepository) UpdatePasswordHash(ctx context.Context, userID int64, hash string) error {
	return r.exec(ctx, "*userRepository.UpdatePasswordHash", r.db.builder.
		Update(usersTable).
		Set("password_hash", hash).
		Set("token_version", sq.Expr("token_version + 1")).
		Where(sq.Eq{"user_id": userID}))
}

// BumpSessionVersion increments token_version and returns the new value.
func (r *userRepository) BumpSessionVersion(ctx context.Context, userID int64) (int64, error) {
	query, args, err := r.db.builder.
		Update(usersTable).
		Set("token_version", sq.Expr("token_version + 1")).
		Where(sq.Eq{"user_id": userID}).
		Suffix("RETURNING token_version").
		ToSql()
	if err != nil {
		return 0, errors.Join(ErrBuildingSQLQuery, err)
	}

	var version int64
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNoUserWasFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*userRepository.BumpSessionVersion").Msg("error bumping version")
		return 0, r.db.wrap(ErrExecutingStatement, err)
	}
	return version, nil
}

// DeleteUser removes the identity; documents are removed separately.
func (r *userRepository) DeleteUser(ctx context.Context, userID int64) error {
	return r.exec(ctx, "*userRepository.DeleteUser", r.db.builder.
		Delete(usersTable).
		Where(sq.Eq{"user_id": userID}))
}

func (r *userRepository) exec(ctx context.Context, fn string, stmt sq.Sqlizer) error {
	query, args, err := stmt.ToSql()
	if err != nil {
		return errors.Join(ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return err
		}
		logger.FromContext(ctx).Err(err).Str("func", fn).Msg("error executing statement")
		return r.db.wrap(ErrExecutingStatement, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNoUserWasFound
	}
	return nil
}

func scanUser(row rowScanner) (models.User, error) {
	var user models.User
	err := row.Scan(&user.UserID, &user.Email, &user.PasswordHash, &user.SessionVersion, &user.CreatedAt)
	return user, err
}
