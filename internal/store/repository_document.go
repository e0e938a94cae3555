package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-study-keeper/internal/logger"
	"github.com/MKhiriev/go-study-keeper/internal/utils"
	"github.com/MKhiriev/go-study-keeper/models"
)

const documentsTable = "documents"

var documentColumns = []string{"path", "doc_id", "user_id", "data", "created_at", "updated_at"}

// documentRepository is the SQL implementation of [DocumentStore]. Each
// collection is a set of rows sharing one path; the JSON body is stored
// verbatim. Successful writes are announced on the change feed.
type documentRepository struct {
	db     *DB
	feed   ChangeFeed
	ids    IDGenerator
	logger *logger.Logger
}

// NewDocumentRepository constructs a [DocumentStore] over db. feed may be nil.
func NewDocumentRepository(db *DB, feed ChangeFeed, ids IDGenerator, log *logger.Logger) DocumentStore {
	log.Debug().Msg("creating document repository")
	return &documentRepository{
		db:     db,
		feed:   feed,
		ids:    ids,
		logger: log,
	}
}

// authorize resolves the owner of path and checks it against ctx.
func (r *documentRepository) authorize(ctx context.Context, path string) (int64, error) {
	if path == "" || strings.HasSuffix(path, "/") {
		return 0, ErrInvalidPath
	}

	owner, ok := models.OwnerOf(path)
	if !ok {
		return 0, ErrInvalidPath
	}

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok || userID != owner {
		return 0, ErrPermissionDenied
	}

	return owner, nil
}

func (r *documentRepository) List(ctx context.Context, path string) ([]models.Document, error) {
	log := logger.FromContext(ctx)

	if _, err := r.authorize(ctx, path); err != nil {
		return nil, err
	}

	query, args, err := r.db.builder.
		Select(documentColumns...).
		From(documentsTable).
		Where(sq.Eq{"path": path}).
		OrderBy("created_at", "doc_id").
		ToSql()
	if err != nil {
		return nil, errors.Join(ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*documentRepository.List").Str("path", path).Msg("error executing query")
		return nil, r.db.wrap(ErrExecutingQuery, err)
	}
	defer rows.Close()

	docs := make([]models.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			log.Err(err).Str("func", "*documentRepository.List").Msg("error scanning row")
			return nil, errors.Join(ErrScanningRows, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, r.db.wrap(ErrScanningRows, err)
	}

	return docs, nil
}

func (r *documentRepository) Get(ctx context.Context, path, id string) (models.Document, error) {
	if _, err := r.authorize(ctx, path); err != nil {
		return models.Document{}, err
	}
	if id == "" {
		return models.Document{}, ErrInvalidPath
	}

	return r.get(ctx, path, id)
}

func (r *documentRepository) get(ctx context.Context, path, id string) (models.Document, error) {
	query, args, err := r.db.builder.
		Select(documentColumns...).
		From(documentsTable).
		Where(sq.Eq{"path": path, "doc_id": id}).
		ToSql()
	if err != nil {
		return models.Document{}, errors.Join(ErrBuildingSQLQuery, err)
	}

	doc, err := scanDocument(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Document{}, ErrDocumentNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*documentRepository.get").Msg("error scanning row")
		return models.Document{}, r.db.wrap(ErrScanningRow, err)
	}

	return doc, nil
}

func (r *documentRepository) Create(ctx context.Context, path, id string, data json.RawMessage) (models.Document, error) {
	log := logger.FromContext(ctx)

	owner, err := r.authorize(ctx, path)
	if err != nil {
		return models.Document{}, err
	}
	if id == "" {
		id = r.ids.Generate()
	}

	now := time.Now().UTC()
	doc := models.Document{Path: path, ID: id, UserID: owner, Data: data, CreatedAt: now, UpdatedAt: now}

	query, args, err := r.db.builder.
		Insert(documentsTable).
		Columns(documentColumns...).
		Values(doc.Path, doc.ID, doc.UserID, string(doc.Data), doc.CreatedAt, doc.UpdatedAt).
		ToSql()
	if err != nil {
		return models.Document{}, errors.Join(ErrBuildingSQLQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return models.Document{}, ErrDocumentExists
		}
		log.Err(err).Str("func", "*documentRepository.Create").Str("path", path).Msg("error inserting document")
		return models.Document{}, r.db.wrap(ErrExecutingStatement, err)
	}

	r.publish(ctx, path)
	return doc, nil
}

func (r *documentRepository) Put(ctx context.Context, path, id string, data json.RawMessage) (models.Document, error) {
	log := logger.FromContext(ctx)

	owner, err := r.authorize(ctx, path)
	if err != nil {
		return models.Document{}, err
	}
	if id == "" {
		return models.Document{}, ErrInvalidPath
	}

	now := time.Now().UTC()
	query, args, err := r.db.builder.
		Insert(documentsTable).
		Columns(documentColumns...).
		Values(path, id, owner, string(data), now, now).
		Suffix("ON CONFLICT (path, doc_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return models.Document{}, errors.Join(ErrBuildingSQLQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*documentRepository.Put").Str("path", path).Msg("error upserting document")
		return models.Document{}, r.db.wrap(ErrExecutingStatement, err)
	}

	r.publish(ctx, path)
	return r.get(ctx, path, id)
}

func (r *documentRepository) Update(ctx context.Context, path, id string, data json.RawMessage) (models.Document, error) {
	log := logger.FromContext(ctx)

	if _, err := r.authorize(ctx, path); err != nil {
		return models.Document{}, err
	}

	query, args, err := r.db.builder.
		Update(documentsTable).
		Set("data", string(data)).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"path": path, "doc_id": id}).
		ToSql()
	if err != nil {
		return models.Document{}, errors.Join(ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*documentRepository.Update").Str("path", path).Msg("error updating document")
		return models.Document{}, r.db.wrap(ErrExecutingStatement, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.Document{}, ErrDocumentNotFound
	}

	r.publish(ctx, path)
	return r.get(ctx, path, id)
}

func (r *documentRepository) Delete(ctx context.Context, path, id string) error {
	log := logger.FromContext(ctx)

	owner, err := r.authorize(ctx, path)
	if err != nil {
		return err
	}
	if id == "" {
		return ErrInvalidPath
	}

	children := sq.And{
		sq.Eq{"user_id": owner},
		sq.Like{"path": path + "/" + id + "/%"},
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return r.db.wrap(ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	query, args, err := r.db.builder.
		Delete(documentsTable).
		Where(sq.Eq{"path": path, "doc_id": id}).
		ToSql()
	if err != nil {
		return errors.Join(ErrBuildingSQLQuery, err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*documentRepository.Delete").Str("path", path).Msg("error deleting document")
		return r.db.wrap(ErrExecutingStatement, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrDocumentNotFound
	}

	paths, err := r.affectedPaths(ctx, tx, children)
	if err != nil {
		return err
	}
	if len(paths) > 0 {
		query, args, err = r.db.builder.Delete(documentsTable).Where(children).ToSql()
		if err != nil {
			return errors.Join(ErrBuildingSQLQuery, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			log.Err(err).Str("func", "*documentRepository.Delete").Str("path", path).Msg("error deleting subcollections")
			return r.db.wrap(ErrExecutingStatement, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return r.db.wrap(ErrCommitingTransaction, err)
	}

	r.publish(ctx, path)
	for _, p := range paths {
		r.publish(ctx, p)
	}
	return nil
}

func (r *documentRepository) DeleteTree(ctx context.Context, prefix string) error {
	log := logger.FromContext(ctx)

	owner, err := r.authorize(ctx, prefix)
	if err != nil {
		return err
	}

	scope := sq.And{
		sq.Eq{"user_id": owner},
		sq.Or{sq.Eq{"path": prefix}, sq.Like{"path": prefix + "/%"}},
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return r.db.wrap(ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	paths, err := r.affectedPaths(ctx, tx, scope)
	if err != nil {
		return err
	}

	query, args, err := r.db.builder.Delete(documentsTable).Where(scope).ToSql()
	if err != nil {
		return errors.Join(ErrBuildingSQLQuery, err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*documentRepository.DeleteTree").Str("prefix", prefix).Msg("error deleting tree")
		return r.db.wrap(ErrExecutingStatement, err)
	}

	if err := tx.Commit(); err != nil {
		return r.db.wrap(ErrCommitingTransaction, err)
	}

	for _, p := range paths {
		r.publish(ctx, p)
	}
	log.Info().Str("prefix", prefix).Int("collections", len(paths)).Msg("document tree deleted")
	return nil
}

func (r *documentRepository) affectedPaths(ctx context.Context, tx *sql.Tx, scope sq.Sqlizer) ([]string, error) {
	query, args, err := r.db.builder.
		Select("DISTINCT path").
		From(documentsTable).
		Where(scope).
		ToSql()
	if err != nil {
		return nil, errors.Join(ErrBuildingSQLQuery, err)
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, r.db.wrap(ErrExecutingQuery, err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, errors.Join(ErrScanningRows, err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

func (r *documentRepository) publish(ctx context.Context, path string) {
	if r.feed == nil {
		return
	}
	if err := r.feed.Publish(ctx, path); err != nil {
		logger.FromContext(ctx).Err(err).Str("path", path).Msg("error publishing change")
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (models.Document, error) {
	var (
		doc  models.Document
		data string
	)
	if err := row.Scan(&doc.Path, &doc.ID, &doc.UserID, &data, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return models.Document{}, err
	}
	doc.Data = json.RawMessage(data)
	return doc, nil
}
