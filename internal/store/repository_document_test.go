package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-study-keeper/internal/config"
	"github.com/MKhiriev/go-study-keeper/internal/logger"
	"github.com/MKhiriev/go-study-keeper/internal/utils"
	"github.com/MKhiriev/go-study-keeper/migrations"
	"github.com/MKhiriev/go-study-keeper/models"
)

// newTestStorages opens a private in-memory SQLite database with the schema
// applied.
func newTestStorages(t *testing.T) *Storages {
	t.Helper()

	cfg := config.DB{DSN: "file:" + uuid.NewString() + "?mode=memory&cache=shared"}
	db, err := NewConnectSQLite(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, db.Migrate())

	s := NewStoragesFromDB(db, NewLocalFeed(), logger.Nop())
	t.Cleanup(func() { s.Close() })
	return s
}

type pathRecorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *pathRecorder) record(p string) {
	r.mu.Lock()
	r.paths = append(r.paths, p)
	r.mu.Unlock()
}

func (r *pathRecorder) get() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func TestDocumentRepository_CRUD(t *testing.T) {
	s := newTestStorages(t)
	ctx := utils.WithUserID(context.Background(), 1)
	path := models.SubjectsPath(1)

	rec := &pathRecorder{}
	defer s.Feed.Subscribe(rec.record)()

	created, err := s.Documents.Create(ctx, path, "", json.RawMessage(`{"name":"Math"}`))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, int64(1), created.UserID)

	got, err := s.Documents.Get(ctx, path, created.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Math"}`, string(got.Data))

	updated, err := s.Documents.Update(ctx, path, created.ID, json.RawMessage(`{"name":"Physics"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Physics"}`, string(updated.Data))
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))

	list, err := s.Documents.List(ctx, path)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, s.Documents.Delete(ctx, path, created.ID))
	_, err = s.Documents.Get(ctx, path, created.ID)
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	assert.Equal(t, []string{path, path, path}, rec.get())
}

func TestDocumentRepository_ListEmptyIsNotNil(t *testing.T) {
	s := newTestStorages(t)
	ctx := utils.WithUserID(context.Background(), 1)

	list, err := s.Documents.List(ctx, models.NotesPath(1))
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestDocumentRepository_CreateDuplicateID(t *testing.T) {
	s := newTestStorages(t)
	ctx := utils.WithUserID(context.Background(), 1)
	path := models.NotesPath(1)

	_, err := s.Documents.Create(ctx, path, "n1", json.RawMessage(`{}`))
	require.NoError(t, err)
	_, err = s.Documents.Create(ctx, path, "n1", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrDocumentExists)
}

func TestDocumentRepository_Put(t *testing.T) {
	s := newTestStorages(t)
	ctx := utils.WithUserID(context.Background(), 1)
	path := models.ProfilePath(1)

	_, err := s.Documents.Put(ctx, path, models.ProfileDocID, json.RawMessage(`{"displayName":"Ana"}`))
	require.NoError(t, err)
	doc, err := s.Documents.Put(ctx, path, models.ProfileDocID, json.RawMessage(`{"displayName":"Ana Maria"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"displayName":"Ana Maria"}`, string(doc.Data))

	list, err := s.Documents.List(ctx, path)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDocumentRepository_MissingDocument(t *testing.T) {
	s := newTestStorages(t)
	ctx := utils.WithUserID(context.Background(), 1)
	path := models.RemindersPath(1)

	_, err := s.Documents.Update(ctx, path, "nope", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrDocumentNotFound)
	assert.ErrorIs(t, s.Documents.Delete(ctx, path, "nope"), ErrDocumentNotFound)
}

func TestDocumentRepository_Ownership(t *testing.T) {
	s := newTestStorages(t)

	tests := []struct {
		name string
		ctx  context.Context
		path string
		want error
	}{
		{"no user", context.Background(), models.NotesPath(1), ErrPermissionDenied},
		{"other user", utils.WithUserID(context.Background(), 2), models.NotesPath(1), ErrPermissionDenied},
		{"not a user path", utils.WithUserID(context.Background(), 1), "global/notes", ErrInvalidPath},
		{"empty path", utils.WithUserID(context.Background(), 1), "", ErrInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Documents.List(tt.ctx, tt.path)
			assert.ErrorIs(t, err, tt.want)
			_, err = s.Documents.Create(tt.ctx, tt.path, "", json.RawMessage(`{}`))
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, s.Documents.DeleteTree(tt.ctx, tt.path), tt.want)
		})
	}
}

func TestDocumentRepository_DeleteTree(t *testing.T) {
	s := newTestStorages(t)
	ctx1 := utils.WithUserID(context.Background(), 1)
	ctx2 := utils.WithUserID(context.Background(), 2)

	subj, err := s.Documents.Create(ctx1, models.SubjectsPath(1), "", json.RawMessage(`{"name":"Math"}`))
	require.NoError(t, err)
	_, err = s.Documents.Create(ctx1, models.GradesPath(1, subj.ID), "", json.RawMessage(`{"score":4}`))
	require.NoError(t, err)
	_, err = s.Documents.Create(ctx1, models.NotesPath(1), "", json.RawMessage(`{}`))
	require.NoError(t, err)
	_, err = s.Documents.Put(ctx1, models.ProfilePath(1), models.ProfileDocID, json.RawMessage(`{}`))
	require.NoError(t, err)
	// user 10 shares the "1" prefix textually and must survive
	ctx10 := utils.WithUserID(context.Background(), 10)
	_, err = s.Documents.Create(ctx10, models.NotesPath(10), "", json.RawMessage(`{}`))
	require.NoError(t, err)
	_, err = s.Documents.Create(ctx2, models.NotesPath(2), "", json.RawMessage(`{}`))
	require.NoError(t, err)

	rec := &pathRecorder{}
	defer s.Feed.Subscribe(rec.record)()

	require.NoError(t, s.Documents.DeleteTree(ctx1, models.UserRoot(1)))

	for _, p := range []string{models.SubjectsPath(1), models.GradesPath(1, subj.ID), models.NotesPath(1), models.ProfilePath(1)} {
		list, err := s.Documents.List(ctx1, p)
		require.NoError(t, err)
		assert.Empty(t, list, p)
	}

	list, err := s.Documents.List(ctx10, models.NotesPath(10))
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = s.Documents.List(ctx2, models.NotesPath(2))
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.ElementsMatch(t,
		[]string{models.SubjectsPath(1), models.GradesPath(1, subj.ID), models.NotesPath(1), models.ProfilePath(1)},
		rec.get())
}

func TestDocumentRepository_DeleteSubtree(t *testing.T) {
	s := newTestStorages(t)
	ctx := utils.WithUserID(context.Background(), 1)

	a, err := s.Documents.Create(ctx, models.SubjectsPath(1), "", json.RawMessage(`{}`))
	require.NoError(t, err)
	b, err := s.Documents.Create(ctx, models.SubjectsPath(1), "", json.RawMessage(`{}`))
	require.NoError(t, err)
	_, err = s.Documents.Create(ctx, models.GradesPath(1, a.ID), "", json.RawMessage(`{}`))
	require.NoError(t, err)
	_, err = s.Documents.Create(ctx, models.GradesPath(1, b.ID), "", json.RawMessage(`{}`))
	require.NoError(t, err)

	require.NoError(t, s.Documents.DeleteTree(ctx, models.SubjectsPath(1)+"/"+a.ID))

	list, err := s.Documents.List(ctx, models.GradesPath(1, a.ID))
	require.NoError(t, err)
	assert.Empty(t, list)
	list, err = s.Documents.List(ctx, models.GradesPath(1, b.ID))
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = s.Documents.List(ctx, models.SubjectsPath(1))
	require.NoError(t, err)
	assert.Len(t, list, 2, "the subject document itself lives in the parent collection")
}

func TestDocumentRepository_DeleteCascadesToSubcollections(t *testing.T) {
	s := newTestStorages(t)
	ctx := utils.WithUserID(context.Background(), 1)

	rec := &pathRecorder{}
	defer s.Feed.Subscribe(rec.record)()

	a, err := s.Documents.Create(ctx, models.SubjectsPath(1), "", json.RawMessage(`{}`))
	require.NoError(t, err)
	b, err := s.Documents.Create(ctx, models.SubjectsPath(1), "", json.RawMessage(`{}`))
	require.NoError(t, err)
	_, err = s.Documents.Create(ctx, models.GradesPath(1, a.ID), "", json.RawMessage(`{"score":4}`))
	require.NoError(t, err)
	_, err = s.Documents.Create(ctx, models.GradesPath(1, b.ID), "", json.RawMessage(`{"score":2}`))
	require.NoError(t, err)

	require.NoError(t, s.Documents.Delete(ctx, models.SubjectsPath(1), a.ID))

	list, err := s.Documents.List(ctx, models.GradesPath(1, a.ID))
	require.NoError(t, err)
	assert.Empty(t, list)
	list, err = s.Documents.List(ctx, models.GradesPath(1, b.ID))
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = s.Documents.List(ctx, models.SubjectsPath(1))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)

	assert.Contains(t, rec.get(), models.GradesPath(1, a.ID))
}

func TestDB_WrapTransient(t *testing.T) {
	db := newDB(nil, "sqlite", NewSQLiteErrorClassifier(), logger.Nop())

	err := db.wrap(ErrExecutingQuery, context.DeadlineExceeded)
	assert.True(t, errors.Is(err, ErrTransient))
	assert.True(t, errors.Is(err, ErrExecutingQuery))

	err = db.wrap(ErrExecutingQuery, errors.New("syntax"))
	assert.False(t, errors.Is(err, ErrTransient))
}

func TestNewDB_PlaceholderPerDialect(t *testing.T) {
	tests := []struct {
		dialect string
		want    string
	}{
		{migrations.DialectPostgres, "SELECT id FROM documents WHERE path = $1"},
		{migrations.DialectSQLite, "SELECT id FROM documents WHERE path = ?"},
	}
	for _, tt := range tests {
		t.Run(tt.dialect, func(t *testing.T) {
			db := newDB(nil, tt.dialect, nil, logger.Nop())
			query, args, err := db.builder.Select("id").From("documents").Where(sq.Eq{"path": "users/1/notes"}).ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.want, query)
			assert.Equal(t, []any{"users/1/notes"}, args)
			assert.Equal(t, tt.dialect, db.Dialect())
		})
	}
}
