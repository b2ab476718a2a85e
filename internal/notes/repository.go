// Package notes stores one free-text note per user and place.
package notes

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/placefinder/placefinder/internal/apperr"
	"github.com/placefinder/placefinder/internal/infra"
)

// Note is a user's note on a place.
type Note struct {
	PlaceID   string    `json:"activity_id"`
	Note      string    `json:"note"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Repository interface {
	// Upsert creates the note or replaces its text.
	Upsert(ctx context.Context, userID, placeID, text string) error
	Delete(ctx context.Context, userID, placeID string) error
	Get(ctx context.Context, userID, placeID string) (Note, error)
}

var ErrNoteNotFound = apperr.NotFound("Not Found: Note not found.")

type PostgresRepository struct {
	db infra.DB
}

func NewPostgresRepository(db infra.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, userID, placeID, text string) error {
	uid, pid, ok := parseIDs(userID, placeID)
	if !ok {
		return apperr.New(apperr.CodeBadRequest, "Bad request: Malformed id.")
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO notes (user_id, place_id, note, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id, place_id) DO UPDATE SET note = EXCLUDED.note, updated_at = EXCLUDED.updated_at`,
		uid, pid, text)
	if err != nil {
		return apperr.Storage("upsert note", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, placeID string) error {
	uid, pid, ok := parseIDs(userID, placeID)
	if !ok {
		return ErrNoteNotFound
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM notes WHERE user_id = $1 AND place_id = $2`, uid, pid)
	if err != nil {
		return apperr.Storage("delete note", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoteNotFound
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, placeID string) (Note, error) {
	uid, pid, ok := parseIDs(userID, placeID)
	if !ok {
		return Note{}, ErrNoteNotFound
	}
	n := Note{PlaceID: pid.String()}
	err := r.db.QueryRow(ctx, `SELECT note, updated_at FROM notes WHERE user_id = $1 AND place_id = $2`, uid, pid).
		Scan(&n.Note, &n.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Note{}, ErrNoteNotFound
	}
	if err != nil {
		return Note{}, apperr.Storage("select note", err)
	}
	return n, nil
}

func parseIDs(userID, placeID string) (uuid.UUID, uuid.UUID, bool) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, uuid.Nil, false
	}
	pid, err := uuid.Parse(placeID)
	if err != nil {
		return uuid.Nil, uuid.Nil, false
	}
	return uid, pid, true
}

type noteKey struct{ user, place string }

type memoryRepository struct {
	mu    sync.RWMutex
	notes map[noteKey]Note
	now   func() time.Time
}

func NewMemoryRepository() Repository {
	return &memoryRepository{notes: make(map[noteKey]Note), now: time.Now}
}

func (r *memoryRepository) Upsert(_ context.Context, userID, placeID, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes[noteKey{userID, placeID}] = Note{PlaceID: placeID, Note: text, UpdatedAt: r.now().UTC()}
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, userID, placeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := noteKey{userID, placeID}
	if _, ok := r.notes[k]; !ok {
		return ErrNoteNotFound
	}
	delete(r.notes, k)
	return nil
}

func (r *memoryRepository) Get(_ context.Context, userID, placeID string) (Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.notes[noteKey{userID, placeID}]
	if !ok {
		return Note{}, ErrNoteNotFound
	}
	return n, nil
}
