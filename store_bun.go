package authflow

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// sessionRecordKey seeds the deterministic primary key of the single session
// row, so writes are natural upserts.
const sessionRecordKey = "safecheck:session:current"

// OpenSQLite opens (or creates) the local session database. Use
// "file::memory:?cache=shared" for a throwaway store.
func OpenSQLite(path string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, path)
	if err != nil {
		return nil, err
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// SessionStore is the durable Store implementation backed by bun/sqlite.
// It holds at most one SessionRecord and survives process restarts within
// the same installation.
type SessionStore struct {
	db     *bun.DB
	repo   repository.Repository[*SessionRecord]
	logger Logger
}

var _ Store = (*SessionStore)(nil)

type SessionStoreOption func(*SessionStore)

func WithSessionStoreLogger(logger Logger) SessionStoreOption {
	return func(s *SessionStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewSessionStore(db *bun.DB, opts ...SessionStoreOption) *SessionStore {
	repo := repository.NewRepository[*SessionRecord](db, repository.ModelHandlers[*SessionRecord]{
		NewRecord: func() *SessionRecord { return &SessionRecord{} },
		GetID: func(r *SessionRecord) uuid.UUID {
			if r == nil {
				return uuid.Nil
			}
			return r.ID
		},
		SetID: func(r *SessionRecord, id uuid.UUID) {
			if r != nil {
				r.ID = id
			}
		},
	})

	store := &SessionStore{
		db:     db,
		repo:   repo,
		logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}

	return store
}

// Init creates the backing table when missing. Call once at startup.
func (s *SessionStore) Init(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*SessionRecord)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

func (s *SessionStore) Read(ctx context.Context) (*Identity, error) {
	record, err := s.repo.GetByID(ctx, recordID().String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, ErrStoreUnavailable.WithMetadata(map[string]any{
			"op":    "read",
			"cause": err.Error(),
		})
	}

	identity := record.Identity()
	if identity == nil || identity.Email == "" {
		// Partial or garbage row reads as an empty store.
		s.logger.Warn("discarding unparsable session record")
		return nil, nil
	}

	return identity, nil
}

func (s *SessionStore) Write(ctx context.Context, identity *Identity) error {
	if identity == nil {
		return s.Clear(ctx)
	}

	record := &SessionRecord{
		ID:          recordID(),
		UserID:      identity.ID,
		Name:        identity.Name,
		Email:       identity.Email,
		DateOfBirth: identity.DateOfBirth,
	}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*SessionRecord)(nil)).
			Where("1 = 1").
			Exec(ctx); err != nil {
			return err
		}

		_, err := s.repo.CreateTx(ctx, tx, record)
		return err
	})
	if err != nil {
		return ErrStoreUnavailable.WithMetadata(map[string]any{
			"op":    "write",
			"cause": err.Error(),
		})
	}

	return nil
}

func (s *SessionStore) Clear(ctx context.Context) error {
	_, err := s.db.NewDelete().
		Model((*SessionRecord)(nil)).
		Where("1 = 1").
		Exec(ctx)
	if err != nil {
		return ErrStoreUnavailable.WithMetadata(map[string]any{
			"op":    "clear",
			"cause": err.Error(),
		})
	}
	return nil
}

func recordID() uuid.UUID {
	if id, err := hashid.NewUUID(sessionRecordKey); err == nil {
		return id
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(sessionRecordKey))
}
