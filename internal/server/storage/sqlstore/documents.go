package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/iudanet/fasalsaathi/internal/server/storage/docstore"
)

// Insert stores doc under a new key together with its unique index rows.
func (s *Storage) Insert(ctx context.Context, collection string, doc docstore.Document) (docstore.Key, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key, err := docstore.NewKey()
	if err != nil {
		return nil, err
	}
	body, err := doc.Marshal()
	if err != nil {
		return nil, err
	}

	err = s.withTx(ctx, func(ctx context.Context, tx dbtx) error {
		if err := s.insertUnique(ctx, tx, collection, key, s.indexes.UniqueValues(collection, doc)); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx,
			s.rebind(`INSERT INTO documents (collection, id, body) VALUES (?, ?, ?)`),
			collection, key.String(), string(body))
		if err != nil {
			return s.translate(err, collection)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return key, nil
}

// Get returns the document stored under key.
func (s *Storage) Get(ctx context.Context, collection string, key docstore.Key) (docstore.Document, error) {
	return s.load(ctx, s.db, collection, key, false)
}

// FindOne returns the first matching document in key order. Equality on a
// unique field is answered through unique_keys.
func (s *Storage) FindOne(ctx context.Context, collection string, filter docstore.Filter) (docstore.Record, error) {
	if field, value, ok := s.indexes.Lookup(collection, filter); ok {
		return s.findIndexed(ctx, collection, field, value, filter)
	}

	all, err := s.scan(ctx, collection)
	if err != nil {
		return docstore.Record{}, err
	}
	for _, r := range all {
		if filter.Matches(r.Doc) {
			return r, nil
		}
	}
	return docstore.Record{}, docstore.ErrNotFound
}

func (s *Storage) findIndexed(ctx context.Context, collection, field, value string, filter docstore.Filter) (docstore.Record, error) {
	var (
		id   string
		body []byte
	)
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT d.id, d.body
		FROM unique_keys u
		JOIN documents d ON d.collection = u.collection AND d.id = u.id
		WHERE u.collection = ? AND u.field = ? AND u.value = ?`),
		collection, field, value).Scan(&id, &body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return docstore.Record{}, docstore.ErrNotFound
		}
		return docstore.Record{}, fmt.Errorf("failed to find document by %s: %w", field, err)
	}

	key, err := docstore.ParseKey(id)
	if err != nil {
		return docstore.Record{}, err
	}
	doc, err := docstore.Unmarshal(body)
	if err != nil {
		return docstore.Record{}, err
	}
	if !filter.Matches(doc) {
		return docstore.Record{}, docstore.ErrNotFound
	}
	return docstore.Record{Key: key, Doc: doc}, nil
}

// Find returns all matching documents ordered and paged by opts.
func (s *Storage) Find(ctx context.Context, collection string, filter docstore.Filter, opts docstore.FindOptions) ([]docstore.Record, error) {
	all, err := s.scan(ctx, collection)
	if err != nil {
		return nil, err
	}
	return docstore.Query(all, filter, opts), nil
}

// Distinct returns the distinct values of field among matching documents.
func (s *Storage) Distinct(ctx context.Context, collection, field string, filter docstore.Filter) ([]any, error) {
	all, err := s.scan(ctx, collection)
	if err != nil {
		return nil, err
	}
	return docstore.Distinct(all, field, filter), nil
}

// Update merges set into the stored document and moves its index rows.
func (s *Storage) Update(ctx context.Context, collection string, key docstore.Key, set docstore.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.withTx(ctx, func(ctx context.Context, tx dbtx) error {
		current, err := s.load(ctx, tx, collection, key, true)
		if err != nil {
			return err
		}
		merged := current.Merge(set)

		before := s.indexes.UniqueValues(collection, current)
		after := s.indexes.UniqueValues(collection, merged)
		changed := make(map[string]string)
		for field, value := range after {
			if before[field] != value {
				changed[field] = value
			}
		}
		for field, value := range before {
			if after[field] == value {
				continue
			}
			_, err := tx.ExecContext(ctx,
				s.rebind(`DELETE FROM unique_keys WHERE collection = ? AND field = ? AND id = ?`),
				collection, field, key.String())
			if err != nil {
				return fmt.Errorf("failed to release unique value: %w", err)
			}
		}
		if err := s.insertUnique(ctx, tx, collection, key, changed); err != nil {
			return err
		}

		body, err := merged.Marshal()
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			s.rebind(`UPDATE documents SET body = ?, updated_at = CURRENT_TIMESTAMP WHERE collection = ? AND id = ?`),
			string(body), collection, key.String())
		if err != nil {
			return fmt.Errorf("failed to update document: %w", err)
		}
		return nil
	})
}

// Delete removes the document and its index rows.
func (s *Storage) Delete(ctx context.Context, collection string, key docstore.Key) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.withTx(ctx, func(ctx context.Context, tx dbtx) error {
		res, err := tx.ExecContext(ctx,
			s.rebind(`DELETE FROM documents WHERE collection = ? AND id = ?`),
			collection, key.String())
		if err != nil {
			return fmt.Errorf("failed to delete document: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if n == 0 {
			return docstore.ErrNotFound
		}

		_, err = tx.ExecContext(ctx,
			s.rebind(`DELETE FROM unique_keys WHERE collection = ? AND id = ?`),
			collection, key.String())
		if err != nil {
			return fmt.Errorf("failed to delete unique values: %w", err)
		}
		return nil
	})
}

func (s *Storage) insertUnique(ctx context.Context, tx dbtx, collection string, key docstore.Key, values map[string]string) error {
	for field, value := range values {
		_, err := tx.ExecContext(ctx,
			s.rebind(`INSERT INTO unique_keys (collection, field, value, id) VALUES (?, ?, ?, ?)`),
			collection, field, value, key.String())
		if err != nil {
			return s.translate(err, collection+"."+field)
		}
	}
	return nil
}

func (s *Storage) load(ctx context.Context, q dbtx, collection string, key docstore.Key, forUpdate bool) (docstore.Document, error) {
	query := `SELECT body FROM documents WHERE collection = ? AND id = ?`
	if forUpdate && s.dialect == DialectPostgres {
		query += ` FOR UPDATE`
	}

	var body []byte
	err := q.QueryRowContext(ctx, s.rebind(query), collection, key.String()).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, docstore.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return docstore.Unmarshal(body)
}

// scan loads every document of collection in key order.
func (s *Storage) scan(ctx context.Context, collection string) ([]docstore.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT id, body FROM documents WHERE collection = ? ORDER BY id`),
		collection)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var records []docstore.Record
	for rows.Next() {
		var (
			id   string
			body []byte
		)
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		key, err := docstore.ParseKey(id)
		if err != nil {
			return nil, err
		}
		doc, err := docstore.Unmarshal(body)
		if err != nil {
			return nil, err
		}
		records = append(records, docstore.Record{Key: key, Doc: doc})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}
	return records, nil
}

// translate maps constraint violations to docstore.ErrDuplicate.
func (s *Storage) translate(err error, what string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return fmt.Errorf("%w: %s", docstore.ErrDuplicate, what)
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return fmt.Errorf("%w: %s", docstore.ErrDuplicate, what)
		}
	}

	return fmt.Errorf("failed to write %s: %w", what, err)
}
