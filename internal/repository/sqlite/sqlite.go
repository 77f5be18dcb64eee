// Package sqlite is the single-file backend selected with STORE_DRIVER=sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fin-ledger/internal/models"
	"fin-ledger/internal/repository"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// DB owns the connection shared by the four stores.
type DB struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open creates the database file if needed and applies migrations when migrate is set.
func Open(path string, migrate bool, logger *zap.Logger) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	if migrate {
		if err := Migrate(path); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// sqlite serialises writers; one connection avoids SQLITE_BUSY under concurrent requests
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("Opened SQLite store", zap.String("path", path))
	return &DB{db: db, logger: logger}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// Store returns the repository bundle backed by this database.
func (d *DB) Store() *repository.Store {
	return &repository.Store{
		Users:        &userStore{d},
		Categories:   &categoryStore{d},
		Transactions: &transactionStore{d},
		Suggestions:  &suggestionStore{d},
	}
}

func (d *DB) exec(ctx context.Context, q squirrel.Sqlizer) (sql.Result, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	return d.db.ExecContext(ctx, query, args...)
}

func (d *DB) execAffecting(ctx context.Context, q squirrel.Sqlizer) error {
	res, err := d.exec(ctx, q)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (d *DB) queryRow(ctx context.Context, q squirrel.Sqlizer) (*sql.Row, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	return d.db.QueryRowContext(ctx, query, args...), nil
}

func (d *DB) query(ctx context.Context, q squirrel.Sqlizer) (*sql.Rows, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	return d.db.QueryContext(ctx, query, args...)
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	return fmt.Errorf("query failed: %w", err)
}

// utc keeps stored timestamps in one zone so DATETIME text sorts chronologically.
func utc(t time.Time) time.Time {
	return t.UTC()
}

type userStore struct{ *DB }

var userColumns = []string{"id", "username", "email", "password", "name", "average_income", "created_at", "updated_at"}

func (s *userStore) Create(ctx context.Context, u *models.User) error {
	_, err := s.exec(ctx, squirrel.Insert("users").
		Columns(userColumns...).
		Values(u.ID, u.Username, u.Email, u.Password, u.Name, u.AverageIncome, utc(u.CreatedAt), utc(u.UpdatedAt)))
	return err
}

func (s *userStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.getOne(ctx, squirrel.Eq{"id": id})
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getOne(ctx, squirrel.Eq{"email": email})
}

func (s *userStore) UpdateAverageIncome(ctx context.Context, id uuid.UUID, income *decimal.Decimal) error {
	return s.execAffecting(ctx, squirrel.Update("users").
		Set("average_income", income).
		Set("updated_at", utc(time.Now())).
		Where(squirrel.Eq{"id": id}))
}

func (s *userStore) getOne(ctx context.Context, where squirrel.Eq) (*models.User, error) {
	row, err := s.queryRow(ctx, squirrel.Select(userColumns...).From("users").Where(where))
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Name, &u.AverageIncome, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

type categoryStore struct{ *DB }

var categoryColumns = []string{"id", "name", "owner_id", "created_at"}

func (s *categoryStore) Create(ctx context.Context, c *models.Category) error {
	_, err := s.exec(ctx, squirrel.Insert("categories").
		Columns(categoryColumns...).
		Values(c.ID, c.Name, c.OwnerID, utc(c.CreatedAt)))
	return err
}

func (s *categoryStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	row, err := s.queryRow(ctx, squirrel.Select(categoryColumns...).From("categories").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	var c models.Category
	if err := row.Scan(&c.ID, &c.Name, &c.OwnerID, &c.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (s *categoryStore) ListVisible(ctx context.Context, ownerID uuid.UUID) ([]*models.Category, error) {
	return s.list(ctx, squirrel.Or{
		squirrel.Eq{"owner_id": nil},
		squirrel.Eq{"owner_id": ownerID},
	})
}

func (s *categoryStore) ListGlobal(ctx context.Context) ([]*models.Category, error) {
	return s.list(ctx, squirrel.Eq{"owner_id": nil})
}

func (s *categoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.execAffecting(ctx, squirrel.Delete("categories").Where(squirrel.Eq{"id": id}))
}

func (s *categoryStore) list(ctx context.Context, where squirrel.Sqlizer) ([]*models.Category, error) {
	rows, err := s.query(ctx, squirrel.Select(categoryColumns...).
		From("categories").
		Where(where).
		OrderBy("owner_id IS NOT NULL", "name", "id"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.OwnerID, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

type transactionStore struct{ *DB }

var transactionColumns = []string{"id", "owner_id", "amount", "kind", "date", "description", "category_id", "created_at", "updated_at"}

func (s *transactionStore) Create(ctx context.Context, tx *models.Transaction) error {
	_, err := s.exec(ctx, squirrel.Insert("transactions").
		Columns(transactionColumns...).
		Values(tx.ID, tx.OwnerID, tx.Amount, string(tx.Kind), utc(tx.Date), tx.Description, tx.CategoryID, utc(tx.CreatedAt), utc(tx.UpdatedAt)))
	return err
}

func (s *transactionStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	row, err := s.queryRow(ctx, squirrel.Select(transactionColumns...).From("transactions").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	tx, err := scanTransaction(row)
	if err != nil {
		return nil, notFound(err)
	}
	return tx, nil
}

func (s *transactionStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Transaction, error) {
	rows, err := s.query(ctx, squirrel.Select(transactionColumns...).
		From("transactions").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("date DESC"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

func (s *transactionStore) Update(ctx context.Context, tx *models.Transaction) error {
	return s.execAffecting(ctx, squirrel.Update("transactions").
		Set("amount", tx.Amount).
		Set("kind", string(tx.Kind)).
		Set("date", utc(tx.Date)).
		Set("description", tx.Description).
		Set("category_id", tx.CategoryID).
		Set("updated_at", utc(tx.UpdatedAt)).
		Where(squirrel.Eq{"id": tx.ID}))
}

func (s *transactionStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.execAffecting(ctx, squirrel.Delete("transactions").Where(squirrel.Eq{"id": id}))
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (*models.Transaction, error) {
	var tx models.Transaction
	var kind string
	if err := row.Scan(&tx.ID, &tx.OwnerID, &tx.Amount, &kind, &tx.Date, &tx.Description, &tx.CategoryID, &tx.CreatedAt, &tx.UpdatedAt); err != nil {
		return nil, err
	}
	tx.Kind = models.TransactionKind(kind)
	return &tx, nil
}

type suggestionStore struct{ *DB }

func (s *suggestionStore) Create(ctx context.Context, sg *models.Suggestion) error {
	_, err := s.exec(ctx, squirrel.Insert("suggestions").
		Columns("id", "owner_id", "prompt", "response", "created_at").
		Values(sg.ID, sg.OwnerID, sg.Prompt, sg.Response, utc(sg.CreatedAt)))
	return err
}

func (s *suggestionStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Suggestion, error) {
	rows, err := s.query(ctx, squirrel.Select("id", "owner_id", "prompt", "response", "created_at").
		From("suggestions").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("created_at DESC", "rowid DESC"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var suggestions []*models.Suggestion
	for rows.Next() {
		var sg models.Suggestion
		if err := rows.Scan(&sg.ID, &sg.OwnerID, &sg.Prompt, &sg.Response, &sg.CreatedAt); err != nil {
			return nil, err
		}
		suggestions = append(suggestions, &sg)
	}
	return suggestions, rows.Err()
}
