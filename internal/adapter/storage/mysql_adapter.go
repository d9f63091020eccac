package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/rl1809/wine-inventory/internal/core/domain"
)

const mysqlDuplicateEntry = 1062

//go:embed schema.sql
var schemaSQL string

// Migrate creates the wines and wine_histories tables if they are missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

type MySQLWineAdapter struct {
	db *sql.DB
}

func NewMySQLWineAdapter(db *sql.DB) *MySQLWineAdapter {
	return &MySQLWineAdapter{db: db}
}

func (m *MySQLWineAdapter) Save(ctx context.Context, wine domain.Wine) (domain.Wine, error) {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO wines (id, name, country_code, vintage, price, quantity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		wine.ID, wine.Name, wine.CountryCode, wine.Vintage, wine.Price, wine.Quantity,
		wine.CreatedAt, wine.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return domain.Wine{}, domain.ErrDuplicateID
		}
		return domain.Wine{}, fmt.Errorf("insert wine: %w", err)
	}
	return wine, nil
}

func (m *MySQLWineAdapter) FindByID(ctx context.Context, id string) (*domain.Wine, error) {
	var w domain.Wine
	err := m.db.QueryRowContext(ctx, `
		SELECT id, name, country_code, vintage, price, quantity, created_at, updated_at
		FROM wines WHERE id = ?`, id,
	).Scan(&w.ID, &w.Name, &w.CountryCode, &w.Vintage, &w.Price, &w.Quantity, &w.CreatedAt, &w.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query wine: %w", err)
	}
	return &w, nil
}

func (m *MySQLWineAdapter) Update(ctx context.Context, wine domain.Wine) (domain.Wine, error) {
	_, err := m.db.ExecContext(ctx, `
		UPDATE wines
		SET name = ?, country_code = ?, vintage = ?, price = ?, quantity = ?, updated_at = ?
		WHERE id = ?`,
		wine.Name, wine.CountryCode, wine.Vintage, wine.Price, wine.Quantity, wine.UpdatedAt, wine.ID,
	)
	if err != nil {
		return domain.Wine{}, fmt.Errorf("update wine: %w", err)
	}
	return wine, nil
}

func (m *MySQLWineAdapter) Delete(ctx context.Context, id string) error {
	if _, err := m.db.ExecContext(ctx, `DELETE FROM wines WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete wine: %w", err)
	}
	return nil
}

func (m *MySQLWineAdapter) FindAll(ctx context.Context) ([]domain.Wine, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, name, country_code, vintage, price, quantity, created_at, updated_at
		FROM wines ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query wines: %w", err)
	}
	defer rows.Close()

	wines := make([]domain.Wine, 0)
	for rows.Next() {
		var w domain.Wine
		if err := rows.Scan(&w.ID, &w.Name, &w.CountryCode, &w.Vintage, &w.Price, &w.Quantity, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan wine: %w", err)
		}
		wines = append(wines, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wines: %w", err)
	}
	return wines, nil
}

type MySQLHistoryAdapter struct {
	db *sql.DB
}

func NewMySQLHistoryAdapter(db *sql.DB) *MySQLHistoryAdapter {
	return &MySQLHistoryAdapter{db: db}
}

func (m *MySQLHistoryAdapter) Append(ctx context.Context, entry domain.HistoryEntry) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO wine_histories (id, wine_id, history_type, quantity_changed, modified_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.WineID, string(entry.Type), entry.QuantityChanged, entry.ModifiedBy, entry.CreatedAt,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateEntryID, entry.ID)
		}
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

func (m *MySQLHistoryAdapter) FindAll(ctx context.Context) ([]domain.HistoryEntry, error) {
	return m.query(ctx, "", nil)
}

// FindByFilter pushes the known filters into the WHERE clause and applies
// any other HistoryFilter implementation in memory.
func (m *MySQLHistoryAdapter) FindByFilter(ctx context.Context, filters ...domain.HistoryFilter) ([]domain.HistoryEntry, error) {
	where, args, rest := historyWhere(filters)
	entries, err := m.query(ctx, where, args)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		entries = domain.FilterHistories(entries, rest...)
	}
	return entries, nil
}

func (m *MySQLHistoryAdapter) query(ctx context.Context, where string, args []any) ([]domain.HistoryEntry, error) {
	q := `SELECT id, wine_id, history_type, quantity_changed, modified_by, created_at FROM wine_histories`
	if where != "" {
		q += " WHERE " + where
	}
	q += " ORDER BY seq"

	rows, err := m.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query histories: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.HistoryEntry, 0)
	for rows.Next() {
		var (
			e           domain.HistoryEntry
			historyType string
		)
		if err := rows.Scan(&e.ID, &e.WineID, &historyType, &e.QuantityChanged, &e.ModifiedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.Type = domain.HistoryType(historyType)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate histories: %w", err)
	}
	return entries, nil
}

func historyWhere(filters []domain.HistoryFilter) (string, []any, []domain.HistoryFilter) {
	var (
		clauses []string
		args    []any
		rest    []domain.HistoryFilter
	)
	for _, f := range filters {
		switch f := f.(type) {
		case nil:
		case domain.ByID:
			clauses = append(clauses, "id = ?")
			args = append(args, string(f))
		case domain.ByType:
			clauses = append(clauses, "history_type = ?")
			args = append(args, string(f))
		case domain.ByWineID:
			clauses = append(clauses, "wine_id = ?")
			args = append(args, string(f))
		case domain.ByQuantityChanged:
			clauses = append(clauses, "quantity_changed = ?")
			args = append(args, int(f))
		case domain.ByModifiedBy:
			clauses = append(clauses, "modified_by = ?")
			args = append(args, string(f))
		default:
			rest = append(rest, f)
		}
	}
	return strings.Join(clauses, " AND "), args, rest
}

func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
