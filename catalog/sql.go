package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/indieinfra/scribble-media/config"
	"github.com/indieinfra/scribble-media/media"
	storageutil "github.com/indieinfra/scribble-media/storage/util"
)

type placeholderStyle int

const (
	placeholderQuestion placeholderStyle = iota
	placeholderDollar
)

type SQLCatalog struct {
	cfg         *config.SQLCatalog
	db          *sql.DB
	table       string
	placeholder placeholderStyle
}

func NewSQLCatalog(cfg *config.SQLCatalog) (*SQLCatalog, error) {
	store, err := newSQLCatalogWithDB(cfg, nil)
	if err != nil {
		return nil, err
	}

	driverName, err := resolveSQLDriverName(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, cfg.DSN)
	if err != nil {
		return nil, err
	}

	store.db = db

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func newSQLCatalogWithDB(cfg *config.SQLCatalog, db *sql.DB) (*SQLCatalog, error) {
	if cfg == nil {
		return nil, fmt.Errorf("catalog sql config is nil")
	}

	prefix := "scribble"
	if cfg.TablePrefix != nil {
		prefix = *cfg.TablePrefix
	}

	placeholder, err := detectPlaceholderStyle(cfg.Driver)
	if err != nil {
		return nil, err
	}

	return &SQLCatalog{
		cfg:         cfg,
		db:          db,
		table:       storageutil.DeriveTableName(prefix, "media"),
		placeholder: placeholder,
	}, nil
}

func detectPlaceholderStyle(driver string) (placeholderStyle, error) {
	driverName, err := resolveSQLDriverName(driver)
	if err != nil {
		return placeholderQuestion, err
	}

	if driverName == "pgx" {
		return placeholderDollar, nil
	}

	return placeholderQuestion, nil
}

func resolveSQLDriverName(driver string) (string, error) {
	switch strings.ToLower(driver) {
	case "postgres":
		return "pgx", nil
	case "mysql":
		return "mysql", nil
	default:
		return "", fmt.Errorf("unsupported sql driver %q", driver)
	}
}

func (sc *SQLCatalog) initSchema(ctx context.Context) error {
	_, err := sc.db.ExecContext(ctx, sc.schemaQuery())
	return err
}

func (sc *SQLCatalog) schemaQuery() string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
id VARCHAR(64) PRIMARY KEY,
provider VARCHAR(255) NOT NULL,
doc TEXT NOT NULL,
created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`, sc.table)
}

func (sc *SQLCatalog) Save(ctx context.Context, item *media.Item) error {
	if item == nil || item.ID == "" {
		return fmt.Errorf("media item requires an id")
	}

	payload, err := json.Marshal(item)
	if err != nil {
		return err
	}

	createdAt := item.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	if _, err := sc.db.ExecContext(ctx, sc.insertQuery(), item.ID, item.Provider, string(payload), createdAt); err != nil {
		return fmt.Errorf("save media %q: %w", item.ID, err)
	}

	return nil
}

func (sc *SQLCatalog) Get(ctx context.Context, id string) (*media.Item, error) {
	row := sc.db.QueryRowContext(ctx, sc.selectQuery(), id)

	var raw string
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return decodeItem(raw)
}

func (sc *SQLCatalog) Delete(ctx context.Context, id string) error {
	res, err := sc.db.ExecContext(ctx, sc.deleteQuery(), id)
	if err != nil {
		return fmt.Errorf("delete media %q: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (sc *SQLCatalog) ListByProvider(ctx context.Context, provider string) ([]*media.Item, error) {
	rows, err := sc.db.QueryContext(ctx, sc.listQuery(), provider)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*media.Item{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}

		item, err := decodeItem(raw)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (sc *SQLCatalog) Close() error {
	if sc.db == nil {
		return nil
	}
	return sc.db.Close()
}

func decodeItem(raw string) (*media.Item, error) {
	var item media.Item
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		return nil, fmt.Errorf("decode media record: %w", err)
	}

	return &item, nil
}

func (sc *SQLCatalog) insertQuery() string {
	return fmt.Sprintf(
		"INSERT INTO %s (id, provider, doc, created_at) VALUES (%s, %s, %s, %s)",
		sc.table,
		sc.placeholderFor(1),
		sc.placeholderFor(2),
		sc.placeholderFor(3),
		sc.placeholderFor(4),
	)
}

func (sc *SQLCatalog) selectQuery() string {
	return fmt.Sprintf("SELECT doc FROM %s WHERE id = %s", sc.table, sc.placeholderFor(1))
}

func (sc *SQLCatalog) deleteQuery() string {
	return fmt.Sprintf("DELETE FROM %s WHERE id = %s", sc.table, sc.placeholderFor(1))
}

func (sc *SQLCatalog) listQuery() string {
	return fmt.Sprintf("SELECT doc FROM %s WHERE provider = %s ORDER BY created_at, id", sc.table, sc.placeholderFor(1))
}

func (sc *SQLCatalog) placeholderFor(index int) string {
	if sc.placeholder == placeholderDollar {
		return fmt.Sprintf("$%d", index)
	}

	return "?"
}
