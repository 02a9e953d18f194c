package document

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/DRSN-tech/pix-shop-bot/internal/repository/document/converter"
	"github.com/DRSN-tech/pix-shop-bot/pkg/e"
	"github.com/DRSN-tech/pix-shop-bot/pkg/tr"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// PgStore хранит документ строкой таблицы documents (jsonb).
// Update блокирует строку через SELECT ... FOR UPDATE, поэтому безопасен и для нескольких процессов.
type PgStore struct {
	pool *pgxpool.Pool
	name string
}

func NewPgStore(pool *pgxpool.Pool, name string) *PgStore {
	return &PgStore{pool: pool, name: name}
}

func (s *PgStore) Load(ctx context.Context) (*converter.DocumentModel, error) {
	if err := s.ensure(ctx, s.pool); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `SELECT body FROM documents WHERE name = $1`

	var body []byte
	if err := s.pool.QueryRow(ctx, query, s.name).Scan(&body); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return decode(body)
}

func (s *PgStore) Save(ctx context.Context, doc *converter.DocumentModel) error {
	body, err := encode(doc)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO documents (name, body)
		VALUES ($1, $2)
		ON CONFLICT (name)
		DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()
	`
	if _, err := s.pool.Exec(ctx, query, s.name, body); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (s *PgStore) Update(ctx context.Context, fn func(doc *converter.DocumentModel) error) error {
	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, s.pool)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer func() {
		if tx.IsActive() {
			_ = tx.Rollback(ctx)
		}
	}()
	ctx = tr.WithTx(ctx, tx.Transaction())

	doc, err := s.lock(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := fn(doc); err != nil {
		return err
	}

	if err := s.store(ctx, doc); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// lock читает документ внутри транзакции и удерживает блокировку строки до коммита.
func (s *PgStore) lock(ctx context.Context) (*converter.DocumentModel, error) {
	pgxTx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.ensure(ctx, pgxTx); err != nil {
		return nil, err
	}

	var body []byte
	query := `SELECT body FROM documents WHERE name = $1 FOR UPDATE`
	if err := pgxTx.QueryRow(ctx, query, s.name).Scan(&body); err != nil {
		return nil, err
	}

	return decode(body)
}

func (s *PgStore) store(ctx context.Context, doc *converter.DocumentModel) error {
	pgxTx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return err
	}

	body, err := encode(doc)
	if err != nil {
		return err
	}

	query := `UPDATE documents SET body = $2, updated_at = NOW() WHERE name = $1`
	_, err = pgxTx.Exec(ctx, query, s.name, body)
	return err
}

// executor — общее у *pgxpool.Pool и pgx.Tx.
type executor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// ensure создаёт строку документа по умолчанию, если её ещё нет.
func (s *PgStore) ensure(ctx context.Context, db executor) error {
	body, err := encode(converter.NewDocument())
	if err != nil {
		return err
	}

	query := `INSERT INTO documents (name, body) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`
	_, err = db.Exec(ctx, query, s.name, body)
	return err
}

func encode(doc *converter.DocumentModel) ([]byte, error) {
	doc.Normalize()
	return json.Marshal(doc)
}

func decode(body []byte) (*converter.DocumentModel, error) {
	if len(body) == 0 {
		return nil, errors.New("empty document body")
	}

	var doc converter.DocumentModel
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	doc.Normalize()

	return &doc, nil
}
