package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"quizbank-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// BankLoader loads question bank JSONB from Postgres.
type BankLoader struct {
	pool *pgxpool.Pool
}

func NewBankLoader(pool *pgxpool.Pool) *BankLoader {
	return &BankLoader{pool: pool}
}

func (l *BankLoader) LoadBank(ctx context.Context, bankID string) (domain.QuestionBank, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM banks WHERE id=$1`, bankID).Scan(&raw)
	if err != nil {
		return domain.QuestionBank{}, fmt.Errorf("load bank: %w", err)
	}
	// Stored banks are already normalized, but ParseQuestionBank keeps older
	// rows imported in the legacy levels/areas shape loadable.
	return domain.ParseQuestionBank(raw)
}

// SaveBank upserts a normalized bank document. Used by the import command.
func (l *BankLoader) SaveBank(ctx context.Context, bankID string, bank domain.QuestionBank) error {
	data, err := json.Marshal(bank)
	if err != nil {
		return fmt.Errorf("marshal bank: %w", err)
	}
	_, err = l.pool.Exec(ctx,
		`INSERT INTO banks (id, data) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`,
		bankID, data)
	if err != nil {
		return fmt.Errorf("save bank: %w", err)
	}
	return nil
}
