package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"quizbank-service/internal/config"
	"quizbank-service/internal/domain"
	pgloader "quizbank-service/internal/infra/postgres"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
)

// NewImportCmd loads a question bank JSON file into Postgres. The document is
// validated, deduplicated, and ID-assigned before it is stored, so the server
// always serves normalized banks.
func NewImportCmd(configPath *string) *cobra.Command {
	var bankID string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a question bank JSON file into Postgres",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), *configPath, bankID, args[0])
		},
	}
	cmd.Flags().StringVar(&bankID, "bank", "default", "bank ID to import into")
	return cmd
}

func runImport(ctx context.Context, configPath, bankID, filePath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	bank, err := domain.ParseQuestionBank(data)
	if err != nil {
		// ErrEmptyBank is the recoverable case: fix the file and retry.
		return fmt.Errorf("import %s: %w", filePath, err)
	}

	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pgloader.NewBankLoader(pool).SaveBank(ctx, bankID, bank); err != nil {
		return err
	}
	log.Printf("imported bank %q from %s (%d questions)", bankID, filePath, len(bank.AllQuestions()))
	return nil
}
