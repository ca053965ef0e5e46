package models

import (
	"context"
	"fmt"
)

// SchemaRepo probes whether the expected tables exist; a fresh Supabase
// project answers with "undefined table" errors until the schema is applied.
type SchemaRepo interface {
	CheckTable(ctx context.Context, table string) error
}

func (su *SupabaseRepo) CheckTable(ctx context.Context, table string) error {
	_, _, err := su.supabaseClient.From(table).
		Select("id", "", false).
		Limit(1, "").
		Execute()
	if err != nil {
		return fmt.Errorf("table %s check failed: %w", table, err)
	}
	return nil
}
