package postgres

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema aplica el esquema embebido. Todas las sentencias son idempotentes.
func EnsureSchema(ctx context.Context, q Querier) error {
	// Sin argumentos pgx usa el protocolo simple, que admite varias sentencias.
	if _, err := q.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("aplicar esquema: %w", err)
	}
	return nil
}
