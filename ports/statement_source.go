package ports

import (
	"context"

	"goincome/domain/statement"
)

// StatementSource provides the canonical income-statement records.
// Implementations perform a single fetch per call and never retry.
type StatementSource interface {
	FetchStatements(ctx context.Context) ([]statement.Record, error)
}
