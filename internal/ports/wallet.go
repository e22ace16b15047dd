package ports

import (
	"context"

	"github.com/bnema/persona-cli/internal/domain"
)

// Wallet is the economy collaborator. The boolean reports sufficiency (a
// debit that would overdraw returns false); the error is reserved for
// infrastructure failures, which callers log and treat as a failed credit.
type Wallet interface {
	CreditBalance(ctx context.Context, id domain.CharacterID, amount int64, memo, category string) (bool, error)
}
