package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/persona-cli/internal/domain"
	"github.com/bnema/persona-cli/internal/ports"
	"github.com/google/uuid"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	ledgerFileMode  = 0o600
	ledgerDirMode   = 0o700
	tempFilePattern = ".ledger-*.toml.tmp"
)

// Ledger is a TOML-file wallet: one balance per character plus a transaction
// list. Credits always succeed; a debit that would overdraw is refused and
// reported through the boolean, not an error.
type Ledger struct {
	path string
	mu   sync.Mutex
}

var _ ports.Wallet = (*Ledger)(nil)

func NewLedger(path string) *Ledger {
	return &Ledger{path: filepath.Clean(path)}
}

type ledgerSchema struct {
	Balances     map[string]int64    `toml:"balances"`
	Transactions []transactionSchema `toml:"transactions,omitempty"`
}

type transactionSchema struct {
	ID          string    `toml:"id"`
	CharacterID string    `toml:"character_id"`
	Amount      int64     `toml:"amount"`
	Memo        string    `toml:"memo,omitempty"`
	Category    string    `toml:"category,omitempty"`
	At          time.Time `toml:"at"`
}

func (l *Ledger) CreditBalance(ctx context.Context, id domain.CharacterID, amount int64, memo, category string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := l.read()
	if err != nil {
		return false, err
	}
	if file.Balances == nil {
		file.Balances = map[string]int64{}
	}

	balance := file.Balances[string(id)]
	if balance+amount < 0 {
		return false, nil
	}

	file.Balances[string(id)] = balance + amount
	file.Transactions = append(file.Transactions, transactionSchema{
		ID:          uuid.NewString(),
		CharacterID: string(id),
		Amount:      amount,
		Memo:        memo,
		Category:    category,
		At:          time.Now().UTC(),
	})

	if err := l.write(file); err != nil {
		return false, err
	}

	return true, nil
}

// Balance reports a character's current funds.
func (l *Ledger) Balance(ctx context.Context, id domain.CharacterID) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := l.read()
	if err != nil {
		return 0, err
	}

	return file.Balances[string(id)], nil
}

func (l *Ledger) read() (ledgerSchema, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ledgerSchema{}, nil
		}
		return ledgerSchema{}, fmt.Errorf("read ledger file: %w", err)
	}

	var file ledgerSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return ledgerSchema{}, fmt.Errorf("decode ledger file: %w", err)
	}

	return file, nil
}

func (l *Ledger) write(file ledgerSchema) error {
	if err := os.MkdirAll(filepath.Dir(l.path), ledgerDirMode); err != nil {
		return fmt.Errorf("create ledger directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode ledger file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(l.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp ledger file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp ledger file: %w", err)
	}

	if err := tempFile.Chmod(ledgerFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp ledger file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp ledger file: %w", err)
	}

	if err := os.Rename(tempName, l.path); err != nil {
		return fmt.Errorf("replace ledger file: %w", err)
	}

	cleanup = false

	return nil
}
