package application

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/bnema/persona-cli/internal/domain"
	"github.com/bnema/persona-cli/internal/ports"
)

// fakeKV is an in-memory ports.KVStore. Setting failSets makes the next N
// Set calls fail with ErrQuotaExceeded, which is how the trim-and-retry
// recovery path is exercised.
type fakeKV struct {
	mu       sync.Mutex
	data     map[string]string
	failSets int
	deleted  []string
}

var _ ports.KVStore = (*fakeKV)(nil)

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}}
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return "", ports.ErrKeyNotFound
	}
	return v, nil
}

func (f *fakeKV) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSets > 0 {
		f.failSets--
		return ports.ErrQuotaExceeded
	}
	f.data[key] = value
	return nil
}

func (f *fakeKV) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeKV) Keys(_ context.Context, prefix string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for k := range f.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

type walletCall struct {
	ID       domain.CharacterID
	Amount   int64
	Memo     string
	Category string
}

// fakeWallet records every credit attempt and answers with the configured
// outcome.
type fakeWallet struct {
	calls []walletCall
	ok    bool
	err   error
}

var _ ports.Wallet = (*fakeWallet)(nil)

func newFakeWallet() *fakeWallet {
	return &fakeWallet{ok: true}
}

func (f *fakeWallet) CreditBalance(_ context.Context, id domain.CharacterID, amount int64, memo, category string) (bool, error) {
	f.calls = append(f.calls, walletCall{ID: id, Amount: amount, Memo: memo, Category: category})
	return f.ok, f.err
}

type fakeResponder struct {
	reply string
	err   error
	last  ports.ReplyContext
}

var _ ports.Responder = (*fakeResponder)(nil)

func (f *fakeResponder) GenerateReply(_ context.Context, rc ports.ReplyContext) (string, error) {
	f.last = rc
	return f.reply, f.err
}

// fakeClock pins the wall clock; the simulated clock is owned by the session
// and needs no faking.
type fakeClock struct {
	now time.Time
}

var _ ports.Clock = (*fakeClock)(nil)

func (f *fakeClock) Now() time.Time {
	return f.now
}
