package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bnema/persona-cli/internal/domain"
	"github.com/bnema/persona-cli/internal/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	sessionKeyPrefix = "session:"
	archiveKeyPrefix = "archive:"
	autoCheckpointID = "auto"

	// archiveFloor is the minimum number of timestamped archives retained
	// when trimming to recover from a quota-exceeded write.
	archiveFloor = 5
)

// SnapshotService persists session snapshots to the key-value store: a live
// snapshot on every mutation, plus manual checkpoints and a single rolling
// auto checkpoint per session.
type SnapshotService struct {
	store  ports.KVStore
	clock  ports.Clock
	logger *zap.Logger
}

func NewSnapshotService(store ports.KVStore, clock ports.Clock, logger *zap.Logger) *SnapshotService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SnapshotService{store: store, clock: clock, logger: logger}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func archivePrefix(id string) string {
	return archiveKeyPrefix + id + ":"
}

// SaveSession writes the live snapshot for a session, stamping LastUpdated.
func (s *SnapshotService) SaveSession(ctx context.Context, session *domain.Session) error {
	session.LastUpdated = s.clock.Now()

	payload, err := json.Marshal(session.Snapshot())
	if err != nil {
		return fmt.Errorf("marshal session snapshot: %w", err)
	}

	return s.setWithTrim(ctx, sessionKey(session.SessionID()), string(payload), session.SessionID())
}

// LoadSession rehydrates a persisted session, or domain.ErrSessionNotFound.
func (s *SnapshotService) LoadSession(ctx context.Context, id string) (*domain.Session, error) {
	raw, err := s.store.Get(ctx, sessionKey(id))
	if err != nil {
		if errors.Is(err, ports.ErrKeyNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session snapshot: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("decode session snapshot: %w", err)
	}

	return domain.SessionFromSnapshot(snap), nil
}

// OpenSession resumes a persisted session or starts a fresh one from the
// character's scenario, persisting the initial snapshot.
func (s *SnapshotService) OpenSession(ctx context.Context, ch domain.Character) (*domain.Session, error) {
	session, err := s.LoadSession(ctx, string(ch.ID))
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, err
	}

	session = domain.NewSession(ch, s.clock.Now())
	if err := s.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// DeleteSession removes the live snapshot. Archives are kept.
func (s *SnapshotService) DeleteSession(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, sessionKey(id)); err != nil {
		return fmt.Errorf("delete session snapshot: %w", err)
	}
	return nil
}

// Checkpoint writes a secondary archive copy of the session. Manual
// checkpoints get a fresh timestamped key; the auto checkpoint overwrites a
// single rolling slot instead of accumulating.
func (s *SnapshotService) Checkpoint(ctx context.Context, session *domain.Session, auto bool) (string, error) {
	payload, err := json.Marshal(session.Snapshot())
	if err != nil {
		return "", fmt.Errorf("marshal checkpoint snapshot: %w", err)
	}

	id := autoCheckpointID
	if !auto {
		// Millisecond prefix keeps archive keys sortable oldest-first.
		id = fmt.Sprintf("%013d-%s", s.clock.Now().UnixMilli(), uuid.NewString()[:8])
	}

	key := archivePrefix(session.SessionID()) + id
	if err := s.setWithTrim(ctx, key, string(payload), session.SessionID()); err != nil {
		return "", err
	}

	return id, nil
}

// setWithTrim writes a key, recovering from quota-exceeded errors by
// deleting the oldest timestamped archive and retrying. The loop is bounded:
// once the retained archives reach the floor the failure is surfaced.
func (s *SnapshotService) setWithTrim(ctx context.Context, key, value, sessionID string) error {
	for {
		err := s.store.Set(ctx, key, value)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ports.ErrQuotaExceeded) {
			return fmt.Errorf("write snapshot %q: %w", key, err)
		}

		trimmed, trimErr := s.trimOldestArchive(ctx, sessionID)
		if trimErr != nil {
			return fmt.Errorf("trim archives after quota error: %w", trimErr)
		}
		if !trimmed {
			s.logger.Error("snapshot write failed: quota exceeded and archive floor reached",
				zap.String("key", key),
				zap.String("session", sessionID),
				zap.Int("floor", archiveFloor))
			return fmt.Errorf("write snapshot %q: %w", key, err)
		}

		s.logger.Warn("trimmed oldest archive to recover storage quota",
			zap.String("session", sessionID))
	}
}

// trimOldestArchive deletes the single oldest timestamped archive for the
// session. The rolling auto checkpoint is not eligible. Returns false when
// the floor would be violated.
func (s *SnapshotService) trimOldestArchive(ctx context.Context, sessionID string) (bool, error) {
	prefix := archivePrefix(sessionID)
	keys, err := s.store.Keys(ctx, prefix)
	if err != nil {
		return false, fmt.Errorf("list archives: %w", err)
	}

	timestamped := keys[:0:0]
	for _, key := range keys {
		if strings.TrimPrefix(key, prefix) == autoCheckpointID {
			continue
		}
		timestamped = append(timestamped, key)
	}

	if len(timestamped) <= archiveFloor {
		return false, nil
	}

	sort.Strings(timestamped)
	oldest := timestamped[0]
	if err := s.store.Delete(ctx, oldest); err != nil {
		return false, fmt.Errorf("delete archive %q: %w", oldest, err)
	}

	return true, nil
}

// ListCheckpoints returns the session's archive ids, oldest first.
func (s *SnapshotService) ListCheckpoints(ctx context.Context, sessionID string) ([]string, error) {
	prefix := archivePrefix(sessionID)
	keys, err := s.store.Keys(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list archives: %w", err)
	}

	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		ids = append(ids, strings.TrimPrefix(key, prefix))
	}
	sort.Strings(ids)

	return ids, nil
}
