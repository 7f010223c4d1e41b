package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/compozy/autotag/internal/domain"
	"github.com/gofrs/flock"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	// StateSchemaVersion is written into every journal file
	StateSchemaVersion = "1.0.0"
	// DefaultStateDir is used when no state directory is configured
	DefaultStateDir      = ".autotag-state"
	StateFilePermissions = 0600
	StateDirPermissions  = 0700
	// LockTimeout bounds how long a journal operation waits for its lock
	LockTimeout       = 30 * time.Second
	LockRetryInterval = 100 * time.Millisecond
)

// ErrRunNotFound is returned when no journal exists for a session.
var ErrRunNotFound = errors.New("run journal not found")

// StateRepository persists run journals.
type StateRepository interface {
	Save(ctx context.Context, state *domain.RunState) error
	Load(ctx context.Context, sessionID string) (*domain.RunState, error)
	LoadLatest(ctx context.Context) (*domain.RunState, error)
	Delete(ctx context.Context, sessionID string) error
	Exists(ctx context.Context, sessionID string) (bool, error)
}

// StateMetadata guards a journal against schema drift and corruption.
type StateMetadata struct {
	SchemaVersion string    `json:"schema_version"`
	Checksum      string    `json:"checksum"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type stateFile struct {
	Metadata StateMetadata    `json:"metadata"`
	State    *domain.RunState `json:"state"`
}

// JSONStateRepository stores one JSON file per run, guarded by flock.
type JSONStateRepository struct {
	fs       afero.Fs
	stateDir string
	logger   *zap.Logger
	mu       sync.RWMutex
}

// NewJSONStateRepository creates a journal store rooted at stateDir.
// Locks are taken on the real filesystem, so fs should be backed by the OS.
func NewJSONStateRepository(fs afero.Fs, stateDir string, logger *zap.Logger) *JSONStateRepository {
	if stateDir == "" {
		stateDir = DefaultStateDir
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JSONStateRepository{
		fs:       fs,
		stateDir: stateDir,
		logger:   logger,
	}
}

// Save writes the journal atomically and points the latest marker at it.
func (r *JSONStateRepository) Save(ctx context.Context, state *domain.RunState) error {
	if state == nil || state.SessionID == "" {
		return fmt.Errorf("run state must have a session id")
	}
	if err := r.fs.MkdirAll(r.stateDir, StateDirPermissions); err != nil {
		return fmt.Errorf("failed to ensure state directory: %w", err)
	}
	unlock, err := r.lock(ctx, state.SessionID, false)
	if err != nil {
		return err
	}
	defer unlock()
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal run state: %w", err)
	}
	data, err := json.MarshalIndent(stateFile{
		Metadata: StateMetadata{
			SchemaVersion: StateSchemaVersion,
			Checksum:      checksum(payload),
			CreatedAt:     state.StartedAt,
			UpdatedAt:     time.Now(),
		},
		State: state,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state file: %w", err)
	}
	filename := r.stateFilename(state.SessionID)
	if err := r.writeAtomic(filename, data); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.writeAtomic(r.latestFilename(), []byte(filename)); err != nil {
		return fmt.Errorf("failed to update latest marker: %w", err)
	}
	return nil
}

// Load reads and verifies the journal of one session.
func (r *JSONStateRepository) Load(ctx context.Context, sessionID string) (*domain.RunState, error) {
	unlock, err := r.lock(ctx, sessionID, true)
	if err != nil {
		return nil, err
	}
	defer unlock()
	data, err := afero.ReadFile(r.fs, r.stateFilename(sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: session %s", ErrRunNotFound, sessionID)
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	var file stateFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state file: %w", err)
	}
	if file.Metadata.SchemaVersion != StateSchemaVersion {
		return nil, fmt.Errorf("incompatible schema version: expected %s, got %s",
			StateSchemaVersion, file.Metadata.SchemaVersion)
	}
	payload, err := json.Marshal(file.State)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal run state: %w", err)
	}
	if file.Metadata.Checksum != checksum(payload) {
		return nil, fmt.Errorf("state checksum mismatch: data may be corrupted")
	}
	return file.State, nil
}

// LoadLatest loads the most recently saved journal.
func (r *JSONStateRepository) LoadLatest(ctx context.Context) (*domain.RunState, error) {
	r.mu.RLock()
	data, err := afero.ReadFile(r.fs, r.latestFilename())
	r.mu.RUnlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no runs recorded in %s", ErrRunNotFound, r.stateDir)
		}
		return nil, fmt.Errorf("failed to read latest marker: %w", err)
	}
	sessionID := sessionFromFilename(string(data))
	if sessionID == "" {
		return nil, fmt.Errorf("invalid latest marker target: %s", data)
	}
	return r.Load(ctx, sessionID)
}

// Delete removes a session's journal and its lock file.
func (r *JSONStateRepository) Delete(ctx context.Context, sessionID string) error {
	unlock, err := r.lock(ctx, sessionID, false)
	if err != nil {
		return err
	}
	defer unlock()
	if err := r.fs.Remove(r.stateFilename(sessionID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete state file: %w", err)
	}
	if err := r.fs.Remove(r.lockFilename(sessionID)); err != nil && !os.IsNotExist(err) {
		r.logger.Warn("failed to remove lock file", zap.String("session_id", sessionID), zap.Error(err))
	}
	return nil
}

// Exists reports whether a journal exists for the session.
func (r *JSONStateRepository) Exists(_ context.Context, sessionID string) (bool, error) {
	_, err := r.fs.Stat(r.stateFilename(sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check state file: %w", err)
	}
	return true, nil
}

// lock polls for the session's flock until ctx or LockTimeout expires.
func (r *JSONStateRepository) lock(ctx context.Context, sessionID string, shared bool) (func(), error) {
	if err := r.fs.MkdirAll(r.stateDir, StateDirPermissions); err != nil {
		return nil, fmt.Errorf("failed to ensure state directory: %w", err)
	}
	fl := flock.New(r.lockFilename(sessionID))
	lockCtx, cancel := context.WithTimeout(ctx, LockTimeout)
	defer cancel()
	try := fl.TryLock
	if shared {
		try = fl.TryRLock
	}
	ticker := time.NewTicker(LockRetryInterval)
	defer ticker.Stop()
	for {
		locked, err := try()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock: %w", err)
		}
		if locked {
			return func() {
				if err := fl.Unlock(); err != nil {
					r.logger.Warn("failed to unlock state file", zap.String("session_id", sessionID), zap.Error(err))
				}
			}, nil
		}
		select {
		case <-lockCtx.Done():
			return nil, fmt.Errorf("could not acquire lock for session %s: %w", sessionID, lockCtx.Err())
		case <-ticker.C:
		}
	}
}

func (r *JSONStateRepository) writeAtomic(filename string, data []byte) error {
	tmp := filename + ".tmp"
	if err := afero.WriteFile(r.fs, tmp, data, StateFilePermissions); err != nil {
		return err
	}
	if err := r.fs.Rename(tmp, filename); err != nil {
		if removeErr := r.fs.Remove(tmp); removeErr != nil {
			r.logger.Warn("failed to remove temp file", zap.String("file", tmp), zap.Error(removeErr))
		}
		return err
	}
	return nil
}

func (r *JSONStateRepository) stateFilename(sessionID string) string {
	return filepath.Join(r.stateDir, fmt.Sprintf("run-%s.json", sessionID))
}

func (r *JSONStateRepository) lockFilename(sessionID string) string {
	return filepath.Join(r.stateDir, fmt.Sprintf(".run-%s.lock", sessionID))
}

func (r *JSONStateRepository) latestFilename() string {
	return filepath.Join(r.stateDir, "latest.txt")
}

func sessionFromFilename(filename string) string {
	base := filepath.Base(strings.TrimSpace(filename))
	if !strings.HasPrefix(base, "run-") || !strings.HasSuffix(base, ".json") {
		return ""
	}
	return strings.TrimSuffix(strings.TrimPrefix(base, "run-"), ".json")
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
