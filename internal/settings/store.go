package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/nao1215/imgsaveas/internal/database"
	"github.com/nao1215/imgsaveas/internal/model"
)

// ErrStoreClosed is returned by a store used after Close.
var ErrStoreClosed = errors.New("settings store is closed")

// keys lists every persisted settings key.
var keys = []string{model.KeyQuality, model.KeyCustomExtension}

// Store persists the settings record.
//
// Get merges whatever keys are stored over defaults. A stored quality that is
// not a number is returned as NaN so consumers apply their own fallback;
// the store never clamps or sanitizes.
// Set shallow-merges the non-nil fields of the patch. Last write wins.
type Store interface {
	Get(ctx context.Context, defaults model.SettingsRecord) (model.SettingsRecord, error)
	Set(ctx context.Context, patch model.SettingsPatch) error
}

// Prime seeds storage on install: every key that is not stored yet receives
// its default, and keys already stored keep their value.
func Prime(ctx context.Context, store Store, defaults model.SettingsRecord) error {
	current, err := store.Get(ctx, defaults)
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	patch := current.Patch()
	if math.IsNaN(current.Quality) {
		// Stored but unreadable; leave it for readers to coerce.
		patch.Quality = nil
	}
	if err := store.Set(ctx, patch); err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}
	return nil
}

// SQLiteStore keeps settings in the database key-value area.
type SQLiteStore struct {
	db *database.DB
}

// NewSQLiteStore creates a store backed by db.
func NewSQLiteStore(db *database.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, defaults model.SettingsRecord) (model.SettingsRecord, error) {
	values, err := s.db.GetValues(ctx, keys...)
	if err != nil {
		return defaults, err
	}
	return mergeValues(defaults, values), nil
}

// Set implements Store.
func (s *SQLiteStore) Set(ctx context.Context, patch model.SettingsPatch) error {
	values, err := patchValues(patch)
	if err != nil {
		return err
	}
	return s.db.SetValues(ctx, values)
}

// MemoryStore keeps settings in memory. It is safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]json.RawMessage
	closed bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]json.RawMessage)}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, defaults model.SettingsRecord) (model.SettingsRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return defaults, ErrStoreClosed
	}
	return mergeValues(defaults, s.values), nil
}

// Set implements Store.
func (s *MemoryStore) Set(_ context.Context, patch model.SettingsPatch) error {
	values, err := patchValues(patch)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	for k, v := range values {
		s.values[k] = v
	}
	return nil
}

// SetRaw stores a raw JSON value under key. It lets callers reproduce values
// written by other clients of the same storage area.
func (s *MemoryStore) SetRaw(key string, value json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Close makes every later call fail with ErrStoreClosed.
func (s *MemoryStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// mergeValues overlays stored values on defaults.
func mergeValues(defaults model.SettingsRecord, values map[string]json.RawMessage) model.SettingsRecord {
	record := defaults

	if raw, ok := values[model.KeyQuality]; ok {
		record.Quality = decodeQuality(raw)
	}
	if raw, ok := values[model.KeyCustomExtension]; ok {
		record.CustomExtension = decodeText(raw)
	}

	return record
}

// decodeQuality reads a stored quality. Values that are not numbers, or
// strings that do not parse as numbers, become NaN.
func decodeQuality(raw json.RawMessage) float64 {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return math.NaN()
	}

	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

// decodeText reads a stored string. Numbers keep their JSON text; other
// kinds read as empty.
func decodeText(raw json.RawMessage) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}

	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strings.TrimSpace(string(raw))
	default:
		return ""
	}
}

// patchValues encodes the non-nil fields of patch.
func patchValues(patch model.SettingsPatch) (map[string]json.RawMessage, error) {
	values := make(map[string]json.RawMessage, len(keys))

	if patch.Quality != nil {
		q := *patch.Quality
		if math.IsNaN(q) || math.IsInf(q, 0) {
			return nil, fmt.Errorf("quality %v cannot be stored", q)
		}
		b, err := json.Marshal(q)
		if err != nil {
			return nil, fmt.Errorf("failed to encode quality: %w", err)
		}
		values[model.KeyQuality] = b
	}
	if patch.CustomExtension != nil {
		b, err := json.Marshal(*patch.CustomExtension)
		if err != nil {
			return nil, fmt.Errorf("failed to encode custom extension: %w", err)
		}
		values[model.KeyCustomExtension] = b
	}

	return values, nil
}
