package repository

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/bytedance/sonic"
	errorvalues "github.com/limbo/hydrobuddy/internal/error_values"
)

// JSONStore serializes values on top of a KVStore. A write that fails is
// kept pending and retried by the next Save of the same key or by Flush.
type JSONStore struct {
	kv      KVStore
	mu      sync.Mutex
	pending map[string]string
}

func NewJSONStore(kv KVStore) *JSONStore {
	return &JSONStore{
		kv:      kv,
		pending: make(map[string]string),
	}
}

// Load decodes the value under key into dst. ok is false when the key is absent.
func (js *JSONStore) Load(ctx context.Context, key string, dst any) (bool, error) {
	js.mu.Lock()
	raw, pending := js.pending[key]
	js.mu.Unlock()
	if !pending {
		var (
			ok  bool
			err error
		)
		raw, ok, err = js.kv.Get(ctx, key)
		if err != nil {
			return false, errors.Join(errorvalues.ErrPersistence, err)
		}
		if !ok {
			return false, nil
		}
	}
	if err := sonic.UnmarshalString(raw, dst); err != nil {
		return false, errors.Join(errorvalues.ErrPersistence, errors.New("decoding "+key+": "+err.Error()))
	}
	return true, nil
}

func (js *JSONStore) Save(ctx context.Context, key string, v any) error {
	raw, err := sonic.MarshalString(v)
	if err != nil {
		return errors.Join(errorvalues.ErrPersistence, errors.New("encoding "+key+": "+err.Error()))
	}
	js.mu.Lock()
	defer js.mu.Unlock()
	if err := js.kv.Set(ctx, key, raw); err != nil {
		js.pending[key] = raw
		return errors.Join(errorvalues.ErrPersistence, err)
	}
	delete(js.pending, key)
	return nil
}

func (js *JSONStore) Delete(ctx context.Context, keys ...string) error {
	js.mu.Lock()
	defer js.mu.Unlock()
	for _, k := range keys {
		delete(js.pending, k)
	}
	if err := js.kv.Delete(ctx, keys...); err != nil {
		return errors.Join(errorvalues.ErrPersistence, err)
	}
	return nil
}

// Flush retries every pending write and reports the ones that still fail.
func (js *JSONStore) Flush(ctx context.Context) error {
	js.mu.Lock()
	defer js.mu.Unlock()
	var errs []error
	for _, key := range js.pendingKeysLocked() {
		if err := js.kv.Set(ctx, key, js.pending[key]); err != nil {
			errs = append(errs, errors.New(key+": "+err.Error()))
			continue
		}
		delete(js.pending, key)
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{errorvalues.ErrPersistence}, errs...)...)
	}
	return nil
}

// Pending lists keys whose latest value has not reached the store.
func (js *JSONStore) Pending() []string {
	js.mu.Lock()
	defer js.mu.Unlock()
	return js.pendingKeysLocked()
}

func (js *JSONStore) pendingKeysLocked() []string {
	keys := make([]string, 0, len(js.pending))
	for k := range js.pending {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
