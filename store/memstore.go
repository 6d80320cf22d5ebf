package store

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/datatrails/go-keri-core/event"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// record is the envelope memstore actually keeps in memory: the
// committed blob plus small diagnostic metadata, framed through CBOR so
// the in-memory map holds one deterministic byte encoding rather than a
// live Go struct a caller could mutate out from under the store.
type record struct {
	Blob   []byte
	Ilk    string
	Handle uuid.UUID
}

type keyEventKey struct {
	pre string
	sn  uint64
}

// memstore is an in-memory reference Store (§6), safe for concurrent use.
// It is a reference implementation for testing the verifiers against, not
// a durability layer.
type memstore struct {
	mu sync.RWMutex

	keyEvents   map[keyEventKey][]byte
	keyEventSn  map[string]uint64 // pre -> count
	establish   map[keyEventKey]string
	txnEvents   map[keyEventKey][]byte
	txnEventSn  map[string]uint64
	acdcs       map[string][]byte
	sads        map[string][]byte
	logger      *zap.Logger
}

// New returns an empty in-memory Store with a no-op logger.
func New() Store {
	return NewWithLogger(nil)
}

// NewWithLogger returns an empty in-memory Store that logs admitted and
// replayed records through logger. A nil logger is replaced with a no-op
// logger.
func NewWithLogger(logger *zap.Logger) Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &memstore{
		keyEvents:  make(map[keyEventKey][]byte),
		keyEventSn: make(map[string]uint64),
		establish:  make(map[keyEventKey]string),
		txnEvents:  make(map[keyEventKey][]byte),
		txnEventSn: make(map[string]uint64),
		acdcs:      make(map[string][]byte),
		sads:       make(map[string][]byte),
		logger:     logger,
	}
}

func encodeRecord(blob []byte, ilk string) ([]byte, error) {
	r := record{Blob: blob, Ilk: ilk, Handle: uuid.New()}
	return cbor.Marshal(r)
}

func decodeRecord(enc []byte) (record, error) {
	var r record
	if err := cbor.Unmarshal(enc, &r); err != nil {
		return record{}, err
	}
	return r, nil
}

func (m *memstore) InsertKeyEvent(ctx context.Context, pre string, sn uint64, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := keyEventKey{pre, sn}
	if existing, ok := m.keyEvents[k]; ok {
		if !bytes.Equal(existing, blob) {
			return fmt.Errorf("%w: key event at (%s, %d)", ErrDiverged, pre, sn)
		}
		m.logger.Debug("replayed key event", zap.String("pre", pre), zap.Uint64("sn", sn))
		return nil
	}

	sad, _, err := event.ParseSadPrefix(blob)
	if err != nil {
		return err
	}
	enc, err := encodeRecord(blob, sad.Ilk())
	if err != nil {
		return err
	}
	m.keyEvents[k] = enc
	if event.IsEstablishment(sad.Ilk()) {
		m.establish[k] = sad.Ilk()
	}
	if sn+1 > m.keyEventSn[pre] {
		m.keyEventSn[pre] = sn + 1
	}
	m.logger.Info("admitted key event",
		zap.String("said", sad.Said()), zap.String("pre", pre), zap.Uint64("sn", sn), zap.String("ilk", sad.Ilk()))
	return nil
}

func (m *memstore) GetKeyEvent(ctx context.Context, pre string, sn uint64) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	enc, ok := m.keyEvents[keyEventKey{pre, sn}]
	if !ok {
		return nil, fmt.Errorf("%w: key event at (%s, %d)", ErrNotFound, pre, sn)
	}
	r, err := decodeRecord(enc)
	if err != nil {
		return nil, err
	}
	return r.Blob, nil
}

func (m *memstore) GetLatestEstablishmentEventAsOfSn(ctx context.Context, pre string, sn uint64) ([]byte, uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var best uint64
	found := false
	for n := int64(sn); n >= 0; n-- {
		k := keyEventKey{pre, uint64(n)}
		if _, ok := m.establish[k]; ok {
			best = uint64(n)
			found = true
			break
		}
	}
	if !found {
		return nil, 0, fmt.Errorf("%w: no establishment event at or before sn=%d for %s", ErrNotFound, sn, pre)
	}
	enc := m.keyEvents[keyEventKey{pre, best}]
	r, err := decodeRecord(enc)
	if err != nil {
		return nil, 0, err
	}
	return r.Blob, best, nil
}

func (m *memstore) CountKeyEvents(ctx context.Context, pre string) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.keyEventSn[pre], nil
}

func (m *memstore) InsertTransactionEvent(ctx context.Context, pre string, sn uint64, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := keyEventKey{pre, sn}
	if existing, ok := m.txnEvents[k]; ok {
		if !bytes.Equal(existing, blob) {
			return fmt.Errorf("%w: transaction event at (%s, %d)", ErrDiverged, pre, sn)
		}
		m.logger.Debug("replayed transaction event", zap.String("pre", pre), zap.Uint64("sn", sn))
		return nil
	}
	sad, _, err := event.ParseSadPrefix(blob)
	if err != nil {
		return err
	}
	enc, err := encodeRecord(blob, sad.Ilk())
	if err != nil {
		return err
	}
	m.txnEvents[k] = enc
	if sn+1 > m.txnEventSn[pre] {
		m.txnEventSn[pre] = sn + 1
	}
	m.logger.Info("admitted transaction event",
		zap.String("said", sad.Said()), zap.String("pre", pre), zap.Uint64("sn", sn), zap.String("ilk", sad.Ilk()))
	return nil
}

func (m *memstore) GetTransactionEvent(ctx context.Context, pre string, sn uint64) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	enc, ok := m.txnEvents[keyEventKey{pre, sn}]
	if !ok {
		return nil, fmt.Errorf("%w: transaction event at (%s, %d)", ErrNotFound, pre, sn)
	}
	r, err := decodeRecord(enc)
	if err != nil {
		return nil, err
	}
	return r.Blob, nil
}

func (m *memstore) CountTransactionEvents(ctx context.Context, pre string) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.txnEventSn[pre], nil
}

func (m *memstore) InsertACDC(ctx context.Context, said string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.acdcs[said]; ok {
		if !bytes.Equal(existing, blob) {
			return fmt.Errorf("%w: acdc %s", ErrDiverged, said)
		}
		m.logger.Debug("replayed acdc", zap.String("said", said))
		return nil
	}
	enc, err := encodeRecord(blob, "")
	if err != nil {
		return err
	}
	m.acdcs[said] = enc
	m.logger.Info("admitted acdc", zap.String("said", said))
	return nil
}

func (m *memstore) GetACDC(ctx context.Context, said string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	enc, ok := m.acdcs[said]
	if !ok {
		return nil, fmt.Errorf("%w: acdc %s", ErrNotFound, said)
	}
	r, err := decodeRecord(enc)
	if err != nil {
		return nil, err
	}
	return r.Blob, nil
}

func (m *memstore) InsertSad(ctx context.Context, said string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sads[said]; ok {
		if !bytes.Equal(existing, blob) {
			return fmt.Errorf("%w: sad %s", ErrDiverged, said)
		}
		return nil
	}
	enc, err := encodeRecord(blob, "")
	if err != nil {
		return err
	}
	m.sads[said] = enc
	return nil
}

func (m *memstore) GetSad(ctx context.Context, said string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	enc, ok := m.sads[said]
	if !ok {
		return nil, fmt.Errorf("%w: sad %s", ErrNotFound, said)
	}
	r, err := decodeRecord(enc)
	if err != nil {
		return nil, err
	}
	return r.Blob, nil
}
