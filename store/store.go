// Package store defines the persistence contract verifiers and builders in
// this module read and write through (§6), plus KeySet, the in-memory
// signer bundle used while producing signatures (§3), and an in-memory
// reference Store implementation.
package store

import "context"

// KeyEventWriter appends committed key events for one AID's KEL.
type KeyEventWriter interface {
	InsertKeyEvent(ctx context.Context, pre string, sn uint64, blob []byte) error
}

// KeyEventReader reads back committed key events and derived counts.
type KeyEventReader interface {
	GetKeyEvent(ctx context.Context, pre string, sn uint64) ([]byte, error)
	GetLatestEstablishmentEventAsOfSn(ctx context.Context, pre string, sn uint64) ([]byte, uint64, error)
	CountKeyEvents(ctx context.Context, pre string) (uint64, error)
}

// TransactionEventWriter appends committed transaction events for one
// registry's TEL.
type TransactionEventWriter interface {
	InsertTransactionEvent(ctx context.Context, pre string, sn uint64, blob []byte) error
}

// TransactionEventReader reads back committed transaction events and
// derived counts.
type TransactionEventReader interface {
	GetTransactionEvent(ctx context.Context, pre string, sn uint64) ([]byte, error)
	CountTransactionEvents(ctx context.Context, pre string) (uint64, error)
}

// ACDCWriter appends committed credential bodies, addressed by SAID.
type ACDCWriter interface {
	InsertACDC(ctx context.Context, said string, blob []byte) error
}

// ACDCReader reads back committed credential bodies by SAID.
type ACDCReader interface {
	GetACDC(ctx context.Context, said string) ([]byte, error)
}

// SadWriter appends committed arbitrary SADs (e.g. attribute blocks),
// addressed by SAID.
type SadWriter interface {
	InsertSad(ctx context.Context, said string, blob []byte) error
}

// SadReader reads back committed SADs by SAID.
type SadReader interface {
	GetSad(ctx context.Context, said string) ([]byte, error)
}

// Store is the full persistence contract (§6): KELs and TELs addressed by
// (pre, sn), credentials and SADs addressed by SAID. Implementations are
// assumed thread-safe; the verifier package never assumes atomicity across
// more than one Store call.
type Store interface {
	KeyEventWriter
	KeyEventReader
	TransactionEventWriter
	TransactionEventReader
	ACDCWriter
	ACDCReader
	SadWriter
	SadReader
}
