// Package store persists verification records. The persistence medium is an
// implementation detail behind the Store interface; records are the source
// of truth for domain trust aggregation.
package store

import (
	"context"
	"errors"

	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/model"
)

// ErrNotFound is returned when no record exists for the given id
var ErrNotFound = errors.New("record not found")

// Store is the durable, append-mostly record set of past verifications.
//
// Put is atomic per record: a record is either fully written or not written.
// List returns records in creation order (VerifiedAt ascending, id as
// tie-break) so aggregation output is deterministic for a fixed record set.
type Store interface {
	Put(ctx context.Context, rec *model.VerificationRecord) error
	Get(ctx context.Context, id string) (*model.VerificationRecord, error)
	List(ctx context.Context) ([]*model.VerificationRecord, error)
	ListByDomain(ctx context.Context, domain string) ([]*model.VerificationRecord, error)
	Delete(ctx context.Context, id string) error
}
