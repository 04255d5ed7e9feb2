// Package entities holds the core wallet domain: Wallet, WalletAccount,
// WalletTransaction, CurrencyRate, and the provider-facing bookkeeping
// entities. Entities carry identity and behavior; value objects (amounts,
// currencies, rates) are immutable and compared by value.
package entities

import (
	"time"

	"github.com/wallethub/core/internal/domain/errors"
)

// Wallet is the per-user container of multi-currency accounts. A user owns
// exactly one wallet (enforced by a unique constraint on user_id at the
// storage layer, not re-checked here).
type Wallet struct {
	id        int64
	userID    int64
	createdAt time.Time
}

// NewWallet creates a wallet for a user. userID is an opaque identifier
// supplied by the authentication collaborator — this core never validates
// that the user actually exists.
func NewWallet(userID int64) (*Wallet, error) {
	if userID <= 0 {
		return nil, errors.ValidationError{Field: "user_id", Message: "user_id must be positive"}
	}
	return &Wallet{userID: userID, createdAt: time.Now()}, nil
}

// ReconstructWallet hydrates a Wallet from stored data.
func ReconstructWallet(id, userID int64, createdAt time.Time) *Wallet {
	return &Wallet{id: id, userID: userID, createdAt: createdAt}
}

func (w *Wallet) ID() int64            { return w.id }
func (w *Wallet) UserID() int64        { return w.userID }
func (w *Wallet) CreatedAt() time.Time { return w.createdAt }

// AssignID is called by the repository after insert to set the
// database-generated identity.
func (w *Wallet) AssignID(id int64) { w.id = id }
