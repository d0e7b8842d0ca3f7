package ledger

import "errors"

// Ledger errors.
var (
	// ErrPurchaseNotFound is returned when a purchase id does not exist
	// for the user.
	ErrPurchaseNotFound = errors.New("purchase not found")

	// ErrPersistence is returned when the store write fails and the
	// in-memory change was rolled back. The operation can be retried
	// as a whole.
	ErrPersistence = errors.New("persistence failed")

	// ErrClaimPersistence is returned when the store write fails AFTER
	// a claim was applied in memory. The claim logically succeeded but
	// may not survive a reload; callers retry the persistence step, not
	// the claim (a retried claim is rejected as already claimed).
	ErrClaimPersistence = errors.New("claim persistence failed")
)
