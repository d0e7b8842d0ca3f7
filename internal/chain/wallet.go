package chain

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// StubWallet is a Wallet for tests and local development. It signs
// nothing and fabricates references the way the simulated backend does.
type StubWallet struct {
	Addr string
	// Err, when set, is returned by SignAndSubmit.
	Err error

	Submitted [][]byte
}

// NewStubWallet creates a StubWallet with the given address.
func NewStubWallet(addr string) *StubWallet {
	return &StubWallet{Addr: addr}
}

// Address returns the configured address.
func (w *StubWallet) Address() string {
	return w.Addr
}

// SignAndSubmit records the payload and returns a synthetic reference.
func (w *StubWallet) SignAndSubmit(_ context.Context, payload []byte) (string, error) {
	if w.Err != nil {
		return "", w.Err
	}

	var nonce [4]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("read tx nonce: %w", err)
	}

	w.Submitted = append(w.Submitted, payload)
	return "stub_" + hex.EncodeToString(nonce[:]), nil
}

// Compile-time interface check.
var _ Wallet = (*StubWallet)(nil)
