// Package reference generates the two identifiers minted at evaluation
// creation: a human-readable reference number for admin search and display,
// and an opaque high-entropy access token that is the employee's sole
// credential for viewing and acknowledging their evaluation.
package reference

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const (
	refPrefix       = "EVAL"
	refSuffixLen    = 4
	refSuffixChars  = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	tokenByteLength = 32
)

// NewReferenceNumber returns an identifier like EVAL-MFKBX2Q1-7GQ2:
// prefix, millisecond timestamp in base36, and a short random suffix.
// Approximately sortable by creation time, unique with overwhelming
// probability; the store's unique index is the backstop.
func NewReferenceNumber() (string, error) {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))

	suffix := make([]byte, refSuffixLen)
	max := big.NewInt(int64(len(refSuffixChars)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate reference suffix: %w", err)
		}
		suffix[i] = refSuffixChars[n.Int64()]
	}

	return fmt.Sprintf("%s-%s-%s", refPrefix, ts, suffix), nil
}

// NewAccessToken returns 32 bytes from the system CSPRNG, hex encoded:
// 256 bits of entropy, making guessing or enumeration infeasible.
func NewAccessToken() (string, error) {
	buf := make([]byte, tokenByteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
