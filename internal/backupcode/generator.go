package backupcode

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"time"
)

// codeBytes is the number of digest bytes kept; the hex code is twice as long.
const codeBytes = 7

// CodeLength is the length of a generated code in characters.
const CodeLength = codeBytes * 2

var sixDigitSpan = big.NewInt(900000)

// Generate derives a code from the SHA-256 digest of the timestamp and a
// random six-digit number, truncated to 14 lowercase hex characters.
func Generate(now time.Time, random io.Reader) (string, error) {
	n, err := rand.Int(random, sixDigitSpan)
	if err != nil {
		return "", fmt.Errorf("drawing random digits: %w", err)
	}
	digits := n.Int64() + 100000

	seed := strconv.FormatInt(now.UnixNano(), 10) + strconv.FormatInt(digits, 10)
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:codeBytes]), nil
}
