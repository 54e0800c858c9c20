package employee

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"
)

const (
	idPrefix     = "EMP-"
	idSuffixLen  = 7
	idSuffixPool = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// IDFunc produces a candidate identifier for the given instant.
type IDFunc func(now time.Time) (string, error)

// NewID returns EMP-<unix millis>-<7 upper-case base36 characters>.
func NewID(now time.Time) (string, error) {
	suffix := make([]byte, idSuffixLen)
	limit := big.NewInt(int64(len(idSuffixPool)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		suffix[i] = idSuffixPool[n.Int64()]
	}
	return idPrefix + strconv.FormatInt(now.UnixMilli(), 10) + "-" + string(suffix), nil
}
