package checkout

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultOrderPrefix is used when no prefix is configured
const DefaultOrderPrefix = "ORD"

// OrderNumbers generates "<prefix>-<unix millis>-<6 hex>" order numbers.
// The random suffix keeps two submits in the same millisecond apart.
type OrderNumbers struct {
	Prefix string
	Now    func() time.Time
	Random func() string
}

// NewOrderNumbers creates a generator with the real clock and uuid-based randomness
func NewOrderNumbers(prefix string) *OrderNumbers {
	if prefix == "" {
		prefix = DefaultOrderPrefix
	}
	return &OrderNumbers{
		Prefix: prefix,
		Now:    time.Now,
		Random: randomSuffix,
	}
}

// Next returns a fresh order number
func (g *OrderNumbers) Next() string {
	return fmt.Sprintf("%s-%d-%s", g.Prefix, g.Now().UnixMilli(), g.Random())
}

func randomSuffix() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:6]
}
