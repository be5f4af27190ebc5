package types

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/teris-io/shortid"
)

// SentinelZeroID marks a counterparty that is not a real account:
// the system side of invoice payments and refunds.
const SentinelZeroID = "00000000-0000-0000-0000-000000000000"

// GenerateID returns a random entity identifier
func GenerateID() string {
	return uuid.NewString()
}

// IsValidID reports whether id is a well formed entity identifier
func IsValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// GenerateUUID returns a k-sortable unique identifier used for request and
// transaction tracing
func GenerateUUID() string {
	return ulid.Make().String()
}

var (
	sidGenerator *shortid.Shortid
	once         sync.Once
)

// initializeSID initializes the shortid generator once
func initializeSID() {
	var err error
	sidGenerator, err = shortid.New(1, shortid.DefaultABC, 2342)
	if err != nil {
		panic("failed to initialize shortid generator: " + err.Error())
	}
}

// GenerateShortIDWithPrefix returns a short ID with a prefix.
// Total length is capped at 12 characters, e.g., `INV-XYZ12A8Q`.
func GenerateShortIDWithPrefix(prefix string) string {
	once.Do(initializeSID)

	id, err := sidGenerator.Generate()
	if err != nil {
		return ""
	}
	id = strings.ReplaceAll(id, "-", "")

	availableLen := 12 - len(prefix)
	if availableLen <= 0 {
		return ""
	}

	if len(id) > availableLen {
		id = id[:availableLen]
	}

	return strings.ToUpper(fmt.Sprintf("%s%s", prefix, id))
}

const (
	SHORT_ID_PREFIX_INVOICE = "INV-"
)
