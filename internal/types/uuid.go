package types

import (
	"fmt"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/teris-io/shortid"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex user_0ujsswThIGTUYm2K8FjOOfXtY1K
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

const (
	UUID_PREFIX_USER = "user"
)

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

// GenerateRandomString returns a lowercase random string of exactly n
// characters, built from shortid output. Used for username suffixes and
// generated passwords of imported accounts.
func GenerateRandomString(n int) string {
	once.Do(initializeSID)

	var sb strings.Builder
	for sb.Len() < n {
		id, err := sidGenerator.Generate()
		if err != nil {
			continue
		}
		id = strings.ReplaceAll(id, "-", "")
		id = strings.ReplaceAll(id, "_", "")
		sb.WriteString(id)
	}

	return strings.ToLower(sb.String()[:n])
}
