package crawl

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// ComputeHash fingerprints extracted page text. The result is 16 hex digits.
func ComputeHash(text string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(text))
}
