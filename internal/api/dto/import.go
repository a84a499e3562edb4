package dto

// ImportSummary reports what one import run did. Scanned counts every
// provider customer seen; Skipped counts the ones filtered out (already
// linked locally, no subscriptions, or none active); Failed counts the ones
// that errored and were passed over.
type ImportSummary struct {
	Scanned  int `json:"scanned"`
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}
