package db

import "slices"

// PendingChanged reports whether the pending applicant IDs found at commit time differ
// from the IDs an allocation pass read. Order is ignored.
func PendingChanged(read, current []string) bool {
	if len(read) != len(current) {
		return true
	}
	a := slices.Sorted(slices.Values(read))
	b := slices.Sorted(slices.Values(current))
	return !slices.Equal(a, b)
}
