package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// ParseSchemeConfig decodes the stored district quota and reservation documents.
// Parsing is lenient: if either document is malformed both are discarded and the
// returned malformed flag is set, rather than failing the caller.
// Seat counts are clamped to [0, MaxQuotaSeats] and percentages to [0, 100].
func ParseSchemeConfig(quotasDoc, reservationsDoc string) (map[string]int, Reservations, bool) {
	quotas, qErr := parseQuotas(quotasDoc)
	reservations, rErr := parseReservations(reservationsDoc)
	if qErr != nil || rErr != nil {
		return map[string]int{}, Reservations{}, true
	}
	return quotas, reservations, false
}

func parseQuotas(doc string) (map[string]int, error) {
	quotas := map[string]int{}
	if strings.TrimSpace(doc) == "" {
		return quotas, nil
	}

	var raw map[string]float64
	if err := json.Unmarshal([]byte(doc), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse district quotas: %w", err)
	}

	for district, seats := range raw {
		quotas[district] = clampSeats(seats)
	}
	return quotas, nil
}

func parseReservations(doc string) (Reservations, error) {
	if strings.TrimSpace(doc) == "" {
		return Reservations{}, nil
	}

	var r Reservations
	if err := json.Unmarshal([]byte(doc), &r); err != nil {
		return Reservations{}, fmt.Errorf("failed to parse reservations: %w", err)
	}

	r.SCPercentage = clampPercentage(r.SCPercentage)
	r.STPercentage = clampPercentage(r.STPercentage)
	return r, nil
}

// MaxQuotaSeats is the largest district quota a stored configuration can express
const MaxQuotaSeats = math.MaxInt32

func clampSeats(seats float64) int {
	if math.IsNaN(seats) || seats < 0 {
		return 0
	}
	if seats > MaxQuotaSeats {
		return MaxQuotaSeats
	}
	return int(seats)
}

func clampPercentage(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	return min(p, 100)
}

// EncodeSchemeConfig produces the stored documents for a scheme's quotas and reservations
func EncodeSchemeConfig(quotas map[string]int, reservations Reservations) (string, string, error) {
	if quotas == nil {
		quotas = map[string]int{}
	}
	q, err := json.Marshal(quotas)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode district quotas: %w", err)
	}
	r, err := json.Marshal(reservations)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode reservations: %w", err)
	}
	return string(q), string(r), nil
}
