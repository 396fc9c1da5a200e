package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPendingChanged(t *testing.T) {
	tests := []struct {
		name    string
		read    []string
		current []string
		changed bool
	}{
		{name: "same order", read: []string{"A", "B"}, current: []string{"A", "B"}, changed: false},
		{name: "different order", read: []string{"B", "A"}, current: []string{"A", "B"}, changed: false},
		{name: "both empty", read: nil, current: []string{}, changed: false},
		{name: "new arrival", read: []string{"A"}, current: []string{"A", "B"}, changed: true},
		{name: "left pending", read: []string{"A", "B"}, current: []string{"A"}, changed: true},
		{name: "swapped", read: []string{"A", "B"}, current: []string{"A", "C"}, changed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.changed, PendingChanged(tt.read, tt.current))
		})
	}
}
