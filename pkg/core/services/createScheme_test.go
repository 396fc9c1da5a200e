package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smartagri/seat-allocator/pkg/db/memdb"
)

const schemeYAML = `
title: Drip Irrigation Subsidy
description: 80% subsidy on drip irrigation kits
maxIncome: 150000
maxLandSize: 2.5
deadline: "2026-12-31"
districtQuotas:
  Pune: 10
  Nashik: 4
reservations:
  scPercentage: 20
  stPercentage: 10
`

func TestParseSchemeDefinition(t *testing.T) {
	def, err := ParseSchemeDefinition([]byte(schemeYAML))
	require.NoError(t, err)

	assert.Equal(t, "Drip Irrigation Subsidy", def.Title)
	require.NotNil(t, def.MaxIncome)
	assert.Equal(t, 150000, *def.MaxIncome)
	require.NotNil(t, def.MaxLandSize)
	assert.Equal(t, 2.5, *def.MaxLandSize)
	assert.Equal(t, map[string]int{"Pune": 10, "Nashik": 4}, def.DistrictQuotas)
	assert.Equal(t, 20.0, def.Reservations.SCPercentage)
	assert.Equal(t, 10.0, def.Reservations.STPercentage)
}

func TestParseSchemeDefinition_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "missing title", doc: "districtQuotas: {Pune: 1}"},
		{name: "no districts", doc: "title: T"},
		{name: "negative quota", doc: "title: T\ndistrictQuotas: {Pune: -1}"},
		{name: "percentage above 100", doc: "title: T\ndistrictQuotas: {Pune: 1}\nreservations: {scPercentage: 120}"},
		{name: "negative percentage", doc: "title: T\ndistrictQuotas: {Pune: 1}\nreservations: {stPercentage: -5}"},
		{name: "bad deadline", doc: "title: T\ndeadline: 31/12/2026\ndistrictQuotas: {Pune: 1}"},
		{name: "not yaml", doc: "title: [unclosed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSchemeDefinition([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestParseSchemeDefinition_ReservationsMayExceed100InTotal(t *testing.T) {
	_, err := ParseSchemeDefinition([]byte("title: T\ndistrictQuotas: {Pune: 1}\nreservations: {scPercentage: 80, stPercentage: 60}"))
	assert.NoError(t, err)
}

func TestCreateScheme(t *testing.T) {
	ctx := context.Background()
	store := memdb.NewDB()
	def, err := ParseSchemeDefinition([]byte(schemeYAML))
	require.NoError(t, err)

	scheme, err := CreateScheme(ctx, store, zap.NewNop(), def)
	require.NoError(t, err)
	assert.NotEmpty(t, scheme.ID)

	stored, err := store.GetScheme(ctx, scheme.ID)
	require.NoError(t, err)
	assert.Equal(t, "Drip Irrigation Subsidy", stored.Title)
	assert.Equal(t, 10, stored.DistrictQuotas["Pune"])
	assert.False(t, stored.AllocationLocked)
	assert.False(t, stored.ConfigMalformed)
}
