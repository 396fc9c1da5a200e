package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/smartagri/seat-allocator/pkg/core/model"
	"github.com/smartagri/seat-allocator/pkg/db"
)

// SchemeDefinition is the YAML document describing a new scheme
type SchemeDefinition struct {
	Title          string             `yaml:"title" validate:"required"`
	Description    string             `yaml:"description"`
	MaxIncome      *int               `yaml:"maxIncome,omitempty" validate:"omitempty,min=0"`
	MaxLandSize    *float64           `yaml:"maxLandSize,omitempty" validate:"omitempty,min=0"`
	Deadline       string             `yaml:"deadline,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DistrictQuotas map[string]int     `yaml:"districtQuotas" validate:"required,min=1,dive,keys,required,endkeys,min=0"`
	Reservations   model.Reservations `yaml:"reservations"`
}

// ParseSchemeDefinition parses and validates a scheme definition document
func ParseSchemeDefinition(data []byte) (*SchemeDefinition, error) {
	var def SchemeDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse scheme definition: %w", err)
	}

	if err := validate.Struct(def); err != nil {
		return nil, fmt.Errorf("scheme definition validation failed: %w", err)
	}

	return &def, nil
}

// CreateScheme stores a new, unlocked scheme
func CreateScheme(ctx context.Context, database db.SchemeStore, logger *zap.Logger, def *SchemeDefinition) (*model.Scheme, error) {
	scheme := &model.Scheme{
		Title:          def.Title,
		Description:    def.Description,
		MaxIncome:      def.MaxIncome,
		MaxLandSize:    def.MaxLandSize,
		Deadline:       def.Deadline,
		DistrictQuotas: def.DistrictQuotas,
		Reservations:   def.Reservations,
	}

	if err := database.InsertScheme(ctx, scheme); err != nil {
		return nil, fmt.Errorf("failed to insert scheme: %w", err)
	}

	logger.Info("Scheme created",
		zap.String("scheme_id", scheme.ID),
		zap.String("title", scheme.Title),
		zap.Int("districts", len(scheme.DistrictQuotas)))

	return scheme, nil
}
