package dashboard

import (
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedValidatorAcceptsDefaultSeed(t *testing.T) {
	validator := &SeedValidator{}
	require.NoError(t, validator.Validate(SeedFromTree(DefaultTree())))
}

func TestSeedValidatorReportsLeafLocations(t *testing.T) {
	validator := &SeedValidator{}
	doc := &SeedDocument{
		Version: SeedVersion,
		Categories: []SeedCategory{
			{Name: "Ops", Widgets: []SeedWidget{{ID: "bad id", Name: "Uptime", Content: ""}}},
		},
	}

	err := validator.Validate(doc)
	require.Error(t, err)
	assert.True(t, goerrors.IsValidation(err))

	fields, ok := goerrors.GetValidationErrors(err)
	require.True(t, ok)
	var locations []string
	for _, f := range fields {
		locations = append(locations, f.Field)
	}
	assert.Contains(t, locations, "/categories/0/widgets/0/id")
	assert.Contains(t, locations, "/categories/0/widgets/0/content")
}

func TestSeedValidatorCompilesOnce(t *testing.T) {
	validator := &SeedValidator{}
	first, err := validator.compiled()
	require.NoError(t, err)
	second, err := validator.compiled()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestSeedValidatorRejectsUnknownVersion(t *testing.T) {
	validator := &SeedValidator{}
	doc := SeedFromTree(DefaultTree())
	doc.Version = "2"
	err := validator.Validate(doc)
	require.Error(t, err)
	assert.True(t, goerrors.IsValidation(err))
}
