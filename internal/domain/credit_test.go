package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCalculationMethod(t *testing.T) {
	tests := []struct {
		input    string
		expected CalculationMethod
	}{
		{"classic_annuity", ClassicAnnuity},
		{"annuity", ClassicAnnuity},
		{"ANNUITY", ClassicAnnuity},
		{"  classic-annuity  ", ClassicAnnuity},
		{"differentiated", ClassicDifferentiated},
		{"classic_differentiated", ClassicDifferentiated},
		{"floating_annuity", FloatingAnnuity},
		{"Floating-Annuity", FloatingAnnuity},
		{"floating_differentiated", FloatingDifferentiated},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			method, err := ParseCalculationMethod(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, method)
		})
	}
}

func TestParseCalculationMethod_Unknown(t *testing.T) {
	_, err := ParseCalculationMethod("bullet")
	assert.Error(t, err)
}

func TestCalculationMethod_Predicates(t *testing.T) {
	assert.True(t, FloatingAnnuity.IsFloating())
	assert.True(t, FloatingDifferentiated.IsFloating())
	assert.False(t, ClassicAnnuity.IsFloating())

	assert.True(t, ClassicAnnuity.IsAnnuity())
	assert.True(t, FloatingAnnuity.IsAnnuity())
	assert.False(t, ClassicDifferentiated.IsAnnuity())
}
