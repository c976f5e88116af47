package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSupportedCrop_CaseInsensitive(t *testing.T) {
	assert.True(t, IsSupportedCrop("tomato"))
	assert.True(t, IsSupportedCrop("Tomato"))
	assert.True(t, IsSupportedCrop("  RICE "))
	assert.False(t, IsSupportedCrop("durian"))
	assert.False(t, IsSupportedCrop(""))
}

func TestValidateDiagnosis_CanonicalizesKnownDiseases(t *testing.T) {
	diagnosis := ValidateDiagnosis("tomato", "early blight")
	assert.False(t, diagnosis.Healthy)
	assert.Equal(t, "Early Blight", diagnosis.Disease)

	diagnosis = ValidateDiagnosis("Rice", "RICE BLAST")
	assert.False(t, diagnosis.Healthy)
	assert.Equal(t, "Rice Blast", diagnosis.Disease)
}

func TestValidateDiagnosis_UnknownCollapsesToHealthy(t *testing.T) {
	cases := []struct {
		name     string
		cropType string
		disease  string
	}{
		{"hallucinated disease", "tomato", "Purple Spot Madness"},
		{"disease of another crop", "tomato", "Rice Blast"},
		{"unsupported crop", "durian", "Early Blight"},
		{"empty disease", "tomato", ""},
		{"healthy sentinel", "tomato", "Healthy"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			diagnosis := ValidateDiagnosis(tc.cropType, tc.disease)
			assert.True(t, diagnosis.Healthy)
			assert.Empty(t, diagnosis.Disease)
		})
	}
}

func TestDiseasesFor(t *testing.T) {
	assert.Contains(t, DiseasesFor("corn"), "Common Rust")
	assert.Nil(t, DiseasesFor("durian"))
	assert.Len(t, SupportedCrops(), 13)
}

func TestCropKey(t *testing.T) {
	assert.Equal(t, "tomato_default", CropKey("tomato", ""))
	assert.Equal(t, "tomato_north", CropKey("tomato", "north"))

	history := CropHealthHistory{CropType: "rice", FieldSection: "paddy-2"}
	assert.Equal(t, "rice_paddy-2", history.CropKey())
}
