package models

import "strings"

// HealthyLabel is the sentinel the vision model returns for a disease-free
// plant. Disease names that do not validate against the catalog collapse to it.
const HealthyLabel = "healthy"

// cropDiseases is the supported crop catalog. Disease names returned by the
// AI collaborator are only trusted when they validate against this list for
// the scanned crop; everything else is treated as healthy rather than letting
// a hallucinated label reach the history.
var cropDiseases = map[string][]string{
	"tomato":    {"Early Blight", "Late Blight", "Leaf Mold", "Septoria Leaf Spot", "Bacterial Spot", "Tomato Mosaic Virus", "Yellow Leaf Curl Virus"},
	"potato":    {"Early Blight", "Late Blight", "Black Scurf", "Common Scab"},
	"corn":      {"Northern Leaf Blight", "Common Rust", "Gray Leaf Spot", "Corn Smut"},
	"rice":      {"Rice Blast", "Bacterial Leaf Blight", "Brown Spot", "Sheath Blight", "Tungro"},
	"wheat":     {"Leaf Rust", "Stem Rust", "Stripe Rust", "Powdery Mildew", "Septoria Leaf Blotch"},
	"cotton":    {"Bacterial Blight", "Verticillium Wilt", "Fusarium Wilt", "Cotton Leaf Curl Virus"},
	"sugarcane": {"Red Rot", "Sugarcane Smut", "Sugarcane Wilt", "Grassy Shoot"},
	"soybean":   {"Frogeye Leaf Spot", "Downy Mildew", "Soybean Rust", "Bacterial Pustule"},
	"chili":     {"Anthracnose", "Bacterial Leaf Spot", "Powdery Mildew", "Chili Leaf Curl Virus"},
	"onion":     {"Purple Blotch", "Stemphylium Blight", "Downy Mildew", "Basal Rot"},
	"brinjal":   {"Phomopsis Blight", "Little Leaf", "Verticillium Wilt", "Damping Off"},
	"banana":    {"Panama Disease", "Black Sigatoka", "Yellow Sigatoka", "Banana Bunchy Top Virus"},
	"mango":     {"Anthracnose", "Powdery Mildew", "Mango Malformation", "Bacterial Canker"},
}

// Diagnosis is the tagged outcome of disease validation: either healthy, or
// diseased with the canonical catalog name. Replaces stringly-typed "healthy"
// comparisons scattered through counting and risk logic.
type Diagnosis struct {
	Healthy bool   `json:"healthy"`
	Disease string `json:"disease,omitempty"`
}

func HealthyDiagnosis() Diagnosis {
	return Diagnosis{Healthy: true}
}

func DiseasedDiagnosis(name string) Diagnosis {
	return Diagnosis{Healthy: false, Disease: name}
}

// SupportedCrops returns the crop names of the catalog.
func SupportedCrops() []string {
	crops := make([]string, 0, len(cropDiseases))
	for crop := range cropDiseases {
		crops = append(crops, crop)
	}
	return crops
}

// IsSupportedCrop reports whether the crop is in the catalog. Matching is
// case-insensitive.
func IsSupportedCrop(cropType string) bool {
	_, ok := cropDiseases[strings.ToLower(strings.TrimSpace(cropType))]
	return ok
}

// DiseasesFor returns the known diseases of a crop, or nil for an unsupported
// crop.
func DiseasesFor(cropType string) []string {
	return cropDiseases[strings.ToLower(strings.TrimSpace(cropType))]
}

// ValidateDiagnosis re-validates an AI-reported disease name against the
// per-crop catalog. Crop and disease matching are case-insensitive. An empty,
// "healthy", or unrecognized disease name yields the healthy outcome; a
// recognized one yields the canonical catalog spelling.
func ValidateDiagnosis(cropType, disease string) Diagnosis {
	disease = strings.TrimSpace(disease)
	if disease == "" || strings.EqualFold(disease, HealthyLabel) {
		return HealthyDiagnosis()
	}

	for _, known := range DiseasesFor(cropType) {
		if strings.EqualFold(known, disease) {
			return DiseasedDiagnosis(known)
		}
	}

	return HealthyDiagnosis()
}
