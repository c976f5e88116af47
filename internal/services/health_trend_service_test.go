package services

import (
	"context"
	"fmt"
	"testing"

	"farmassist-backend/internal/models"
	"farmassist-backend/internal/repository"
	"farmassist-backend/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

func newTrendService() *HealthTrendService {
	return NewHealthTrendService(repository.NewHistoryRepository(storage.NewMemoryStore()))
}

func healthyScan(ts int64) models.CropScan {
	return models.CropScan{
		ID:        uuid.New(),
		Timestamp: ts,
		CropType:  "tomato",
		IsHealthy: true,
	}
}

func diseasedScan(ts int64, disease string) models.CropScan {
	return models.CropScan{
		ID:              uuid.New(),
		Timestamp:       ts,
		CropType:        "tomato",
		IsHealthy:       false,
		DetectedDisease: &disease,
		Severity:        models.SeverityMedium,
	}
}

func recordAll(t *testing.T, svc *HealthTrendService, userID string, scans []models.CropScan) *models.CropHealthHistory {
	t.Helper()
	var history *models.CropHealthHistory
	var err error
	for _, scan := range scans {
		history, err = svc.RecordScan(context.Background(), userID, scan)
		require.NoError(t, err)
	}
	return history
}

// ============================================================================
// COUNTERS AND RANKING
// ============================================================================

func TestRecordScan_CountersDescribeRetainedScans(t *testing.T) {
	svc := newTrendService()

	history := recordAll(t, svc, "farmer-1", []models.CropScan{
		healthyScan(100),
		diseasedScan(200, "Early Blight"),
		healthyScan(300),
		diseasedScan(400, "Late Blight"),
	})

	assert.Equal(t, 4, history.TotalScans)
	assert.Equal(t, len(history.Scans), history.TotalScans)
	assert.Equal(t, 2, history.HealthyScans)
	assert.Equal(t, 2, history.DiseasedScans)
	assert.Equal(t, history.TotalScans, history.HealthyScans+history.DiseasedScans)
}

func TestRecordScan_DiseaseRankingSortedByCountThenName(t *testing.T) {
	svc := newTrendService()

	history := recordAll(t, svc, "farmer-1", []models.CropScan{
		diseasedScan(1, "Late Blight"),
		diseasedScan(2, "Early Blight"),
		diseasedScan(3, "Late Blight"),
		diseasedScan(4, "Bacterial Spot"),
	})

	require.Len(t, history.CommonDiseases, 3)
	assert.Equal(t, models.DiseaseCount{Name: "Late Blight", Count: 2}, history.CommonDiseases[0])
	// Ties break alphabetically.
	assert.Equal(t, models.DiseaseCount{Name: "Bacterial Spot", Count: 1}, history.CommonDiseases[1])
	assert.Equal(t, models.DiseaseCount{Name: "Early Blight", Count: 1}, history.CommonDiseases[2])
}

func TestRecordScan_CapKeepsNewestAndRecomputesCounters(t *testing.T) {
	svc := newTrendService()

	scans := make([]models.CropScan, 0, models.MaxScansPerHistory+5)
	for i := 0; i < 5; i++ {
		scans = append(scans, diseasedScan(int64(i), "Early Blight"))
	}
	for i := 5; i < models.MaxScansPerHistory+5; i++ {
		scans = append(scans, healthyScan(int64(i)))
	}

	history := recordAll(t, svc, "farmer-1", scans)

	assert.Len(t, history.Scans, models.MaxScansPerHistory)
	assert.Equal(t, models.MaxScansPerHistory, history.TotalScans)
	// The diseased scans were the oldest, so trimming removed them and the
	// counters must not remember them.
	assert.Equal(t, 0, history.DiseasedScans)
	assert.Empty(t, history.CommonDiseases)
	assert.EqualValues(t, 5, history.Scans[0].Timestamp)
}

// ============================================================================
// TREND
// ============================================================================

func TestTrend_FiveHealthyThenFiveDiseasedDeclines(t *testing.T) {
	svc := newTrendService()

	scans := []models.CropScan{}
	for i := 0; i < 5; i++ {
		scans = append(scans, healthyScan(int64(i)))
	}
	for i := 5; i < 10; i++ {
		scans = append(scans, diseasedScan(int64(i), "Early Blight"))
	}

	history := recordAll(t, svc, "farmer-1", scans)
	assert.Equal(t, models.TrendDeclining, history.HealthTrend)
}

func TestTrend_FiveDiseasedThenFiveHealthyImproves(t *testing.T) {
	svc := newTrendService()

	scans := []models.CropScan{}
	for i := 0; i < 5; i++ {
		scans = append(scans, diseasedScan(int64(i), "Early Blight"))
	}
	for i := 5; i < 10; i++ {
		scans = append(scans, healthyScan(int64(i)))
	}

	history := recordAll(t, svc, "farmer-1", scans)
	assert.Equal(t, models.TrendImproving, history.HealthTrend)
}

func TestTrend_TooFewScansIsStable(t *testing.T) {
	svc := newTrendService()

	history := recordAll(t, svc, "farmer-1", []models.CropScan{diseasedScan(1, "Early Blight")})
	assert.Equal(t, models.TrendStable, history.HealthTrend)

	// With five scans or fewer there is no older window to compare against.
	history = recordAll(t, svc, "farmer-1", []models.CropScan{
		healthyScan(2), healthyScan(3), diseasedScan(4, "Early Blight"),
	})
	assert.Equal(t, models.TrendStable, history.HealthTrend)
}

func TestTrend_SmallDifferenceWithinHysteresisIsStable(t *testing.T) {
	svc := newTrendService()

	// Older window 4/5 healthy, recent window 4/5 healthy: identical rates.
	scans := []models.CropScan{}
	for i := 0; i < 4; i++ {
		scans = append(scans, healthyScan(int64(i)))
	}
	scans = append(scans, diseasedScan(4, "Early Blight"))
	for i := 5; i < 9; i++ {
		scans = append(scans, healthyScan(int64(i)))
	}
	scans = append(scans, diseasedScan(9, "Late Blight"))

	history := recordAll(t, svc, "farmer-1", scans)
	assert.Equal(t, models.TrendStable, history.HealthTrend)
}

// ============================================================================
// RISK
// ============================================================================

func TestRisk_RecentDiseasePressureWinsOverGoodOverallRate(t *testing.T) {
	svc := newTrendService()

	scans := []models.CropScan{}
	for i := 0; i < 10; i++ {
		scans = append(scans, healthyScan(int64(i)))
	}
	scans = append(scans, diseasedScan(10, "Early Blight"))
	scans = append(scans, diseasedScan(11, "Early Blight"))

	history := recordAll(t, svc, "farmer-1", scans)

	// Overall health rate is 10/12 but two of the last three scans are
	// diseased; the high rule is evaluated first.
	assert.Equal(t, models.RiskHigh, history.RiskLevel)
}

func TestRisk_SingleRecentDiseaseIsMedium(t *testing.T) {
	svc := newTrendService()

	scans := []models.CropScan{}
	for i := 0; i < 7; i++ {
		scans = append(scans, healthyScan(int64(i)))
	}
	scans = append(scans, diseasedScan(7, "Early Blight"))

	history := recordAll(t, svc, "farmer-1", scans)
	assert.Equal(t, models.RiskMedium, history.RiskLevel)
}

func TestRisk_AllHealthyIsLow(t *testing.T) {
	svc := newTrendService()

	history := recordAll(t, svc, "farmer-1", []models.CropScan{
		healthyScan(1), healthyScan(2), healthyScan(3),
	})
	assert.Equal(t, models.RiskLow, history.RiskLevel)
}

func TestRisk_LowOverallRateIsHigh(t *testing.T) {
	svc := newTrendService()

	// Diseased early, healthy recently: recent pressure is zero but the
	// overall rate is under one half.
	scans := []models.CropScan{}
	for i := 0; i < 6; i++ {
		scans = append(scans, diseasedScan(int64(i), "Early Blight"))
	}
	for i := 6; i < 10; i++ {
		scans = append(scans, healthyScan(int64(i)))
	}

	history := recordAll(t, svc, "farmer-1", scans)
	assert.Equal(t, models.RiskHigh, history.RiskLevel)
}

// ============================================================================
// DETERMINISM AND BUCKETING
// ============================================================================

func TestRecordScan_SameSequenceSameDerivedState(t *testing.T) {
	sequence := func() []models.CropScan {
		scans := []models.CropScan{}
		for i := 0; i < 8; i++ {
			id := uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", i))
			scan := models.CropScan{ID: id, Timestamp: int64(i + 1), CropType: "rice", IsHealthy: i%3 != 0}
			if !scan.IsHealthy {
				disease := "Rice Blast"
				scan.DetectedDisease = &disease
			}
			scans = append(scans, scan)
		}
		return scans
	}

	first := recordAll(t, newTrendService(), "farmer-1", sequence())
	second := recordAll(t, newTrendService(), "farmer-1", sequence())

	assert.Equal(t, first.Scans, second.Scans)
	assert.Equal(t, first.HealthTrend, second.HealthTrend)
	assert.Equal(t, first.RiskLevel, second.RiskLevel)
	assert.Equal(t, first.CommonDiseases, second.CommonDiseases)
	assert.Equal(t, first.TotalScans, second.TotalScans)
}

func TestRecordScan_EmptyFieldSectionUsesDefaultBucket(t *testing.T) {
	svc := newTrendService()
	ctx := context.Background()

	_, err := svc.RecordScan(ctx, "farmer-1", healthyScan(1))
	require.NoError(t, err)

	history, err := svc.GetHistory(ctx, "farmer-1", "tomato", "")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultFieldSection, history.FieldSection)

	// A named section is a separate aggregate.
	named := healthyScan(2)
	named.FieldSection = "north-field"
	_, err = svc.RecordScan(ctx, "farmer-1", named)
	require.NoError(t, err)

	histories, err := svc.ListHistories(ctx, "farmer-1")
	require.NoError(t, err)
	assert.Len(t, histories, 2)
}

func TestGetHistory_UnknownCropNotFound(t *testing.T) {
	svc := newTrendService()

	_, err := svc.GetHistory(context.Background(), "farmer-1", "tomato", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not_found")
}

func TestWipeUserData_RemovesHistories(t *testing.T) {
	svc := newTrendService()
	ctx := context.Background()

	recordAll(t, svc, "farmer-1", []models.CropScan{healthyScan(1)})
	require.NoError(t, svc.WipeUserData(ctx, "farmer-1"))

	_, err := svc.GetHistory(ctx, "farmer-1", "tomato", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not_found")
}

func TestUserCrops_DistinctCropTypes(t *testing.T) {
	svc := newTrendService()
	ctx := context.Background()

	recordAll(t, svc, "farmer-1", []models.CropScan{healthyScan(1)})

	riceScan := healthyScan(2)
	riceScan.CropType = "rice"
	recordAll(t, svc, "farmer-1", []models.CropScan{riceScan})

	sectioned := healthyScan(3)
	sectioned.FieldSection = "east"
	recordAll(t, svc, "farmer-1", []models.CropScan{sectioned})

	crops, err := svc.UserCrops(ctx, "farmer-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"tomato", "rice"}, crops)
}
