package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"farmassist-backend/internal/models"
	"farmassist-backend/internal/repository"

	"github.com/google/uuid"
)

// Trend/risk tuning. Trend compares the health rate of the most recent scans
// against the window right before them with a hysteresis band, so single
// flukes do not flip the direction.
const (
	trendWindow     = 5
	trendHysteresis = 0.1

	riskRecentWindow = 3
)

// HealthTrendService owns the per-crop scan history aggregates: appending
// scans and deriving trend, risk level and the disease frequency ranking.
type HealthTrendService struct {
	historyRepo *repository.HistoryRepository
}

func NewHealthTrendService(historyRepo *repository.HistoryRepository) *HealthTrendService {
	return &HealthTrendService{historyRepo: historyRepo}
}

// RecordScan appends a completed scan to its crop history and recomputes the
// derived aggregate state atomically with the append.
func (s *HealthTrendService) RecordScan(ctx context.Context, userID string, scan models.CropScan) (*models.CropHealthHistory, error) {
	if userID == "" {
		return nil, fmt.Errorf("badrequest: user id is required")
	}
	if scan.CropType == "" {
		return nil, fmt.Errorf("badrequest: crop_type is required")
	}
	if scan.ID == uuid.Nil {
		scan.ID = uuid.New()
	}
	if scan.Timestamp == 0 {
		scan.Timestamp = time.Now().Unix()
	}
	if scan.FieldSection == "" {
		scan.FieldSection = models.DefaultFieldSection
	}

	return s.historyRepo.Update(ctx, userID, scan.CropType, scan.FieldSection, func(history *models.CropHealthHistory) error {
		appendScan(history, scan)
		return nil
	})
}

// GetHistory returns one crop's history.
func (s *HealthTrendService) GetHistory(ctx context.Context, userID, cropType, fieldSection string) (*models.CropHealthHistory, error) {
	history, err := s.historyRepo.Load(ctx, userID, models.CropKey(cropType, fieldSection))
	if err != nil {
		return nil, err
	}
	if history == nil {
		return nil, fmt.Errorf("not_found: no scan history for crop %s", cropType)
	}
	return history, nil
}

// ListHistories returns every crop history the user owns.
func (s *HealthTrendService) ListHistories(ctx context.Context, userID string) ([]models.CropHealthHistory, error) {
	return s.historyRepo.ListAll(ctx, userID)
}

// UserCrops returns the distinct crop types present in the user's histories.
func (s *HealthTrendService) UserCrops(ctx context.Context, userID string) ([]string, error) {
	histories, err := s.historyRepo.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	crops := []string{}
	for _, history := range histories {
		if !seen[history.CropType] {
			seen[history.CropType] = true
			crops = append(crops, history.CropType)
		}
	}
	return crops, nil
}

// WipeUserData deletes every history the user owns. Explicit user action only.
func (s *HealthTrendService) WipeUserData(ctx context.Context, userID string) error {
	return s.historyRepo.DeleteAll(ctx, userID)
}

// appendScan pushes the scan and recomputes counters, disease ranking, trend
// and risk over the retained scan sequence.
func appendScan(history *models.CropHealthHistory, scan models.CropScan) {
	history.Scans = append(history.Scans, scan)
	if len(history.Scans) > models.MaxScansPerHistory {
		history.Scans = history.Scans[len(history.Scans)-models.MaxScansPerHistory:]
	}

	recomputeCounts(history)
	history.HealthTrend = computeTrend(history.Scans)
	history.RiskLevel = computeRisk(history.Scans)
	history.UpdatedAt = time.Now().Unix()
}

func recomputeCounts(history *models.CropHealthHistory) {
	history.TotalScans = len(history.Scans)
	history.HealthyScans = 0
	history.DiseasedScans = 0

	counts := make(map[string]int)
	for _, scan := range history.Scans {
		if scan.IsHealthy {
			history.HealthyScans++
		} else {
			history.DiseasedScans++
		}
		if scan.DetectedDisease != nil && !strings.EqualFold(*scan.DetectedDisease, models.HealthyLabel) {
			counts[*scan.DetectedDisease]++
		}
	}

	ranking := make([]models.DiseaseCount, 0, len(counts))
	for name, count := range counts {
		ranking = append(ranking, models.DiseaseCount{Name: name, Count: count})
	}
	// Descending by count, name as a deterministic tiebreak.
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Count != ranking[j].Count {
			return ranking[i].Count > ranking[j].Count
		}
		return ranking[i].Name < ranking[j].Name
	})
	history.CommonDiseases = ranking
}

// computeTrend compares the last trendWindow scans against the window before
// them. Not a regression, a threshold comparator.
func computeTrend(scans []models.CropScan) int {
	if len(scans) < 2 {
		return models.TrendStable
	}

	recentStart := len(scans) - trendWindow
	if recentStart < 0 {
		recentStart = 0
	}
	olderStart := len(scans) - 2*trendWindow
	if olderStart < 0 {
		olderStart = 0
	}

	recent := scans[recentStart:]
	older := scans[olderStart:recentStart]
	if len(older) == 0 {
		return models.TrendStable
	}

	recentRate := healthRate(recent)
	olderRate := healthRate(older)

	switch {
	case recentRate > olderRate+trendHysteresis:
		return models.TrendImproving
	case recentRate < olderRate-trendHysteresis:
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}

// computeRisk derives the risk level from overall health rate and recent
// disease pressure. The high check runs first: the conditions overlap, so the
// evaluation order is part of the contract.
func computeRisk(scans []models.CropScan) models.RiskLevel {
	if len(scans) == 0 {
		return models.RiskLow
	}

	overallRate := healthRate(scans)

	recentStart := len(scans) - riskRecentWindow
	if recentStart < 0 {
		recentStart = 0
	}
	recentDiseased := 0
	for _, scan := range scans[recentStart:] {
		if !scan.IsHealthy {
			recentDiseased++
		}
	}

	switch {
	case recentDiseased >= 2 || overallRate < 0.5:
		return models.RiskHigh
	case recentDiseased == 1 || overallRate < 0.75:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

func healthRate(scans []models.CropScan) float64 {
	if len(scans) == 0 {
		return 0
	}
	healthy := 0
	for _, scan := range scans {
		if scan.IsHealthy {
			healthy++
		}
	}
	return float64(healthy) / float64(len(scans))
}
