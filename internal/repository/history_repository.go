package repository

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"farmassist-backend/internal/models"
	"farmassist-backend/internal/storage"
	"farmassist-backend/internal/utils"
)

// HistoryRepository persists CropHealthHistory aggregates in the blob store,
// one blob per (user, crop key), with a per-user index of known crop keys.
type HistoryRepository struct {
	store storage.BlobStore
	locks *keyedMutex
}

func NewHistoryRepository(store storage.BlobStore) *HistoryRepository {
	return &HistoryRepository{
		store: store,
		locks: newKeyedMutex(),
	}
}

// Load returns the history for a crop key, or nil when none exists yet.
func (r *HistoryRepository) Load(ctx context.Context, userID, cropKey string) (*models.CropHealthHistory, error) {
	blob, err := r.store.Get(ctx, storage.HistoryKey(userID, cropKey))
	if err != nil {
		return nil, fmt.Errorf("failed to load crop history: %w", err)
	}
	if blob == nil {
		return nil, nil
	}

	var history models.CropHealthHistory
	if err := utils.DeserializeModel(blob, &history); err != nil {
		return nil, fmt.Errorf("failed to decode crop history: %w", err)
	}
	return &history, nil
}

// Update runs mutate against the stored history (creating an empty aggregate
// on first use) and writes the result back, all under the aggregate's lock.
func (r *HistoryRepository) Update(ctx context.Context, userID, cropType, fieldSection string,
	mutate func(history *models.CropHealthHistory) error,
) (*models.CropHealthHistory, error) {
	cropKey := models.CropKey(cropType, fieldSection)
	unlock := r.locks.Lock(storage.HistoryKey(userID, cropKey))
	defer unlock()

	history, err := r.Load(ctx, userID, cropKey)
	if err != nil {
		return nil, err
	}
	if history == nil {
		section := fieldSection
		if section == "" {
			section = models.DefaultFieldSection
		}
		history = &models.CropHealthHistory{
			UserID:         userID,
			CropType:       cropType,
			FieldSection:   section,
			Scans:          []models.CropScan{},
			RiskLevel:      models.RiskLow,
			CommonDiseases: []models.DiseaseCount{},
		}
	}

	if err := mutate(history); err != nil {
		return nil, err
	}

	blob, err := utils.SerializeModel(history)
	if err != nil {
		return nil, fmt.Errorf("failed to encode crop history: %w", err)
	}
	if err := r.store.Set(ctx, storage.HistoryKey(userID, cropKey), blob); err != nil {
		return nil, fmt.Errorf("failed to save crop history: %w", err)
	}

	if err := r.addToIndex(ctx, userID, cropKey); err != nil {
		slog.Warn("failed to update crop history index", "user_id", userID, "crop_key", cropKey, "error", err)
	}

	return history, nil
}

// ListCropKeys returns every crop key the user has a history for.
func (r *HistoryRepository) ListCropKeys(ctx context.Context, userID string) ([]string, error) {
	blob, err := r.store.Get(ctx, storage.HistoryIndexKey(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to load crop history index: %w", err)
	}
	if blob == nil {
		return []string{}, nil
	}

	var keys []string
	if err := utils.DeserializeModel(blob, &keys); err != nil {
		return nil, fmt.Errorf("failed to decode crop history index: %w", err)
	}
	return keys, nil
}

// ListAll loads every history the user owns.
func (r *HistoryRepository) ListAll(ctx context.Context, userID string) ([]models.CropHealthHistory, error) {
	keys, err := r.ListCropKeys(ctx, userID)
	if err != nil {
		return nil, err
	}

	histories := make([]models.CropHealthHistory, 0, len(keys))
	for _, key := range keys {
		history, err := r.Load(ctx, userID, key)
		if err != nil {
			return nil, err
		}
		if history != nil {
			histories = append(histories, *history)
		}
	}
	return histories, nil
}

// DeleteAll wipes every history the user owns, including the index. Used only
// by the explicit user data wipe.
func (r *HistoryRepository) DeleteAll(ctx context.Context, userID string) error {
	keys, err := r.ListCropKeys(ctx, userID)
	if err != nil {
		return err
	}

	for _, key := range keys {
		if err := r.store.Delete(ctx, storage.HistoryKey(userID, key)); err != nil {
			return fmt.Errorf("failed to delete crop history %s: %w", key, err)
		}
	}
	return r.store.Delete(ctx, storage.HistoryIndexKey(userID))
}

func (r *HistoryRepository) addToIndex(ctx context.Context, userID, cropKey string) error {
	keys, err := r.ListCropKeys(ctx, userID)
	if err != nil {
		return err
	}
	if slices.Contains(keys, cropKey) {
		return nil
	}

	keys = append(keys, cropKey)
	blob, err := utils.SerializeModel(keys)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, storage.HistoryIndexKey(userID), blob)
}
