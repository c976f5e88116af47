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

// ReminderRepository persists the per-user reminder list as one blob, plus a
// global index of users that own reminders so the retention sweep can reach
// everyone.
type ReminderRepository struct {
	store storage.BlobStore
	locks *keyedMutex
}

func NewReminderRepository(store storage.BlobStore) *ReminderRepository {
	return &ReminderRepository{
		store: store,
		locks: newKeyedMutex(),
	}
}

// Load returns the user's reminders; an empty slice when none exist.
func (r *ReminderRepository) Load(ctx context.Context, userID string) ([]models.Reminder, error) {
	blob, err := r.store.Get(ctx, storage.RemindersKey(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to load reminders: %w", err)
	}
	if blob == nil {
		return []models.Reminder{}, nil
	}

	var reminders []models.Reminder
	if err := utils.DeserializeModel(blob, &reminders); err != nil {
		return nil, fmt.Errorf("failed to decode reminders: %w", err)
	}
	return reminders, nil
}

// Update runs mutate against the stored reminder list and writes the result
// back under the user's lock.
func (r *ReminderRepository) Update(ctx context.Context, userID string,
	mutate func(reminders []models.Reminder) ([]models.Reminder, error),
) ([]models.Reminder, error) {
	unlock := r.locks.Lock(storage.RemindersKey(userID))
	defer unlock()

	reminders, err := r.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated, err := mutate(reminders)
	if err != nil {
		return nil, err
	}

	blob, err := utils.SerializeModel(updated)
	if err != nil {
		return nil, fmt.Errorf("failed to encode reminders: %w", err)
	}
	if err := r.store.Set(ctx, storage.RemindersKey(userID), blob); err != nil {
		return nil, fmt.Errorf("failed to save reminders: %w", err)
	}

	if err := r.addToUserIndex(ctx, userID); err != nil {
		slog.Warn("failed to update reminder user index", "user_id", userID, "error", err)
	}

	return updated, nil
}

// ListUsers returns every user ID that has stored reminders.
func (r *ReminderRepository) ListUsers(ctx context.Context) ([]string, error) {
	blob, err := r.store.Get(ctx, storage.ReminderUserIndexKey())
	if err != nil {
		return nil, fmt.Errorf("failed to load reminder user index: %w", err)
	}
	if blob == nil {
		return []string{}, nil
	}

	var users []string
	if err := utils.DeserializeModel(blob, &users); err != nil {
		return nil, fmt.Errorf("failed to decode reminder user index: %w", err)
	}
	return users, nil
}

// DeleteAll wipes the user's reminders. Used only by the explicit user data
// wipe.
func (r *ReminderRepository) DeleteAll(ctx context.Context, userID string) error {
	unlock := r.locks.Lock(storage.RemindersKey(userID))
	defer unlock()

	return r.store.Delete(ctx, storage.RemindersKey(userID))
}

func (r *ReminderRepository) addToUserIndex(ctx context.Context, userID string) error {
	users, err := r.ListUsers(ctx)
	if err != nil {
		return err
	}
	if slices.Contains(users, userID) {
		return nil
	}

	users = append(users, userID)
	blob, err := utils.SerializeModel(users)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, storage.ReminderUserIndexKey(), blob)
}
