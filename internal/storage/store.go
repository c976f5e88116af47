package storage

import (
	"context"
	"fmt"
	"strings"
)

// BlobStore is the persistence boundary: opaque JSON blobs addressed by
// string keys. Get returns (nil, nil) for a missing key. Any durable store
// with key -> blob semantics can implement it; tests use the in-memory one.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Key composition follows the <entityType>_<userId>[_<cropKey>] convention.

func HistoryKey(userID, cropKey string) string {
	return fmt.Sprintf("crop_history_%s_%s", userID, cropKey)
}

func HistoryIndexKey(userID string) string {
	return "crop_history_index_" + userID
}

func RemindersKey(userID string) string {
	return "reminders_" + userID
}

// ReminderUserIndexKey addresses the set of user IDs that own reminders,
// maintained so the retention sweep can walk every user.
func ReminderUserIndexKey() string {
	return "reminder_users"
}

func WeatherCacheKey(location string) string {
	return "weather_cache_" + strings.ToLower(strings.TrimSpace(location))
}
