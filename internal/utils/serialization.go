package utils

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// SerializeModel converts any model to []byte using JSON serialization for
// storage in Redis or other byte-based storage systems.
func SerializeModel[T any](model T) ([]byte, error) {
	value := reflect.ValueOf(model)
	if value.Kind() == reflect.Pointer && value.IsNil() {
		return nil, fmt.Errorf("cannot serialize nil pointer")
	}

	data, err := json.Marshal(model)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal model: %w", err)
	}

	return data, nil
}

// DeserializeModel converts []byte back to a model of type T. Inverse of
// SerializeModel.
func DeserializeModel[T any](data []byte, target *T) error {
	if target == nil {
		return fmt.Errorf("target cannot be nil")
	}
	if len(data) == 0 {
		return fmt.Errorf("cannot deserialize empty data")
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to unmarshal model: %w", err)
	}

	return nil
}
