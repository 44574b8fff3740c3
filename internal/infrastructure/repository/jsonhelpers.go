// Package repository implements the domain repositories on gorm.
// Every repository reads its connection through the transaction
// context so operations join an ambient transaction when one exists.
package repository

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

func toJSON(v any) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal json column: %w", err)
	}
	return datatypes.JSON(data), nil
}

func fromJSON[T any](data datatypes.JSON) (T, error) {
	var out T
	if len(data) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("failed to unmarshal json column: %w", err)
	}
	return out, nil
}
