package storage

import (
	"encoding/json"
	"errors"

	"gorm.io/gorm"
)

// Store is the data-access layer for every persisted record. Handlers receive
// a constructed Store instead of reaching for a global connection.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

var (
	ErrNotFound      = errors.New("record not found")
	ErrConflict      = errors.New("record already exists")
	ErrInvalidStatus = errors.New("invalid status transition")
)

// translate maps gorm's not-found sentinel to the store's own.
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// mergeJSON overlays the keys of patch onto base. Keys absent from patch keep
// their existing values. Either side may be empty.
func mergeJSON(base, patch []byte) ([]byte, error) {
	merged := map[string]interface{}{}
	if len(base) > 0 {
		if err := json.Unmarshal(base, &merged); err != nil {
			return nil, err
		}
	}
	if len(patch) > 0 {
		overlay := map[string]interface{}{}
		if err := json.Unmarshal(patch, &overlay); err != nil {
			return nil, err
		}
		for k, v := range overlay {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}
