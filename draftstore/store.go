package draftstore

//go:generate mockgen --build_flags=--mod=mod -source=./store.go -destination=./mock_store.go -package=draftstore Store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidepool-org/prescription-wizard/prescription"
)

const (
	// WizardKeyName is shared by every in-progress prescription of a user within a clinic.
	// The stored id tells drafts apart.
	WizardKeyName = "prescriptionForm"

	DashboardConfigKeyName = "tideDashboardConfig"
)

var ErrNotFound = errors.New("key not found")

// Store is a key value store for in-progress wizard values
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// ScopedKey scopes a store key to the logged in user and the selected clinic
func ScopedKey(userId, clinicId, name string) string {
	return fmt.Sprintf("%s:%s", name, strings.Join([]string{userId, clinicId}, "|"))
}

// StoredDraft is the persisted form of the wizard values
type StoredDraft struct {
	Id     string             `json:"id,omitempty"`
	Values prescription.Draft `json:"values"`
}

// GetDraft returns the stored draft or nil when nothing is stored under the key
func GetDraft(ctx context.Context, store Store, key string) (*StoredDraft, error) {
	data, err := store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("unable to get stored draft: %w", err)
	}

	stored := &StoredDraft{}
	if err := json.Unmarshal(data, stored); err != nil {
		return nil, fmt.Errorf("unable to unmarshal stored draft: %w", err)
	}
	return stored, nil
}

func SetDraft(ctx context.Context, store Store, key string, stored StoredDraft) error {
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("unable to marshal stored draft: %w", err)
	}
	if err := store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("unable to set stored draft: %w", err)
	}
	return nil
}

type HydrationInput struct {
	// PrescriptionId is the id of the edited prescription, empty for the new prescription flow
	PrescriptionId string
	// HasURLPosition is true when the step and sub-step were supplied through the url
	HasURLPosition bool
	Stored         *StoredDraft
}

// ShouldHydrate decides whether the stored values belong to the draft the user is working on.
// A new draft is resumed when nothing was created yet and the url carries a position.
// An existing draft is resumed when the stored id matches.
func ShouldHydrate(input HydrationInput) bool {
	if input.Stored == nil {
		return false
	}
	if input.PrescriptionId == "" {
		return input.Stored.Id == "" && input.HasURLPosition
	}
	return input.PrescriptionId == input.Stored.Id
}
