package ports

import "safetyhub/internal/types"

// DismissalStorePort persists dismissal records across sessions. Load and
// Save are invoked outside the engine's critical section.
type DismissalStorePort interface {
	Load() ([]types.PersistedIssue, error)
	Save(issues []types.PersistedIssue) error
}
