package model

import "context"

// LegalEntityRemover is the hook into the external legal-entity subsystem
// used by the user-deletion cascade. Failures are swallowed per item by the
// caller so they never block the main delete.
type LegalEntityRemover interface {
	RemoveByUser(ctx context.Context, userUUID string) error
}
