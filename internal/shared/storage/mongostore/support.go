package mongostore

import (
	"context"

	"kitchen-server/internal/shared/model"
)

// ============================================================================
// SupportStore
// ============================================================================

func (s *Store) CreateSupportMessage(ctx context.Context, msg *model.SupportMessage) error {
	return insertOne(ctx, s.col(ColSupportMessages), msg)
}
