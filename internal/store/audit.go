package store

import (
	"context"
	"fmt"
)

type InsertAuditLogParams struct {
	Action     string
	EntityType string
	RequestID  *string
	Metadata   []byte
}

func (s *Store) InsertAuditLog(ctx context.Context, arg InsertAuditLogParams) error {
	if _, err := s.db.Exec(ctx, `
		INSERT INTO audit_log (action, entity_type, request_id, metadata)
		VALUES ($1, $2, $3, $4)
	`, arg.Action, arg.EntityType, arg.RequestID, arg.Metadata); err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}
