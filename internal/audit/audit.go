package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/salesboard-platform/api/internal/store"
)

type Logger struct {
	s *store.Store
}

func NewLogger(s *store.Store) *Logger {
	return &Logger{s: s}
}

type Entry struct {
	Action     string
	EntityType string
	RequestID  string
	Metadata   map[string]any
}

func (l *Logger) Log(ctx context.Context, entry Entry) error {
	metadata := []byte("{}")
	if len(entry.Metadata) > 0 {
		encoded, err := json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
		metadata = encoded
	}

	params := store.InsertAuditLogParams{
		Action:     entry.Action,
		EntityType: entry.EntityType,
		Metadata:   metadata,
	}
	if entry.RequestID != "" {
		params.RequestID = &entry.RequestID
	}

	if err := l.s.InsertAuditLog(ctx, params); err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}
