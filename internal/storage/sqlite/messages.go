package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sandevgo/parley/internal/core"
	"github.com/sandevgo/parley/pkg/log"
)

type MessagesRepo struct {
	db *sql.DB
}

var _ core.MessagesRepository = (*MessagesRepo)(nil)

func NewMessagesRepo(db *sql.DB) *MessagesRepo {
	return &MessagesRepo{db: db}
}

func (h *MessagesRepo) AddMessage(ctx context.Context, sessionID string, msg core.Message) error {
	_, err := h.db.ExecContext(ctx,
		`INSERT INTO messages (session_id, role, content) VALUES (?, ?, ?)`,
		sessionID, core.NormalizeRole(msg.Role), msg.Content,
	)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

func (h *MessagesRepo) GetMessages(ctx context.Context, sessionID string, limit int) ([]core.Message, error) {
	// Newest first so LIMIT keeps the tail of the conversation.
	query := `SELECT role, content FROM messages WHERE session_id = ? ORDER BY id DESC LIMIT ?`

	rows, err := h.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []core.Message
	for rows.Next() {
		var msg core.Message
		if err := rows.Scan(&msg.Role, &msg.Content); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	log.FromCtx(ctx).Debug().Str("session", sessionID).Int("count", len(messages)).Msg("loaded history messages")
	return messages, nil
}
