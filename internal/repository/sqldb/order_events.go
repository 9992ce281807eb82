package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/luxeshop/storefront/internal/domain"
)

type orderEventRepository struct {
	db      *sql.DB
	dialect Dialect
	logger  *zap.Logger
}

// NewOrderEventRepository creates a new order event repository
func NewOrderEventRepository(db *sql.DB, dialect Dialect, logger *zap.Logger) *orderEventRepository {
	return &orderEventRepository{
		db:      db,
		dialect: dialect,
		logger:  logger,
	}
}

func (r *orderEventRepository) Create(ctx context.Context, event *domain.OrderEvent) error {
	query := r.dialect.Rebind(`
		INSERT INTO order_events (id, order_number, client_id, event_type, event_data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)

	now := time.Now()
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}

	var eventData interface{}
	if event.EventData != nil {
		raw, err := json.Marshal(event.EventData)
		if err != nil {
			return err
		}
		eventData = string(raw)
	}

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.OrderNumber,
		event.ClientID,
		event.EventType,
		eventData,
		event.CreatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create order event", zap.Error(err))
		return err
	}

	return nil
}

func (r *orderEventRepository) GetByOrderNumber(ctx context.Context, orderNumber string) ([]*domain.OrderEvent, error) {
	query := r.dialect.Rebind(`
		SELECT id, order_number, client_id, event_type, event_data, created_at
		FROM order_events
		WHERE order_number = $1
		ORDER BY created_at ASC
	`)

	rows, err := r.db.QueryContext(ctx, query, orderNumber)
	if err != nil {
		r.logger.Error("Failed to get order events by order number", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var events []*domain.OrderEvent
	for rows.Next() {
		var event domain.OrderEvent
		var eventDataJSON sql.NullString

		err := rows.Scan(
			&event.ID,
			&event.OrderNumber,
			&event.ClientID,
			&event.EventType,
			&eventDataJSON,
			&event.CreatedAt,
		)

		if err != nil {
			return nil, err
		}

		if eventDataJSON.Valid && eventDataJSON.String != "" {
			if err := json.Unmarshal([]byte(eventDataJSON.String), &event.EventData); err != nil {
				return nil, err
			}
		}

		events = append(events, &event)
	}

	return events, rows.Err()
}
