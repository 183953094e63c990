package queries

import (
	"context"

	"gorm.io/gorm"
)

type ListAgentParcelsQueryHandler struct {
	db *gorm.DB
}

func NewListAgentParcelsQueryHandler(db *gorm.DB) ListAgentParcelsQueryHandler {
	return ListAgentParcelsQueryHandler{db: db}
}

func (h ListAgentParcelsQueryHandler) Handle(
	ctx context.Context,
	query ListAgentParcelsQuery,
) ([]ParcelView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+parcelColumns+`
		FROM parcels
		WHERE agent_id = ?
		ORDER BY updated_at DESC, id
	`, query.AgentID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanParcelViews(rows)
}
