package audit

import (
	"context"
	"encoding/json"

	"leavedesk/internal/platform/querier"
)

type Service struct {
	DB querier.Querier
}

func New(db querier.Querier) *Service {
	return &Service{DB: db}
}

// Record writes one audit event. Details are marshalled as JSON; a nil
// detail payload stores NULL.
func (s *Service) Record(ctx context.Context, actorID int64, action, entityType string, entityID int64, requestID string, details any) error {
	var detailsJSON []byte
	if details != nil {
		payload, err := json.Marshal(details)
		if err != nil {
			return err
		}
		detailsJSON = payload
	}

	_, err := s.DB.Exec(ctx, `
    INSERT INTO audit_events (actor_id, action, entity_type, entity_id, request_id, details)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, actorID, action, entityType, entityID, requestID, detailsJSON)
	return err
}
