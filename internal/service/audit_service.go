package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/scolaris/scolaris-backend/internal/config"
	"github.com/scolaris/scolaris-backend/internal/model"
	"github.com/scolaris/scolaris-backend/internal/repository"
)

// AuditService queues mutation events for the audit worker and reads the
// persisted trail.
type AuditService struct {
	repo *repository.AuditRepository
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewAuditService creates a new AuditService.
func NewAuditService(repo *repository.AuditRepository, rdb *redis.Client, log zerolog.Logger) *AuditService {
	return &AuditService{
		repo: repo,
		rdb:  rdb,
		log:  log.With().Str("component", "audit_service").Logger(),
	}
}

// Record queues an audit event for asynchronous persistence. Failures are
// logged and swallowed so the audit trail never blocks a mutation.
func (s *AuditService) Record(ctx context.Context, actorID int, action, entity string, entityID int, detail string) {
	if s.rdb == nil {
		return
	}

	event := model.AuditEvent{
		EventID:   uuid.NewString(),
		ActorID:   actorID,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to encode audit event")
		return
	}

	if err := s.rdb.LPush(ctx, config.WorkerKey.AuditEventsQueue, payload).Err(); err != nil {
		s.log.Error().
			Err(err).
			Str("action", action).
			Str("entity", entity).
			Msg("failed to queue audit event")
	}
}

// List retrieves the persisted audit trail, newest first, optionally
// filtered by entity.
func (s *AuditService) List(ctx context.Context, entity string, page, perPage int) ([]model.AuditLog, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	logs, total, err := s.repo.ListPaginated(ctx, entity, perPage, offset)
	if err != nil {
		return nil, 0, err
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return logs, total, nil
}
