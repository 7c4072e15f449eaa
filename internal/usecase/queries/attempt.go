package queries

import (
	"context"

	"parking-orchestrator/internal/domain/booking"
	"parking-orchestrator/internal/pkg/errs"
	"parking-orchestrator/internal/usecase/shared"

	"github.com/google/uuid"
)

type AttemptQueries interface {
	GetByKey(ctx context.Context, key string, requesterID uuid.UUID) (*AttemptView, error)
}

type attemptQueriesImpl struct {
	readStore shared.AttemptReadStore
}

func NewAttemptQueries(readStore shared.AttemptReadStore) AttemptQueries {
	return &attemptQueriesImpl{readStore: readStore}
}

func (q *attemptQueriesImpl) GetByKey(ctx context.Context, key string, requesterID uuid.UUID) (*AttemptView, error) {
	snap, err := q.readStore.FindByKey(ctx, key, requesterID)
	if err != nil {
		if errs.Is(err, errs.ErrNotFound) {
			return nil, errs.Mark(err, ErrAttemptNotFound)
		}
		return nil, err
	}
	return ToAttemptView(*snap), nil
}

func ToAttemptView(snap booking.Snapshot) *AttemptView {
	steps := make(map[string]StepView, len(snap.Steps))
	for step, o := range snap.Steps {
		steps[string(step)] = StepView{
			Status:     string(o.Status),
			Attempts:   o.Attempts,
			Error:      o.Error,
			ErrorClass: o.ErrorClass,
			Detail:     o.Detail,
		}
	}
	warnings := snap.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return &AttemptView{
		Key:           snap.Key,
		ResourceID:    snap.ResourceID,
		RequesterID:   snap.RequesterID,
		State:         snap.State.String(),
		Reason:        snap.Reason,
		ReservationID: snap.ReservationID,
		Steps:         steps,
		Warnings:      warnings,
		StartedAt:     snap.StartedAt,
		FinishedAt:    snap.FinishedAt,
	}
}
