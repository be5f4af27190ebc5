package service

import (
	"context"

	"github.com/tallybank/tallybank/internal/domain/events"
	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/tallybank/tallybank/internal/filter"
	"github.com/tallybank/tallybank/internal/types"
)

// authorizeOwner lets the owner of a resource and admins through
func authorizeOwner(ctx context.Context, owner, resource, id string) error {
	username := types.GetUsername(ctx)
	if types.IsAdmin(ctx) || (username != "" && username == owner) {
		return nil
	}
	return ierr.NewErrorf("%s is not allowed to access %s %s", username, resource, id).
		WithHintf("You do not have access to this %s", resource).
		WithReportableDetails(map[string]any{
			"resource": resource,
			"id":       id,
		}).
		Mark(ierr.ErrPermissionDenied)
}

// scopeToCaller narrows a list filter to records the caller owns unless the
// caller is an admin. path is the owner attribute of the listed entity.
func scopeToCaller(ctx context.Context, f *filter.ListFilter, path string) *filter.ListFilter {
	if f == nil {
		f = filter.NewListFilter(nil, nil)
	}
	if types.IsAdmin(ctx) {
		return f
	}

	owned := filter.Equals{Path: path, Value: types.GetUsername(ctx)}
	scoped := *f
	if f.Expr == nil {
		scoped.Expr = owned
	} else {
		scoped.Expr = filter.And{Exprs: []filter.Expr{f.Expr, owned}}
	}
	return &scoped
}

func (p ServiceParams) publish(ctx context.Context, name string, payload any) {
	evt, err := events.NewEvent(name, string(p.Config.Deployment.Mode), payload)
	if err != nil {
		p.Logger.Errorw("failed to build event", "event_name", name, "error", err)
		return
	}
	if err := p.EventPublisher.Publish(ctx, evt); err != nil {
		p.Logger.Errorw("failed to publish event",
			"event_id", evt.ID,
			"event_name", name,
			"error", err,
		)
	}
}
