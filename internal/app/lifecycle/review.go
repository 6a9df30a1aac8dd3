// internal/app/lifecycle/review.go
//
// Reviewer-side transitions: Approve, Reject, SetPending, Assign, and
// the reviewer field update. All of them require Registry Administrator
// capability and stamp the reviewedBy audit trail.
package lifecycle

import (
	"context"
	"strings"

	"github.com/skarland/obstaclehub/internal/app/policy/reportpolicy"
	"github.com/skarland/obstaclehub/internal/app/system/inputval"
	"github.com/skarland/obstaclehub/internal/domain/models"
	"go.uber.org/zap"
)

// Approve marks a report ready for the national register. It clears any
// rejection comments and self-assigns the approver, so the dashboard
// shows who carried the report through.
func (e *Engine) Approve(ctx context.Context, actor models.Actor, id string) (*models.ObstacleReport, error) {
	if !reportpolicy.CanReview(actor) {
		return nil, ErrForbidden
	}
	r, err := e.reports.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.Status = models.StatusApproved
	r.AdminComments = ""
	e.stampReview(r, actor)
	r.AssignedUserID = actor.ID
	r.AssignedName = actor.Name

	if err := e.reports.Update(ctx, r); err != nil {
		return nil, err
	}
	e.log.Info("report approved",
		zap.String("report_id", r.ID.Hex()),
		zap.String("reviewer_id", actor.ID))
	return r, nil
}

// Reject requires an explanation for the reporter. The comment check
// runs before the report is fetched, so a rejected call never touches
// the store.
func (e *Engine) Reject(ctx context.Context, actor models.Actor, id, comments string) (*models.ObstacleReport, error) {
	if !reportpolicy.CanReview(actor) {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(comments) == "" {
		var res inputval.Result
		res.Add("Comments", "Comments are required when rejecting a report.")
		return nil, &ValidationError{Fields: res.Errors}
	}

	r, err := e.reports.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.Status = models.StatusRejected
	r.AdminComments = comments
	e.stampReview(r, actor)

	if err := e.reports.Update(ctx, r); err != nil {
		return nil, err
	}
	e.log.Info("report rejected",
		zap.String("report_id", r.ID.Hex()),
		zap.String("reviewer_id", actor.ID))
	return r, nil
}

// SetPending reverts a report to the review queue. Earlier rejection
// comments are kept so the reporter's feedback is not lost.
func (e *Engine) SetPending(ctx context.Context, actor models.Actor, id string) (*models.ObstacleReport, error) {
	if !reportpolicy.CanReview(actor) {
		return nil, ErrForbidden
	}
	r, err := e.reports.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.Status = models.StatusPending
	e.stampReview(r, actor)

	if err := e.reports.Update(ctx, r); err != nil {
		return nil, err
	}
	e.log.Info("report set pending",
		zap.String("report_id", r.ID.Hex()),
		zap.String("reviewer_id", actor.ID))
	return r, nil
}

// Assign sets or clears the responsible reviewer. An assignee id that
// does not resolve is skipped without failing the request; the rest of
// the update still goes through.
func (e *Engine) Assign(ctx context.Context, actor models.Actor, id, assigneeID string) (*models.ObstacleReport, error) {
	if !reportpolicy.CanReview(actor) {
		return nil, ErrForbidden
	}
	r, err := e.reports.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if assigneeID == "" {
		r.AssignedUserID = ""
		r.AssignedName = ""
	} else if assignee, err := e.assignees.FindByID(ctx, assigneeID); err == nil && assignee != nil {
		r.AssignedUserID = assignee.ID.Hex()
		r.AssignedName = assignee.FullName
	} else {
		e.log.Warn("assignee did not resolve, assignment skipped",
			zap.String("report_id", r.ID.Hex()),
			zap.String("assignee_id", assigneeID))
	}

	if err := e.reports.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// UpdateFields lets a reviewer correct report fields (a typo in the
// name, a mis-picked coordinate) without changing its status or the
// review audit trail. Submit-level validation applies.
func (e *Engine) UpdateFields(ctx context.Context, actor models.Actor, id string, fields ReportFields) (*models.ObstacleReport, error) {
	if !reportpolicy.CanReview(actor) {
		return nil, ErrForbidden
	}
	r, err := e.reports.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateFields(fields, r.Status == models.StatusDraft); err != nil {
		return nil, err
	}

	applyFields(r, fields)

	if err := e.reports.Update(ctx, r); err != nil {
		return nil, err
	}
	e.log.Info("report fields updated by reviewer",
		zap.String("report_id", r.ID.Hex()),
		zap.String("reviewer_id", actor.ID))
	return r, nil
}

func (e *Engine) stampReview(r *models.ObstacleReport, actor models.Actor) {
	now := e.now().UTC()
	r.ReviewedByUserID = actor.ID
	r.ReviewedByName = actor.Name
	r.LastReviewedAt = &now
}
