// Package http provides http transport for contributions
package http

import (
	stdhttp "net/http"

	"tally/internal/core/contribution"
	"tally/internal/modkit/httpkit"
	perr "tally/internal/platform/errors"

	"tally/internal/services/api/contributions/domain"
	rdom "tally/internal/services/reconciler/domain"
)

// Register mounts the router
func Register(r httpkit.Router, enq rdom.EnqueuePort) {
	h := &handlers{enq: enq}
	r.Post("/", httpkit.AcceptedJSON[domain.CreateInput](h.create))
	r.Post("/{id}/contributor", httpkit.AcceptedJSON[domain.AssignInput](h.assign))
	r.Delete("/{id}/contributor", httpkit.AcceptedCall(h.unassign))
	r.Post("/{id}/validate", httpkit.AcceptedCall(h.validate))
}

type handlers struct{ enq rdom.EnqueuePort }

func pathID(r *stdhttp.Request) (contribution.ID, error) {
	id := httpkit.Param(r, "id")
	if id == "" {
		return "", perr.InvalidArgf("missing contribution id")
	}
	return contribution.ID(id), nil
}

func (h *handlers) queue(r *stdhttp.Request, act contribution.Action) (any, error) {
	if err := h.enq.Enqueue(r.Context(), act); err != nil {
		return nil, err
	}
	return domain.QueuedOutput{
		ContributionID: string(act.ContributionID()),
		Kind:           act.Kind().String(),
		Queued:         true,
	}, nil
}

// swagger:route POST /contributions Contributions createContribution
// @Summary Queue a new contribution
// @Tags contributions
// @Accept json
// @Produce json
// @Param payload body domain.CreateInput true "Create"
// @Success 202 {object} domain.QueuedOutput "queued"
// @Failure 409 {object} httpkit.Envelope "already exists"
// @Router /contributions [post]
func (h *handlers) create(r *stdhttp.Request, in domain.CreateInput) (any, error) {
	return h.queue(r, contribution.Create{Contribution: contribution.Contribution{
		ID:          contribution.ID(in.ID),
		ProjectID:   in.ProjectID,
		IssueNumber: in.IssueNumber,
		Status:      contribution.StatusOpen,
	}})
}

// swagger:route POST /contributions/{id}/contributor Contributions assignContributor
// @Summary Queue a contributor assignment
// @Tags contributions
// @Accept json
// @Produce json
// @Param id path string true "Contribution id"
// @Param payload body domain.AssignInput true "Assign"
// @Success 202 {object} domain.QueuedOutput "queued"
// @Failure 409 {object} httpkit.Envelope "illegal transition"
// @Router /contributions/{id}/contributor [post]
func (h *handlers) assign(r *stdhttp.Request, in domain.AssignInput) (any, error) {
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	return h.queue(r, contribution.Assign{
		ID:          id,
		Contributor: contribution.ContributorID(in.ContributorID),
	})
}

// swagger:route DELETE /contributions/{id}/contributor Contributions unassignContributor
// @Summary Queue a contributor unassignment
// @Tags contributions
// @Produce json
// @Param id path string true "Contribution id"
// @Success 202 {object} domain.QueuedOutput "queued"
// @Failure 409 {object} httpkit.Envelope "illegal transition"
// @Router /contributions/{id}/contributor [delete]
func (h *handlers) unassign(r *stdhttp.Request) (any, error) {
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	return h.queue(r, contribution.Unassign{ID: id})
}

// swagger:route POST /contributions/{id}/validate Contributions validateContribution
// @Summary Queue a contribution validation
// @Tags contributions
// @Produce json
// @Param id path string true "Contribution id"
// @Success 202 {object} domain.QueuedOutput "queued"
// @Failure 409 {object} httpkit.Envelope "illegal transition"
// @Router /contributions/{id}/validate [post]
func (h *handlers) validate(r *stdhttp.Request) (any, error) {
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	return h.queue(r, contribution.Validate{ID: id})
}
