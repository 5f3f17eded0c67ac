// Package http provides http transport for the registry reads
package http

import (
	stdhttp "net/http"

	"tally/internal/modkit/httpkit"
	perr "tally/internal/platform/errors"

	cdom "tally/internal/services/catalog/domain"
)

// Register mounts the router
func Register(r httpkit.Router, q cdom.QueryPort) {
	h := &handlers{q: q}
	httpkit.Get(r, "/projects", h.projects)
	httpkit.Get(r, "/contributors/{id}", h.contributor)
}

type handlers struct{ q cdom.QueryPort }

// swagger:route GET /projects Registry listProjects
// @Summary List tracked projects with their cached contributions
// @Tags registry
// @Produce json
// @Param owner query string false "Filter by owner"
// @Param name query string false "Filter by name"
// @Success 200 {array} cdom.Project "ok"
// @Router /projects [get]
func (h *handlers) projects(r *stdhttp.Request) (any, error) {
	f := cdom.ProjectFilter{
		Owner: r.URL.Query().Get("owner"),
		Name:  r.URL.Query().Get("name"),
	}
	return h.q.FindProjects(r.Context(), f)
}

// swagger:route GET /contributors/{id} Registry getContributor
// @Summary Look up one contributor's cached contribution totals
// @Tags registry
// @Produce json
// @Param id path string true "Contributor id"
// @Success 200 {object} cdom.Contributor "ok"
// @Failure 404 {object} httpkit.Envelope "unknown contributor"
// @Router /contributors/{id} [get]
func (h *handlers) contributor(r *stdhttp.Request) (any, error) {
	id := httpkit.Param(r, "id")
	if id == "" {
		return nil, perr.InvalidArgf("missing contributor id")
	}
	c, err := h.q.ContributorByID(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, perr.NotFoundf("contributor %s", id)
	}
	return c, nil
}
