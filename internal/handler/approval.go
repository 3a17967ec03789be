package handler

// This file implements the approval entry points.  Transitions are decided by
// the permission table in internal/model and applied by the repository's
// compare-and-swap update, so an already-terminal reservation or a lost race
// surfaces as an invalid-state error instead of a silent overwrite.

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/repository"
)

// ApprovalHandler serves the admin/approver decision endpoints.  Routes using
// it are gated to those roles by middleware; the handler still derives the
// allowed transition from the caller's role rather than trusting the route.
type ApprovalHandler struct {
	ReservationRepo *repository.ReservationRepo
}

// NewApprovalHandler constructs an ApprovalHandler.  The repository must be
// non-nil.
func NewApprovalHandler(resRepo *repository.ReservationRepo) *ApprovalHandler {
	if resRepo == nil {
		panic("nil repository passed to NewApprovalHandler")
	}
	return &ApprovalHandler{ReservationRepo: resRepo}
}

// Approve handles POST /v1/reservations/:id/approve.  The produced status
// depends on who is asking: an admin moves pending to adminApproved, an
// approver moves pending or adminApproved to approverApproved.  Approving a
// terminal reservation returns 409 with the state unchanged.
func (h *ApprovalHandler) Approve(c echo.Context) error {
	role, err := getRole(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	target, ok := model.ApproveTarget(role)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	sources := model.TransitionSources(role, target)
	res, err := h.ReservationRepo.UpdateStatus(c.Request().Context(), id, sources, target, nil)
	if err != nil {
		return approvalError(c, id, err)
	}
	publishLifecycle(string(target), res)
	return c.JSON(http.StatusOK, echo.Map{"item": res})
}

// Reject handles POST /v1/reservations/:id/reject.  The body must carry a
// non-empty reason; rejecting without one is a 400, not a silently accepted
// call.  Both admins and approvers may reject any non-terminal reservation.
func (h *ApprovalHandler) Reject(c echo.Context) error {
	role, err := getRole(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if !role.MaySet(model.StatusRejected) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	reason := strings.TrimSpace(body.Reason)
	if reason == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reason is required"})
	}
	sources := model.TransitionSources(role, model.StatusRejected)
	res, err := h.ReservationRepo.UpdateStatus(c.Request().Context(), id, sources, model.StatusRejected, &reason)
	if err != nil {
		return approvalError(c, id, err)
	}
	publishLifecycle("rejected", res)
	return c.JSON(http.StatusOK, echo.Map{"item": res})
}

// ListPending handles GET /v1/approvals/pending.  The queue is role-filtered:
// admins review fresh pending reservations, approvers review the ones already
// carrying admin sign-off.
func (h *ApprovalHandler) ListPending(c echo.Context) error {
	role, err := getRole(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var status model.Status
	switch role {
	case model.RoleAdmin:
		status = model.StatusPending
	case model.RoleApprover:
		status = model.StatusAdminApproved
	default:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	items, err := h.ReservationRepo.ListByStatus(c.Request().Context(), status)
	if err != nil {
		log.Printf("approval: list %s reservations failed: %v", status, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// approvalError maps repository errors from a transition to HTTP responses.
func approvalError(c echo.Context, id uint64, err error) error {
	switch {
	case errors.Is(err, repository.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	case errors.Is(err, repository.ErrInvalidState):
		return c.JSON(http.StatusConflict, echo.Map{"error": "invalid status transition"})
	case errors.Is(err, model.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	log.Printf("approval: update reservation %d failed: %v", id, err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update reservation"})
}
