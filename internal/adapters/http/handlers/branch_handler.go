package handlers

import (
	"vgt-backoffice/internal/adapters/http/middleware"
	"vgt-backoffice/internal/core/services"
	"vgt-backoffice/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BranchHandler handles the branch directory endpoints
type BranchHandler struct {
	branchService *services.BranchService
}

// NewBranchHandler creates a new branch handler
func NewBranchHandler(branchService *services.BranchService) *BranchHandler {
	return &BranchHandler{
		branchService: branchService,
	}
}

// ListBranches handles listing active branches
// @Summary List branches
// @Tags Branches
// @Produce json
// @Security BearerAuth
// @Param type query string false "hub or branch"
// @Success 200 {object} response.Response
// @Router /branches [get]
func (h *BranchHandler) ListBranches(c *fiber.Ctx) error {
	branches, err := h.branchService.ListBranches(c.UserContext(), c.Query("type"))
	if err != nil {
		return fail(c, err, "Failed to list branches")
	}

	return response.Success(c, "Branches retrieved successfully", fiber.Map{
		"branches": branches,
	})
}

// GetBranch handles getting a branch by code
// @Summary Get branch
// @Tags Branches
// @Produce json
// @Security BearerAuth
// @Param code path string true "Branch code"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /branches/{code} [get]
func (h *BranchHandler) GetBranch(c *fiber.Ctx) error {
	branch, err := h.branchService.GetBranch(c.UserContext(), c.Params("code"))
	if err != nil {
		return fail(c, err, "Failed to get branch")
	}

	return response.Success(c, "Branch retrieved successfully", fiber.Map{
		"branch": branch,
	})
}

// CreateBranch handles creating a branch (Admin only)
// @Summary Create branch
// @Tags Branches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateBranchInput true "Branch data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /branches [post]
func (h *BranchHandler) CreateBranch(c *fiber.Ctx) error {
	var input services.CreateBranchInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	branch, err := h.branchService.CreateBranch(c.UserContext(), middleware.CurrentActor(c), &input)
	if err != nil {
		return fail(c, err, "Failed to create branch")
	}

	return response.Created(c, "Branch created successfully", fiber.Map{
		"branch": branch,
	})
}

// UpdateBranch handles updating a branch (Admin only)
// @Summary Update branch
// @Tags Branches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param code path string true "Branch code"
// @Param body body services.BranchInput true "Branch data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /branches/{code} [put]
func (h *BranchHandler) UpdateBranch(c *fiber.Ctx) error {
	var input services.BranchInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	branch, err := h.branchService.UpdateBranch(c.UserContext(), middleware.CurrentActor(c), c.Params("code"), &input)
	if err != nil {
		return fail(c, err, "Failed to update branch")
	}

	return response.Success(c, "Branch updated successfully", fiber.Map{
		"branch": branch,
	})
}

// DeactivateBranch handles deactivating a branch (Admin only)
// @Summary Deactivate branch
// @Tags Branches
// @Produce json
// @Security BearerAuth
// @Param code path string true "Branch code"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /branches/{code} [delete]
func (h *BranchHandler) DeactivateBranch(c *fiber.Ctx) error {
	if err := h.branchService.DeactivateBranch(c.UserContext(), middleware.CurrentActor(c), c.Params("code")); err != nil {
		return fail(c, err, "Failed to deactivate branch")
	}

	return response.Success(c, "Branch deactivated successfully", nil)
}
