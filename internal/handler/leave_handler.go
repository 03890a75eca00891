package handler

import (
	"net/http"

	"hrms/internal/middleware"
	"hrms/internal/service"
	"hrms/pkg/pagination"
	"hrms/pkg/response"

	"github.com/gin-gonic/gin"
)

type LeaveHandler struct {
	leaveService service.LeaveService
	auth         *middleware.Authenticator
}

func NewLeaveHandler(leaveService service.LeaveService, auth *middleware.Authenticator) *LeaveHandler {
	return &LeaveHandler{leaveService: leaveService, auth: auth}
}

func (h *LeaveHandler) RegisterRoutes(router *gin.RouterGroup) {
	leaves := router.Group("/leaves", h.auth.Authenticate())
	{
		leaves.GET("", middleware.RequirePermission("leaves", "read"), h.List)
		leaves.GET("/:id", middleware.RequirePermission("leaves", "read"), h.GetByID)
		leaves.POST("", middleware.RequirePermission("leaves", "write"), h.Create)
		leaves.DELETE("/:id", middleware.RequirePermission("leaves", "write"), h.Cancel)
		leaves.PUT("/:id/approve", middleware.RequirePermission("leaves", "approve"), h.Approve)
		leaves.PUT("/:id/reject", middleware.RequirePermission("leaves", "approve"), h.Reject)
	}
}

// Create handles POST /leaves
// @Summary      Request leave
// @Description  Creates a pending leave request for the caller's employee record
// @Tags         leaves
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateLeaveRequest  true  "Leave Payload"
// @Success      201      {object}  response.Response{data=model.LeaveRequest}
// @Failure      409      {object}  response.Response
// @Router       /leaves [post]
func (h *LeaveHandler) Create(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)
	if identity == nil || identity.EmployeeID == nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "No employee record linked to this account"))
		return
	}

	var req service.CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	leave, err := h.leaveService.Create(c.Request.Context(), *identity.EmployeeID, req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, leave))
}

// List handles GET /leaves
// @Summary      List leave requests
// @Tags         leaves
// @Produce      json
// @Security     BearerAuth
// @Param        page         query     int     false  "Page number (default 1)"
// @Param        limit        query     int     false  "Items per page (default 20)"
// @Param        employee_id  query     string  false  "Filter by employee"
// @Param        status       query     string  false  "Filter by status"
// @Success      200          {object}  response.Response{data=object}
// @Router       /leaves [get]
func (h *LeaveHandler) List(c *gin.Context) {
	p := pagination.Parse(c)
	leaves, total, err := h.leaveService.List(c.Request.Context(), p.Page, p.Limit, c.Query("employee_id"), c.Query("status"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"items": leaves,
		"total": total,
		"page":  p.Page,
		"limit": p.Limit,
	}))
}

// GetByID handles GET /leaves/:id
// @Summary      Get a leave request
// @Tags         leaves
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Leave Request ID"
// @Success      200  {object}  response.Response{data=model.LeaveRequest}
// @Failure      404  {object}  response.Response
// @Router       /leaves/{id} [get]
func (h *LeaveHandler) GetByID(c *gin.Context) {
	leave, err := h.leaveService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, leave))
}

// Approve handles PUT /leaves/:id/approve
// @Summary      Approve a pending leave request
// @Tags         leaves
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Leave Request ID"
// @Success      200  {object}  response.Response{data=model.LeaveRequest}
// @Failure      409  {object}  response.Response
// @Router       /leaves/{id}/approve [put]
func (h *LeaveHandler) Approve(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)

	leave, err := h.leaveService.Approve(c.Request.Context(), c.Param("id"), identity.UserID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, leave))
}

// Reject handles PUT /leaves/:id/reject
// @Summary      Reject a pending leave request
// @Tags         leaves
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                      true   "Leave Request ID"
// @Param        payload  body      service.ReviewLeaveRequest  false  "Review Comment"
// @Success      200      {object}  response.Response{data=model.LeaveRequest}
// @Failure      409      {object}  response.Response
// @Router       /leaves/{id}/reject [put]
func (h *LeaveHandler) Reject(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)

	var req service.ReviewLeaveRequest
	_ = c.ShouldBindJSON(&req)

	leave, err := h.leaveService.Reject(c.Request.Context(), c.Param("id"), identity.UserID, req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, leave))
}

// Cancel handles DELETE /leaves/:id
// @Summary      Cancel own pending leave request
// @Tags         leaves
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Leave Request ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /leaves/{id} [delete]
func (h *LeaveHandler) Cancel(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)
	if identity == nil || identity.EmployeeID == nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "No employee record linked to this account"))
		return
	}

	if err := h.leaveService.Cancel(c.Request.Context(), c.Param("id"), *identity.EmployeeID); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Leave request cancelled"}))
}
