package handler

import (
	"net/http"

	"hrms/internal/middleware"
	"hrms/internal/service"
	"hrms/pkg/response"

	"github.com/gin-gonic/gin"
)

type DepartmentHandler struct {
	departmentService service.DepartmentService
	auth              *middleware.Authenticator
}

func NewDepartmentHandler(departmentService service.DepartmentService, auth *middleware.Authenticator) *DepartmentHandler {
	return &DepartmentHandler{departmentService: departmentService, auth: auth}
}

func (h *DepartmentHandler) RegisterRoutes(router *gin.RouterGroup) {
	departments := router.Group("/departments", h.auth.Authenticate())
	{
		departments.GET("", middleware.RequirePermission("departments", "read"), h.List)
		departments.GET("/:id", middleware.RequirePermission("departments", "read"), h.GetByID)
		departments.POST("", middleware.RequirePermission("departments", "write"), h.Create)
		departments.PUT("/:id", middleware.RequirePermission("departments", "write"), h.Update)
		departments.DELETE("/:id", middleware.RequirePermission("departments", "delete"), h.Delete)
	}
}

// List handles GET /departments
// @Summary      List departments
// @Tags         departments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.Department}
// @Router       /departments [get]
func (h *DepartmentHandler) List(c *gin.Context) {
	departments, err := h.departmentService.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, departments))
}

// GetByID handles GET /departments/:id
// @Summary      Get a department
// @Tags         departments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Department ID"
// @Success      200  {object}  response.Response{data=model.Department}
// @Failure      404  {object}  response.Response
// @Router       /departments/{id} [get]
func (h *DepartmentHandler) GetByID(c *gin.Context) {
	department, err := h.departmentService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, department))
}

// Create handles POST /departments
// @Summary      Create a department
// @Tags         departments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateDepartmentRequest  true  "Department Payload"
// @Success      201      {object}  response.Response{data=model.Department}
// @Failure      409      {object}  response.Response
// @Router       /departments [post]
func (h *DepartmentHandler) Create(c *gin.Context) {
	var req service.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	department, err := h.departmentService.Create(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, department))
}

// Update handles PUT /departments/:id
// @Summary      Update a department
// @Tags         departments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                           true  "Department ID"
// @Param        payload  body      service.UpdateDepartmentRequest  true  "Department Payload"
// @Success      200      {object}  response.Response{data=model.Department}
// @Failure      404      {object}  response.Response
// @Router       /departments/{id} [put]
func (h *DepartmentHandler) Update(c *gin.Context) {
	var req service.UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	department, err := h.departmentService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, department))
}

// Delete handles DELETE /departments/:id
// @Summary      Delete a department
// @Description  Fails while employees are still assigned
// @Tags         departments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Department ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /departments/{id} [delete]
func (h *DepartmentHandler) Delete(c *gin.Context) {
	if err := h.departmentService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Department deleted"}))
}
