package handler

import (
	"net/http"

	"hrms/internal/middleware"
	"hrms/internal/service"
	"hrms/pkg/pagination"
	"hrms/pkg/response"

	"github.com/gin-gonic/gin"
)

type EmployeeHandler struct {
	employeeService service.EmployeeService
	auth            *middleware.Authenticator
}

func NewEmployeeHandler(employeeService service.EmployeeService, auth *middleware.Authenticator) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService, auth: auth}
}

func (h *EmployeeHandler) RegisterRoutes(router *gin.RouterGroup) {
	employees := router.Group("/employees", h.auth.Authenticate())
	{
		employees.GET("", middleware.RequirePermission("employees", "read"), h.List)
		employees.GET("/:id", middleware.RequirePermission("employees", "read"), h.GetByID)
		employees.POST("", middleware.RequirePermission("employees", "write"), h.Create)
		employees.PUT("/:id", middleware.RequirePermission("employees", "write"), h.Update)
		employees.DELETE("/:id", middleware.RequirePermission("employees", "delete"), h.Delete)
	}
}

// List handles GET /employees
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        page           query     int     false  "Page number (default 1)"
// @Param        limit          query     int     false  "Items per page (default 20)"
// @Param        department_id  query     string  false  "Filter by department"
// @Success      200            {object}  response.Response{data=object}
// @Router       /employees [get]
func (h *EmployeeHandler) List(c *gin.Context) {
	p := pagination.Parse(c)
	employees, total, err := h.employeeService.List(c.Request.Context(), p.Page, p.Limit, c.Query("department_id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"items": employees,
		"total": total,
		"page":  p.Page,
		"limit": p.Limit,
	}))
}

// GetByID handles GET /employees/:id
// @Summary      Get an employee
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  response.Response{data=model.Employee}
// @Failure      404  {object}  response.Response
// @Router       /employees/{id} [get]
func (h *EmployeeHandler) GetByID(c *gin.Context) {
	employee, err := h.employeeService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, employee))
}

// Create handles POST /employees
// @Summary      Create an employee record
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateEmployeeRequest  true  "Employee Payload"
// @Success      201      {object}  response.Response{data=model.Employee}
// @Failure      409      {object}  response.Response
// @Router       /employees [post]
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req service.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	employee, err := h.employeeService.Create(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, employee))
}

// Update handles PUT /employees/:id
// @Summary      Update an employee record
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                         true  "Employee ID"
// @Param        payload  body      service.UpdateEmployeeRequest  true  "Employee Payload"
// @Success      200      {object}  response.Response{data=model.Employee}
// @Failure      404      {object}  response.Response
// @Router       /employees/{id} [put]
func (h *EmployeeHandler) Update(c *gin.Context) {
	var req service.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	employee, err := h.employeeService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, employee))
}

// Delete handles DELETE /employees/:id
// @Summary      Delete an employee record
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *gin.Context) {
	if err := h.employeeService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Employee deleted"}))
}
