package handler

import (
	"net/http"

	"hrms/internal/middleware"
	"hrms/internal/service"
	"hrms/pkg/pagination"
	"hrms/pkg/response"

	"github.com/gin-gonic/gin"
)

type AttendanceHandler struct {
	attendanceService service.AttendanceService
	auth              *middleware.Authenticator
}

func NewAttendanceHandler(attendanceService service.AttendanceService, auth *middleware.Authenticator) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService, auth: auth}
}

func (h *AttendanceHandler) RegisterRoutes(router *gin.RouterGroup) {
	attendance := router.Group("/attendance", h.auth.Authenticate())
	{
		attendance.GET("", middleware.RequirePermission("attendance", "read"), h.List)
		attendance.POST("/clock-in", middleware.RequirePermission("attendance", "write"), h.ClockIn)
		attendance.POST("/clock-out", middleware.RequirePermission("attendance", "write"), h.ClockOut)
	}
}

// ClockIn handles POST /attendance/clock-in
// @Summary      Clock in for today
// @Description  Opens today's attendance record; one record per employee per day
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  response.Response{data=model.AttendanceRecord}
// @Failure      409  {object}  response.Response
// @Router       /attendance/clock-in [post]
func (h *AttendanceHandler) ClockIn(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)
	if identity == nil || identity.EmployeeID == nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "No employee record linked to this account"))
		return
	}

	record, err := h.attendanceService.ClockIn(c.Request.Context(), *identity.EmployeeID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, record))
}

// ClockOut handles POST /attendance/clock-out
// @Summary      Clock out of the open shift
// @Description  Closes today's open attendance record and derives worked hours
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=model.AttendanceRecord}
// @Failure      400  {object}  response.Response
// @Router       /attendance/clock-out [post]
func (h *AttendanceHandler) ClockOut(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)
	if identity == nil || identity.EmployeeID == nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "No employee record linked to this account"))
		return
	}

	record, err := h.attendanceService.ClockOut(c.Request.Context(), *identity.EmployeeID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, record))
}

// List handles GET /attendance
// @Summary      List attendance records
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Param        page         query     int     false  "Page number (default 1)"
// @Param        limit        query     int     false  "Items per page (default 20)"
// @Param        employee_id  query     string  false  "Filter by employee"
// @Success      200          {object}  response.Response{data=object}
// @Router       /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	p := pagination.Parse(c)
	records, total, err := h.attendanceService.List(c.Request.Context(), p.Page, p.Limit, c.Query("employee_id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"items": records,
		"total": total,
		"page":  p.Page,
		"limit": p.Limit,
	}))
}
