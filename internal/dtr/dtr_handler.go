package dtr

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"hrms/internal/shared/apperror"
	"hrms/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("dtr.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dtr.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("dtr request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func canReadAll(c *gin.Context) bool {
	role := c.GetString("role")
	return role == "hr" || role == "admin"
}

// targetEmployee resolves the employee whose record is requested: the
// actor's own unless employee_id is given and the role may read others.
func targetEmployee(c *gin.Context) (string, error) {
	actorID := c.GetString("employee_id")
	requested := c.Query("employee_id")
	if requested == "" || requested == actorID {
		return actorID, nil
	}
	if !canReadAll(c) {
		return "", apperror.ErrForbidden
	}
	return requested, nil
}

func monthParams(c *gin.Context) (int, time.Month, error) {
	now := time.Now()
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil || year < 2000 || year > 2100 {
		return 0, 0, apperror.InvalidField("Year")
	}
	month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, apperror.InvalidField("Month")
	}
	return year, time.Month(month), nil
}

func (h *Handler) GetMonthly(c *gin.Context) {
	employeeID, err := targetEmployee(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	year, month, err := monthParams(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	report, err := h.service.Monthly(c.Request.Context(), employeeID, year, month)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, report, nil)
}

func (h *Handler) GetRange(c *gin.Context) {
	employeeID, err := targetEmployee(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	from, err := time.Parse(dateLayout, c.Query("from"))
	if err != nil {
		h.writeServiceError(c, apperror.InvalidField("From"))
		return
	}
	to, err := time.Parse(dateLayout, c.Query("to"))
	if err != nil {
		h.writeServiceError(c, apperror.InvalidField("To"))
		return
	}
	if from.After(to) {
		h.writeServiceError(c, apperror.InvalidField("From"))
		return
	}

	report, err := h.service.Range(c.Request.Context(), employeeID, from, to)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, report, nil)
}

func (h *Handler) Export(c *gin.Context) {
	employeeID, err := targetEmployee(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	year, month, err := monthParams(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	workbook, err := h.service.ExportMonthly(c.Request.Context(), employeeID, year, month)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("dtr-%s-%04d-%02d.xlsx", employeeID, year, int(month))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", workbook)
}
