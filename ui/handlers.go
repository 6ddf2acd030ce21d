package ui

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"goincome/adapters/excel"
	"goincome/domain/statement"
	"goincome/domain/view"
	"goincome/ui/middleware"
	"goincome/ui/services"
	"goincome/ui/templates/fragments"

	"github.com/gin-gonic/gin"
)

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func (s *Server) dashboardView(st view.State) services.DashboardView {
	dv := services.BuildDashboardView(s.dashboard.Symbol(), st, s.dashboard.Summary(st))
	dv.Status = s.dashboard.Status()
	dv.About = s.about
	return dv
}

// respond renders the dashboard fragment for HTMX requests and redirects
// plain form posts back to the page.
func (s *Server) respond(c *gin.Context, st view.State) {
	if isHTMX(c.Request) {
		s.renderTemplate(c, http.StatusOK, fragments.Dashboard, s.dashboardView(st))
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleIndex(c *gin.Context) {
	st := s.dashboard.View(middleware.SessionID(c))
	if isHTMX(c.Request) {
		s.renderTemplate(c, http.StatusOK, fragments.Dashboard, s.dashboardView(st))
		return
	}
	s.renderTemplate(c, http.StatusOK, fragments.Index, s.dashboardView(st))
}

func (s *Server) handleApplyFilters(c *gin.Context) {
	var form services.FilterForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, "invalid filter form")
		return
	}

	st, err := s.dashboard.ApplyFilters(middleware.SessionID(c), form.Criteria())
	if err != nil && !stderrors.Is(err, statement.ErrInvalidRange) {
		s.logger.Error("apply filters: %v", err)
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	// Validation errors are carried by the state notice.
	s.respond(c, st)
}

func (s *Server) handleClearFilters(c *gin.Context) {
	s.respond(c, s.dashboard.ClearFilters(middleware.SessionID(c)))
}

func (s *Server) handleToggleSort(c *gin.Context) {
	st, err := s.dashboard.ToggleSort(middleware.SessionID(c), c.Param("key"))
	if err != nil {
		c.String(http.StatusBadRequest, statement.UserMessage(err))
		return
	}
	s.respond(c, st)
}

func (s *Server) handleExport(c *gin.Context) {
	st := s.dashboard.View(middleware.SessionID(c))
	filename := fmt.Sprintf("%s-income-statements.xlsx", strings.ToLower(s.dashboard.Symbol()))

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	if err := excel.WriteStatements(c.Writer, st.Visible); err != nil {
		s.logger.Error("export: %v", err)
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, s.dashboard.Status())
}
