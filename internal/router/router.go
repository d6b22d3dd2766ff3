// Package router defines how HTTP routes are registered for the API.
//
// Route groups and the roles allowed on them:
//
//	/v1/auth        – open (register, login, refresh); logout and me need a token
//	/v1/masters     – reads for any role, writes for ADMIN
//	/v1/programs    – reads for any role, writes for ADMIN
//	/v1/applicants  – OFFICER and ADMIN
//	/v1/admissions  – OFFICER and ADMIN; reads also for MANAGEMENT
//	/v1/documents   – OFFICER and ADMIN
//	/v1/dashboard   – MANAGEMENT and ADMIN
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/uniadmit/admission-intake/internal/handler"
	"github.com/uniadmit/admission-intake/internal/middleware"
)

const (
	roleAdmin      = "ADMIN"
	roleOfficer    = "OFFICER"
	roleManagement = "MANAGEMENT"
)

// RegisterRoutes registers routes that do not require authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers authentication routes. Register, login and
// refresh are open; logout and me require a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)

	p := e.Group("/v1/auth", middleware.JWTAuth(jwtSecret))
	p.POST("/logout", a.Logout)
	p.GET("/me", a.Me)
}

// RegisterMasters registers the master-data hierarchy and lookup
// tables. Any authenticated role can read; only ADMIN can write.
func RegisterMasters(e *echo.Echo, m *handler.MasterHandler, jwtSecret string) {
	read := e.Group(
		"/v1/masters",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(roleAdmin, roleOfficer, roleManagement),
	)
	read.GET("/institutions", m.ListInstitutions)
	read.GET("/institutions/:id/campuses", m.ListCampuses)
	read.GET("/campuses/:id/departments", m.ListDepartments)
	read.GET("/academic-years", m.ListAcademicYears)
	read.GET("/course-types", m.ListCourseTypes)
	read.GET("/entry-types", m.ListEntryTypes)
	read.GET("/admission-modes", m.ListAdmissionModes)

	write := e.Group(
		"/v1/masters",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(roleAdmin),
	)
	write.POST("/institutions", m.CreateInstitution)
	write.POST("/campuses", m.CreateCampus)
	write.POST("/departments", m.CreateDepartment)
	write.POST("/academic-years", m.CreateAcademicYear)
}

// RegisterPrograms registers program and quota endpoints. Definition
// changes are ADMIN-only; every role can browse.
func RegisterPrograms(e *echo.Echo, p *handler.ProgramHandler, jwtSecret string) {
	read := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(roleAdmin, roleOfficer, roleManagement),
	)
	read.GET("/programs", p.List)
	read.GET("/programs/:id", p.Get)
	read.GET("/programs/:id/quotas", p.ListQuotas)

	write := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(roleAdmin),
	)
	write.POST("/programs", p.Create)
	write.POST("/quotas", p.CreateQuota)
}

// RegisterApplicants registers applicant intake and status updates
// for admission officers.
func RegisterApplicants(e *echo.Echo, a *handler.ApplicantHandler, d *handler.DocumentHandler, jwtSecret string) {
	g := e.Group(
		"/v1/applicants",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(roleAdmin, roleOfficer),
	)
	g.POST("", a.Create)
	g.GET("", a.List)
	g.GET("/:id", a.Get)
	g.PATCH("/:id/fee-status", a.UpdateFeeStatus)
	g.PATCH("/:id/document-status", a.UpdateDocumentStatus)
	g.GET("/:id/documents", d.ListByApplicant)
}

// RegisterAdmissions registers seat allocation and confirmation.
// MANAGEMENT may read but never allocate or confirm.
func RegisterAdmissions(e *echo.Echo, a *handler.AdmissionHandler, jwtSecret string) {
	read := e.Group(
		"/v1/admissions",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(roleAdmin, roleOfficer, roleManagement),
	)
	read.GET("", a.List)
	read.GET("/confirmed", a.ListConfirmed)
	read.GET("/pending", a.ListPending)
	read.GET("/:id", a.Get)

	write := e.Group(
		"/v1/admissions",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(roleAdmin, roleOfficer),
	)
	write.POST("/allocate", a.Allocate)
	write.POST("/:id/confirm", a.Confirm)
}

// RegisterDocuments registers document upload and verification for
// admission officers.
func RegisterDocuments(e *echo.Echo, d *handler.DocumentHandler, jwtSecret string) {
	g := e.Group(
		"/v1/documents",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(roleAdmin, roleOfficer),
	)
	g.POST("", d.Create)
	g.GET("/pending", d.ListPending)
	g.GET("/:id", d.Get)
	g.PATCH("/:id/verify", d.Verify)
	g.PATCH("/:id/reject", d.Reject)
}

// RegisterDashboard registers the management reporting endpoints.
func RegisterDashboard(e *echo.Echo, d *handler.DashboardHandler, jwtSecret string) {
	g := e.Group(
		"/v1/dashboard",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(roleAdmin, roleManagement),
	)
	g.GET("/overview", d.Overview)
	g.GET("/programs", d.Programs)
	g.GET("/programs/:id/quotas", d.QuotaStatus)
}
