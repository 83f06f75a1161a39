// Package httpapi wires the core services to gin. Handlers translate HTTP
// requests into explicit (role, department) scoped calls; no core code reads
// the request context directly.
package httpapi

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rollcall/internal/apperr"
	"rollcall/internal/attendance"
	"rollcall/internal/auth"
	"rollcall/internal/student"
	"rollcall/internal/user"
)

const dateLayout = "2006-01-02"

// UserStore is the account lookup the login handler needs.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (user.User, error)
}

// Handler holds the service dependencies for all routes.
type Handler struct {
	users      UserStore
	students   *student.Service
	attendance *attendance.Service

	jwtIssuer string
	jwtKey    string
	accessTTL time.Duration
}

// New creates a handler.
func New(users UserStore, students *student.Service, att *attendance.Service, jwtIssuer, jwtKey string, accessTTL time.Duration) *Handler {
	return &Handler{
		users:      users,
		students:   students,
		attendance: att,
		jwtIssuer:  jwtIssuer,
		jwtKey:     jwtKey,
		accessTTL:  accessTTL,
	}
}

// Register mounts all routes under /v1.
func (h *Handler) Register(r *gin.Engine) {
	r.POST("/v1/login", h.Login)

	v1 := r.Group("/v1", auth.Bearer(h.jwtKey, h.jwtIssuer))

	dept := v1.Group("", auth.RequireRole(user.RoleDepartment))
	dept.GET("/attendance", h.Sheet)
	dept.POST("/attendance", h.Mark)
	dept.POST("/students", h.AddStudent)

	admin := v1.Group("", auth.RequireRole(user.RoleAdmin))
	admin.GET("/report", h.Report)
	admin.GET("/report/export", h.ExportCSV)
	admin.POST("/students/import", h.ImportStudents)
	admin.GET("/attendance/records", h.ListRecords)
	admin.GET("/attendance/records/:id", h.GetRecord)
	admin.PUT("/attendance/records/:id", h.UpdateRecord)
	admin.DELETE("/attendance/records/:id", h.DeleteRecord)

	v1.GET("/students", h.ListStudents)
	v1.GET("/departments", h.Departments)
}

func abortWith(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", apperr.ErrValidation)
	}
	return d, nil
}

// ---------- Auth ----------

// Login verifies credentials and issues a role-scoped token.
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.users.GetByUsername(c.Request.Context(), req.Username)
	if err != nil || !auth.CheckPassword(u.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, exp, err := auth.Issue(u.Username, u.Role, u.Department, h.jwtIssuer, h.jwtKey, h.accessTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"expires_at":   exp.Unix(),
		"role":         u.Role,
		"department":   u.Department,
	})
}

// ---------- Attendance ----------

// Sheet returns the caller's department roster plus the marking state for a
// date, for redisplay after marking.
func (h *Handler) Sheet(c *gin.Context) {
	claims, _ := auth.FromContext(c)
	date, err := parseDate(c.Query("date"))
	if err != nil {
		abortWith(c, err)
		return
	}
	sheet, err := h.attendance.Sheet(c.Request.Context(), claims.Department, date)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, sheet)
}

// Mark applies a batch of submissions scoped to the caller's department.
func (h *Handler) Mark(c *gin.Context) {
	claims, _ := auth.FromContext(c)
	var req struct {
		Date    string                  `json:"date" binding:"required"`
		Entries []attendance.Submission `json:"entries" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		abortWith(c, err)
		return
	}

	results, err := h.attendance.Mark(c.Request.Context(), claims.Department, date, req.Entries)
	if err != nil {
		abortWith(c, err)
		return
	}

	// read back so the client can redisplay current state
	sheet, err := h.attendance.Sheet(c.Request.Context(), claims.Department, date)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results, "sheet": sheet})
}

// ListRecords returns all attendance records with student details, newest
// date first. This is where the edit and delete flows pick up record ids.
func (h *Handler) ListRecords(c *gin.Context) {
	records, err := h.attendance.Records(c.Request.Context())
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

// GetRecord returns one attendance record.
func (h *Handler) GetRecord(c *gin.Context) {
	rec, err := h.attendance.Record(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// UpdateRecord overwrites status and reason of one record.
func (h *Handler) UpdateRecord(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.attendance.UpdateRecord(c.Request.Context(), c.Param("id"), req.Status, req.Reason); err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// DeleteRecord removes one record.
func (h *Handler) DeleteRecord(c *gin.Context) {
	if err := h.attendance.DeleteRecord(c.Request.Context(), c.Param("id")); err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ---------- Reporting ----------

// Report returns totals and student lists for a date, optionally filtered to
// one department.
func (h *Handler) Report(c *gin.Context) {
	date, err := parseDate(c.Query("date"))
	if err != nil {
		abortWith(c, err)
		return
	}
	report, err := h.attendance.Report(c.Request.Context(), date, c.Query("department"))
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ExportCSV streams the attendance export as a CSV attachment.
func (h *Handler) ExportCSV(c *gin.Context) {
	date, err := parseDate(c.Query("date"))
	if err != nil {
		abortWith(c, err)
		return
	}
	filter, err := attendance.ParseFilter(c.Query("status"))
	if err != nil {
		abortWith(c, err)
		return
	}
	rows, err := h.attendance.Export(c.Request.Context(), date, c.Query("department"), filter)
	if err != nil {
		abortWith(c, err)
		return
	}

	filename := fmt.Sprintf("attendance_%s_%s.csv", date.Format(dateLayout), filter)
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	w := csv.NewWriter(c.Writer)
	_ = w.Write(attendance.CSVHeader)
	for _, row := range rows {
		_ = w.Write(row.Fields())
	}
	w.Flush()
}

// ---------- Students ----------

// ListStudents returns students visible to the caller: department operators
// see their own department, admins see all or a ?department= filter.
func (h *Handler) ListStudents(c *gin.Context) {
	claims, _ := auth.FromContext(c)
	department := c.Query("department")
	if claims.Role == user.RoleDepartment {
		department = claims.Department
	}
	students, err := h.students.List(c.Request.Context(), department)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": students})
}

// AddStudent creates one student in the caller's department.
func (h *Handler) AddStudent(c *gin.Context) {
	claims, _ := auth.FromContext(c)
	var req struct {
		RollNo string `json:"roll_no" binding:"required"`
		Name   string `json:"name" binding:"required"`
		Year   int    `json:"year" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := h.students.Add(c.Request.Context(), student.Student{
		RollNo:     req.RollNo,
		Name:       req.Name,
		Year:       req.Year,
		Department: claims.Department,
	})
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

// ImportStudents accepts a CSV upload with header
// roll_no,name,year,department and bulk-inserts the rows, skipping
// duplicates.
func (h *Handler) ImportStudents(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field required"})
		return
	}
	defer file.Close()

	rows, err := parseStudentCSV(file)
	if err != nil {
		abortWith(c, err)
		return
	}
	result, err := h.students.Import(c.Request.Context(), rows)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Departments returns the distinct department values, for filter choices.
func (h *Handler) Departments(c *gin.Context) {
	departments, err := h.students.Departments(c.Request.Context())
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"departments": departments})
}
