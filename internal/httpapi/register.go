package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portal/internal/account"
	"portal/internal/auth"
	"portal/internal/portal"
)

type studentSummary struct {
	FullName  string `json:"fullName"`
	StudentID string `json:"studentID"`
	Email     string `json:"email"`
	Course    string `json:"course"`
	Section   string `json:"section"`
	YearLevel string `json:"yearLevel"`
}

func newStudentSummary(a *account.Account) studentSummary {
	return studentSummary{
		FullName:  a.FullName(),
		StudentID: a.StudentID,
		Email:     a.Email,
		Course:    a.Course,
		Section:   a.Section,
		YearLevel: a.YearLevel,
	}
}

func (h *Handler) registerStudent(c *gin.Context) {
	var req portal.StudentRegistration
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badBody(c)
		return
	}
	a, err := h.svc.RegisterStudent(c.Request.Context(), req)
	h.metrics.ObserveRegistration(string(account.KindStudent), err)
	if err != nil {
		h.writeError(c, err, "Server error while registering student")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"msg":     "Student registered successfully.",
		"student": newStudentSummary(a),
	})
}

type studentLoginRequest struct {
	StudentID string `json:"studentID"`
	Password  string `json:"password"`
}

func (h *Handler) studentLogin(c *gin.Context) {
	var req studentLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badBody(c)
		return
	}
	if strings.TrimSpace(req.StudentID) == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Student ID and password are required."})
		return
	}

	a, err := h.svc.Resolver().LoginAs(c.Request.Context(), account.KindStudent, req.StudentID, req.Password)
	h.metrics.ObserveLogin(string(account.KindStudent), err)
	if err != nil {
		h.writeError(c, err, "Server error during login")
		return
	}
	if !h.startSession(c, a.Identity()) {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"msg":     "Login successful",
		"student": newStudentSummary(a),
	})
}

func (h *Handler) registerProfessor(c *gin.Context) {
	var req portal.ProfessorRegistration
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badBody(c)
		return
	}
	a, err := h.svc.RegisterProfessor(c.Request.Context(), req)
	h.metrics.ObserveRegistration(string(account.KindProfessor), err)
	if err != nil {
		h.writeError(c, err, "Server error while registering professor")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"msg": "Professor registered successfully.",
		"professor": gin.H{
			"fullName":    a.FullName(),
			"professorID": a.ProfessorID,
			"email":       a.Email,
			"department":  a.Department,
			"designation": a.Designation,
		},
	})
}

func (h *Handler) registerAdmin(c *gin.Context) {
	var req portal.AdminRegistration
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badBody(c)
		return
	}

	var caller *account.Identity
	if sess, ok := auth.SessionFrom(c); ok {
		caller = &sess.Identity
	}

	a, err := h.svc.RegisterAdmin(c.Request.Context(), caller, req)
	h.metrics.ObserveRegistration(string(account.KindAdmin), err)
	if err != nil {
		h.writeError(c, err, "Server error during registration.")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"msg": "Admin registered successfully.",
		"admin": gin.H{
			"fullName":    a.FullName(),
			"employeeID":  a.EmployeeID,
			"email":       a.Email,
			"department":  a.Department,
			"designation": a.Designation,
			"role":        a.Role,
		},
	})
}
