package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portal/internal/account"
	"portal/internal/auth"
	"portal/internal/portal"
)

type loginRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

type userSummary struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badBody(c)
		return
	}
	if strings.TrimSpace(req.ID) == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "ID and password are required."})
		return
	}

	kind, _ := account.KindForLoginID(strings.TrimSpace(req.ID))
	rec, err := h.svc.Resolver().Login(c.Request.Context(), req.ID, req.Password)
	h.metrics.ObserveLogin(string(kind), err)
	if err != nil {
		h.writeError(c, err, "Server error during login")
		return
	}

	identity := rec.Identity()
	if !h.startSession(c, identity) {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"msg":      "Login successful",
		"userType": identity.Role,
		"user": userSummary{
			ID:       identity.ID,
			FullName: identity.FullName,
			Email:    identity.Email,
		},
	})
}

// startSession writes the session cookie. It reports false after having
// already answered the request with an error.
func (h *Handler) startSession(c *gin.Context, identity account.Identity) bool {
	token, _, err := h.sessions.Start(c.Request.Context(), identity)
	if err != nil {
		h.writeError(c, err, "Server error during login")
		return false
	}
	h.cookie.Set(c, token, h.sessions.TTL())
	return true
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.sessions.End(c.Request.Context(), h.cookie.Token(c)); err != nil {
		h.writeError(c, err, "Error logging out")
		return
	}
	h.cookie.Clear(c)
	c.JSON(http.StatusOK, gin.H{"msg": "Logout successful"})
}

func (h *Handler) currentUser(c *gin.Context) {
	sess, _ := auth.SessionFrom(c)
	c.JSON(http.StatusOK, gin.H{"user": sess.Identity})
}

func (h *Handler) updateAccount(c *gin.Context) {
	sess, _ := auth.SessionFrom(c)

	var req portal.AccountUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badBody(c)
		return
	}

	identity, err := h.svc.UpdateAccount(c.Request.Context(), sess.Identity, req)
	if err != nil {
		h.writeError(c, err, "Server error while updating account")
		return
	}
	if err := h.sessions.Replace(c.Request.Context(), sess, identity); err != nil {
		h.log.WithError(err).WithField("session_id", sess.ID).Warn("session identity not refreshed")
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Account updated successfully"})
}
