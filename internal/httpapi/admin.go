package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portal/internal/account"
	"portal/internal/auth"
	"portal/internal/portal"
)

func (h *Handler) listAdmins(c *gin.Context) {
	views, err := h.svc.ListAdmins(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "Error fetching admins")
		return
	}
	c.JSON(http.StatusOK, views)
}

// parseKinds reads the optional ?type=admin,professor filter.
func parseKinds(raw string) ([]account.Kind, bool) {
	if raw == "" {
		return nil, true
	}
	var kinds []account.Kind
	for _, part := range strings.Split(raw, ",") {
		k := account.Kind(strings.ToLower(strings.TrimSpace(part)))
		if !k.Valid() {
			return nil, false
		}
		kinds = append(kinds, k)
	}
	return kinds, true
}

func (h *Handler) listAccounts(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		kinds, ok := parseKinds(c.Query("type"))
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Unknown account type."})
			return
		}
		views, err := h.svc.ListAccounts(c.Request.Context(), kinds...)
		if err != nil {
			h.writeError(c, err, "Error fetching "+key)
			return
		}
		c.JSON(http.StatusOK, gin.H{key: views})
	}
}

func (h *Handler) updateStatus(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req portal.StatusChange
		if err := c.ShouldBindJSON(&req); err != nil {
			h.badBody(c)
			return
		}
		sess, _ := auth.SessionFrom(c)

		a, err := h.svc.UpdateStatus(c.Request.Context(), sess.Identity, c.Param("id"), req.AccountStatus)
		h.metrics.ObserveAdminAction("status", err)
		if err != nil {
			h.writeError(c, err, "Error updating account status")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"msg": "Account status updated successfully",
			key:   account.NewView(a),
		})
	}
}

func (h *Handler) deleteAccount(msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, _ := auth.SessionFrom(c)

		_, err := h.svc.Delete(c.Request.Context(), sess.Identity, c.Param("id"))
		h.metrics.ObserveAdminAction("delete", err)
		if err != nil {
			h.writeError(c, err, "Error deleting account")
			return
		}
		c.JSON(http.StatusOK, gin.H{"msg": msg})
	}
}
