package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"forklift-fleet-backend/internal/model"
	"forklift-fleet-backend/internal/parse"
	"forklift-fleet-backend/internal/status"
	"forklift-fleet-backend/internal/summary"
)

// GetDashboard returns the fleet counters as of now.
func (h *Handler) GetDashboard(c *gin.Context) {
	snap, err := h.store.Snapshot(c.Request.Context(), h.classifier.Today())
	if err != nil {
		respondError(c, err)
		return
	}
	snap.WarningWindowDays = h.classifier.WarningWindowDays
	c.JSON(http.StatusOK, summary.SummarizeSnapshot(snap))
}

// GetMaintenanceDue handles GET /api/forklifts/:id/maintenance-due.
func (h *Handler) GetMaintenanceDue(c *gin.Context) {
	f, err := h.store.Forklifts().Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	due, err := status.MaintenanceDue(f, h.maintenanceInterval)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, due)
}

type certificatesResponse struct {
	status.CertificateReport
	Overall      model.CertificateStatus `json:"overall"`
	Inconsistent bool                    `json:"inconsistent"`
}

// GetOperatorCertificates compares the stored certificate statuses of an
// operator with the ones derived from the expiration dates.
func (h *Handler) GetOperatorCertificates(c *gin.Context) {
	op, err := h.store.Operators().Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	report, err := status.CheckOperator(op, h.classifier)
	if err != nil {
		respondError(c, err)
		return
	}
	for _, check := range report.Checks() {
		h.metrics.Classifications.WithLabelValues(string(check.Derived)).Inc()
	}
	c.JSON(http.StatusOK, certificatesResponse{
		CertificateReport: report,
		Overall:           status.OverallStatus(report.ASO.Derived, report.NR.Derived),
		Inconsistent:      report.Inconsistent(),
	})
}

// ClassifyCertificate handles GET /api/certificates/classify?expires=..&at=..
func (h *Handler) ClassifyCertificate(c *gin.Context) {
	expires := c.Query("expires")
	if expires == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "expires is required"})
		return
	}

	at := h.classifier.Today()
	if raw := c.Query("at"); raw != "" {
		parsed, err := parse.ParseDate(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid at date: " + err.Error()})
			return
		}
		at = parsed
	}

	result, err := h.classifier.ClassifyAt(expires, at)
	if err != nil {
		respondError(c, err)
		return
	}
	h.metrics.Classifications.WithLabelValues(string(result)).Inc()

	c.JSON(http.StatusOK, gin.H{
		"expires": expires,
		"at":      parse.FormatDate(at),
		"status":  result,
	})
}
