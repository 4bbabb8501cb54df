package httpapi

import (
	"errors"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Tiliavir/rileva/internal/log"
	"github.com/Tiliavir/rileva/internal/workbook"
)

// DegradedHeader is set to "true" when the values went into a blank workbook.
const DegradedHeader = "X-Export-Degraded"

const serviceName = "rileva"

func (srv *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
	})
}

// export takes the snapshot JSON and answers with the workbook bytes.
func (srv *Server) export(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	var snap workbook.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		c.String(http.StatusBadRequest, "invalid snapshot: %v", err)
		return
	}
	if !snap.Month.Valid() {
		c.String(http.StatusBadRequest, "invalid snapshot: month %q is not YYYY-MM", snap.Month)
		return
	}

	ctx := log.WithFields(c.Request.Context(), "month", string(snap.Month))
	srv.l.Debugf(ctx, "export request: %d days, %.2f hours declared", len(snap.Days), snap.TotalDeclaredHours)

	res, err := srv.exporter.Export(ctx, snap)
	if err != nil {
		srv.l.Errorf(ctx, "export failed: %v", err)
		c.String(http.StatusInternalServerError, "%s", failureReason(err))
		return
	}
	if res.Degraded {
		srv.l.Warnf(ctx, "exported without template: %v", res.TemplateErr)
		c.Header(DegradedHeader, "true")
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.Filename}))
	c.Data(http.StatusOK, workbook.MIMEType, res.Data)
}

func failureReason(err error) string {
	var xerr *workbook.ExportError
	if errors.As(err, &xerr) {
		return string(xerr.Reason)
	}
	if errors.Is(err, workbook.ErrNoWriter) {
		return "no-writer"
	}
	return "export-failed"
}
