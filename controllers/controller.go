package controllers

import (
	"net/http"

	"backoffice/spreadsheet"

	"github.com/gin-gonic/gin"
)

func RespondError(c *gin.Context, msg string, code int) {
	c.JSON(code, gin.H{"error": msg})
}

func RespondSuccess(c *gin.Context, payload any) {
	c.JSON(200, payload)
}

// RespondReport answers a refused import with the per-line check report.
func RespondReport(c *gin.Context, report spreadsheet.Report) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":    spreadsheet.ErrInvalidRows.Error(),
		"errors":   report.Errors,
		"warnings": report.Warnings,
	})
}
