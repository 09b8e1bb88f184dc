package controllers

import (
	"bytes"
	"errors"
	"net/http"

	"backoffice/orchestrator"
	"backoffice/spreadsheet"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// readUpload decodes the "file" field of a multipart form into rows.
func readUpload(c *gin.Context) ([]spreadsheet.Row, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		RespondError(c, "fichier manquant", http.StatusBadRequest)
		return nil, false
	}
	f, err := header.Open()
	if err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	defer f.Close()

	table, err := spreadsheet.ReadFile(header.Filename, f)
	if err == nil {
		var rows []spreadsheet.Row
		rows, err = spreadsheet.Decode(table)
		if err == nil {
			return rows, true
		}
	}
	if errors.Is(err, spreadsheet.ErrUnreadable) {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	RespondError(c, err.Error(), http.StatusInternalServerError)
	return nil, false
}

// POST /api/file/check
func CheckFile(c *gin.Context) {
	rows, ok := readUpload(c)
	if !ok {
		return
	}
	RespondSuccess(c, spreadsheet.Validate(rows))
}

// POST /api/file/import
// Form fields: file, delete_intents, old_url, new_url.
func ImportFile(c *gin.Context) {
	s, ok := services(c)
	if !ok {
		return
	}
	var opts spreadsheet.ImportOptions
	if err := c.ShouldBind(&opts); err != nil {
		RespondError(c, "options invalides : "+err.Error(), http.StatusBadRequest)
		return
	}
	rows, ok := readUpload(c)
	if !ok {
		return
	}

	result, err := s.Orchestrator.Import(c.Request.Context(), rows, opts)
	var importErr *orchestrator.ImportError
	switch {
	case errors.As(err, &importErr):
		RespondReport(c, importErr.Report)
	case errors.Is(err, orchestrator.ErrBusy):
		RespondError(c, err.Error(), http.StatusConflict)
	case err != nil:
		s.Log.Error("import failed", "error", err)
		RespondError(c, err.Error(), http.StatusInternalServerError)
	default:
		RespondSuccess(c, result)
	}
}

// GET /api/file/export
func ExportFile(c *gin.Context) {
	s, ok := services(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := s.Orchestrator.ExportSpreadsheet(c.Request.Context(), &buf); err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="connaissances.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
