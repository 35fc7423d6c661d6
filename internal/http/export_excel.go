package httpapi

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"civicconnect/internal/domain"
	"civicconnect/internal/service"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var complaintExportHeader = []string{
	"ID",
	"Citizen",
	"Category",
	"Description",
	"Status",
	"Attachments",
	"Work Photos",
	"Viewed",
	"Created At",
}

// GenerateComplaintExport builds the xlsx workbook for a ward's
// complaint list.
func GenerateComplaintExport(complaints []domain.Complaint) ([]byte, error) {
	f := excelize.NewFile()

	sheetName := "Complaints"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	for col, header := range complaintExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	columnWidths := []float64{8, 20, 18, 50, 12, 12, 12, 8, 20}
	for i := range complaintExportHeader {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheetName, col, col, columnWidths[i]); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for rowIdx, c := range complaints {
		viewed := "No"
		if c.ViewedByAdmin {
			viewed = "Yes"
		}
		values := []any{
			c.ID,
			c.CitizenName,
			c.Category,
			c.Description,
			c.Status,
			len(c.Attachments),
			len(c.WorkPhotos),
			viewed,
			c.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for colIdx, value := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportComplaints streams the ward's complaints as an xlsx download.
func (h *AdminHandler) ExportComplaints(w http.ResponseWriter, r *http.Request) {
	user := UserFrom(r.Context())
	if !user.IsWardAdmin() {
		http.Redirect(w, r, "/citizen/dashboard", http.StatusFound)
		return
	}

	list, err := h.complaints.ListForAdmin(r.Context(), user, "")
	if err != nil {
		if err == service.ErrForbidden {
			writeError(w, http.StatusForbidden, "not allowed")
			return
		}
		logError(h.logger, "Failed to load complaints for export", err, zap.Int64("user_id", user.ID))
		writeError(w, http.StatusInternalServerError, "failed to export complaints")
		return
	}

	data, err := GenerateComplaintExport(list.Complaints)
	if err != nil {
		logError(h.logger, "Failed to generate complaint export", err, zap.Int64("user_id", user.ID))
		writeError(w, http.StatusInternalServerError, "failed to export complaints")
		return
	}

	filename := fmt.Sprintf("complaints-%s.xlsx", time.Now().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(data)
}
