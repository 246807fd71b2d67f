package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"zippyhand/internal/models"

	"github.com/xuri/excelize/v2"
)

const bookingsSheet = "Bookings"

var bookingHeaders = []string{
	"ID", "Name", "Phone", "Service", "Brand", "Date",
	"Time Slot", "Address", "Landmark", "Status", "Created At",
}

// BuildBookingsWorkbook renders bookings into a spreadsheet, one row per
// booking in the order given.
func BuildBookingsWorkbook(bookings []models.Booking) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(bookingsSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, header := range bookingHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(bookingsSheet, cell, header)
		_ = f.SetCellStyle(bookingsSheet, cell, cell, headerStyle)
	}

	for i, booking := range bookings {
		row := i + 2
		values := []any{
			booking.ID,
			booking.Name,
			booking.Phone,
			booking.Service,
			booking.Brand,
			booking.Date,
			booking.TimeSlot,
			booking.Address,
			booking.Landmark,
			booking.Status,
			booking.CreatedAt.Format("02.01.2006 15:04"),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(bookingsSheet, cell, value)
		}

		if booking.Status != models.StatusPending {
			styleID, err := statusStyle(f, booking.Status)
			if err == nil {
				statusCell, _ := excelize.CoordinatesToCellName(10, row)
				_ = f.SetCellStyle(bookingsSheet, statusCell, statusCell, styleID)
			}
		}
	}

	_ = f.SetColWidth(bookingsSheet, "A", "A", 8)
	_ = f.SetColWidth(bookingsSheet, "B", "B", 20)
	_ = f.SetColWidth(bookingsSheet, "C", "C", 14)
	_ = f.SetColWidth(bookingsSheet, "D", "E", 18)
	_ = f.SetColWidth(bookingsSheet, "F", "F", 12)
	_ = f.SetColWidth(bookingsSheet, "G", "G", 22)
	_ = f.SetColWidth(bookingsSheet, "H", "H", 35)
	_ = f.SetColWidth(bookingsSheet, "I", "I", 20)
	_ = f.SetColWidth(bookingsSheet, "J", "J", 12)
	_ = f.SetColWidth(bookingsSheet, "K", "K", 18)

	_ = f.DeleteSheet("Sheet1")
	return f, nil
}

// SaveWorkbook writes the workbook into dir under a timestamped name and
// returns the file path. Each downloaded export leaves a snapshot on disk.
func SaveWorkbook(dir string, f *excelize.File) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	fileName := fmt.Sprintf("bookings_export_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(dir, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}
	return filePath, nil
}

func statusStyle(f *excelize.File, status string) (int, error) {
	color := "#FFEB9C"
	switch status {
	case models.StatusCompleted:
		color = "#C6EFCE"
	case models.StatusCancelled:
		color = "#FFC7CE"
	}
	return f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
}
