package export

import (
	"fmt"
	"strings"

	"salonbook/internal/models"
	"salonbook/internal/pricing"

	"github.com/xuri/excelize/v2"
)

const invoiceSheet = "Invoice"

var invoiceHeaders = []string{
	"Booking ID", "Customer", "Mobile", "Slot", "Service", "Staff",
	"Status", "Price", "Discount %", "Net",
}

// Status fills: cancelled red, pending yellow, confirmed/completed green.
var statusFills = map[string]string{
	models.StatusCancelled: "#FFC7CE",
	models.StatusPending:   "#FFEB9C",
	models.StatusConfirmed: "#C6EFCE",
	models.StatusCompleted: "#C6EFCE",
}

// InvoiceFileName is the download name of the invoice for date.
func InvoiceFileName(date string) string {
	return fmt.Sprintf("invoice_%s.xlsx", date)
}

// DailyInvoice builds a workbook with one row per appointment plus a totals
// row. Cancelled appointments are listed but left out of the totals. The
// workbook stays in memory; the caller streams it with WriteTo and closes it.
func DailyInvoice(appts []models.Appointment, date string) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(invoiceSheet)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	_ = f.SetCellValue(invoiceSheet, "A1", "Daily invoice: "+date)
	_ = f.MergeCell(invoiceSheet, "A1", "J1")
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(invoiceSheet, "A1", "A1", titleStyle)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	for i, h := range invoiceHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(invoiceSheet, cell, h)
		_ = f.SetCellStyle(invoiceSheet, cell, cell, headerStyle)
	}

	styles := make(map[string]int)
	var totals pricing.Summary
	row := 3
	for i := range appts {
		a := &appts[i]
		values := []interface{}{
			a.BookingID,
			a.CustomerName,
			a.MobileNumber,
			a.SlotTime,
			a.ServiceName,
			strings.Join(a.StaffNames(), ", "),
			a.Status,
			a.ServicePrice,
			a.DiscountPercent(),
			a.NetPrice(),
		}
		first, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(invoiceSheet, first, &values); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("error writing row %d: %w", row, err)
		}

		if style, err := rowStyle(f, styles, a.Status); err == nil {
			last, _ := excelize.CoordinatesToCellName(len(invoiceHeaders), row)
			_ = f.SetCellStyle(invoiceSheet, first, last, style)
		}

		if a.Status != models.StatusCancelled {
			totals.Add(a.ServicePrice, a.Discount)
		}
		row++
	}

	totalStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	totalRow := []interface{}{"Total", fmt.Sprintf("%d appointments", totals.Count), nil, nil, nil, nil, nil, totals.Gross, totals.Discount, totals.Net}
	first, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetSheetRow(invoiceSheet, first, &totalRow); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("error writing totals: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(invoiceHeaders), row)
	_ = f.SetCellStyle(invoiceSheet, first, last, totalStyle)

	_ = f.SetColWidth(invoiceSheet, "A", "A", 20)
	_ = f.SetColWidth(invoiceSheet, "B", "F", 22)
	_ = f.SetColWidth(invoiceSheet, "G", "J", 12)
	return f, nil
}

func rowStyle(f *excelize.File, cache map[string]int, status string) (int, error) {
	if id, ok := cache[status]; ok {
		return id, nil
	}
	color, ok := statusFills[status]
	if !ok {
		color = "#FFFFFF"
	}
	id, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})
	if err != nil {
		return 0, err
	}
	cache[status] = id
	return id, nil
}
