package storage

import (
	"fmt"
	"strings"
	"time"

	"chapkhane/internal/shop"

	"github.com/xuri/excelize/v2"
)

const (
	ordersSheet = "Orders"
	orderSheet  = "Order"
)

var orderHeaders = []string{
	"ID", "Created At", "Status", "Source", "Customer", "Phone", "Email",
	"Paper Size", "Width (cm)", "Height (cm)", "Material", "Weight", "Color",
	"Sides", "Lamination", "Add-ons", "Quantity", "Unit Price", "Raw Total",
	"Discount Rate", "Discount", "Final Total", "Notes",
}

// OrdersWorkbook renders orders as a single-sheet xlsx file.
func OrdersWorkbook(orders []shop.Order) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ordersSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := writeRow(f, ordersSheet, 1, toCells(orderHeaders)); err != nil {
		return nil, err
	}
	for i, o := range orders {
		if err := writeRow(f, ordersSheet, i+2, orderCells(o)); err != nil {
			return nil, err
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(orderHeaders), 1)
	if err := f.SetCellStyle(ordersSheet, "A1", last, style); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}
	if err := f.SetColWidth(ordersSheet, "A", "A", 38); err != nil {
		return nil, fmt.Errorf("failed to size columns: %w", err)
	}

	return finish(f)
}

// OrderWorkbook renders a single order as a two-column key/value sheet.
func OrderWorkbook(o shop.Order) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", orderSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	values := orderCells(o)
	for i, h := range orderHeaders {
		if err := writeRow(f, orderSheet, i+1, []interface{}{h, values[i]}); err != nil {
			return nil, err
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}
	if err := f.SetCellStyle(orderSheet, "A1", fmt.Sprintf("A%d", len(orderHeaders)), style); err != nil {
		return nil, fmt.Errorf("failed to style labels: %w", err)
	}
	if err := f.SetColWidth(orderSheet, "A", "B", 24); err != nil {
		return nil, fmt.Errorf("failed to size columns: %w", err)
	}

	return finish(f)
}

func OrdersReportName(at time.Time) string {
	return fmt.Sprintf("orders_%s.xlsx", at.Format("20060102_1504"))
}

func OrderReportName(o shop.Order) string {
	return fmt.Sprintf("order_%s_%s.xlsx", o.ShortID(), o.CreatedAt.Format("20060102_1504"))
}

func orderCells(o shop.Order) []interface{} {
	var width, height interface{}
	if o.Spec.CustomWidth != nil {
		width = o.Spec.CustomWidth.InexactFloat64()
	}
	if o.Spec.CustomHeight != nil {
		height = o.Spec.CustomHeight.InexactFloat64()
	}
	q := o.Quote
	return []interface{}{
		o.ID.String(),
		o.CreatedAt.Format("2006-01-02 15:04"),
		string(o.Status),
		string(o.Source),
		o.Customer.Name,
		o.Customer.Phone,
		o.Customer.Email,
		o.Spec.PaperSize,
		width,
		height,
		o.Spec.Material,
		o.Spec.Weight,
		o.Spec.ColorMode,
		string(o.Spec.Sides),
		o.Spec.Lamination,
		strings.Join(o.Spec.AddOns, ", "),
		o.Spec.Quantity,
		q.UnitPrice.InexactFloat64(),
		q.RawTotal.InexactFloat64(),
		q.DiscountRate.InexactFloat64(),
		q.DiscountAmount.InexactFloat64(),
		q.FinalTotal.InexactFloat64(),
		o.Notes,
	}
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

func finish(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
