// Package excelsync moves shipment data between the warehouse's Excel
// workbook and the store. The workbook keeps the layout the floor staff
// already use: one sheet per direction and source, plus the reference sheets.
// An import replaces the shipment collections wholesale; row-level problems
// are collected, never fatal. Every run is recorded in the sync log.
package excelsync

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/zbergm/load-board-app/internal/models"
	"github.com/zbergm/load-board-app/store"
)

// Workbook sheet names. These match the operators' spreadsheet.
const (
	sheetTPInbound     = "TP INBOUND"
	sheetOtherInbound  = "OTHERINBOUND"
	sheetTPOutbound    = "TP OUTBOUND"
	sheetOtherOutbound = "OTHEROUTBOUND"
	sheetReference     = "Carriers&Customers"
	sheetProducts      = "Product Counts"
)

// Service syncs the workbook at path with the store.
type Service struct {
	store store.Store
	path  string
}

func New(st store.Store, path string) *Service {
	return &Service{store: st, path: path}
}

// Import reads the workbook and replaces the shipment collections with its
// contents. Reference rows are merged (duplicates ignored) rather than
// replaced. Unparseable rows are skipped and reported in the result.
func (s *Service) Import(ctx context.Context) (models.SyncResult, error) {
	if _, err := os.Stat(s.path); err != nil {
		msg := fmt.Sprintf("workbook not found: %s", s.path)
		s.logRun(ctx, models.SyncTypeImport, "error", 0, msg)
		return models.SyncResult{Success: false, Message: msg, Errors: []string{msg}}, nil
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		msg := fmt.Sprintf("failed to open workbook: %v", err)
		s.logRun(ctx, models.SyncTypeImport, "error", 0, msg)
		return models.SyncResult{Success: false, Message: msg, Errors: []string{msg}}, nil
	}
	defer f.Close()

	var (
		inbound   []models.InboundShipment
		outbound  []models.OutboundShipment
		rowErrors []string
		processed int
	)

	for _, m := range []struct {
		sheet  string
		source string
	}{
		{sheetTPInbound, models.SourceTP},
		{sheetOtherInbound, models.SourceOther},
	} {
		rows, err := f.GetRows(m.sheet)
		if err != nil {
			continue // sheet missing is fine
		}
		parsed, errs := parseInboundRows(rows, m.source)
		inbound = append(inbound, parsed...)
		rowErrors = append(rowErrors, errs...)
		processed += len(parsed)
	}

	for _, m := range []struct {
		sheet  string
		source string
	}{
		{sheetTPOutbound, models.SourceTP},
		{sheetOtherOutbound, models.SourceOther},
	} {
		rows, err := f.GetRows(m.sheet)
		if err != nil {
			continue
		}
		parsed, errs := parseOutboundRows(rows, m.source)
		outbound = append(outbound, parsed...)
		rowErrors = append(rowErrors, errs...)
		processed += len(parsed)
	}

	if err := s.store.ReplaceAllInbound(ctx, inbound); err != nil {
		return models.SyncResult{}, err
	}
	if err := s.store.ReplaceAllOutbound(ctx, outbound); err != nil {
		return models.SyncResult{}, err
	}

	refCount, err := s.importReference(ctx, f)
	if err != nil {
		return models.SyncResult{}, err
	}
	processed += refCount

	prodCount, err := s.importProducts(ctx, f)
	if err != nil {
		return models.SyncResult{}, err
	}
	processed += prodCount

	s.logRun(ctx, models.SyncTypeImport, "success", processed, strings.Join(rowErrors, "; "))
	return models.SyncResult{
		Success:          true,
		Message:          fmt.Sprintf("imported %d records", processed),
		RecordsProcessed: processed,
		Errors:           rowErrors,
	}, nil
}

// Export writes the current store contents to the workbook, overwriting it.
func (s *Service) Export(ctx context.Context) (models.SyncResult, error) {
	inbound, err := s.store.ListInbound(ctx)
	if err != nil {
		return models.SyncResult{}, err
	}
	outbound, err := s.store.ListOutbound(ctx)
	if err != nil {
		return models.SyncResult{}, err
	}
	carriers, err := s.store.ListCarriers(ctx)
	if err != nil {
		return models.SyncResult{}, err
	}
	customers, err := s.store.ListCustomers(ctx)
	if err != nil {
		return models.SyncResult{}, err
	}
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return models.SyncResult{}, err
	}

	f := excelize.NewFile()
	defer f.Close()

	for _, sheet := range []string{
		sheetTPInbound, sheetOtherInbound, sheetTPOutbound, sheetOtherOutbound,
		sheetReference, sheetProducts,
	} {
		if _, err := f.NewSheet(sheet); err != nil {
			return models.SyncResult{}, fmt.Errorf("failed to create sheet %s: %v", sheet, err)
		}
	}
	f.DeleteSheet("Sheet1")

	processed := 0
	processed += writeInboundSheet(f, sheetTPInbound, models.SourceTP, inbound)
	processed += writeInboundSheet(f, sheetOtherInbound, models.SourceOther, inbound)
	processed += writeOutboundSheet(f, sheetTPOutbound, models.SourceTP, outbound)
	processed += writeOutboundSheet(f, sheetOtherOutbound, models.SourceOther, outbound)
	writeReferenceSheet(f, carriers, customers)
	writeProductsSheet(f, products)

	if err := f.SaveAs(s.path); err != nil {
		msg := fmt.Sprintf("failed to save workbook: %v", err)
		s.logRun(ctx, models.SyncTypeExport, "error", 0, msg)
		return models.SyncResult{Success: false, Message: msg, Errors: []string{msg}}, nil
	}

	s.logRun(ctx, models.SyncTypeExport, "success", processed, "")
	return models.SyncResult{
		Success:          true,
		Message:          fmt.Sprintf("exported %d records", processed),
		RecordsProcessed: processed,
	}, nil
}

// Status reports the most recent sync run.
func (s *Service) Status(ctx context.Context) (models.SyncStatus, error) {
	entries, err := s.store.ListSyncLog(ctx, 1)
	if err != nil {
		return models.SyncStatus{}, err
	}
	if len(entries) == 0 {
		return models.SyncStatus{}, nil
	}
	e := entries[0]
	ts := e.Timestamp
	return models.SyncStatus{
		LastSync:         &ts,
		SyncType:         e.SyncType,
		Status:           e.Status,
		RecordsProcessed: e.RecordsProcessed,
	}, nil
}

// History lists recent sync runs, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]models.SyncLogEntry, error) {
	return s.store.ListSyncLog(ctx, limit)
}

func (s *Service) logRun(ctx context.Context, syncType, status string, records int, details string) {
	_, err := s.store.AppendSyncLog(ctx, models.SyncLogEntry{
		SyncType:         syncType,
		Status:           status,
		RecordsProcessed: records,
		Details:          details,
	})
	if err != nil {
		log.Printf("failed to record %s sync run: %v", syncType, err)
	}
}

func (s *Service) importReference(ctx context.Context, f *excelize.File) (int, error) {
	rows, err := f.GetRows(sheetReference)
	if err != nil {
		return 0, nil
	}
	count := 0
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if name := cell(row, 0); name != "" {
			if _, err := s.store.CreateCarrier(ctx, name); err == nil {
				count++
			} else if err != store.ErrDuplicate {
				return count, err
			}
		}
		if name := cell(row, 1); name != "" {
			if _, err := s.store.CreateCustomer(ctx, name); err == nil {
				count++
			} else if err != store.ErrDuplicate {
				return count, err
			}
		}
	}
	return count, nil
}

func (s *Service) importProducts(ctx context.Context, f *excelize.File) (int, error) {
	rows, err := f.GetRows(sheetProducts)
	if err != nil {
		return 0, nil
	}
	count := 0
	for i, row := range rows {
		if i == 0 || cell(row, 0) == "" {
			continue
		}
		p := models.Product{
			ItemNumber:      cell(row, 0),
			ItemsPerCase:    parseInt(cell(row, 1)),
			ItemsPerPallet:  parseInt(cell(row, 2)),
			CasesPerPallet:  parseInt(cell(row, 3)),
			LayersPerPallet: parseInt(cell(row, 4)),
			CasesPerLayer:   parseInt(cell(row, 5)),
			Notes:           cell(row, 6),
		}
		if _, err := s.store.CreateProduct(ctx, p); err == nil {
			count++
		} else if err != store.ErrDuplicate {
			return count, err
		}
	}
	return count, nil
}

// parseInboundRows maps sheet rows to inbound records. The TP sheet carries a
// receipt number column the OTHER sheet does not, which shifts everything
// after it.
func parseInboundRows(rows [][]string, source string) ([]models.InboundShipment, []string) {
	var (
		out  []models.InboundShipment
		errs []string
	)
	for i, row := range rows {
		if i == 0 || blankRow(row) {
			continue
		}
		sh := models.InboundShipment{
			Source:     source,
			ItemNumber: cell(row, 0),
			Cases:      parseInt(cell(row, 1)),
			PO:         cell(row, 2),
			Carrier:    cell(row, 3),
			BOLNumber:  cell(row, 4),
		}
		if source == models.SourceTP {
			sh.TPReceiptNumber = cell(row, 5)
			sh.ShipDate = parseDate(cell(row, 6))
			sh.Received = parseBool(cell(row, 7))
			sh.Pallets = parsePallets(cell(row, 8))
			sh.Notes = cell(row, 9)
		} else {
			sh.ShipDate = parseDate(cell(row, 5))
			sh.Received = parseBool(cell(row, 6))
			sh.Pallets = parsePallets(cell(row, 7))
			sh.Notes = cell(row, 8)
		}
		if err := sh.Validate(); err != nil {
			errs = append(errs, fmt.Sprintf("%s row %d: %v", source, i+1, err))
			continue
		}
		out = append(out, sh)
	}
	return out, errs
}

func parseOutboundRows(rows [][]string, source string) ([]models.OutboundShipment, []string) {
	var (
		out  []models.OutboundShipment
		errs []string
	)
	for i, row := range rows {
		if i == 0 || blankRow(row) {
			continue
		}
		// Rows without an order number are spreadsheet scaffolding, not loads.
		if cell(row, 1) == "" {
			continue
		}
		shipped, delayed := parseShipped(cell(row, 5))
		sh := models.OutboundShipment{
			Source:          source,
			ReferenceNumber: cell(row, 0),
			OrderNumber:     cell(row, 1),
			Customer:        cell(row, 2),
			ShipDate:        parseDate(cell(row, 3)),
			Carrier:         cell(row, 4),
			Shipped:         shipped,
			Delayed:         delayed,
		}
		if source == models.SourceTP {
			sh.Pallets = parsePallets(cell(row, 6))
			sh.Pro = cell(row, 7)
			sh.Seal = cell(row, 8)
			sh.Notes = cell(row, 9)
			sh.PickupTime = cell(row, 10)
		} else {
			sh.ActualDate = parseDate(cell(row, 6))
			sh.Pallets = parsePallets(cell(row, 7))
			sh.Pro = cell(row, 8)
			sh.Seal = cell(row, 9)
			sh.Notes = cell(row, 10)
		}
		if err := sh.Validate(); err != nil {
			errs = append(errs, fmt.Sprintf("%s row %d: %v", source, i+1, err))
			continue
		}
		out = append(out, sh)
	}
	return out, errs
}

func writeInboundSheet(f *excelize.File, sheet, source string, all []models.InboundShipment) int {
	if source == models.SourceTP {
		setRow(f, sheet, 1, "Item #", "Cases", "PO", "Carrier", "BOL #", "TP Receipt #", "Date", "Received", "Pallets", "Notes")
	} else {
		setRow(f, sheet, 1, "Item #", "Cases", "PO", "Carrier", "BOL #", "Date", "Received", "Pallets", "Notes")
	}
	row := 2
	for _, sh := range all {
		if sh.Source != source {
			continue
		}
		if source == models.SourceTP {
			setRow(f, sheet, row, sh.ItemNumber, intCell(sh.Cases), sh.PO, sh.Carrier, sh.BOLNumber,
				sh.TPReceiptNumber, dateCell(sh.ShipDate), boolCell(sh.Received), palletsCell(sh.Pallets), sh.Notes)
		} else {
			setRow(f, sheet, row, sh.ItemNumber, intCell(sh.Cases), sh.PO, sh.Carrier, sh.BOLNumber,
				dateCell(sh.ShipDate), boolCell(sh.Received), palletsCell(sh.Pallets), sh.Notes)
		}
		row++
	}
	return row - 2
}

func writeOutboundSheet(f *excelize.File, sheet, source string, all []models.OutboundShipment) int {
	if source == models.SourceTP {
		setRow(f, sheet, 1, "Reference #", "Order #", "Customer", "Ship Date", "Carrier", "Shipped", "Pallets", "Pro", "Seal", "Notes", "Time")
	} else {
		setRow(f, sheet, 1, "Reference #", "Order #", "Customer", "Ship Date", "Carrier", "Shipped", "Actual Date", "Pallets", "Pro", "Seal", "Notes")
	}
	row := 2
	for _, sh := range all {
		if sh.Source != source {
			continue
		}
		if source == models.SourceTP {
			setRow(f, sheet, row, sh.ReferenceNumber, sh.OrderNumber, sh.Customer, dateCell(sh.ShipDate),
				sh.Carrier, shippedCell(sh.Shipped, sh.Delayed), palletsCell(sh.Pallets), sh.Pro, sh.Seal, sh.Notes, sh.PickupTime)
		} else {
			setRow(f, sheet, row, sh.ReferenceNumber, sh.OrderNumber, sh.Customer, dateCell(sh.ShipDate),
				sh.Carrier, shippedCell(sh.Shipped, sh.Delayed), dateCell(sh.ActualDate), palletsCell(sh.Pallets), sh.Pro, sh.Seal, sh.Notes)
		}
		row++
	}
	return row - 2
}

func writeReferenceSheet(f *excelize.File, carriers []models.Carrier, customers []models.Customer) {
	setRow(f, sheetReference, 1, "Carriers", "Customers")
	for i, c := range carriers {
		setCell(f, sheetReference, 1, i+2, c.Name)
	}
	for i, c := range customers {
		setCell(f, sheetReference, 2, i+2, c.Name)
	}
}

func writeProductsSheet(f *excelize.File, products []models.Product) {
	setRow(f, sheetProducts, 1, "Item #", "Items/Case", "Items/Pallet", "Cases/Pallet", "Layers/Pallet", "Cases/Layer", "Notes")
	for i, p := range products {
		setRow(f, sheetProducts, i+2, p.ItemNumber, intCell(p.ItemsPerCase), intCell(p.ItemsPerPallet),
			intCell(p.CasesPerPallet), intCell(p.LayersPerPallet), intCell(p.CasesPerLayer), p.Notes)
	}
}

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) {
	for i, v := range values {
		setCell(f, sheet, i+1, row, v)
	}
}

func setCell(f *excelize.File, sheet string, col, row int, v interface{}) {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return
	}
	f.SetCellValue(sheet, name, v)
}

// --- cell parsing ---

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// dateFormats covers the ways dates show up in the workbook.
var dateFormats = []string{"2006-01-02", "01/02/2006", "1/2/2006", "01/02/06", "1/2/06"}

func parseDate(s string) *models.Date {
	if s == "" {
		return nil
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			d := models.DateOf(t)
			return &d
		}
	}
	return nil
}

func parseBool(s string) bool {
	switch strings.ToUpper(s) {
	case "YES", "Y", "TRUE", "1", "X":
		return true
	}
	return false
}

// parseShipped reads the outbound Shipped column, where operators mark late
// loads "Yes-Delayed".
func parseShipped(s string) (shipped, delayed bool) {
	switch strings.ToUpper(s) {
	case "YES-DELAYED", "YES,DELAYED", "YES, DELAYED", "YES-LATE", "YES,LATE", "YES, LATE":
		return true, true
	case "YES", "Y", "TRUE", "1", "X":
		return true, false
	}
	return false, false
}

func parseInt(s string) *int64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	n := int64(v)
	return &n
}

func parsePallets(s string) decimal.NullDecimal {
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// --- cell formatting ---

func dateCell(d *models.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func boolCell(b bool) string {
	if b {
		return "Yes"
	}
	return ""
}

func shippedCell(shipped, delayed bool) string {
	switch {
	case shipped && delayed:
		return "Yes-Delayed"
	case shipped:
		return "Yes"
	}
	return ""
}

func intCell(v *int64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func palletsCell(d decimal.NullDecimal) interface{} {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
