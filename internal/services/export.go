package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/diewo77/commcentre/internal/models"
	"github.com/diewo77/commcentre/internal/store"
	"github.com/xuri/excelize/v2"
)

const (
	ExportJSON = "json"
	ExportXLSX = "xlsx"
)

// Snapshot is a full copy of the database.
type Snapshot struct {
	ExportedAt time.Time        `json:"exported_at"`
	Products   []models.Product `json:"products"`
	Sales      []models.Sale    `json:"sales"`
	Jobs       []models.Job     `json:"jobs"`
}

// ExportService produces backups. It never writes to the store.
type ExportService struct {
	store *store.Store
	now   func() time.Time
}

func NewExportService(st *store.Store) *ExportService {
	return &ExportService{store: st, now: time.Now}
}

func (s *ExportService) Snapshot(ctx context.Context) (*Snapshot, error) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("products: %w", err)
	}
	sales, err := s.store.ListSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("sales: %w", err)
	}
	jobs, err := s.store.ListJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("jobs: %w", err)
	}
	return &Snapshot{ExportedAt: s.now(), Products: products, Sales: sales, Jobs: jobs}, nil
}

// FileName returns the download name for a backup taken at t.
func FileName(format string, t time.Time) string {
	return fmt.Sprintf("CommCentre_Backup_%s.%s", t.Format("2006-01-02"), format)
}

func WriteJSON(w io.Writer, snap *Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// WriteXLSX writes one sheet per collection plus a sheet of sale lines.
func WriteXLSX(w io.Writer, snap *Snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Products"); err != nil {
		return err
	}
	rows := [][]any{{"ID", "Name", "Barcode", "Category", "CostPrice", "SellingPrice", "StockQuantity", "DateAdded"}}
	for _, p := range snap.Products {
		rows = append(rows, []any{p.ID, p.Name, p.Barcode, p.Category, p.CostPrice.InexactFloat64(), p.SellingPrice.InexactFloat64(), p.StockQuantity, p.DateAdded.Format(time.RFC3339)})
	}
	if err := writeRows(f, "Products", rows); err != nil {
		return err
	}

	rows = [][]any{{"ID", "Reference", "Date", "Items", "SubTotal", "Discount", "TotalAmount", "PaymentMethod"}}
	lines := [][]any{{"SaleID", "Line", "ProductID", "Name", "Price", "Quantity", "Total"}}
	for _, s := range snap.Sales {
		rows = append(rows, []any{s.ID, s.Reference, s.Date.Format(time.RFC3339), len(s.Items), s.SubTotal.InexactFloat64(), s.Discount.InexactFloat64(), s.TotalAmount.InexactFloat64(), s.PaymentMethod})
		for i, it := range s.Items {
			lines = append(lines, []any{s.ID, i + 1, it.ProductID, it.Name, it.Price.InexactFloat64(), it.Quantity, it.Total.InexactFloat64()})
		}
	}
	if err := writeRows(f, "Sales", rows); err != nil {
		return err
	}
	if err := writeRows(f, "SaleItems", lines); err != nil {
		return err
	}

	rows = [][]any{{"ID", "CustomerName", "Contact", "ContactE164", "JobType", "TotalAmount", "Advance", "Balance", "Status", "Deadline", "DateCreated"}}
	for _, j := range snap.Jobs {
		deadline := ""
		if j.Deadline != nil {
			deadline = j.Deadline.Format(models.DeadlineLayout)
		}
		rows = append(rows, []any{j.ID, j.CustomerName, j.Contact, j.ContactE164, j.JobType, j.TotalAmount.InexactFloat64(), j.Advance.InexactFloat64(), j.Balance().InexactFloat64(), string(j.Status), deadline, j.DateCreated.Format(time.RFC3339)})
	}
	if err := writeRows(f, "Jobs", rows); err != nil {
		return err
	}
	return f.Write(w)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
	}
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
