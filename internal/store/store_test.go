package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/diewo77/commcentre/internal/db"
	"github.com/diewo77/commcentre/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(gdb)
}

func TestProductCRUD(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	p := &models.Product{Name: "Envelope", Category: "Stationery", SellingPrice: decimal.NewFromInt(15), StockQuantity: 40, DateAdded: time.Now()}
	if err := st.CreateProduct(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == 0 {
		t.Fatal("expected id to be assigned")
	}

	p.Name = "Envelope A5"
	p.Category = ""
	p.StockQuantity = 0
	if err := st.UpdateProduct(ctx, p); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := st.GetProduct(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Envelope A5" || got.Category != "" || got.StockQuantity != 0 {
		t.Fatalf("zero values not written: %+v", got)
	}

	if err := st.SetStock(ctx, p.ID, -3); err != nil {
		t.Fatalf("set stock: %v", err)
	}
	got, _ = st.GetProduct(ctx, p.ID)
	if got.StockQuantity != -3 {
		t.Fatalf("stock = %d, want -3", got.StockQuantity)
	}

	if err := st.DeleteProduct(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.GetProduct(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get after delete: %v", err)
	}
	if err := st.DeleteProduct(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
	if err := st.UpdateProduct(ctx, &models.Product{ID: 999, Name: "ghost"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update missing: %v", err)
	}
}

func TestLowStockAndProductsByID(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()
	var ids []uint
	for i, qty := range []int{0, 4, 5, 100} {
		p := &models.Product{Name: fmt.Sprintf("p%d", i), StockQuantity: qty, DateAdded: time.Now()}
		if err := st.CreateProduct(ctx, p); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, p.ID)
	}
	n, err := st.CountLowStock(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("low stock = %d, want 2", n)
	}

	byID, err := st.ProductsByID(ctx, []uint{ids[0], ids[3], 12345})
	if err != nil {
		t.Fatal(err)
	}
	if len(byID) != 2 {
		t.Fatalf("products by id = %d, want 2", len(byID))
	}
	if _, ok := byID[12345]; ok {
		t.Fatal("missing id should be absent")
	}
	empty, err := st.ProductsByID(ctx, nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("empty lookup: %v %v", empty, err)
	}
}

func TestSalesOrderingAndRange(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		s := &models.Sale{
			Reference: fmt.Sprintf("ref-%d", i),
			Date:      base.Add(time.Duration(i) * 6 * time.Hour),
			Items: []models.SaleItem{
				{ProductID: 1, Name: "first", Price: decimal.NewFromInt(1), Quantity: 1, Total: decimal.NewFromInt(1)},
				{ProductID: 2, Name: "second", Price: decimal.NewFromInt(2), Quantity: 1, Total: decimal.NewFromInt(2)},
			},
			SubTotal:      decimal.NewFromInt(3),
			TotalAmount:   decimal.NewFromInt(3),
			PaymentMethod: models.PaymentMethodCash,
		}
		if err := st.CreateSale(ctx, s); err != nil {
			t.Fatalf("create sale %d: %v", i, err)
		}
	}

	recent, err := st.RecentSales(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 5 {
		t.Fatalf("recent = %d, want 5", len(recent))
	}
	if recent[0].Reference != "ref-6" || recent[4].Reference != "ref-2" {
		t.Fatalf("unexpected order: %s .. %s", recent[0].Reference, recent[4].Reference)
	}
	if recent[0].Items[0].Name != "first" || recent[0].Items[1].Name != "second" {
		t.Fatalf("items out of order: %+v", recent[0].Items)
	}

	day := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	inDay, err := st.SalesBetween(ctx, day, day.Add(24*time.Hour-time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	// 08:00, 14:00, 20:00 on May 1st.
	if len(inDay) != 3 {
		t.Fatalf("sales in day = %d, want 3", len(inDay))
	}
	n, _ := st.CountSales(ctx)
	if n != 7 {
		t.Fatalf("count = %d", n)
	}
}

func TestJobsQueriesAndFullUpdate(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()
	deadline := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	for i, status := range []models.JobStatus{models.JobStatusPending, models.JobStatusCompleted, models.JobStatusPrinting, models.JobStatusPending} {
		j := &models.Job{CustomerName: fmt.Sprintf("c%d", i), JobType: "t", Status: status, Deadline: &deadline, DateCreated: time.Now()}
		if err := st.CreateJob(ctx, j); err != nil {
			t.Fatal(err)
		}
	}
	n, err := st.CountJobsWithStatus(ctx, models.JobStatusPending)
	if err != nil || n != 2 {
		t.Fatalf("pending = %d (%v)", n, err)
	}
	active, err := st.JobsWithStatus(ctx, 10, models.JobStatusPending, models.JobStatusPrinting)
	if err != nil || len(active) != 3 {
		t.Fatalf("active = %d (%v)", len(active), err)
	}

	j, _ := st.GetJob(ctx, 1)
	j.Deadline = nil
	j.Contact = ""
	j.Status = models.JobStatusDesigning
	if err := st.UpdateJob(ctx, j); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := st.GetJob(ctx, 1)
	if got.Deadline != nil || got.Status != models.JobStatusDesigning {
		t.Fatalf("full replacement not applied: %+v", got)
	}
	if err := st.UpdateJob(ctx, &models.Job{ID: 77}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update missing: %v", err)
	}
}

func TestTransactionRollback(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")
	err := st.Transaction(ctx, func(tx *Store) error {
		if err := tx.CreateProduct(ctx, &models.Product{Name: "tmp", DateAdded: time.Now()}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	products, _ := st.ListProducts(ctx)
	if len(products) != 0 {
		t.Fatalf("rollback left %d products", len(products))
	}
}
