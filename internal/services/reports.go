package services

import (
	"context"
	"time"

	"github.com/diewo77/commcentre/internal/models"
	"github.com/diewo77/commcentre/internal/store"
	"github.com/shopspring/decimal"
)

const (
	recentSalesLimit = 5
	activeJobsLimit  = 5
)

// ReportService aggregates read-only figures for the dashboard and the daily report.
type ReportService struct {
	store    *store.Store
	lowStock int
	now      func() time.Time
}

func NewReportService(st *store.Store, lowStockThreshold int) *ReportService {
	return &ReportService{store: st, lowStock: lowStockThreshold, now: time.Now}
}

// Dashboard is the landing page summary.
type Dashboard struct {
	TodaySales    decimal.Decimal `json:"today_sales"`
	PendingJobs   int64           `json:"pending_jobs"`
	CompletedJobs int64           `json:"completed_jobs"`
	LowStock      int64           `json:"low_stock"`
	RecentSales   []models.Sale   `json:"recent_sales"`
	ActiveJobs    []models.Job    `json:"active_jobs"`
}

func (s *ReportService) Dashboard(ctx context.Context) (*Dashboard, error) {
	start, end := DayBounds(s.now())
	today, err := s.store.SalesBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	d := &Dashboard{TodaySales: sumTotals(today)}
	if d.PendingJobs, err = s.store.CountJobsWithStatus(ctx, models.JobStatusPending); err != nil {
		return nil, err
	}
	if d.CompletedJobs, err = s.store.CountJobsWithStatus(ctx, models.JobStatusCompleted); err != nil {
		return nil, err
	}
	if d.LowStock, err = s.store.CountLowStock(ctx, s.lowStock); err != nil {
		return nil, err
	}
	if d.RecentSales, err = s.store.RecentSales(ctx, recentSalesLimit); err != nil {
		return nil, err
	}
	d.ActiveJobs, err = s.store.JobsWithStatus(ctx, activeJobsLimit,
		models.JobStatusPending, models.JobStatusDesigning, models.JobStatusPrinting)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// DailyReport covers the sales of one calendar day.
// Cost uses today's product cost prices; deleted products count as zero cost.
type DailyReport struct {
	Date            string          `json:"date"`
	Revenue         decimal.Decimal `json:"revenue"`
	SaleCount       int             `json:"sale_count"`
	EstimatedCost   decimal.Decimal `json:"estimated_cost"`
	EstimatedProfit decimal.Decimal `json:"estimated_profit"`
	Sales           []models.Sale   `json:"sales"`
}

func (s *ReportService) Daily(ctx context.Context, day time.Time) (*DailyReport, error) {
	start, end := DayBounds(day)
	sales, err := s.store.SalesBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	var ids []uint
	seen := map[uint]bool{}
	for _, sale := range sales {
		for _, it := range sale.Items {
			if !seen[it.ProductID] {
				seen[it.ProductID] = true
				ids = append(ids, it.ProductID)
			}
		}
	}
	products, err := s.store.ProductsByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	cost := decimal.Zero
	for _, sale := range sales {
		for _, it := range sale.Items {
			if p, ok := products[it.ProductID]; ok {
				cost = cost.Add(p.CostPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
			}
		}
	}
	revenue := sumTotals(sales)
	return &DailyReport{
		Date:            start.Format(models.DeadlineLayout),
		Revenue:         revenue,
		SaleCount:       len(sales),
		EstimatedCost:   cost,
		EstimatedProfit: revenue.Sub(cost),
		Sales:           sales,
	}, nil
}

// DayBounds returns the first and last instant of t's calendar day in t's location.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return start, end
}

func sumTotals(sales []models.Sale) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sales {
		total = total.Add(s.TotalAmount)
	}
	return total
}
