package repository

import (
	"errors"
	"sort"
	"time"

	"go-pos-engine/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaleRepository interface {
	Create(tx *gorm.DB, sale *model.Sale) error
	FindAll(limit, offset int) ([]model.Sale, error)
	FindByID(id uuid.UUID) (*model.Sale, error)
	FindByIdempotencyKey(key string) (*model.Sale, error)

	// LockByID and LockLines take FOR UPDATE row locks so concurrent
	// returns against the same sale serialize.
	LockByID(tx *gorm.DB, id uuid.UUID) (*model.Sale, error)
	LockLines(tx *gorm.DB, saleID uuid.UUID, lineIDs []uuid.UUID) ([]model.SaleLineItem, error)

	AddReturned(tx *gorm.DB, lineID uuid.UUID, qty int) error
	SearchSaleIDs(term string, limit int) ([]uuid.UUID, error)
	FindWithLines(ids []uuid.UUID) ([]model.Sale, error)

	GetRevenueSummary(start, end time.Time) (*RevenueSummary, error)
	GetStockMovement(start, end time.Time) ([]StockMovementData, error)
}

// RevenueSummary is recognized revenue over a period: gross committed sales
// minus the income reversed by returns. Margin comes off the cost snapshots
// taken at commit time, so later catalog edits do not rewrite history.
type RevenueSummary struct {
	GrossSales     decimal.Decimal `json:"gross_sales"`
	ReversedIncome decimal.Decimal `json:"reversed_income"`
	NetRevenue     decimal.Decimal `json:"net_revenue"`
	GrossMargin    decimal.Decimal `json:"gross_margin"`
	SaleCount      int64           `json:"sale_count"`
	ReturnCount    int64           `json:"return_count"`
}

// StockMovementData aggregates units sold and returned per day.
type StockMovementData struct {
	Date     string `json:"date"`
	Sold     int    `json:"sold"`
	Returned int    `json:"returned"`
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) Create(tx *gorm.DB, sale *model.Sale) error {
	return tx.Create(sale).Error
}

func (r *saleRepo) FindAll(limit, offset int) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.Preload("Lines").Preload("Customer").
		Order("occurred_at DESC").
		Limit(limit).Offset(offset).
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) FindByID(id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	if err := r.db.Preload("Lines").Preload("Customer").First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrSaleNotFound
		}
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepo) FindByIdempotencyKey(key string) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.Preload("Lines").First(&sale, "idempotency_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepo) LockByID(tx *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, model.ErrSaleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepo) LockLines(tx *gorm.DB, saleID uuid.UUID, lineIDs []uuid.UUID) ([]model.SaleLineItem, error) {
	var lines []model.SaleLineItem
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("sale_id = ? AND id IN ?", saleID, lineIDs).
		Order("id").
		Find(&lines).Error
	return lines, err
}

func (r *saleRepo) AddReturned(tx *gorm.DB, lineID uuid.UUID, qty int) error {
	return tx.Model(&model.SaleLineItem{}).
		Where("id = ?", lineID).
		Updates(map[string]interface{}{
			"quantity_returned": gorm.Expr("quantity_returned + ?", qty),
		}).Error
}

// SearchSaleIDs locates sales by exact id, customer name, or line-item
// product code/name snapshot.
func (r *saleRepo) SearchSaleIDs(term string, limit int) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	add := func(batch []uuid.UUID) {
		for _, id := range batch {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	if id, err := uuid.Parse(term); err == nil {
		var n int64
		if err := r.db.Model(&model.Sale{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return nil, err
		}
		if n > 0 {
			add([]uuid.UUID{id})
		}
	}

	pattern := "%" + term + "%"

	var lineSaleIDs []uuid.UUID
	err := r.db.Model(&model.SaleLineItem{}).
		Distinct("sale_id").
		Where("product_code_snapshot ILIKE ? OR product_name_snapshot ILIKE ?", pattern, pattern).
		Limit(limit).
		Pluck("sale_id", &lineSaleIDs).Error
	if err != nil {
		return nil, err
	}
	add(lineSaleIDs)

	var custSaleIDs []uuid.UUID
	err = r.db.Model(&model.Sale{}).
		Joins("JOIN customers ON customers.id = sales.customer_id").
		Where("customers.name ILIKE ?", pattern).
		Limit(limit).
		Pluck("sales.id", &custSaleIDs).Error
	if err != nil {
		return nil, err
	}
	add(custSaleIDs)

	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (r *saleRepo) FindWithLines(ids []uuid.UUID) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.Preload("Lines").Preload("Customer").
		Where("id IN ?", ids).
		Order("occurred_at DESC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) GetRevenueSummary(start, end time.Time) (*RevenueSummary, error) {
	var summary RevenueSummary

	row := struct {
		Total decimal.Decimal
		Count int64
	}{}
	err := r.db.Model(&model.Sale{}).
		Select("COALESCE(SUM(total), 0) AS total, COUNT(*) AS count").
		Where("occurred_at BETWEEN ? AND ?", start, end).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	summary.GrossSales = row.Total
	summary.SaleCount = row.Count

	err = r.db.Model(&model.Return{}).
		Select("COALESCE(SUM(income_reversed), 0) AS total, COUNT(*) AS count").
		Where("occurred_at BETWEEN ? AND ?", start, end).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	summary.ReversedIncome = row.Total
	summary.ReturnCount = row.Count

	var margin decimal.Decimal
	err = r.db.Model(&model.SaleLineItem{}).
		Joins("JOIN sales ON sales.id = sale_line_items.sale_id").
		Where("sales.occurred_at BETWEEN ? AND ?", start, end).
		Select("COALESCE(SUM(sale_line_items.subtotal - sale_line_items.product_cost_snapshot * sale_line_items.quantity), 0)").
		Scan(&margin).Error
	if err != nil {
		return nil, err
	}
	summary.GrossMargin = margin

	summary.NetRevenue = summary.GrossSales.Sub(summary.ReversedIncome)
	return &summary, nil
}

func (r *saleRepo) GetStockMovement(start, end time.Time) ([]StockMovementData, error) {
	perDay := make(map[string]*StockMovementData)

	rows, err := r.db.Model(&model.SaleLineItem{}).
		Joins("JOIN sales ON sales.id = sale_line_items.sale_id").
		Where("sales.occurred_at BETWEEN ? AND ?", start, end).
		Select("DATE(sales.occurred_at) AS date, COALESCE(SUM(sale_line_items.quantity), 0) AS qty").
		Group("DATE(sales.occurred_at)").
		Rows()
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var date string
		var qty int
		if err := rows.Scan(&date, &qty); err != nil {
			rows.Close()
			return nil, err
		}
		perDay[date] = &StockMovementData{Date: date, Sold: qty}
	}
	rows.Close()

	rows, err = r.db.Model(&model.ReturnLineItem{}).
		Joins("JOIN returns ON returns.id = return_line_items.return_id").
		Where("returns.occurred_at BETWEEN ? AND ?", start, end).
		Select("DATE(returns.occurred_at) AS date, COALESCE(SUM(return_line_items.quantity), 0) AS qty").
		Group("DATE(returns.occurred_at)").
		Rows()
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var date string
		var qty int
		if err := rows.Scan(&date, &qty); err != nil {
			rows.Close()
			return nil, err
		}
		if d, ok := perDay[date]; ok {
			d.Returned = qty
		} else {
			perDay[date] = &StockMovementData{Date: date, Returned: qty}
		}
	}
	rows.Close()

	dates := make([]string, 0, len(perDay))
	for date := range perDay {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	results := make([]StockMovementData, 0, len(dates))
	for _, date := range dates {
		results = append(results, *perDay[date])
	}
	return results, nil
}
