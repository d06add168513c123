package service

import (
	"time"

	"go-pos-engine/internal/repository"
)

// ReportService exposes recognized-revenue figures (gross committed sales
// minus the income reversed by returns) and daily unit movement.
type ReportService interface {
	GetRevenueSummary(start, end time.Time) (*repository.RevenueSummary, error)
	GetStockMovement(days int) ([]repository.StockMovementData, error)
}

type reportService struct {
	saleRepo repository.SaleRepository
}

func NewReportService(saleRepo repository.SaleRepository) ReportService {
	return &reportService{saleRepo: saleRepo}
}

func (s *reportService) GetRevenueSummary(start, end time.Time) (*repository.RevenueSummary, error) {
	return s.saleRepo.GetRevenueSummary(start, end)
}

func (s *reportService) GetStockMovement(days int) ([]repository.StockMovementData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.saleRepo.GetStockMovement(startDate, endDate)
}
