package service

import (
	"errors"

	"go-pos-engine/internal/model"
	"go-pos-engine/internal/money"
	"go-pos-engine/internal/repository"
	"go-pos-engine/pkg/validator"

	"github.com/google/uuid"
)

// CatalogService is the thin catalog layer the engine sells out of:
// products with stock and the customers credits belong to.
type CatalogService interface {
	CreateProduct(req *model.Product) error
	UpdateProduct(id uuid.UUID, req *model.Product) (*model.Product, error)
	GetProducts() ([]model.Product, error)

	CreateCustomer(req *model.Customer) error
	UpdateCustomer(id uuid.UUID, req *model.Customer) (*model.Customer, error)
	GetCustomers() ([]model.Customer, error)
	GetCustomer(id uuid.UUID) (*model.Customer, error)
}

type catalogService struct {
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
}

func NewCatalogService(pRepo repository.ProductRepository, cRepo repository.CustomerRepository) CatalogService {
	return &catalogService{productRepo: pRepo, customerRepo: cRepo}
}

func (s *catalogService) CreateProduct(req *model.Product) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return validator.FirstError(errs)
	}

	req.Price = money.Sanitize(req.Price)
	req.Cost = money.Sanitize(req.Cost)
	if req.Price.IsNegative() {
		return model.ErrInvalidPrice
	}
	if req.Kind == "" {
		req.Kind = model.KindProduct
	}

	existing, _ := s.productRepo.FindByCode(req.Code)
	if existing != nil && existing.ID != uuid.Nil {
		return errors.New("product code already exists")
	}

	return s.productRepo.Create(req)
}

func (s *catalogService) UpdateProduct(id uuid.UUID, req *model.Product) (*model.Product, error) {
	existing, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	price := money.Sanitize(req.Price)
	if price.IsNegative() {
		return nil, model.ErrInvalidPrice
	}

	existing.Code = req.Code
	existing.Name = req.Name
	existing.Price = price
	existing.Cost = money.Sanitize(req.Cost)
	existing.Active = req.Active
	if req.Kind != "" {
		existing.Kind = req.Kind
	}

	if err := s.productRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *catalogService) GetProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *catalogService) CreateCustomer(req *model.Customer) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return validator.FirstError(errs)
	}
	return s.customerRepo.Create(req)
}

func (s *catalogService) UpdateCustomer(id uuid.UUID, req *model.Customer) (*model.Customer, error) {
	existing, err := s.customerRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	existing.Name = req.Name
	existing.Phone = req.Phone
	existing.Email = req.Email
	existing.Notes = req.Notes

	if err := s.customerRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *catalogService) GetCustomers() ([]model.Customer, error) {
	return s.customerRepo.FindAll()
}

func (s *catalogService) GetCustomer(id uuid.UUID) (*model.Customer, error) {
	return s.customerRepo.FindByID(id)
}
