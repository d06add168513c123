package service

import (
	"errors"
	"testing"
	"time"

	"go-pos-engine/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

func TestBuildSaleDirectCashChange(t *testing.T) {
	now := time.Now()
	req := &CommitRequest{
		SaleType:      "DIRECT",
		PaymentMethod: "CASH",
		Items: []CommitItem{
			{ProductID: uuid.New(), Qty: 2, UnitPrice: dec(t, "10.00")},
		},
		PaidAmount: dec(t, "25.00"),
	}

	sale, err := buildSale(req, now)
	if err != nil {
		t.Fatalf("buildSale failed: %v", err)
	}
	if !sale.Total.Equal(dec(t, "20.00")) {
		t.Errorf("total = %s, want 20.00", sale.Total)
	}
	if !sale.AmountTendered.Equal(dec(t, "25.00")) {
		t.Errorf("tendered = %s, want 25.00", sale.AmountTendered)
	}
	if !sale.ChangeDue.Equal(dec(t, "5.00")) {
		t.Errorf("change = %s, want 5.00", sale.ChangeDue)
	}
	if len(sale.Lines) != 1 || !sale.Lines[0].Subtotal.Equal(dec(t, "20.00")) {
		t.Errorf("unexpected lines: %+v", sale.Lines)
	}
}

func TestBuildSaleDirectCashInsufficient(t *testing.T) {
	req := &CommitRequest{
		SaleType:      "DIRECT",
		PaymentMethod: "CASH",
		Items: []CommitItem{
			{ProductID: uuid.New(), Qty: 1, UnitPrice: dec(t, "50.00")},
		},
		PaidAmount: dec(t, "49.99"),
	}

	_, err := buildSale(req, time.Now())
	if !errors.Is(err, model.ErrInsufficientPayment) {
		t.Fatalf("err = %v, want ErrInsufficientPayment", err)
	}
}

func TestBuildSaleNonCashChargesExactTotal(t *testing.T) {
	req := &CommitRequest{
		SaleType:      "DIRECT",
		PaymentMethod: "CARD",
		Items: []CommitItem{
			{ProductID: uuid.New(), Qty: 3, UnitPrice: dec(t, "7.50")},
		},
		// Tendered amount is irrelevant for card payments.
		PaidAmount: decimal.Zero,
	}

	sale, err := buildSale(req, time.Now())
	if err != nil {
		t.Fatalf("buildSale failed: %v", err)
	}
	if !sale.AmountTendered.Equal(dec(t, "22.50")) {
		t.Errorf("tendered = %s, want 22.50", sale.AmountTendered)
	}
	if !sale.ChangeDue.IsZero() {
		t.Errorf("change = %s, want 0", sale.ChangeDue)
	}
}

func TestBuildSaleCreditInitialPayment(t *testing.T) {
	customerID := uuid.New()
	base := func() *CommitRequest {
		return &CommitRequest{
			SaleType:      "CREDIT",
			PaymentMethod: "CASH",
			CustomerID:    &customerID,
			Items: []CommitItem{
				{ProductID: uuid.New(), Qty: 4, UnitPrice: dec(t, "25.00")},
			},
		}
	}

	req := base()
	req.PaidAmount = dec(t, "30.00")
	sale, err := buildSale(req, time.Now())
	if err != nil {
		t.Fatalf("buildSale failed: %v", err)
	}
	if !sale.Total.Equal(dec(t, "100.00")) || !sale.AmountTendered.Equal(dec(t, "30.00")) {
		t.Errorf("total/tendered = %s/%s, want 100.00/30.00", sale.Total, sale.AmountTendered)
	}

	req = base()
	req.PaidAmount = dec(t, "-1")
	if _, err := buildSale(req, time.Now()); !errors.Is(err, model.ErrInvalidInitialPayment) {
		t.Errorf("negative initial payment: err = %v, want ErrInvalidInitialPayment", err)
	}

	req = base()
	req.PaidAmount = dec(t, "100.01")
	if _, err := buildSale(req, time.Now()); !errors.Is(err, model.ErrInvalidInitialPayment) {
		t.Errorf("over-total initial payment: err = %v, want ErrInvalidInitialPayment", err)
	}
}

func TestBuildSaleCreditRequiresCustomer(t *testing.T) {
	req := &CommitRequest{
		SaleType:      "CREDIT",
		PaymentMethod: "CASH",
		Items: []CommitItem{
			{ProductID: uuid.New(), Qty: 1, UnitPrice: dec(t, "10.00")},
		},
	}

	_, err := buildSale(req, time.Now())
	if !errors.Is(err, model.ErrCustomerRequired) {
		t.Fatalf("err = %v, want ErrCustomerRequired", err)
	}
}

func TestBuildSaleRejectsBadLines(t *testing.T) {
	req := &CommitRequest{SaleType: "DIRECT", PaymentMethod: "CASH"}
	if _, err := buildSale(req, time.Now()); !errors.Is(err, model.ErrEmptyCart) {
		t.Errorf("empty cart: err = %v, want ErrEmptyCart", err)
	}

	req.Items = []CommitItem{{ProductID: uuid.New(), Qty: 0, UnitPrice: dec(t, "10.00")}}
	if _, err := buildSale(req, time.Now()); !errors.Is(err, model.ErrInvalidQuantity) {
		t.Errorf("zero qty: err = %v, want ErrInvalidQuantity", err)
	}

	req.Items = []CommitItem{{ProductID: uuid.New(), Qty: 1, UnitPrice: dec(t, "-0.01")}}
	if _, err := buildSale(req, time.Now()); !errors.Is(err, model.ErrInvalidPrice) {
		t.Errorf("negative price: err = %v, want ErrInvalidPrice", err)
	}
}

func TestBuildSaleRoundsPriceOncePerLine(t *testing.T) {
	req := &CommitRequest{
		SaleType:      "DIRECT",
		PaymentMethod: "CASH",
		Items: []CommitItem{
			// 10.005 rounds to 10.01 before the line multiplies.
			{ProductID: uuid.New(), Qty: 3, UnitPrice: dec(t, "10.005")},
		},
		PaidAmount: dec(t, "40.00"),
	}

	sale, err := buildSale(req, time.Now())
	if err != nil {
		t.Fatalf("buildSale failed: %v", err)
	}
	if !sale.Total.Equal(dec(t, "30.03")) {
		t.Errorf("total = %s, want 30.03", sale.Total)
	}
}

func TestBuildSaleCarriesIdempotencyKey(t *testing.T) {
	req := &CommitRequest{
		SaleType:      "DIRECT",
		PaymentMethod: "CASH",
		Items: []CommitItem{
			{ProductID: uuid.New(), Qty: 1, UnitPrice: dec(t, "5.00")},
		},
		PaidAmount:     dec(t, "5.00"),
		IdempotencyKey: "client-token-1",
	}

	sale, err := buildSale(req, time.Now())
	if err != nil {
		t.Fatalf("buildSale failed: %v", err)
	}
	if sale.IdempotencyKey == nil || *sale.IdempotencyKey != "client-token-1" {
		t.Errorf("idempotency key not carried: %v", sale.IdempotencyKey)
	}
}
