package service

import (
	"errors"
	"testing"

	"go-pos-engine/internal/model"

	"github.com/google/uuid"
)

func saleLine(t *testing.T, qty, returned int, price string) *model.SaleLineItem {
	t.Helper()
	line := &model.SaleLineItem{
		Quantity:         qty,
		QuantityReturned: returned,
		UnitPrice:        dec(t, price),
	}
	line.ID = uuid.New()
	return line
}

func TestBuildReturnPlanPricesAtOriginalCharge(t *testing.T) {
	line := saleLine(t, 5, 0, "4.00")
	lines := map[uuid.UUID]*model.SaleLineItem{line.ID: line}

	planned, refund, err := buildReturnPlan(lines, []AcceptItem{
		{SaleLineItemID: line.ID, Qty: 3},
	})
	if err != nil {
		t.Fatalf("buildReturnPlan failed: %v", err)
	}
	if !refund.Equal(dec(t, "12.00")) {
		t.Errorf("refund = %s, want 12.00", refund)
	}
	if len(planned) != 1 {
		t.Fatalf("planned %d lines, want 1", len(planned))
	}
	if !planned[0].UnitPrice.Equal(dec(t, "4.00")) || !planned[0].LineTotal.Equal(dec(t, "12.00")) {
		t.Errorf("unexpected planned line: %+v", planned[0])
	}
}

func TestBuildReturnPlanRejectsExcessQuantity(t *testing.T) {
	// Three of five already returned, so only two remain.
	line := saleLine(t, 5, 3, "4.00")
	lines := map[uuid.UUID]*model.SaleLineItem{line.ID: line}

	_, _, err := buildReturnPlan(lines, []AcceptItem{
		{SaleLineItemID: line.ID, Qty: 3},
	})

	var excess *model.ExcessReturnQuantityError
	if !errors.As(err, &excess) {
		t.Fatalf("err = %v, want ExcessReturnQuantityError", err)
	}
	if excess.SaleLineItemID != line.ID || excess.Requested != 3 || excess.Available != 2 {
		t.Errorf("unexpected error detail: %+v", excess)
	}
}

func TestBuildReturnPlanAccumulatesRepeatedLines(t *testing.T) {
	line := saleLine(t, 5, 0, "4.00")
	lines := map[uuid.UUID]*model.SaleLineItem{line.ID: line}

	// Two requests of 3 against the same line exceed the 5 sold.
	_, _, err := buildReturnPlan(lines, []AcceptItem{
		{SaleLineItemID: line.ID, Qty: 3},
		{SaleLineItemID: line.ID, Qty: 3},
	})

	var excess *model.ExcessReturnQuantityError
	if !errors.As(err, &excess) {
		t.Fatalf("err = %v, want ExcessReturnQuantityError", err)
	}
	if excess.Requested != 6 || excess.Available != 5 {
		t.Errorf("unexpected error detail: %+v", excess)
	}
}

func TestBuildReturnPlanRejectsBadRequests(t *testing.T) {
	line := saleLine(t, 5, 0, "4.00")
	lines := map[uuid.UUID]*model.SaleLineItem{line.ID: line}

	if _, _, err := buildReturnPlan(lines, nil); !errors.Is(err, model.ErrEmptyReturn) {
		t.Errorf("empty return: err = %v, want ErrEmptyReturn", err)
	}

	if _, _, err := buildReturnPlan(lines, []AcceptItem{
		{SaleLineItemID: uuid.New(), Qty: 1},
	}); !errors.Is(err, model.ErrLineNotInSale) {
		t.Errorf("unknown line: err = %v, want ErrLineNotInSale", err)
	}

	if _, _, err := buildReturnPlan(lines, []AcceptItem{
		{SaleLineItemID: line.ID, Qty: 0},
	}); !errors.Is(err, model.ErrInvalidQuantity) {
		t.Errorf("zero qty: err = %v, want ErrInvalidQuantity", err)
	}
}

func TestCreditAdjustmentCapsAtBalance(t *testing.T) {
	cases := []struct {
		refund, balance, want string
	}{
		{"20.00", "30.00", "20.00"}, // refund fits within the balance
		{"50.00", "30.00", "30.00"}, // excess over balance is forfeited
		{"50.00", "0.00", "0.00"},   // settled credit takes no adjustment
		{"50.00", "-5.00", "0.00"},  // a broken negative balance never goes lower
	}

	for _, c := range cases {
		got := creditAdjustment(dec(t, c.refund), dec(t, c.balance))
		if !got.Equal(dec(t, c.want)) {
			t.Errorf("creditAdjustment(%s, %s) = %s, want %s", c.refund, c.balance, got, c.want)
		}
	}
}

func TestCreditRecomputeAfterAdjustment(t *testing.T) {
	credit := &model.Credit{
		Total: dec(t, "100.00"),
		Paid:  dec(t, "30.00"),
	}
	credit.Recompute()
	if !credit.Balance.Equal(dec(t, "70.00")) || credit.Status != model.CreditOpen {
		t.Fatalf("balance/status = %s/%s, want 70.00/OPEN", credit.Balance, credit.Status)
	}

	// A 70.00 refund wipes the remaining exposure and settles the credit.
	applied := creditAdjustment(dec(t, "70.00"), credit.Balance)
	credit.Total = credit.Total.Sub(applied)
	credit.Recompute()
	if !credit.Balance.IsZero() || credit.Status != model.CreditSettled {
		t.Errorf("balance/status = %s/%s, want 0/SETTLED", credit.Balance, credit.Status)
	}
	if !credit.Paid.Equal(dec(t, "30.00")) {
		t.Errorf("paid = %s, want 30.00 (payments are never rewritten)", credit.Paid)
	}
}
