package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers
func createTestInvoice(t *testing.T) *Invoice {
	inv, err := NewInvoice("INV-20260315-0001", uuid.New(), nil, time.Now().AddDate(0, 0, 30), "")
	require.NoError(t, err)
	return inv
}

func addTestItem(t *testing.T, inv *Invoice, quantity, unitPrice, discount float64) *InvoiceItem {
	item, err := inv.AddItem("Consultation",
		decimal.NewFromFloat(quantity),
		decimal.NewFromFloat(unitPrice),
		decimal.NewFromFloat(discount),
	)
	require.NoError(t, err)
	return item
}

// ============================================
// InvoiceStatus Tests
// ============================================

func TestInvoiceStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  InvoiceStatus
		isValid bool
	}{
		{InvoiceStatusPending, true},
		{InvoiceStatusPartiallyPaid, true},
		{InvoiceStatusPaid, true},
		{InvoiceStatus("CANCELLED"), false},
		{InvoiceStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name     string
		total    float64
		paid     float64
		expected InvoiceStatus
	}{
		{"nothing paid", 100, 0, InvoiceStatusPending},
		{"partially paid", 100, 40, InvoiceStatusPartiallyPaid},
		{"paid exactly", 100, 100, InvoiceStatusPaid},
		{"paid above total", 100, 120, InvoiceStatusPaid},
		{"zero total unpaid", 0, 0, InvoiceStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveStatus(decimal.NewFromFloat(tt.total), decimal.NewFromFloat(tt.paid))
			assert.Equal(t, tt.expected, got)
		})
	}
}

// ============================================
// Invoice Creation Tests
// ============================================

func TestNewInvoice(t *testing.T) {
	t.Run("creates pending invoice with zero totals", func(t *testing.T) {
		ownerID := uuid.New()
		dueDate := time.Now().AddDate(0, 0, 30)

		inv, err := NewInvoice("INV-20260315-0001", ownerID, nil, dueDate, "first visit")

		require.NoError(t, err)
		assert.Equal(t, "INV-20260315-0001", inv.InvoiceNumber)
		assert.Equal(t, ownerID, inv.OwnerID)
		assert.Nil(t, inv.AppointmentID)
		assert.True(t, inv.TotalAmount.IsZero())
		assert.True(t, inv.PaidAmount.IsZero())
		assert.Equal(t, InvoiceStatusPending, inv.Status)
		assert.False(t, inv.IsFinalized)
		assert.Nil(t, inv.FinalizedAt)
		assert.Equal(t, "first visit", inv.Notes)
		assert.Len(t, inv.GetDomainEvents(), 1)
	})

	t.Run("rejects empty invoice number", func(t *testing.T) {
		_, err := NewInvoice("", uuid.New(), nil, time.Now(), "")
		assert.Error(t, err)
	})

	t.Run("rejects nil owner", func(t *testing.T) {
		_, err := NewInvoice("INV-20260315-0001", uuid.Nil, nil, time.Now(), "")
		assert.Error(t, err)
	})

	t.Run("rejects nil appointment id when provided", func(t *testing.T) {
		nilID := uuid.Nil
		_, err := NewInvoice("INV-20260315-0001", uuid.New(), &nilID, time.Now(), "")
		assert.Error(t, err)
	})
}

// ============================================
// Item Tests
// ============================================

func TestInvoice_AddItem(t *testing.T) {
	t.Run("computes line total and invoice total", func(t *testing.T) {
		inv := createTestInvoice(t)

		item := addTestItem(t, inv, 2, 50, 0)

		assert.True(t, item.TotalPrice.Equal(decimal.NewFromInt(100)), "got %s", item.TotalPrice)
		assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(100)))
	})

	t.Run("applies discount percent", func(t *testing.T) {
		inv := createTestInvoice(t)

		item := addTestItem(t, inv, 3, 100, 25)

		assert.True(t, item.TotalPrice.Equal(decimal.NewFromInt(225)), "got %s", item.TotalPrice)
	})

	t.Run("rounds line total to 2 decimals", func(t *testing.T) {
		inv := createTestInvoice(t)

		item := addTestItem(t, inv, 3, 9.99, 33)

		expected := decimal.NewFromFloat(9.99).Mul(decimal.NewFromInt(3)).
			Mul(decimal.NewFromFloat(0.67)).Round(2)
		assert.True(t, item.TotalPrice.Equal(expected), "got %s want %s", item.TotalPrice, expected)
	})

	t.Run("hundred percent discount yields zero", func(t *testing.T) {
		inv := createTestInvoice(t)

		item := addTestItem(t, inv, 1, 80, 100)

		assert.True(t, item.TotalPrice.IsZero())
		assert.Equal(t, InvoiceStatusPending, inv.Status)
	})

	t.Run("rejects invalid inputs", func(t *testing.T) {
		inv := createTestInvoice(t)

		_, err := inv.AddItem("", decimal.NewFromInt(1), decimal.NewFromInt(10), decimal.Zero)
		assert.Error(t, err, "empty description")

		_, err = inv.AddItem("X-ray", decimal.Zero, decimal.NewFromInt(10), decimal.Zero)
		assert.Error(t, err, "zero quantity")

		_, err = inv.AddItem("X-ray", decimal.NewFromInt(1), decimal.NewFromInt(-1), decimal.Zero)
		assert.Error(t, err, "negative unit price")

		_, err = inv.AddItem("X-ray", decimal.NewFromInt(1), decimal.NewFromInt(10), decimal.NewFromInt(101))
		assert.Error(t, err, "discount above 100")
	})
}

func TestInvoice_UpdateItem(t *testing.T) {
	t.Run("recomputes total from new values", func(t *testing.T) {
		inv := createTestInvoice(t)
		item := addTestItem(t, inv, 2, 50, 0)

		newQty := decimal.NewFromInt(4)
		updated, err := inv.UpdateItem(item.ID, ItemUpdate{Quantity: &newQty})

		require.NoError(t, err)
		assert.True(t, updated.TotalPrice.Equal(decimal.NewFromInt(200)))
		assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(200)))
	})

	t.Run("keeps unspecified fields", func(t *testing.T) {
		inv := createTestInvoice(t)
		item := addTestItem(t, inv, 2, 50, 10)

		newPrice := decimal.NewFromInt(60)
		updated, err := inv.UpdateItem(item.ID, ItemUpdate{UnitPrice: &newPrice})

		require.NoError(t, err)
		assert.True(t, updated.Quantity.Equal(decimal.NewFromInt(2)))
		assert.True(t, updated.DiscountPercent.Equal(decimal.NewFromInt(10)))
		assert.True(t, updated.TotalPrice.Equal(decimal.NewFromInt(108)), "got %s", updated.TotalPrice)
	})

	t.Run("invalid update leaves the line untouched", func(t *testing.T) {
		inv := createTestInvoice(t)
		item := addTestItem(t, inv, 2, 50, 0)

		badQty := decimal.NewFromInt(-1)
		_, err := inv.UpdateItem(item.ID, ItemUpdate{Quantity: &badQty})

		assert.Error(t, err)
		assert.True(t, inv.Items[0].Quantity.Equal(decimal.NewFromInt(2)))
		assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(100)))
	})

	t.Run("unknown item id", func(t *testing.T) {
		inv := createTestInvoice(t)

		_, err := inv.UpdateItem(uuid.New(), ItemUpdate{})

		assert.Error(t, err)
	})
}

func TestInvoice_RemoveItem(t *testing.T) {
	t.Run("total shrinks and status may move backward", func(t *testing.T) {
		inv := createTestInvoice(t)
		item1 := addTestItem(t, inv, 1, 100, 0)
		addTestItem(t, inv, 1, 50, 0)

		_, err := inv.AddPayment(decimal.NewFromInt(100), PaymentMethodCash, "", time.Time{})
		require.NoError(t, err)
		assert.Equal(t, InvoiceStatusPartiallyPaid, inv.Status)

		require.NoError(t, inv.RemoveItem(item1.ID))

		assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(50)))
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
	})

	t.Run("unknown item id", func(t *testing.T) {
		inv := createTestInvoice(t)
		assert.Error(t, inv.RemoveItem(uuid.New()))
	})
}

// ============================================
// Payment Tests
// ============================================

func TestInvoice_AddPayment(t *testing.T) {
	t.Run("partial payment moves status forward", func(t *testing.T) {
		inv := createTestInvoice(t)
		addTestItem(t, inv, 1, 200, 0)

		payment, err := inv.AddPayment(decimal.NewFromInt(80), PaymentMethodCard, "deposit", time.Time{})

		require.NoError(t, err)
		assert.True(t, payment.Amount.Equal(decimal.NewFromInt(80)))
		assert.True(t, inv.PaidAmount.Equal(decimal.NewFromInt(80)))
		assert.Equal(t, InvoiceStatusPartiallyPaid, inv.Status)
	})

	t.Run("exact payment settles the invoice", func(t *testing.T) {
		inv := createTestInvoice(t)
		addTestItem(t, inv, 1, 200, 0)

		_, err := inv.AddPayment(decimal.NewFromInt(200), PaymentMethodCash, "", time.Time{})

		require.NoError(t, err)
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
	})

	t.Run("overpayment is rejected with no side effect", func(t *testing.T) {
		inv := createTestInvoice(t)
		addTestItem(t, inv, 1, 230, 0)
		_, err := inv.AddPayment(decimal.NewFromInt(100), PaymentMethodCash, "", time.Time{})
		require.NoError(t, err)

		_, err = invPaymentAttempt(inv, 140)

		assert.ErrorIs(t, err, ErrOverpaymentRejected)
		assert.Len(t, inv.Payments, 1)
		assert.True(t, inv.PaidAmount.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, InvoiceStatusPartiallyPaid, inv.Status)
	})

	t.Run("settlement scenario", func(t *testing.T) {
		inv := createTestInvoice(t)
		addTestItem(t, inv, 1, 230, 0)

		_, err := inv.AddPayment(decimal.NewFromInt(100), PaymentMethodCash, "", time.Time{})
		require.NoError(t, err)
		assert.Equal(t, InvoiceStatusPartiallyPaid, inv.Status)

		_, err = invPaymentAttempt(inv, 140)
		assert.ErrorIs(t, err, ErrOverpaymentRejected)

		_, err = invPaymentAttempt(inv, 130)
		require.NoError(t, err)

		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		assert.True(t, inv.PaidAmount.Equal(decimal.NewFromInt(230)))
		assert.True(t, inv.OutstandingAmount().IsZero())
	})

	t.Run("rejects payment on zero total invoice", func(t *testing.T) {
		inv := createTestInvoice(t)

		_, err := invPaymentAttempt(inv, 1)

		assert.ErrorIs(t, err, ErrOverpaymentRejected)
	})

	t.Run("rejects non positive amount and bad method", func(t *testing.T) {
		inv := createTestInvoice(t)
		addTestItem(t, inv, 1, 100, 0)

		_, err := inv.AddPayment(decimal.Zero, PaymentMethodCash, "", time.Time{})
		assert.Error(t, err)

		_, err = inv.AddPayment(decimal.NewFromInt(10), PaymentMethod("CHEQUE"), "", time.Time{})
		assert.Error(t, err)
	})

	t.Run("raises paid event only on settlement", func(t *testing.T) {
		inv := createTestInvoice(t)
		addTestItem(t, inv, 1, 100, 0)
		inv.ClearDomainEvents()

		_, err := invPaymentAttempt(inv, 40)
		require.NoError(t, err)
		assert.Len(t, inv.GetDomainEvents(), 1)

		_, err = invPaymentAttempt(inv, 60)
		require.NoError(t, err)
		assert.Len(t, inv.GetDomainEvents(), 3)
	})
}

func invPaymentAttempt(inv *Invoice, amount int64) (*Payment, error) {
	return inv.AddPayment(decimal.NewFromInt(amount), PaymentMethodCash, "", time.Time{})
}

func TestInvoice_RemovePayment(t *testing.T) {
	t.Run("status moves backward", func(t *testing.T) {
		inv := createTestInvoice(t)
		addTestItem(t, inv, 1, 100, 0)
		payment, err := invPaymentAttempt(inv, 100)
		require.NoError(t, err)
		assert.Equal(t, InvoiceStatusPaid, inv.Status)

		require.NoError(t, inv.RemovePayment(payment.ID))

		assert.True(t, inv.PaidAmount.IsZero())
		assert.Equal(t, InvoiceStatusPending, inv.Status)
	})

	t.Run("unknown payment id", func(t *testing.T) {
		inv := createTestInvoice(t)
		assert.Error(t, inv.RemovePayment(uuid.New()))
	})
}

// ============================================
// Finalize Tests
// ============================================

func TestInvoice_Finalize(t *testing.T) {
	t.Run("sets finalizedAt once", func(t *testing.T) {
		inv := createTestInvoice(t)
		addTestItem(t, inv, 1, 100, 0)

		require.NoError(t, inv.Finalize())

		assert.True(t, inv.IsFinalized)
		require.NotNil(t, inv.FinalizedAt)

		err := inv.Finalize()
		assert.ErrorIs(t, err, ErrAlreadyFinalized)
	})

	t.Run("blocks every mutation afterwards", func(t *testing.T) {
		inv := createTestInvoice(t)
		item := addTestItem(t, inv, 1, 100, 0)
		payment, err := invPaymentAttempt(inv, 50)
		require.NoError(t, err)
		require.NoError(t, inv.Finalize())

		_, err = inv.AddItem("Vaccine", decimal.NewFromInt(1), decimal.NewFromInt(30), decimal.Zero)
		assert.ErrorIs(t, err, ErrInvoiceFinalized)

		_, err = inv.UpdateItem(item.ID, ItemUpdate{})
		assert.ErrorIs(t, err, ErrInvoiceFinalized)

		assert.ErrorIs(t, inv.RemoveItem(item.ID), ErrInvoiceFinalized)

		_, err = invPaymentAttempt(inv, 10)
		assert.ErrorIs(t, err, ErrInvoiceFinalized)

		assert.ErrorIs(t, inv.RemovePayment(payment.ID), ErrInvoiceFinalized)

		assert.ErrorIs(t, inv.UpdateNotes("x"), ErrInvoiceFinalized)
	})
}
