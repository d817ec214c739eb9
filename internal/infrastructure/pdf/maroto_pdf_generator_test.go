package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farmlink-api/internal/domain/entity"
	"github.com/jhoicas/farmlink-api/internal/infrastructure/pdf"
)

func TestFormatMoney(t *testing.T) {
	tests := map[string]string{
		"0":         "0,00",
		"25000":     "25.000,00",
		"1234567.5": "1.234.567,50",
		"999.999":   "1.000,00",
		"-1500":     "-1.500,00",
	}
	for in, want := range tests {
		assert.Equal(t, want, pdf.FormatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestReceiptNumber(t *testing.T) {
	assert.Equal(t, "N° 3F1C1F3E", pdf.ReceiptNumber("3f1c1f3e-8a55-4b8f-9b8e-2d7f7a6c1e01"))
	assert.Equal(t, "N° AB", pdf.ReceiptNumber("ab"))
}

func TestGenerateReceiptPDF(t *testing.T) {
	g := pdf.NewMarotoPDFGenerator("FarmLink")
	sale := &entity.Sale{
		ID:          "3f1c1f3e-8a55-4b8f-9b8e-2d7f7a6c1e01",
		ListingName: "Papa criolla",
		Unit:        "kg",
		Quantity:    decimal.NewFromInt(12),
		UnitPrice:   decimal.RequireFromString("3.20"),
		TotalPrice:  decimal.RequireFromString("38.40"),
		CreatedAt:   time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC),
	}
	farmer := &entity.User{Name: "Ana", Email: "ana@finca.co"}

	out, err := g.GenerateReceiptPDF(context.Background(), sale, farmer, nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un PDF")
}
