package infra

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReceiptPDF(t *testing.T) {
	order := &model.Order{
		ID:        uuid.New(),
		Status:    model.OrderCompleted,
		CreatedAt: time.Now(),
		Items: []model.OrderItem{
			{Name: "Borscht", UnitPrice: decimal.NewFromInt(350), Quantity: 2},
			{Name: "Tea", UnitPrice: decimal.RequireFromString("85.50"), Quantity: 1},
		},
	}
	order.ComputeTotal()

	dir := t.TempDir()
	path, err := GenerateReceiptPDF(order, 7, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "receipt_"+order.ID.String()+".pdf"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(500))

	header := make([]byte, 5)
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	_, err = f.Read(header)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(header))
}

func TestGenerateReceiptPDFCreatesStorageDir(t *testing.T) {
	order := &model.Order{ID: uuid.New(), CreatedAt: time.Now()}
	order.ComputeTotal()

	dir := filepath.Join(t.TempDir(), "receipts", "nested")
	path, err := GenerateReceiptPDF(order, 1, dir)
	require.NoError(t, err)
	assert.FileExists(t, path)
}
