package service_test

import (
	"context"
	"testing"

	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/apperr"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/dto"
	"github.com/GrezinaVika/proekt-master-websim-4.0/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestCreateTableDuplicateNumber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.tables.CreateTable(ctx, f.admin, dto.CreateTableRequest{TableNumber: 1})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict), "got %v", err)

	resp, err := f.tables.CreateTable(ctx, f.admin, dto.CreateTableRequest{TableNumber: 7, Capacity: 6, Location: strPtr("terrace")})
	require.NoError(t, err)
	assert.Equal(t, 7, resp.TableNumber)
	assert.Equal(t, "free", resp.Status)
}

func TestCreateTableForbiddenForWaiter(t *testing.T) {
	f := newFixture(t)
	_, err := f.tables.CreateTable(context.Background(), f.waiter, dto.CreateTableRequest{TableNumber: 9})
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestGetTableByNumber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.tables.GetTableByNumber(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, f.table2.String(), resp.ID)

	_, err = f.tables.GetTableByNumber(ctx, 99)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestListFreeTables(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.openOrder(t, f.table1)

	free, err := f.tables.ListTables(ctx, true)
	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Equal(t, 2, free[0].TableNumber)
}

func TestUpdateTableLeavesStatusAlone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// metadata edits on an occupied table never touch its status
	f.openOrder(t, f.table1)
	resp, err := f.tables.UpdateTable(ctx, f.admin, f.table1, dto.UpdateTableRequest{Capacity: intPtr(8), Location: strPtr("window")})
	require.NoError(t, err)
	assert.Equal(t, "occupied", resp.Status)
	assert.Equal(t, 8, resp.Capacity)
}

func TestUpdateTableDuplicateNumber(t *testing.T) {
	f := newFixture(t)
	_, err := f.tables.UpdateTable(context.Background(), f.admin, f.table2, dto.UpdateTableRequest{TableNumber: intPtr(1)})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestDeleteTableWithActiveOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp := f.openOrder(t, f.table1)

	err := f.tables.DeleteTable(ctx, f.admin, f.table1)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict), "got %v", err)

	// once the order is done the table can go
	orderID := mustID(t, resp.ID)
	_, err = f.orders.Transition(ctx, f.waiter, orderID, model.EventCancel)
	require.NoError(t, err)
	require.NoError(t, f.tables.DeleteTable(ctx, f.admin, f.table1))
}

func TestCheckConsistencyCleanState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.openOrder(t, f.table1)

	violations, err := f.tables.CheckConsistency(ctx)
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestCheckConsistencyDetectsDanglingReference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	table, err := f.tableRepo.FindByID(ctx, f.table1)
	require.NoError(t, err)
	table.Status = model.TableOccupied
	require.NoError(t, f.tableRepo.Update(ctx, table))

	violations, err := f.tables.CheckConsistency(ctx)
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "no active order")
}

func TestCheckConsistencyFlagsReservedWithoutOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	table, err := f.tableRepo.FindByID(ctx, f.table2)
	require.NoError(t, err)
	table.Status = model.TableReserved
	require.NoError(t, f.tableRepo.Update(ctx, table))

	violations, err := f.tables.CheckConsistency(ctx)
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "reserved")
}

func TestCheckConsistencyFlagsFreeTableWithLiveOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.openOrder(t, f.table1)
	table, err := f.tableRepo.FindByID(ctx, f.table1)
	require.NoError(t, err)
	table.Status = model.TableFree
	require.NoError(t, f.tableRepo.Update(ctx, table))

	violations, err := f.tables.CheckConsistency(ctx)
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "still active")
}
