package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twomark/panel/models"
	"github.com/twomark/panel/pkg"
)

func TestProfitRecordsBelongToTheirAdmin(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := NewProfitService(e.profits, e.companies)
	boss := e.user(t, "boss", models.RoleAdmin)
	partner := e.user(t, "partner", models.RoleAdmin)
	editor := e.user(t, "ayse", models.RoleEditor, models.SectionProfitTable)
	acme := e.company(t, "acme", "")

	record, err := svc.Create(ctx, boss, &models.CreateProfitRequest{
		Type: "income", Amount: 500000, CompanyID: &acme.ID, Date: "2025-03-15",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ProfitIncome, record.Type)
	assert.Equal(t, "acme Ltd", record.CompanyText, "company name fills an empty counterparty")

	list, err := svc.List(ctx, partner, models.DateRange{})
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.Update(ctx, partner, record.ID, &models.UpdateProfitRequest{Amount: ptr(models.Money(1))})
	assert.ErrorIs(t, err, pkg.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, partner, record.ID), pkg.ErrNotFound)

	_, err = svc.List(ctx, editor, models.DateRange{})
	assert.ErrorIs(t, err, pkg.ErrForbidden)

	_, err = svc.Create(ctx, boss, &models.CreateProfitRequest{Type: "income", Amount: 100, CompanyID: ptr("ghost"), Date: "2025-03-15"})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)

	updated, err := svc.Update(ctx, boss, record.ID, &models.UpdateProfitRequest{CompanyID: ptr(""), CompanyText: ptr("Walk-in")})
	require.NoError(t, err)
	assert.Nil(t, updated.CompanyID)
	assert.Equal(t, "Walk-in", updated.CompanyText)

	require.NoError(t, svc.Delete(ctx, boss, record.ID))
}

func TestProfitSummary(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := NewProfitService(e.profits, e.companies)
	boss := e.user(t, "boss", models.RoleAdmin)

	for _, r := range []models.CreateProfitRequest{
		{Type: "gelir", Amount: 100000, Date: "2024-12-20"},
		{Type: "gelir", Amount: 250000, Date: "2025-01-05"},
		{Type: "gider", Amount: 40000, Date: "2025-01-18"},
		{Type: "gider", Amount: 10050, Date: "2025-02-01"},
	} {
		_, err := svc.Create(ctx, boss, &r)
		require.NoError(t, err)
	}

	summary, err := svc.Summary(ctx, boss, models.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, models.Money(350000), summary.TotalIncome)
	assert.Equal(t, models.Money(50050), summary.TotalExpense)
	assert.Equal(t, models.Money(299950), summary.NetProfit)

	assert.Equal(t, []models.ProfitPeriod{
		{Period: "2025", Income: 250000, Expense: 50050, Net: 199950, Count: 3},
		{Period: "2024", Income: 100000, Expense: 0, Net: 100000, Count: 1},
	}, summary.Yearly)

	require.Len(t, summary.Monthly, 3)
	assert.Equal(t, models.ProfitPeriod{Period: "2025-01", Income: 250000, Expense: 40000, Net: 210000, Count: 2}, summary.Monthly[1])

	ranged, err := svc.Summary(ctx, boss, models.DateRange{Start: "2025-01-01"})
	require.NoError(t, err)
	assert.Equal(t, models.Money(199950), ranged.NetProfit)
}
