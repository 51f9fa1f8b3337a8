package services

import (
	"context"
	"testing"
	"time"

	"vgt-backoffice/internal/core/access"
	"vgt-backoffice/internal/core/domain"
	"vgt-backoffice/internal/core/freight"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// 2024-03-01 10:00:00 UTC
var challanClock = time.UnixMilli(1709287200123)

func newChallanService(taken ...string) (*ChallanService, *fakeChallanRepo) {
	repo := newFakeChallanRepo(taken...)
	svc := NewChallanService(repo, testBranches())
	svc.now = func() time.Time { return challanClock }
	return svc, repo
}

func challanInput() *ChallanInput {
	return &ChallanInput{
		OriginBranch:      "MRG",
		DestinationBranch: "bom",
		VehicleNo:         "ga08 ab 1234",
		DriverMobile:      "9876543210",
		DateFrom:          "2024-03-01",
		DateTo:            "2024-03-03",
		Hire: freight.Hire{
			Hire:             decimal.NewFromInt(10000),
			OverWeight:       decimal.NewFromInt(500),
			ExtraKmCharges:   decimal.NewFromInt(300),
			DetentionCharges: decimal.NewFromInt(200),
			AdvancePayment:   decimal.NewFromInt(2000),
			TDSPercent:       decimal.NewFromInt(2),
			TotalHire:        decimal.NewFromInt(1),
		},
	}
}

func TestChallanNumber(t *testing.T) {
	assert.Equal(t, "KC9287200123", ChallanNumber(1709287200123))
	assert.Equal(t, "KC0000000042", ChallanNumber(42))
}

func TestCreateChallan(t *testing.T) {
	svc, repo := newChallanService()

	c, err := svc.CreateChallan(context.Background(), employeeActor, challanInput())
	require.NoError(t, err)

	assert.Equal(t, "KC9287200123", c.ChallanNo)
	assert.Equal(t, domain.ChallanMain, c.ChallanType)
	assert.Equal(t, domain.OwnerMarket, c.OwnerType)
	assert.Equal(t, domain.ChallanActive, c.Status)
	assert.Equal(t, "GA08 AB 1234", c.VehicleNo)
	assert.Equal(t, "BOM", c.DestinationBranch)
	assert.Equal(t, "u-emp", c.CreatedBy)

	h := c.Hire
	assert.EqualValues(t, 1, h.NoOfCNs)
	assert.Equal(t, "800.00", h.TotalExtra.StringFixed(2))
	assert.Equal(t, "11000.00", h.TotalHire.StringFixed(2))
	assert.Equal(t, "220.00", h.LessTDS.StringFixed(2))
	assert.Equal(t, "8780.00", h.BalanceAmount.StringFixed(2))

	assert.Contains(t, repo.challans, "KC9287200123")
}

func TestCreateChallanSkipsTakenNumbers(t *testing.T) {
	svc, _ := newChallanService("KC9287200123", "KC9287200124")

	c, err := svc.CreateChallan(context.Background(), employeeActor, challanInput())
	require.NoError(t, err)
	assert.Equal(t, "KC9287200125", c.ChallanNo)
}

func TestCreateChallanNumberExhausted(t *testing.T) {
	svc, _ := newChallanService("KC9287200123", "KC9287200124", "KC9287200125", "KC9287200126", "KC9287200127")

	_, err := svc.CreateChallan(context.Background(), employeeActor, challanInput())
	assert.ErrorIs(t, err, ErrChallanNoExhausted)
}

func TestCreateChallanRejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(in *ChallanInput)
		wantErr error
	}{
		{"period reversed", func(in *ChallanInput) { in.DateTo = "2024-02-28" }, ErrInvalidChallanPeriod},
		{"bad date", func(in *ChallanInput) { in.DateFrom = "31/31/2024" }, ErrInvalidChallanDate},
		{"bad type", func(in *ChallanInput) { in.ChallanType = "express" }, domain.ErrInvalidInput},
		{"missing vehicle", func(in *ChallanInput) { in.VehicleNo = "" }, domain.ErrInvalidInput},
		{"inactive origin", func(in *ChallanInput) { in.OriginBranch = "OLD" }, ErrBranchInactive},
		{"unknown balance branch", func(in *ChallanInput) { in.BalPaymentBranch = "zzz" }, ErrBranchNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newChallanService()
			input := challanInput()
			tt.mutate(input)

			_, err := svc.CreateChallan(context.Background(), employeeActor, input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, repo.challans)
		})
	}
}

func TestCreateChallanFOCOwnVehicle(t *testing.T) {
	svc, _ := newChallanService()
	input := challanInput()
	input.ChallanType = "foc"
	input.OwnerType = "own"

	c, err := svc.CreateChallan(context.Background(), adminActor, input)
	require.NoError(t, err)
	assert.Equal(t, domain.ChallanFOC, c.ChallanType)
	assert.Equal(t, domain.OwnerOwn, c.OwnerType)
}

func TestGetChallan(t *testing.T) {
	svc, _ := newChallanService()
	ctx := context.Background()

	_, err := svc.CreateChallan(ctx, employeeActor, challanInput())
	require.NoError(t, err)

	c, err := svc.GetChallan(ctx, employeeActor, "kc9287200123")
	require.NoError(t, err)
	assert.Equal(t, "GA08 AB 1234", c.VehicleNo)

	_, err = svc.GetChallan(ctx, employeeActor, "KC0000000000")
	assert.ErrorIs(t, err, ErrChallanNotFound)

	_, err = svc.GetChallan(ctx, nil, "KC9287200123")
	assert.ErrorIs(t, err, access.ErrUnauthorized)
}

func TestListChallansFilter(t *testing.T) {
	svc, repo := newChallanService()

	_, _, err := svc.ListChallans(context.Background(), employeeActor, &ListChallansInput{Branch: "mrg", Type: "foc", From: "2024-03-01", To: "2024-03-01"}, firstPage)
	require.NoError(t, err)

	f := repo.lastFilter
	assert.Equal(t, "MRG", f.Branch)
	assert.Equal(t, "FOC", f.Type)
	require.NotNil(t, f.From)
	require.NotNil(t, f.To)
	assert.True(t, f.To.After(*f.From))
	assert.Equal(t, firstPage.Limit, repo.lastLimit)
}

func TestExportChallans(t *testing.T) {
	svc, repo := newChallanService()
	ctx := context.Background()

	_, err := svc.CreateChallan(ctx, employeeActor, challanInput())
	require.NoError(t, err)

	buf, err := svc.ExportChallans(ctx, employeeActor, &ListChallansInput{})
	require.NoError(t, err)
	assert.Equal(t, 0, repo.lastLimit, "export lists every row")

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Challans")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Challan No", rows[0][0])
	assert.Equal(t, "KC9287200123", rows[1][0])
	assert.Equal(t, "8780", rows[1][16])
}
