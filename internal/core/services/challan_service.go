package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vgt-backoffice/internal/adapters/persistence/models"
	"vgt-backoffice/internal/adapters/persistence/repositories"
	"vgt-backoffice/internal/core/access"
	"vgt-backoffice/internal/core/domain"
	"vgt-backoffice/internal/core/freight"
	"vgt-backoffice/internal/pkg/daterange"
	"vgt-backoffice/internal/pkg/logger"
	"vgt-backoffice/internal/pkg/pagination"
	"vgt-backoffice/internal/pkg/spreadsheet"
	"vgt-backoffice/internal/pkg/validate"

	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Challan service errors
var (
	ErrChallanNotFound      = errors.New("challan not found")
	ErrChallanNoExhausted   = errors.New("could not allocate a unique challan number")
	ErrInvalidChallanPeriod = errors.New("date_to must not be before date_from")
	ErrInvalidChallanDate   = errors.New("invalid date")
)

const challanNoAttempts = 5

// ChallanService books vehicle hire challans
type ChallanService struct {
	challanRepo repositories.ChallanRepository
	branchRepo  repositories.BranchRepository
	now         func() time.Time
}

// NewChallanService creates a new challan service
func NewChallanService(challanRepo repositories.ChallanRepository, branchRepo repositories.BranchRepository) *ChallanService {
	return &ChallanService{
		challanRepo: challanRepo,
		branchRepo:  branchRepo,
		now:         time.Now,
	}
}

// ChallanInput represents a challan booking
type ChallanInput struct {
	ChallanDate       string          `json:"challan_date"`
	OriginBranch      string          `json:"origin_branch" validate:"required,max=10"`
	DestinationBranch string          `json:"destination_branch" validate:"required,max=10"`
	ChallanType       string          `json:"challan_type" validate:"omitempty,oneof=MAIN FOC"`
	OwnerType         string          `json:"owner_type" validate:"omitempty,oneof=MARKET OWN"`
	VehicleNo         string          `json:"vehicle_no" validate:"required,vehicleno"`
	OwnerName         string          `json:"owner_name" validate:"max=100"`
	DriverName        string          `json:"driver_name" validate:"max=100"`
	DriverMobile      string          `json:"driver_mobile" validate:"omitempty,phone"`
	DateFrom          string          `json:"date_from"`
	DateTo            string          `json:"date_to"`
	Hire              freight.Hire    `json:"hire_details"`
	CreditDate        string          `json:"credit_date"`
	CardAmount        decimal.Decimal `json:"card_amount"`
	CardNo            string          `json:"card_no" validate:"max=30"`
	GenericNo         string          `json:"generic_no" validate:"max=30"`
	BalPaymentBranch  string          `json:"bal_payment_branch" validate:"max=10"`
	Remarks           string          `json:"remarks"`
}

// ListChallansInput represents list challans input
type ListChallansInput struct {
	Search string
	Branch string
	Type   string
	Status string
	From   string
	To     string
}

// ChallanNumber formats a challan number from a unix millisecond timestamp:
// KC followed by its last ten digits.
func ChallanNumber(ms int64) string {
	return fmt.Sprintf("KC%010d", ms%10_000_000_000)
}

// CreateChallan books a challan. Hire totals are recomputed from the inputs.
func (s *ChallanService) CreateChallan(ctx context.Context, actor *domain.Actor, input *ChallanInput) (*models.Challan, error) {
	if err := access.Authorize(actor, access.BookChallan, ""); err != nil {
		return nil, err
	}

	input.ChallanType = strings.ToUpper(strings.TrimSpace(input.ChallanType))
	input.OwnerType = strings.ToUpper(strings.TrimSpace(input.OwnerType))
	input.VehicleNo = strings.ToUpper(strings.TrimSpace(input.VehicleNo))
	if err := validate.Struct(input); err != nil {
		return nil, domain.Invalid(err)
	}

	challanDate, err := s.parseDay(input.ChallanDate, s.now())
	if err != nil {
		return nil, err
	}
	dateFrom, err := s.optionalDay(input.DateFrom)
	if err != nil {
		return nil, err
	}
	dateTo, err := s.optionalDay(input.DateTo)
	if err != nil {
		return nil, err
	}
	if dateFrom != nil && dateTo != nil && dateTo.Before(*dateFrom) {
		return nil, ErrInvalidChallanPeriod
	}
	creditDate, err := s.optionalDay(input.CreditDate)
	if err != nil {
		return nil, err
	}

	origin, err := lookupBranch(ctx, s.branchRepo, input.OriginBranch)
	if err != nil {
		return nil, err
	}
	dest, err := lookupBranch(ctx, s.branchRepo, input.DestinationBranch)
	if err != nil {
		return nil, err
	}
	balBranch := strings.ToUpper(strings.TrimSpace(input.BalPaymentBranch))
	if balBranch != "" {
		if _, err := lookupBranch(ctx, s.branchRepo, balBranch); err != nil {
			return nil, err
		}
	}

	challanType := input.ChallanType
	if challanType == "" {
		challanType = domain.ChallanMain
	}
	ownerType := input.OwnerType
	if ownerType == "" {
		ownerType = domain.OwnerMarket
	}

	hire := freight.ComputeHireTotals(input.Hire)
	if hire.NoOfCNs < 1 {
		hire.NoOfCNs = 1
	}

	challanNo, err := s.allocateNumber(ctx)
	if err != nil {
		return nil, err
	}

	challan := &models.Challan{
		ChallanNo:         challanNo,
		ChallanDate:       challanDate,
		OriginBranch:      origin.Code,
		DestinationBranch: dest.Code,
		ChallanType:       challanType,
		OwnerType:         ownerType,
		VehicleNo:         input.VehicleNo,
		OwnerName:         strings.TrimSpace(input.OwnerName),
		DriverName:        strings.TrimSpace(input.DriverName),
		DriverMobile:      strings.TrimSpace(input.DriverMobile),
		DateFrom:          dateFrom,
		DateTo:            dateTo,
		Hire:              models.NewChallanHire(hire),
		CreditDate:        creditDate,
		CardAmount:        freight.Round2(input.CardAmount),
		CardNo:            strings.TrimSpace(input.CardNo),
		GenericNo:         strings.TrimSpace(input.GenericNo),
		BalPaymentBranch:  balBranch,
		Remarks:           strings.TrimSpace(input.Remarks),
		Status:            domain.ChallanActive,
		CreatedBy:         actor.ID,
	}

	if err := s.challanRepo.Create(ctx, challan); err != nil {
		return nil, err
	}

	logger.Successf("Challan %s created by %s (%s, balance %s)",
		challan.ChallanNo, actor.EmployeeCode, challan.VehicleNo, challan.Hire.BalanceAmount.StringFixed(2))
	return challan, nil
}

// GetChallan gets a challan by number
func (s *ChallanService) GetChallan(ctx context.Context, actor *domain.Actor, challanNo string) (*models.Challan, error) {
	if err := access.Authorize(actor, access.BookChallan, ""); err != nil {
		return nil, err
	}

	challan, err := s.challanRepo.GetByChallanNo(ctx, strings.ToUpper(strings.TrimSpace(challanNo)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChallanNotFound
		}
		return nil, err
	}
	return challan, nil
}

// ListChallans lists challans newest first
func (s *ChallanService) ListChallans(ctx context.Context, actor *domain.Actor, input *ListChallansInput, params *pagination.Params) ([]*models.Challan, int64, error) {
	if err := access.Authorize(actor, access.BookChallan, ""); err != nil {
		return nil, 0, err
	}

	filter, err := challanFilter(input)
	if err != nil {
		return nil, 0, err
	}
	return s.challanRepo.List(ctx, filter, params.Offset(), params.Limit)
}

var challanRegisterHeaders = []string{
	"Challan No", "Date", "Type", "Origin", "Destination", "Vehicle No", "Owner Type",
	"Driver", "No of CNs", "Packages", "Charge Weight", "Hire", "Total Extra",
	"Total Hire", "Advance", "Less TDS", "Balance", "Status",
}

// ExportChallans renders every challan matching input as an xlsx register
func (s *ChallanService) ExportChallans(ctx context.Context, actor *domain.Actor, input *ListChallansInput) (*bytes.Buffer, error) {
	if err := access.Authorize(actor, access.BookChallan, ""); err != nil {
		return nil, err
	}

	filter, err := challanFilter(input)
	if err != nil {
		return nil, err
	}
	challans, _, err := s.challanRepo.List(ctx, filter, 0, 0)
	if err != nil {
		return nil, err
	}

	rows := make([][]interface{}, len(challans))
	for i, c := range challans {
		h := c.Hire
		rows[i] = []interface{}{
			c.ChallanNo,
			c.ChallanDate.Format("2006-01-02"),
			c.ChallanType,
			c.OriginBranch,
			c.DestinationBranch,
			c.VehicleNo,
			c.OwnerType,
			c.DriverName,
			h.NoOfCNs,
			h.NoOfPackages,
			h.ChargeWeight.InexactFloat64(),
			h.Hire.InexactFloat64(),
			h.TotalExtra.InexactFloat64(),
			h.TotalHire.InexactFloat64(),
			h.AdvancePayment.InexactFloat64(),
			h.LessTDS.InexactFloat64(),
			h.BalanceAmount.InexactFloat64(),
			c.Status,
		}
	}

	logger.Infof("Challan register exported by %s (%d rows)", actor.EmployeeCode, len(rows))
	return spreadsheet.Write(spreadsheet.Table{
		Sheet:   "Challans",
		Headers: challanRegisterHeaders,
		Rows:    rows,
	})
}

// allocateNumber derives the number from the clock; on a collision the next
// millisecond is tried.
func (s *ChallanService) allocateNumber(ctx context.Context) (string, error) {
	ms := s.now().UnixMilli()
	for i := int64(0); i < challanNoAttempts; i++ {
		no := ChallanNumber(ms + i)
		exists, err := s.challanRepo.ExistsByChallanNo(ctx, no)
		if err != nil {
			return "", err
		}
		if !exists {
			return no, nil
		}
	}
	return "", ErrChallanNoExhausted
}

func (s *ChallanService) parseDay(raw string, fallback time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now.With(fallback).BeginningOfDay(), nil
	}
	t, err := now.ParseInLocation(time.Local, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidChallanDate, raw)
	}
	return now.With(t).BeginningOfDay(), nil
}

func (s *ChallanService) optionalDay(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := s.parseDay(raw, time.Time{})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func challanFilter(input *ListChallansInput) (repositories.ChallanFilter, error) {
	r, err := daterange.Parse(input.From, input.To, time.Local)
	if err != nil {
		return repositories.ChallanFilter{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return repositories.ChallanFilter{
		Search: input.Search,
		Branch: strings.ToUpper(strings.TrimSpace(input.Branch)),
		Type:   strings.ToUpper(strings.TrimSpace(input.Type)),
		Status: strings.ToUpper(strings.TrimSpace(input.Status)),
		From:   r.From,
		To:     r.To,
	}, nil
}
