package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
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
	"vgt-backoffice/internal/pkg/validate"

	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Consignment service errors
var (
	ErrConsignmentNotFound  = errors.New("consignment not found")
	ErrConsignmentCancelled = errors.New("consignment is cancelled")
	ErrSameBranch           = errors.New("destination must differ from booking branch")
	ErrPartyInactive        = errors.New("party is deactivated")
	ErrPartyWrongType       = errors.New("party type does not allow this role")
	ErrNegativeWeight       = errors.New("weights must not be negative")
	ErrInvalidBookingDate   = errors.New("invalid booking date")
)

// Tracking statuses written by the service
const (
	TrackingBooked    = "BOOKED"
	TrackingCancelled = "CANCELLED"
)

// ConsignmentService books and tracks consignment notes
type ConsignmentService struct {
	cnRepo     repositories.ConsignmentRepository
	partyRepo  repositories.PartyRepository
	branchRepo repositories.BranchRepository
	now        func() time.Time
}

// NewConsignmentService creates a new consignment service
func NewConsignmentService(
	cnRepo repositories.ConsignmentRepository,
	partyRepo repositories.PartyRepository,
	branchRepo repositories.BranchRepository,
) *ConsignmentService {
	return &ConsignmentService{
		cnRepo:     cnRepo,
		partyRepo:  partyRepo,
		branchRepo: branchRepo,
		now:        time.Now,
	}
}

// ConsignmentInput represents a consignment booking
type ConsignmentInput struct {
	BookingDate    string          `json:"booking_date"`
	BookingBranch  string          `json:"booking_branch" validate:"required,max=10"`
	DestBranch     string          `json:"dest_branch" validate:"required,max=10"`
	DeliveryType   string          `json:"delivery_type" validate:"omitempty,oneof=door godown"`
	DistanceKm     decimal.Decimal `json:"distance_km"`
	DoorCollection bool            `json:"door_collection"`
	OwnerRisk      bool            `json:"owner_risk"`
	ConsignorCode  string          `json:"consignor_code" validate:"required,partycode"`
	ConsigneeCode  string          `json:"consignee_code" validate:"required,partycode"`
	ActualWeight   decimal.Decimal `json:"actual_weight"`
	ChargedWeight  decimal.Decimal `json:"charged_weight"`
	PackageMethod  string          `json:"package_method" validate:"max=30"`
	PrivateMarks   string          `json:"private_marks" validate:"max=100"`
	Remarks        string          `json:"remarks"`

	Freight   freight.Freight          `json:"freight_details"`
	Goods     *domain.GoodsDetails     `json:"goods_details"`
	Packages  *domain.PackageDetails   `json:"package_details"`
	Billing   *domain.BillingDetails   `json:"billing_details"`
	Insurance *domain.InsuranceDetails `json:"insurance_details"`
	Invoice   *domain.InvoiceDetails   `json:"invoice_details"`
	Other     *domain.OtherDetails     `json:"other_details"`
}

// TrackingInput represents a tracking update
type TrackingInput struct {
	Status      string `json:"status" validate:"required,max=30"`
	Location    string `json:"location" validate:"required,max=100"`
	Description string `json:"description" validate:"max=255"`
}

// CancelInput represents a cancellation request
type CancelInput struct {
	Reason string `json:"reason" validate:"required,min=3,max=255"`
}

// ListConsignmentsInput represents list consignments input
type ListConsignmentsInput struct {
	Search           string
	Branch           string
	From             string
	To               string
	IncludeCancelled bool
}

// CreateConsignment books a consignment. Freight totals are always
// recomputed here; client supplied totals are ignored.
func (s *ConsignmentService) CreateConsignment(ctx context.Context, actor *domain.Actor, input *ConsignmentInput) (*models.Consignment, error) {
	if err := access.Authorize(actor, access.BookConsignment, ""); err != nil {
		return nil, err
	}
	if err := validate.Struct(input); err != nil {
		return nil, domain.Invalid(err)
	}
	if input.ActualWeight.IsNegative() || input.ChargedWeight.IsNegative() {
		return nil, ErrNegativeWeight
	}

	bookingDate, err := s.bookingDate(input.BookingDate)
	if err != nil {
		return nil, err
	}

	from, err := lookupBranch(ctx, s.branchRepo, input.BookingBranch)
	if err != nil {
		return nil, err
	}
	to, err := lookupBranch(ctx, s.branchRepo, input.DestBranch)
	if err != nil {
		return nil, err
	}
	if from.Code == to.Code {
		return nil, ErrSameBranch
	}

	consignor, err := s.lookupParty(ctx, input.ConsignorCode, domain.PartyConsignor)
	if err != nil {
		return nil, err
	}
	consignee, err := s.lookupParty(ctx, input.ConsigneeCode, domain.PartyConsignee)
	if err != nil {
		return nil, err
	}

	input.Freight.ChargedWeight = input.ChargedWeight
	priced := freight.ComputeFreight(input.Freight).Rounded()

	deliveryType := input.DeliveryType
	if deliveryType == "" {
		deliveryType = domain.DeliveryGodown
	}

	noOfPackages := 0
	if input.Packages != nil {
		totals := input.Packages.Totals()
		input.Packages = &totals
		noOfPackages = totals.TotalQty
	}

	cn := &models.Consignment{
		BookingDate:    bookingDate,
		BookingBranch:  from.Code,
		DestBranch:     to.Code,
		DeliveryType:   deliveryType,
		DistanceKm:     input.DistanceKm,
		DoorCollection: input.DoorCollection,
		OwnerRisk:      input.OwnerRisk,
		ConsignorCode:  consignor.Code,
		ConsignorName:  consignor.Name,
		ConsigneeCode:  consignee.Code,
		ConsigneeName:  consignee.Name,
		NoOfPackages:   noOfPackages,
		ActualWeight:   input.ActualWeight,
		ChargedWeight:  input.ChargedWeight,
		PackageMethod:  strings.TrimSpace(input.PackageMethod),
		PrivateMarks:   strings.TrimSpace(input.PrivateMarks),
		Remarks:        strings.TrimSpace(input.Remarks),
		FreightPending: priced.Pending,
		TotalFreight:   priced.TotalFreight,
		BalanceDue:     priced.Balance,
		Freight:        datatypes.NewJSONType(priced),
		Goods:          datatypes.NewJSONType(input.Goods),
		Packages:       datatypes.NewJSONType(input.Packages),
		Billing:        datatypes.NewJSONType(input.Billing),
		Insurance:      datatypes.NewJSONType(input.Insurance),
		Invoice:        datatypes.NewJSONType(input.Invoice),
		Other:          datatypes.NewJSONType(input.Other),
		Tracking: datatypes.NewJSONType([]domain.TrackingEvent{{
			Date:        s.now(),
			Status:      TrackingBooked,
			Location:    from.Name,
			Description: "Booked at " + from.Code,
		}}),
		CreatedBy: actor.ID,
	}

	if err := s.cnRepo.Create(ctx, cn); err != nil {
		return nil, err
	}

	logger.Successf("Consignment %s booked by %s (%s -> %s, freight %s)",
		*cn.CNNo, actor.EmployeeCode, cn.BookingBranch, cn.DestBranch, cn.TotalFreight.StringFixed(2))
	return cn, nil
}

// GetConsignment gets a consignment by CN number
func (s *ConsignmentService) GetConsignment(ctx context.Context, actor *domain.Actor, cnNo string) (*models.Consignment, error) {
	if err := access.Authorize(actor, access.BookConsignment, ""); err != nil {
		return nil, err
	}
	return s.getConsignment(ctx, cnNo)
}

// ListConsignments lists consignments newest first
func (s *ConsignmentService) ListConsignments(ctx context.Context, actor *domain.Actor, input *ListConsignmentsInput, params *pagination.Params) ([]*models.Consignment, int64, error) {
	if err := access.Authorize(actor, access.BookConsignment, ""); err != nil {
		return nil, 0, err
	}

	r, err := daterange.Parse(input.From, input.To, time.Local)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	return s.cnRepo.List(ctx, repositories.ConsignmentFilter{
		Search:           input.Search,
		Branch:           strings.ToUpper(strings.TrimSpace(input.Branch)),
		From:             r.From,
		To:               r.To,
		IncludeCancelled: input.IncludeCancelled,
	}, params.Offset(), params.Limit)
}

// AddTrackingEvent appends an entry to the tracking history
func (s *ConsignmentService) AddTrackingEvent(ctx context.Context, actor *domain.Actor, cnNo string, input *TrackingInput) (*models.Consignment, error) {
	if err := access.Authorize(actor, access.BookConsignment, ""); err != nil {
		return nil, err
	}
	if err := validate.Struct(input); err != nil {
		return nil, domain.Invalid(err)
	}

	cn, err := s.getConsignment(ctx, cnNo)
	if err != nil {
		return nil, err
	}
	if cn.IsCancelled {
		return nil, ErrConsignmentCancelled
	}

	s.track(cn, domain.TrackingEvent{
		Date:        s.now(),
		Status:      strings.ToUpper(strings.TrimSpace(input.Status)),
		Location:    strings.TrimSpace(input.Location),
		Description: strings.TrimSpace(input.Description),
	})

	if err := s.cnRepo.Update(ctx, cn); err != nil {
		return nil, err
	}
	return cn, nil
}

// CancelConsignment cancels a booking; the row is kept
func (s *ConsignmentService) CancelConsignment(ctx context.Context, actor *domain.Actor, cnNo string, input *CancelInput) (*models.Consignment, error) {
	if err := access.Authorize(actor, access.BookConsignment, ""); err != nil {
		return nil, err
	}
	if err := validate.Struct(input); err != nil {
		return nil, domain.Invalid(err)
	}

	cn, err := s.getConsignment(ctx, cnNo)
	if err != nil {
		return nil, err
	}
	if cn.IsCancelled {
		return nil, ErrConsignmentCancelled
	}

	at := s.now()
	cn.IsCancelled = true
	cn.CancelReason = strings.TrimSpace(input.Reason)
	cn.CancelledAt = &at
	s.track(cn, domain.TrackingEvent{
		Date:        at,
		Status:      TrackingCancelled,
		Location:    cn.BookingBranch,
		Description: cn.CancelReason,
	})

	if err := s.cnRepo.Update(ctx, cn); err != nil {
		return nil, err
	}

	logger.Warningf("Consignment %s cancelled by %s: %s", cnNo, actor.EmployeeCode, cn.CancelReason)
	return cn, nil
}

func (s *ConsignmentService) track(cn *models.Consignment, ev domain.TrackingEvent) {
	history := append(slices.Clone(cn.Tracking.Data()), ev)
	cn.Tracking = datatypes.NewJSONType(history)
}

func (s *ConsignmentService) bookingDate(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return now.With(s.now()).BeginningOfDay(), nil
	}
	t, err := now.ParseInLocation(time.Local, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, ErrInvalidBookingDate
	}
	return now.With(t).BeginningOfDay(), nil
}

func (s *ConsignmentService) lookupParty(ctx context.Context, code string, role domain.PartyType) (*models.Party, error) {
	party, err := s.partyRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrPartyNotFound, code)
		}
		return nil, err
	}
	if !party.IsActive {
		return nil, fmt.Errorf("%w: %s", ErrPartyInactive, code)
	}
	if !slices.Contains(PartyTypesFor(string(role)), party.Type) {
		return nil, fmt.Errorf("%w: %s is %s, not %s", ErrPartyWrongType, code, party.Type, role)
	}
	return party, nil
}

func (s *ConsignmentService) getConsignment(ctx context.Context, cnNo string) (*models.Consignment, error) {
	cn, err := s.cnRepo.GetByCNNo(ctx, strings.ToUpper(strings.TrimSpace(cnNo)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConsignmentNotFound
		}
		return nil, err
	}
	return cn, nil
}
