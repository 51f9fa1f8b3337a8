package models

import (
	"time"

	"vgt-backoffice/internal/core/domain"
	"vgt-backoffice/internal/core/freight"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ============================================================
// Bookings: consignment notes & challans
// ============================================================

// Consignment is a consignment note (CN). The optional sections are typed
// JSON columns; freight totals are duplicated into plain columns for reports.
type Consignment struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	CNNo           *string         `gorm:"column:cn_no;size:20;uniqueIndex" json:"cn_no"`
	BookingDate    time.Time       `gorm:"not null;index" json:"booking_date"`
	BookingBranch  string          `gorm:"size:10;not null;index" json:"booking_branch"`
	DestBranch     string          `gorm:"size:10;not null;index" json:"dest_branch"`
	DeliveryType   string          `gorm:"size:10;not null;default:'godown'" json:"delivery_type"`
	DistanceKm     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"distance_km"`
	DoorCollection bool            `gorm:"not null;default:false" json:"door_collection"`
	OwnerRisk      bool            `gorm:"not null;default:false" json:"owner_risk"`
	ConsignorCode  string          `gorm:"size:6;not null;index" json:"consignor_code"`
	ConsignorName  string          `gorm:"size:150" json:"consignor_name"`
	ConsigneeCode  string          `gorm:"size:6;not null;index" json:"consignee_code"`
	ConsigneeName  string          `gorm:"size:150" json:"consignee_name"`
	NoOfPackages   int             `gorm:"not null;default:0" json:"no_of_packages"`
	ActualWeight   decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0" json:"actual_weight"`
	ChargedWeight  decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0" json:"charged_weight"`
	PackageMethod  string          `gorm:"size:30" json:"package_method"`
	PrivateMarks   string          `gorm:"size:100" json:"private_marks"`
	Remarks        string          `gorm:"type:text" json:"remarks"`

	FreightPending bool            `gorm:"not null;default:false" json:"freight_pending"`
	TotalFreight   decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"total_freight"`
	BalanceDue     decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"balance_due"`

	Freight   datatypes.JSONType[freight.Freight]          `json:"freight_details"`
	Goods     datatypes.JSONType[*domain.GoodsDetails]     `json:"goods_details"`
	Packages  datatypes.JSONType[*domain.PackageDetails]   `json:"package_details"`
	Billing   datatypes.JSONType[*domain.BillingDetails]   `json:"billing_details"`
	Insurance datatypes.JSONType[*domain.InsuranceDetails] `json:"insurance_details"`
	Invoice   datatypes.JSONType[*domain.InvoiceDetails]   `json:"invoice_details"`
	Other     datatypes.JSONType[*domain.OtherDetails]     `json:"other_details"`
	Tracking  datatypes.JSONType[[]domain.TrackingEvent]   `json:"tracking_history"`

	IsCancelled  bool       `gorm:"not null;default:false;index" json:"is_cancelled"`
	CancelReason string     `gorm:"size:255" json:"cancel_reason"`
	CancelledAt  *time.Time `json:"cancelled_at"`
	CreatedBy    string     `gorm:"size:36;not null" json:"created_by"`
	CreatedAt    time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Consignment) TableName() string {
	return "consignments"
}

// ChallanHire is the hire section of a challan, stored as plain columns.
type ChallanHire struct {
	NoOfCNs          int64           `gorm:"column:no_of_cns;not null;default:1" json:"no_of_cns"`
	NoOfPackages     int64           `gorm:"not null;default:0" json:"no_of_packages"`
	ActualWeight     decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0" json:"actual_weight"`
	ChargeWeight     decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0" json:"charge_weight"`
	VehicleCapacity  decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0" json:"vehicle_capacity"`
	LoadingPoints    int64           `gorm:"not null;default:0" json:"loading_points"`
	UnloadingPoints  int64           `gorm:"not null;default:0" json:"unloading_points"`
	RatePerKg        decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"rate_per_kg"`
	Hire             decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"hire"`
	OverWeight       decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"over_weight"`
	OverLength       decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"over_length"`
	OverHeight       decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"over_height"`
	OverWidth        decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"over_width"`
	ExtraKmCharges   decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"extra_km_charges"`
	DetentionCharges decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"detention_charges"`
	TransitPass      decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"transit_pass_charges"`
	AdvancePayment   decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"advance_payment"`
	TDSPercent       decimal.Decimal `gorm:"column:tds_percent;type:decimal(5,2);not null;default:0" json:"tds_percent"`
	TotalExtra       decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"total_extra"`
	TotalHire        decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"total_hire"`
	LessTDS          decimal.Decimal `gorm:"column:less_tds;type:decimal(14,2);not null;default:0" json:"less_tds"`
	BalanceAmount    decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"balance_amount"`
}

// NewChallanHire copies a computed hire section into columns.
func NewChallanHire(h freight.Hire) ChallanHire {
	h = h.Rounded()
	return ChallanHire{
		NoOfCNs:          h.NoOfCNs,
		NoOfPackages:     h.NoOfPackages,
		ActualWeight:     h.ActualWeight,
		ChargeWeight:     h.ChargeWeight,
		VehicleCapacity:  h.VehicleCapacity,
		LoadingPoints:    h.LoadingPoints,
		UnloadingPoints:  h.UnloadingPoints,
		RatePerKg:        h.RatePerKg,
		Hire:             h.Hire,
		OverWeight:       h.OverWeight,
		OverLength:       h.OverLength,
		OverHeight:       h.OverHeight,
		OverWidth:        h.OverWidth,
		ExtraKmCharges:   h.ExtraKmCharges,
		DetentionCharges: h.DetentionCharges,
		TransitPass:      h.TransitPass,
		AdvancePayment:   h.AdvancePayment,
		TDSPercent:       h.TDSPercent,
		TotalExtra:       h.TotalExtra,
		TotalHire:        h.TotalHire,
		LessTDS:          h.LessTDS,
		BalanceAmount:    h.BalanceAmount,
	}
}

// Challan is a vehicle hire manifest between two branches
type Challan struct {
	ID                uint        `gorm:"primaryKey" json:"id"`
	ChallanNo         string      `gorm:"size:20;uniqueIndex;not null" json:"challan_no"`
	ChallanDate       time.Time   `gorm:"not null;index" json:"challan_date"`
	OriginBranch      string      `gorm:"size:10;not null;index" json:"origin_branch"`
	DestinationBranch string      `gorm:"size:10;not null;index" json:"destination_branch"`
	ChallanType       string      `gorm:"size:10;not null;default:'MAIN';index" json:"challan_type"`
	OwnerType         string      `gorm:"size:10;not null;default:'MARKET'" json:"owner_type"`
	VehicleNo         string      `gorm:"size:15;not null;index" json:"vehicle_no"`
	OwnerName         string      `gorm:"size:100" json:"owner_name"`
	DriverName        string      `gorm:"size:100" json:"driver_name"`
	DriverMobile      string      `gorm:"size:15" json:"driver_mobile"`
	DateFrom          *time.Time  `json:"date_from"`
	DateTo            *time.Time  `json:"date_to"`
	Hire              ChallanHire `gorm:"embedded" json:"hire_details"`

	CreditDate       *time.Time      `json:"credit_date"`
	CardAmount       decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"card_amount"`
	CardNo           string          `gorm:"size:30" json:"card_no"`
	GenericNo        string          `gorm:"size:30" json:"generic_no"`
	BalPaymentBranch string          `gorm:"size:10" json:"bal_payment_branch"`

	Remarks   string    `gorm:"type:text" json:"remarks"`
	Status    string    `gorm:"size:15;not null;default:'ACTIVE';index" json:"status"`
	CreatedBy string    `gorm:"size:36;not null" json:"created_by"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Challan) TableName() string {
	return "challans"
}
