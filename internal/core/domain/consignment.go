package domain

import "github.com/shopspring/decimal"

// Dimensions of a single package in centimetres
type Dimensions struct {
	L decimal.Decimal `json:"l"`
	W decimal.Decimal `json:"w"`
	H decimal.Decimal `json:"h"`
}

// GoodsDetails describes what is being shipped
type GoodsDetails struct {
	GoodsClass   string          `json:"goods_class,omitempty"`
	GoodsDesc    string          `json:"goods_desc,omitempty"`
	HSNDesc      string          `json:"hsn_desc,omitempty"`
	ValueOfGoods decimal.Decimal `json:"value_of_goods"`
	CODAmount    decimal.Decimal `json:"cod_amount"`
	Volume       decimal.Decimal `json:"volume"`
	Dimensions   *Dimensions     `json:"dimensions,omitempty"`
	OddPackage   bool            `json:"odd_package"`
	SinglePiece  bool            `json:"single_piece"`
}

// PackageLine is one row of the package table
type PackageLine struct {
	SrNo   int    `json:"sr_no"`
	Method string `json:"method"`
	Qty    int    `json:"qty"`
}

// PackageDetails lists how the goods are packed
type PackageDetails struct {
	Packages []PackageLine `json:"packages"`
	TotalPkg int           `json:"total_pkg"`
	TotalQty int           `json:"total_qty"`
	LoosePkg bool          `json:"loose_pkg"`
}

// Totals recomputes TotalPkg and TotalQty from the package lines and numbers them.
func (p PackageDetails) Totals() PackageDetails {
	p.TotalPkg = len(p.Packages)
	p.TotalQty = 0
	for i := range p.Packages {
		p.Packages[i].SrNo = i + 1
		p.TotalQty += p.Packages[i].Qty
	}
	return p
}

// BillingDetails identifies who pays
type BillingDetails struct {
	BillingParty    string `json:"billing_party,omitempty"`
	BillingPartyGST string `json:"billing_party_gst,omitempty"`
	BillForStation  string `json:"bill_for_station,omitempty"`
	CneeType        string `json:"cnee_type,omitempty"`
	PartyCodeUnit   string `json:"party_code_unit,omitempty"`
	SectorDCC       string `json:"sector_dcc,omitempty"`
}

// InsuranceDetails of the goods in transit
type InsuranceDetails struct {
	InsuranceComp   string          `json:"insurance_comp,omitempty"`
	PolicyNo        string          `json:"policy_no,omitempty"`
	PolicyAmount    decimal.Decimal `json:"policy_amount"`
	PolicyValidDate string          `json:"policy_valid_date,omitempty"`
	PONo            string          `json:"po_no,omitempty"`
	PODate          string          `json:"po_date,omitempty"`
	STFNo           string          `json:"stf_no,omitempty"`
	STFValidUpto    string          `json:"stf_valid_upto,omitempty"`
}

// Invoice is one commercial invoice travelling with the goods
type Invoice struct {
	InvoiceNo string          `json:"invoice_no"`
	Date      string          `json:"date,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	EwayBill  string          `json:"eway_bill,omitempty"`
}

// InvoiceDetails groups invoices and e-way bill validity
type InvoiceDetails struct {
	Invoices     []Invoice `json:"invoices"`
	EwayFromDate string    `json:"eway_from_date,omitempty"`
	EwayToDate   string    `json:"eway_to_date,omitempty"`
	IndentNo     string    `json:"indent_no,omitempty"`
	IndentDate   string    `json:"indent_date,omitempty"`
}

// OtherDetails are free-form booking attributes
type OtherDetails struct {
	TransportMode  string `json:"transport_mode,omitempty"`
	TypeOfBusiness string `json:"type_of_business,omitempty"`
	DocPreparedBy  string `json:"doc_prepared_by,omitempty"`
}
