package extract

// Field identifies one column of an extracted record
type Field int

// Fields in display order
const (
	FieldOrderDate Field = iota
	FieldOrderID
	FieldCustomerName
	FieldDeliveryAddress
	FieldProductDetail
	FieldTotalAmount
	FieldSourceFilename
)

// Fields lists every field in the fixed display order
var Fields = []Field{
	FieldOrderDate,
	FieldOrderID,
	FieldCustomerName,
	FieldDeliveryAddress,
	FieldProductDetail,
	FieldTotalAmount,
	FieldSourceFilename,
}

var fieldKeys = map[Field]string{
	FieldOrderDate:       "order_date",
	FieldOrderID:         "order_id",
	FieldCustomerName:    "customer_name",
	FieldDeliveryAddress: "delivery_address",
	FieldProductDetail:   "product_detail",
	FieldTotalAmount:     "total_amount",
	FieldSourceFilename:  "source_filename",
}

var fieldLabels = map[Field]string{
	FieldOrderDate:       "注文日",
	FieldOrderID:         "注文ID",
	FieldCustomerName:    "顧客名",
	FieldDeliveryAddress: "お届け先住所",
	FieldProductDetail:   "商品詳細",
	FieldTotalAmount:     "合計金額",
	FieldSourceFilename:  "ファイル名",
}

// Key returns the snake_case identifier of the field
func (f Field) Key() string {
	if k, ok := fieldKeys[f]; ok {
		return k
	}
	return "unknown"
}

// Label returns the localized column header for the field
func (f Field) Label() string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	return f.Key()
}

func (f Field) String() string {
	return f.Key()
}

// ParseField looks a field up by its key or its localized label
func ParseField(s string) (Field, bool) {
	for _, f := range Fields {
		if fieldKeys[f] == s || fieldLabels[f] == s {
			return f, true
		}
	}
	return 0, false
}

// FieldSet is a set of fields
type FieldSet uint16

// AllFields contains every field
func AllFields() FieldSet {
	var s FieldSet
	for _, f := range Fields {
		s = s.With(f)
	}
	return s
}

// Has reports whether f is in the set
func (s FieldSet) Has(f Field) bool {
	return s&(1<<uint(f)) != 0
}

// With returns the set plus f
func (s FieldSet) With(f Field) FieldSet {
	return s | 1<<uint(f)
}

// Without returns the set minus f
func (s FieldSet) Without(f Field) FieldSet {
	return s &^ (1 << uint(f))
}

// Union returns the fields in either set
func (s FieldSet) Union(o FieldSet) FieldSet {
	return s | o
}

// Intersect returns the fields in both sets
func (s FieldSet) Intersect(o FieldSet) FieldSet {
	return s & o
}

// Ordered returns the members of the set in display order
func (s FieldSet) Ordered() []Field {
	var out []Field
	for _, f := range Fields {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// Record is the flat set of order fields pulled from one slip. Every value
// defaults to the empty string.
type Record struct {
	OrderID         string `json:"order_id"`
	OrderDate       string `json:"order_date"`
	CustomerName    string `json:"customer_name"`
	DeliveryAddress string `json:"delivery_address"`
	TotalAmount     string `json:"total_amount"`
	ProductDetail   string `json:"product_detail"`
	SourceFilename  string `json:"source_filename"`

	// Present is the set of fields this record carries. Records built by
	// NewRecord carry all of them.
	Present FieldSet `json:"-"`
}

// NewRecord returns an empty record for filename carrying every field
func NewRecord(filename string) Record {
	return Record{
		SourceFilename: filename,
		Present:        AllFields(),
	}
}

// Value returns the value of field f
func (r Record) Value(f Field) string {
	switch f {
	case FieldOrderDate:
		return r.OrderDate
	case FieldOrderID:
		return r.OrderID
	case FieldCustomerName:
		return r.CustomerName
	case FieldDeliveryAddress:
		return r.DeliveryAddress
	case FieldProductDetail:
		return r.ProductDetail
	case FieldTotalAmount:
		return r.TotalAmount
	case FieldSourceFilename:
		return r.SourceFilename
	default:
		return ""
	}
}

// Set assigns v to field f and marks the field present
func (r *Record) Set(f Field, v string) {
	switch f {
	case FieldOrderDate:
		r.OrderDate = v
	case FieldOrderID:
		r.OrderID = v
	case FieldCustomerName:
		r.CustomerName = v
	case FieldDeliveryAddress:
		r.DeliveryAddress = v
	case FieldProductDetail:
		r.ProductDetail = v
	case FieldTotalAmount:
		r.TotalAmount = v
	case FieldSourceFilename:
		r.SourceFilename = v
	default:
		return
	}
	r.Present = r.Present.With(f)
}

// Filled returns the fields whose value is non-empty
func (r Record) Filled() FieldSet {
	var s FieldSet
	for _, f := range Fields {
		if r.Value(f) != "" {
			s = s.With(f)
		}
	}
	return s
}
