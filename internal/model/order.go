package model

import (
	"strconv"
	"strings"
	"time"
)

// Amount is a permissive numeric value. Commerce APIs deliver monetary totals
// and quantities inconsistently (JSON number, quoted string, null, missing),
// so unmarshalling never fails: anything unparsable becomes 0.
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*a = 0
		return nil
	}
	*a = Amount(f)
	return nil
}

// Float64 returns the plain numeric value.
func (a Amount) Float64() float64 { return float64(a) }

// orderDateLayouts are tried in order when parsing order timestamps.
var orderDateLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// OrderDate is a permissive timestamp. A null, empty or unparsable value
// decodes to the zero time rather than an error.
type OrderDate struct {
	time.Time
}

func (d *OrderDate) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range orderDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	d.Time = time.Time{}
	return nil
}

func (d OrderDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format("2006-01-02T15:04:05") + `"`), nil
}

// MetaEntry is a single key/value pair on a line item. Values arrive as
// arbitrary JSON; ValueString flattens them for keyword matching.
type MetaEntry struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// ValueString renders the meta value as text, or "" when it is not a scalar.
func (m MetaEntry) ValueString() string {
	switch v := m.Value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// LineItem is one purchased line within an order.
type LineItem struct {
	ProductID   int64       `json:"product_id"`
	VariationID int64       `json:"variation_id,omitempty"`
	Name        string      `json:"name"`
	Quantity    Amount      `json:"quantity"`
	Subtotal    Amount      `json:"subtotal"`
	Total       Amount      `json:"total"`
	MetaData    []MetaEntry `json:"meta_data,omitempty"`
}

// Order is a single historical order as delivered by the commerce API.
// Orders are immutable input: the engine never mutates them.
type Order struct {
	ID             int64      `json:"id"`
	Status         string     `json:"status"`
	DateCreated    OrderDate  `json:"date_created"`
	DateCreatedGMT OrderDate  `json:"date_created_gmt"`
	DatePaid       OrderDate  `json:"date_paid,omitempty"`
	DateCompleted  OrderDate  `json:"date_completed,omitempty"`
	Total          Amount     `json:"total"`
	TotalRefunded  Amount     `json:"total_refunded"`
	LineItems      []LineItem `json:"line_items"`
}

// Date field names accepted in an eligibility policy's preference list.
const (
	DateFieldPaid      = "paid"
	DateFieldCompleted = "completed"
	DateFieldCreated   = "created"
)

// DateByField returns the named date field, or nil when that field is
// absent/zero on this order.
func (o *Order) DateByField(field string) *time.Time {
	var d OrderDate
	switch field {
	case DateFieldPaid:
		d = o.DatePaid
	case DateFieldCompleted:
		d = o.DateCompleted
	case DateFieldCreated:
		d = o.DateCreated
		if d.IsZero() {
			d = o.DateCreatedGMT
		}
	default:
		return nil
	}
	if d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

// ResolvedDate walks the preference list and returns the first present date,
// or nil when the order carries no usable date at all.
func (o *Order) ResolvedDate(preference []string) *time.Time {
	for _, field := range preference {
		if t := o.DateByField(field); t != nil {
			return t
		}
	}
	return nil
}
