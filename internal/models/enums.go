package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownEnumID is returned when a stored id does not match any variant.
var ErrUnknownEnumID = errors.New("unknown enum id")

// scanInt64 normalises the driver values an integer column may come back as.
func scanInt64(src interface{}) (int64, error) {
	switch v := src.(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case int:
		return int64(v), nil
	case []byte:
		n, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot scan %q into enum: %w", v, err)
		}
		return n, nil
	case nil:
		return 0, errors.New("cannot scan NULL into enum")
	default:
		return 0, fmt.Errorf("cannot scan %T into enum", src)
	}
}

// --- Gender ---

type Gender int

const (
	GenderMale   Gender = 1
	GenderFemale Gender = 2
	GenderOther  Gender = 3
)

var genderNames = map[Gender]string{
	GenderMale:   "male",
	GenderFemale: "female",
	GenderOther:  "other",
}

// AllGenders lists the variants in id order.
var AllGenders = []Gender{GenderMale, GenderFemale, GenderOther}

func (g Gender) ID() int64 { return int64(g) }

// GenderFromID decodes a stored gender id.
func GenderFromID(id int64) (Gender, error) {
	g := Gender(id)
	if _, ok := genderNames[g]; !ok {
		return 0, fmt.Errorf("%w: gender %d", ErrUnknownEnumID, id)
	}
	return g, nil
}

func (g Gender) String() string { return genderNames[g] }

func (g Gender) Value() (driver.Value, error) {
	if _, ok := genderNames[g]; !ok {
		return nil, fmt.Errorf("%w: gender %d", ErrUnknownEnumID, int64(g))
	}
	return g.ID(), nil
}

func (g *Gender) Scan(src interface{}) error {
	id, err := scanInt64(src)
	if err != nil {
		return err
	}
	v, err := GenderFromID(id)
	if err != nil {
		return err
	}
	*g = v
	return nil
}

func (g Gender) MarshalJSON() ([]byte, error) { return json.Marshal(g.String()) }

func (g *Gender) UnmarshalJSON(b []byte) error {
	return unmarshalEnumName(b, "gender", genderNames, g)
}

// --- IdentityDocumentType ---

type IdentityDocumentType int

const (
	IdentityDocumentDNI            IdentityDocumentType = 1
	IdentityDocumentNIE            IdentityDocumentType = 2
	IdentityDocumentNIF            IdentityDocumentType = 3
	IdentityDocumentPassport       IdentityDocumentType = 4
	IdentityDocumentDrivingLicence IdentityDocumentType = 5
)

var identityDocumentTypeNames = map[IdentityDocumentType]string{
	IdentityDocumentDNI:            "dni",
	IdentityDocumentNIE:            "nie",
	IdentityDocumentNIF:            "nif",
	IdentityDocumentPassport:       "passport",
	IdentityDocumentDrivingLicence: "driving_licence",
}

func (t IdentityDocumentType) ID() int64 { return int64(t) }

// IdentityDocumentTypeFromID decodes a stored document type id.
func IdentityDocumentTypeFromID(id int64) (IdentityDocumentType, error) {
	t := IdentityDocumentType(id)
	if _, ok := identityDocumentTypeNames[t]; !ok {
		return 0, fmt.Errorf("%w: identity document type %d", ErrUnknownEnumID, id)
	}
	return t, nil
}

func (t IdentityDocumentType) String() string { return identityDocumentTypeNames[t] }

func (t IdentityDocumentType) Value() (driver.Value, error) {
	if _, ok := identityDocumentTypeNames[t]; !ok {
		return nil, fmt.Errorf("%w: identity document type %d", ErrUnknownEnumID, int64(t))
	}
	return t.ID(), nil
}

func (t *IdentityDocumentType) Scan(src interface{}) error {
	id, err := scanInt64(src)
	if err != nil {
		return err
	}
	v, err := IdentityDocumentTypeFromID(id)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (t IdentityDocumentType) MarshalJSON() ([]byte, error) { return json.Marshal(t.String()) }

func (t *IdentityDocumentType) UnmarshalJSON(b []byte) error {
	return unmarshalEnumName(b, "identity document type", identityDocumentTypeNames, t)
}

// --- PaymentMethod ---

type PaymentMethod int

const (
	PaymentMethodCash PaymentMethod = 1
	PaymentMethodCard PaymentMethod = 2
	// PaymentMethodRoomCharge leaves the invoice unpaid and attaches it to a reservation.
	PaymentMethodRoomCharge PaymentMethod = 3
)

var paymentMethodNames = map[PaymentMethod]string{
	PaymentMethodCash:       "cash",
	PaymentMethodCard:       "card",
	PaymentMethodRoomCharge: "room_charge",
}

func (p PaymentMethod) ID() int64 { return int64(p) }

// PaymentMethodFromID decodes a stored payment method id.
func PaymentMethodFromID(id int64) (PaymentMethod, error) {
	p := PaymentMethod(id)
	if _, ok := paymentMethodNames[p]; !ok {
		return 0, fmt.Errorf("%w: payment method %d", ErrUnknownEnumID, id)
	}
	return p, nil
}

func (p PaymentMethod) String() string { return paymentMethodNames[p] }

func (p PaymentMethod) Value() (driver.Value, error) {
	if _, ok := paymentMethodNames[p]; !ok {
		return nil, fmt.Errorf("%w: payment method %d", ErrUnknownEnumID, int64(p))
	}
	return p.ID(), nil
}

func (p *PaymentMethod) Scan(src interface{}) error {
	id, err := scanInt64(src)
	if err != nil {
		return err
	}
	v, err := PaymentMethodFromID(id)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (p PaymentMethod) MarshalJSON() ([]byte, error) { return json.Marshal(p.String()) }

func (p *PaymentMethod) UnmarshalJSON(b []byte) error {
	return unmarshalEnumName(b, "payment method", paymentMethodNames, p)
}

// --- TableLocation ---

type TableLocation int

const (
	TableLocationBar        TableLocation = 0
	TableLocationRestaurant TableLocation = 1
	TableLocationGarden     TableLocation = 2
)

var tableLocationNames = map[TableLocation]string{
	TableLocationBar:        "bar",
	TableLocationRestaurant: "restaurant",
	TableLocationGarden:     "garden",
}

func (l TableLocation) ID() int64 { return int64(l) }

// TableLocationFromID decodes a stored table location id.
func TableLocationFromID(id int64) (TableLocation, error) {
	l := TableLocation(id)
	if _, ok := tableLocationNames[l]; !ok {
		return 0, fmt.Errorf("%w: table location %d", ErrUnknownEnumID, id)
	}
	return l, nil
}

// ParseTableLocation accepts the location name used in URLs.
func ParseTableLocation(name string) (TableLocation, error) {
	var l TableLocation
	err := parseEnumName(strings.ToLower(strings.TrimSpace(name)), "table location", tableLocationNames, &l)
	return l, err
}

func (l TableLocation) String() string { return tableLocationNames[l] }

func (l TableLocation) Value() (driver.Value, error) {
	if _, ok := tableLocationNames[l]; !ok {
		return nil, fmt.Errorf("%w: table location %d", ErrUnknownEnumID, int64(l))
	}
	return l.ID(), nil
}

func (l *TableLocation) Scan(src interface{}) error {
	id, err := scanInt64(src)
	if err != nil {
		return err
	}
	v, err := TableLocationFromID(id)
	if err != nil {
		return err
	}
	*l = v
	return nil
}

func (l TableLocation) MarshalJSON() ([]byte, error) { return json.Marshal(l.String()) }

func (l *TableLocation) UnmarshalJSON(b []byte) error {
	return unmarshalEnumName(b, "table location", tableLocationNames, l)
}

// --- TicketStatus ---

type TicketStatus int

const (
	TicketStatusPending TicketStatus = 0
	// TicketStatusPrinted locks the ticket until it is unlocked or paid.
	TicketStatusPrinted TicketStatus = 1
)

var ticketStatusNames = map[TicketStatus]string{
	TicketStatusPending: "pending",
	TicketStatusPrinted: "printed",
}

func (s TicketStatus) ID() int64 { return int64(s) }

// TicketStatusFromID decodes a stored ticket status id.
func TicketStatusFromID(id int64) (TicketStatus, error) {
	s := TicketStatus(id)
	if _, ok := ticketStatusNames[s]; !ok {
		return 0, fmt.Errorf("%w: ticket status %d", ErrUnknownEnumID, id)
	}
	return s, nil
}

func (s TicketStatus) String() string { return ticketStatusNames[s] }

func (s TicketStatus) Value() (driver.Value, error) {
	if _, ok := ticketStatusNames[s]; !ok {
		return nil, fmt.Errorf("%w: ticket status %d", ErrUnknownEnumID, int64(s))
	}
	return s.ID(), nil
}

func (s *TicketStatus) Scan(src interface{}) error {
	id, err := scanInt64(src)
	if err != nil {
		return err
	}
	v, err := TicketStatusFromID(id)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s TicketStatus) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

// --- TicketType ---

// TicketType selects the printed layout. It is never stored.
type TicketType string

const (
	TicketTypeReceipt TicketType = "receipt"
	TicketTypeInvoice TicketType = "invoice"
)

// IsValidTicketType checks if the provided string names a TicketType.
func IsValidTicketType(t string) bool {
	switch TicketType(t) {
	case TicketTypeReceipt, TicketTypeInvoice:
		return true
	default:
		return false
	}
}

func parseEnumName[E comparable](name, kind string, names map[E]string, dst *E) error {
	for v, n := range names {
		if n == name {
			*dst = v
			return nil
		}
	}
	return fmt.Errorf("%w: %s %q", ErrUnknownEnumID, kind, name)
}

func unmarshalEnumName[E comparable](b []byte, kind string, names map[E]string, dst *E) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return fmt.Errorf("%s must be a string: %w", kind, err)
	}
	return parseEnumName(strings.ToLower(strings.TrimSpace(name)), kind, names, dst)
}
