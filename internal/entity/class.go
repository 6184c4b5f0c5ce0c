// Package entity defines the closed set of PII entity classes, the span type
// produced by detectors, and the reversible placeholder token syntax shared
// by the sanitize and output-filter stages.
package entity

// Class identifies a PII entity class. The set is closed: adding a class
// means extending the exhaustive switches below, which the compiler checks
// via the String/Prefix/Weight methods rather than string comparison at
// call sites.
type Class int

const (
	Person Class = iota
	Org
	Location
	Money
	Date
	Time
	Number
	Group
	Email
	Phone
	PAN
	Aadhaar
	Card
	Account
	SSN
	IP
	URL
	Currency
	GenericID
)

// DefaultWeight is the risk weight for classes without a tuned entry.
const DefaultWeight = 7

// Classes lists every entity class in declaration order.
func Classes() []Class {
	return []Class{
		Person, Org, Location, Money, Date, Time, Number, Group,
		Email, Phone, PAN, Aadhaar, Card, Account, SSN, IP, URL,
		Currency, GenericID,
	}
}

// String returns the canonical class name.
func (c Class) String() string {
	switch c {
	case Person:
		return "PERSON"
	case Org:
		return "ORG"
	case Location:
		return "LOCATION"
	case Money:
		return "MONEY"
	case Date:
		return "DATE"
	case Time:
		return "TIME"
	case Number:
		return "NUMBER"
	case Group:
		return "GROUP"
	case Email:
		return "EMAIL"
	case Phone:
		return "PHONE"
	case PAN:
		return "PAN"
	case Aadhaar:
		return "AADHAAR"
	case Card:
		return "CARD"
	case Account:
		return "ACCOUNT"
	case SSN:
		return "SSN"
	case IP:
		return "IP"
	case URL:
		return "URL"
	case Currency:
		return "CURRENCY"
	case GenericID:
		return "GENERIC_ID"
	}
	return "UNKNOWN"
}

// Prefix returns the stable display prefix used inside placeholder tokens.
// Most classes reuse the canonical name; ACCOUNT and GENERIC_ID keep the
// short prefixes the wire format has always used.
func (c Class) Prefix() string {
	switch c {
	case Account:
		return "ACC"
	case GenericID:
		return "ID"
	default:
		return c.String()
	}
}

// Weight returns the fixed risk weight for the class. Classes without a
// tuned weight fall back to DefaultWeight.
func (c Class) Weight() int {
	switch c {
	case Email, Phone:
		return 20
	case GenericID:
		return 25
	case Person:
		return 15
	case Org, Location:
		return 10
	case Money:
		return 18
	case Date:
		return 6
	case Time:
		return 4
	case Number:
		return 5
	case Group:
		return 8
	case PAN, Aadhaar, Card, Account, SSN, IP, URL, Currency:
		return DefaultWeight
	}
	return DefaultWeight
}

// ParseClass resolves a canonical class name or display prefix to its Class.
func ParseClass(name string) (Class, bool) {
	for _, c := range Classes() {
		if name == c.String() || name == c.Prefix() {
			return c, true
		}
	}
	return 0, false
}
