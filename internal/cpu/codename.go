package cpu

// Codename is a processor generation. The numeric order is release order and
// is only meaningful for before/after comparisons.
type Codename int

const (
	Unknown Codename = iota
	SummitRidge
	PinnacleRidge
	RavenRidge
	Dali
	Pollock
	Picasso
	FireFlight
	Matisse
	Renoir
	Lucienne
	VanGogh
	Mendocino
	Vermeer
	CezanneBarcelo
	Rembrandt
	Raphael
	DragonRange
	PhoenixPoint
	PhoenixPoint2
	HawkPoint
	SonomaValley
	GraniteRidge
	FireRange
	StrixPoint
	StrixPoint2
	Sarlak

	// IntelCodename is reported for every Intel processor. It sits outside
	// the AMD release order.
	IntelCodename Codename = -1
)

var codenameNames = [...]string{
	"Unknown", "SummitRidge", "PinnacleRidge", "RavenRidge", "Dali", "Pollock",
	"Picasso", "FireFlight", "Matisse", "Renoir", "Lucienne", "VanGogh", "Mendocino",
	"Vermeer", "Cezanne_Barcelo", "Rembrandt", "Raphael", "DragonRange", "PhoenixPoint",
	"PhoenixPoint2", "HawkPoint", "SonomaValley", "GraniteRidge", "FireRange",
	"StrixPoint", "StrixPoint2", "Sarlak",
}

const intelName = "Intel"

func (c Codename) String() string {
	if c == IntelCodename {
		return intelName
	}
	if c < 0 || int(c) >= len(codenameNames) {
		return codenameNames[Unknown]
	}

	return codenameNames[c]
}

// Before reports whether c was released before pivot.
func (c Codename) Before(pivot Codename) bool {
	return c.known() && c < pivot
}

// After reports whether c was released after pivot.
func (c Codename) After(pivot Codename) bool {
	return c.known() && c > pivot
}

func (c Codename) known() bool {
	return c >= Unknown && int(c) < len(codenameNames)
}

// ParseCodename maps a persisted codename back to its value. Unrecognized
// names yield Unknown.
func ParseCodename(name string) Codename {
	if name == intelName {
		return IntelCodename
	}
	for i, n := range codenameNames {
		if n == name {
			return Codename(i)
		}
	}

	return Unknown
}

// Codenames lists every AMD codename in release order, Unknown first.
func Codenames() []Codename {
	out := make([]Codename, len(codenameNames))
	for i := range codenameNames {
		out[i] = Codename(i)
	}

	return out
}

func (c Codename) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Codename) UnmarshalText(text []byte) error {
	*c = ParseCodename(string(text))
	return nil
}
