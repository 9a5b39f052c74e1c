package cpu

import "strings"

// Category groups codenames by the preset family that applies to them.
type Category string

const (
	CategoryAMDDesktop Category = "AmdDesktopCpu"
	CategoryAMDAPU     Category = "AmdApu"
	CategoryIntel      Category = "Intel"
	CategoryUnknown    Category = "Unknown"
)

// Architecture labels.
const (
	ArchZen1Zen2 = "Zen 1 – Zen 2"
	ArchZen3Zen4 = "Zen 3 – Zen 4"
	ArchZen5Zen6 = "Zen 5 – Zen 6"
	ArchIntel    = "Intel"
	ArchUnknown  = "Unknown"
)

// Classification is the immutable result of Classify.
type Classification struct {
	Architecture string   `json:"architecture"`
	Codename     Codename `json:"codename"`
	Category     Category `json:"category"`
}

type modelRule func(modelName string) Codename

func fixed(c Codename) modelRule {
	return func(string) Codename { return c }
}

func ifContains(match Codename, otherwise Codename, subs ...string) modelRule {
	return func(modelName string) Codename {
		for _, s := range subs {
			if strings.Contains(modelName, s) {
				return match
			}
		}
		return otherwise
	}
}

type familyBand struct {
	architecture string
	models       map[int]modelRule
	fallback     Codename
}

var familyBands = map[int]familyBand{
	23: {
		architecture: ArchZen1Zen2,
		fallback:     Unknown,
		models: map[int]modelRule{
			1:   fixed(SummitRidge),
			8:   fixed(PinnacleRidge),
			17:  fixed(RavenRidge),
			18:  fixed(RavenRidge),
			24:  fixed(Picasso),
			32:  ifContains(Pollock, Dali, "15e", "15Ce", "20e"),
			80:  fixed(FireFlight),
			96:  fixed(Renoir),
			104: fixed(Lucienne),
			113: fixed(Matisse),
			144: fixed(VanGogh),
			160: fixed(Mendocino),
		},
	},
	25: {
		architecture: ArchZen3Zen4,
		fallback:     Unknown,
		models: map[int]modelRule{
			33:  fixed(Vermeer),
			63:  fixed(Rembrandt),
			68:  fixed(Rembrandt),
			80:  fixed(CezanneBarcelo),
			97:  ifContains(DragonRange, Raphael, "HX"),
			116: fixed(PhoenixPoint),
			117: fixed(HawkPoint),
			120: fixed(PhoenixPoint2),
		},
	},
	26: {
		architecture: ArchZen5Zen6,
		fallback:     GraniteRidge,
		models: map[int]modelRule{
			32: fixed(StrixPoint),
		},
	},
}

var desktopCodenames = map[Codename]struct{}{
	SummitRidge:   {},
	PinnacleRidge: {},
	Matisse:       {},
	Vermeer:       {},
	Raphael:       {},
	GraniteRidge:  {},
}

// Classify maps a signature and marketing model name to a Classification.
// It never fails: unrecognized input yields codename and category Unknown.
func Classify(sig Signature, modelName string) Classification {
	if IsIntelVendor(sig.VendorHint) {
		return Classification{
			Architecture: ArchIntel,
			Codename:     IntelCodename,
			Category:     CategoryIntel,
		}
	}

	band, ok := familyBands[sig.Family]
	if !ok {
		return Classification{
			Architecture: ArchUnknown,
			Codename:     Unknown,
			Category:     CategoryUnknown,
		}
	}

	codename := band.fallback
	if rule, ok := band.models[sig.Model]; ok {
		codename = rule(modelName)
	}

	return Classification{
		Architecture: band.architecture,
		Codename:     codename,
		Category:     CategoryOf(band.architecture, codename),
	}
}

// CategoryOf derives the category from architecture and codename.
func CategoryOf(architecture string, codename Codename) Category {
	if _, ok := desktopCodenames[codename]; ok {
		return CategoryAMDDesktop
	}

	switch {
	case architecture == ArchIntel:
		return CategoryIntel
	case codename == Unknown:
		return CategoryUnknown
	default:
		return CategoryAMDAPU
	}
}

// IsIntelVendor reports whether a vendor string names Intel
// ("GenuineIntel", "Intel(R) Corporation", ...).
func IsIntelVendor(vendor string) bool {
	return strings.Contains(strings.ToLower(vendor), "intel")
}
