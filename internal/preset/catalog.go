// Package preset holds the preset catalog and the rules that pick the preset
// group for a classified processor.
package preset

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"codeberg.org/mutker/ryzenctl/internal/errors"
	"github.com/BurntSushi/toml"
)

//go:embed catalog.toml
var embeddedCatalog []byte

// GroupID identifies a preset group in the catalog.
type GroupID string

const (
	APUPreMatisseUeCe GroupID = "AMDAPUPreMatisse_U_e_Ce"
	APUPreMatisseH    GroupID = "AMDAPUPreMatisse_H"
	APUPreMatisseGE   GroupID = "AMDAPUPreMatisse_GE"
	APUPreMatisseG    GroupID = "AMDAPUPreMatisse_G"

	APUPostMatisseU  GroupID = "AMDAPUPostMatisse_U"
	APUPostMatisseHX GroupID = "AMDAPUPostMatisse_HX"
	APUPostMatisseHS GroupID = "AMDAPUPostMatisse_HS"
	APUPostMatisseH  GroupID = "AMDAPUPostMatisse_H"
	APUPostMatisseGE GroupID = "AMDAPUPostMatisse_GE"
	APUPostMatisseG  GroupID = "AMDAPUPostMatisse_G"

	CPUPreRaphaelE   GroupID = "AMDCPUPreRaphael_E"
	CPUPreRaphaelX3D GroupID = "AMDCPUPreRaphael_X3D"
	CPUPreRaphaelX9  GroupID = "AMDCPUPreRaphael_X9"
	CPUPreRaphaelX   GroupID = "AMDCPUPreRaphael_X"
	CPUPreRaphael    GroupID = "AMDCPUPreRaphael"

	CPUE   GroupID = "AMDCPU_E"
	CPUX3D GroupID = "AMDCPU_X3D"
	CPUX9  GroupID = "AMDCPU_X9"
	CPU    GroupID = "AMDCPU"
)

// Well-known preset names. Every catalog group carries the first four.
const (
	Eco         = "Eco"
	Balance     = "Balance"
	Performance = "Performance"
	Extreme     = "Extreme"
	Custom      = "Custom"
)

var requiredPresets = []string{Eco, Balance, Performance, Extreme}

// Preset is a named RyzenAdj argument string.
type Preset struct {
	Name string `toml:"name" json:"name"`
	Args string `toml:"args" json:"args"`
}

// Group is an ordered set of presets.
type Group struct {
	ID          GroupID  `toml:"id" json:"id"`
	Description string   `toml:"description" json:"description"`
	Presets     []Preset `toml:"preset" json:"presets"`
}

// Lookup returns the preset with the given name.
func (g Group) Lookup(name string) (Preset, bool) {
	for _, p := range g.Presets {
		if p.Name == name {
			return p, true
		}
	}

	return Preset{}, false
}

// Names returns the preset names in catalog order.
func (g Group) Names() []string {
	names := make([]string, len(g.Presets))
	for i, p := range g.Presets {
		names[i] = p.Name
	}

	return names
}

type catalogFile struct {
	Groups []Group `toml:"group"`
}

// Catalog is a read-only mapping from group id to preset group.
type Catalog struct {
	groups []Group
	index  map[GroupID]int
}

// DefaultCatalog returns the catalog compiled into the binary.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(embeddedCatalog)
}

// LoadCatalog returns the default catalog with the groups from the TOML file
// at path layered on top. Groups in the file replace default groups with the
// same id; new ids are appended. An empty path yields the default catalog.
func LoadCatalog(path string) (*Catalog, error) {
	c, err := DefaultCatalog()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New().Wrap(errors.ErrInvalidCatalog, err)
	}

	override, err := ParseCatalog(data)
	if err != nil {
		return nil, err
	}

	for _, g := range override.groups {
		c.put(g)
	}

	return c, nil
}

// ParseCatalog decodes and validates a TOML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	errFactory := errors.New()

	var file catalogFile
	if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&file); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidCatalog, err)
	}

	c := &Catalog{index: make(map[GroupID]int, len(file.Groups))}
	for _, g := range file.Groups {
		if err := validateGroup(g); err != nil {
			return nil, errFactory.WithData(errors.ErrInvalidCatalog, err.Error())
		}
		if _, dup := c.index[g.ID]; dup {
			return nil, errFactory.WithData(errors.ErrInvalidCatalog,
				fmt.Sprintf("duplicate group %s", g.ID))
		}
		c.put(g)
	}

	return c, nil
}

func validateGroup(g Group) error {
	if g.ID == "" {
		return fmt.Errorf("group without id")
	}

	seen := make(map[string]struct{}, len(g.Presets))
	for _, p := range g.Presets {
		if p.Name == "" {
			return fmt.Errorf("group %s: preset without name", g.ID)
		}
		if p.Name == Custom {
			return fmt.Errorf("group %s: preset name %q is reserved", g.ID, Custom)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("group %s: duplicate preset %s", g.ID, p.Name)
		}
		seen[p.Name] = struct{}{}
	}

	for _, name := range requiredPresets {
		if _, ok := seen[name]; !ok {
			return fmt.Errorf("group %s: missing preset %s", g.ID, name)
		}
	}

	return nil
}

func (c *Catalog) put(g Group) {
	if i, ok := c.index[g.ID]; ok {
		c.groups[i] = g
		return
	}
	c.index[g.ID] = len(c.groups)
	c.groups = append(c.groups, g)
}

// Group looks up a group by id.
func (c *Catalog) Group(id GroupID) (Group, bool) {
	i, ok := c.index[id]
	if !ok {
		return Group{}, false
	}

	return c.groups[i], true
}

// Groups returns all groups in catalog order.
func (c *Catalog) Groups() []Group {
	out := make([]Group, len(c.groups))
	copy(out, c.groups)

	return out
}
