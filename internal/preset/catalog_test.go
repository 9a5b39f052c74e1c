package preset_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/ryzenctl/internal/errors"
	"codeberg.org/mutker/ryzenctl/internal/preset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allGroups = []preset.GroupID{
	preset.APUPreMatisseUeCe, preset.APUPreMatisseH, preset.APUPreMatisseGE, preset.APUPreMatisseG,
	preset.APUPostMatisseU, preset.APUPostMatisseHX, preset.APUPostMatisseHS, preset.APUPostMatisseH,
	preset.APUPostMatisseGE, preset.APUPostMatisseG,
	preset.CPUPreRaphaelE, preset.CPUPreRaphaelX3D, preset.CPUPreRaphaelX9, preset.CPUPreRaphaelX,
	preset.CPUPreRaphael,
	preset.CPUE, preset.CPUX3D, preset.CPUX9, preset.CPU,
}

func TestDefaultCatalogComplete(t *testing.T) {
	catalog, err := preset.DefaultCatalog()
	require.NoError(t, err)
	assert.Len(t, catalog.Groups(), len(allGroups))

	for _, id := range allGroups {
		group, ok := catalog.Group(id)
		require.True(t, ok, id)
		assert.Equal(t, []string{preset.Eco, preset.Balance, preset.Performance, preset.Extreme}, group.Names(), id)

		for _, p := range group.Presets {
			assert.NotEmpty(t, p.Args, "%s/%s", id, p.Name)
			assert.Contains(t, p.Args, "--tctl-temp=", "%s/%s", id, p.Name)
		}
	}
}

func TestGroupLookup(t *testing.T) {
	catalog, err := preset.DefaultCatalog()
	require.NoError(t, err)

	group, ok := catalog.Group(preset.APUPostMatisseU)
	require.True(t, ok)

	eco, ok := group.Lookup(preset.Eco)
	require.True(t, ok)
	assert.Contains(t, eco.Args, "--stapm-limit=6000")

	_, ok = group.Lookup("Turbo")
	assert.False(t, ok)
}

func TestParseCatalogInvalid(t *testing.T) {
	tests := map[string]string{
		"bad toml": `[[group]`,
		"missing id": `
[[group]]
  [[group.preset]]
  name = "Eco"`,
		"missing extreme": `
[[group]]
id = "AMDCPU"
  [[group.preset]]
  name = "Eco"
  [[group.preset]]
  name = "Balance"
  [[group.preset]]
  name = "Performance"`,
		"reserved name": `
[[group]]
id = "AMDCPU"
  [[group.preset]]
  name = "Custom"`,
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := preset.ParseCatalog([]byte(data))
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrInvalidCatalog))
		})
	}
}

func TestLoadCatalogOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[[group]]
id = "AMDCPU"
description = "tuned"
  [[group.preset]]
  name = "Eco"
  args = "--ppt-limit=30000"
  [[group.preset]]
  name = "Balance"
  args = "--ppt-limit=60000"
  [[group.preset]]
  name = "Performance"
  args = "--ppt-limit=90000"
  [[group.preset]]
  name = "Extreme"
  args = "--ppt-limit=120000"
  [[group.preset]]
  name = "Silent"
  args = "--ppt-limit=20000"
`), 0o600))

	catalog, err := preset.LoadCatalog(path)
	require.NoError(t, err)
	assert.Len(t, catalog.Groups(), len(allGroups))

	group, ok := catalog.Group(preset.CPU)
	require.True(t, ok)
	assert.Equal(t, "tuned", group.Description)
	silent, ok := group.Lookup("Silent")
	require.True(t, ok)
	assert.Equal(t, "--ppt-limit=20000", silent.Args)

	_, err = preset.LoadCatalog(filepath.Join(t.TempDir(), "missing.toml"))
	assert.True(t, errors.HasCode(err, errors.ErrInvalidCatalog))

	def, err := preset.LoadCatalog("")
	require.NoError(t, err)
	assert.Len(t, def.Groups(), len(allGroups))
}
