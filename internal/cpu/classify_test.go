package cpu_test

import (
	"testing"

	"codeberg.org/mutker/ryzenctl/internal/cpu"
	"github.com/stretchr/testify/assert"
)

func amd(family, model int) cpu.Signature {
	return cpu.Signature{Family: family, Model: model, Stepping: 0, VendorHint: "AuthenticAMD"}
}

func TestClassifyUnknownFamily(t *testing.T) {
	for _, family := range []int{0, 6, 15, 21, 22, 24, 27, 255} {
		for _, model := range []int{0, 1, 32, 97} {
			got := cpu.Classify(amd(family, model), "AMD Ryzen 7 5800X")
			assert.Equal(t, cpu.Unknown, got.Codename, "family %d model %d", family, model)
			assert.Equal(t, cpu.CategoryUnknown, got.Category, "family %d model %d", family, model)
			assert.Equal(t, cpu.ArchUnknown, got.Architecture)
		}
	}
}

func TestClassifyUnknownModelInKnownFamily(t *testing.T) {
	got := cpu.Classify(amd(23, 250), "AMD Ryzen")
	assert.Equal(t, cpu.ArchZen1Zen2, got.Architecture)
	assert.Equal(t, cpu.Unknown, got.Codename)
	assert.Equal(t, cpu.CategoryUnknown, got.Category)

	got = cpu.Classify(amd(25, 250), "AMD Ryzen")
	assert.Equal(t, cpu.ArchZen3Zen4, got.Architecture)
	assert.Equal(t, cpu.Unknown, got.Codename)
	assert.Equal(t, cpu.CategoryUnknown, got.Category)
}

func TestClassifyIntel(t *testing.T) {
	for _, vendor := range []string{"GenuineIntel", "Intel(R) Corporation", "intel"} {
		got := cpu.Classify(cpu.Signature{Family: 25, Model: 97, VendorHint: vendor}, "Intel(R) Core(TM) i7")
		assert.Equal(t, cpu.ArchIntel, got.Architecture)
		assert.Equal(t, cpu.IntelCodename, got.Codename)
		assert.Equal(t, "Intel", got.Codename.String())
		assert.Equal(t, cpu.CategoryIntel, got.Category)
	}
}

func TestClassifyPollockDali(t *testing.T) {
	tests := []struct {
		modelName string
		want      cpu.Codename
	}{
		{"AMD 3015e with Radeon Graphics", cpu.Pollock},
		{"AMD Athlon Silver 3015Ce", cpu.Pollock},
		{"AMD 3020e with Radeon Graphics", cpu.Pollock},
		{"AMD Athlon Silver 3050U", cpu.Dali},
	}

	for _, tt := range tests {
		t.Run(tt.modelName, func(t *testing.T) {
			got := cpu.Classify(amd(23, 32), tt.modelName)
			assert.Equal(t, tt.want, got.Codename)
			assert.Equal(t, cpu.ArchZen1Zen2, got.Architecture)
			assert.Equal(t, cpu.CategoryAMDAPU, got.Category)
		})
	}
}

func TestClassifyDragonRangeRaphael(t *testing.T) {
	got := cpu.Classify(amd(25, 97), "AMD Ryzen 9 7945HX")
	assert.Equal(t, cpu.DragonRange, got.Codename)
	assert.Equal(t, cpu.CategoryAMDAPU, got.Category)

	got = cpu.Classify(amd(25, 97), "AMD Ryzen 9 7950X")
	assert.Equal(t, cpu.Raphael, got.Codename)
	assert.Equal(t, cpu.CategoryAMDDesktop, got.Category)
}

func TestClassifyZen5(t *testing.T) {
	got := cpu.Classify(amd(26, 32), "AMD Ryzen AI 9 HX 370")
	assert.Equal(t, cpu.StrixPoint, got.Codename)
	assert.Equal(t, cpu.ArchZen5Zen6, got.Architecture)
	assert.Equal(t, cpu.CategoryAMDAPU, got.Category)

	for _, model := range []int{0, 33, 40, 68} {
		got := cpu.Classify(amd(26, model), "AMD Ryzen 9 9950X")
		assert.Equal(t, cpu.GraniteRidge, got.Codename, "model %d", model)
		assert.Equal(t, cpu.CategoryAMDDesktop, got.Category)
	}
}

func TestClassifyTables(t *testing.T) {
	tests := []struct {
		family, model int
		want          cpu.Codename
	}{
		{23, 1, cpu.SummitRidge},
		{23, 8, cpu.PinnacleRidge},
		{23, 17, cpu.RavenRidge},
		{23, 18, cpu.RavenRidge},
		{23, 24, cpu.Picasso},
		{23, 80, cpu.FireFlight},
		{23, 96, cpu.Renoir},
		{23, 104, cpu.Lucienne},
		{23, 113, cpu.Matisse},
		{23, 144, cpu.VanGogh},
		{23, 160, cpu.Mendocino},
		{25, 33, cpu.Vermeer},
		{25, 63, cpu.Rembrandt},
		{25, 68, cpu.Rembrandt},
		{25, 80, cpu.CezanneBarcelo},
		{25, 116, cpu.PhoenixPoint},
		{25, 117, cpu.HawkPoint},
		{25, 120, cpu.PhoenixPoint2},
	}

	for _, tt := range tests {
		got := cpu.Classify(amd(tt.family, tt.model), "")
		assert.Equal(t, tt.want, got.Codename, "family %d model %d", tt.family, tt.model)
	}
}

func TestCategoryOf(t *testing.T) {
	desktop := map[cpu.Codename]bool{
		cpu.SummitRidge: true, cpu.PinnacleRidge: true, cpu.Matisse: true,
		cpu.Vermeer: true, cpu.Raphael: true, cpu.GraniteRidge: true,
	}

	for _, c := range cpu.Codenames() {
		got := cpu.CategoryOf(cpu.ArchZen3Zen4, c)
		switch {
		case desktop[c]:
			assert.Equal(t, cpu.CategoryAMDDesktop, got, c.String())
		case c == cpu.Unknown:
			assert.Equal(t, cpu.CategoryUnknown, got)
		default:
			assert.Equal(t, cpu.CategoryAMDAPU, got, c.String())
		}
	}

	assert.Equal(t, cpu.CategoryIntel, cpu.CategoryOf(cpu.ArchIntel, cpu.IntelCodename))
}

func TestClassifyIdempotent(t *testing.T) {
	sig := amd(23, 32)
	first := cpu.Classify(sig, "AMD 3020e")
	second := cpu.Classify(sig, "AMD 3020e")
	assert.Equal(t, first, second)
}

func TestCodenameOrdering(t *testing.T) {
	assert.True(t, cpu.Picasso.Before(cpu.Matisse))
	assert.True(t, cpu.Renoir.After(cpu.Matisse))
	assert.False(t, cpu.Matisse.Before(cpu.Matisse))
	assert.False(t, cpu.Matisse.After(cpu.Matisse))
	assert.True(t, cpu.DragonRange.After(cpu.Raphael))
	assert.True(t, cpu.Vermeer.Before(cpu.Raphael))
	assert.False(t, cpu.IntelCodename.Before(cpu.Matisse))
	assert.False(t, cpu.IntelCodename.After(cpu.Matisse))

	all := cpu.Codenames()
	assert.Len(t, all, 27)
	assert.Equal(t, cpu.Unknown, all[0])
	assert.Equal(t, cpu.Sarlak, all[len(all)-1])
}

func TestParseCodename(t *testing.T) {
	for _, c := range cpu.Codenames() {
		assert.Equal(t, c, cpu.ParseCodename(c.String()))
	}
	assert.Equal(t, cpu.IntelCodename, cpu.ParseCodename("Intel"))
	assert.Equal(t, cpu.CezanneBarcelo, cpu.ParseCodename("Cezanne_Barcelo"))
	assert.Equal(t, cpu.Unknown, cpu.ParseCodename("Zen99"))
}
