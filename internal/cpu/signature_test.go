package cpu_test

import (
	"testing"

	"codeberg.org/mutker/ryzenctl/internal/cpu"
	"codeberg.org/mutker/ryzenctl/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSignature(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want cpu.Signature
	}{
		{
			name: "dmidecode format",
			raw:  "Family 25, Model 97, Stepping 1",
			want: cpu.Signature{Family: 25, Model: 97, Stepping: 1, VendorHint: "AMD"},
		},
		{
			name: "no commas",
			raw:  "Family 23 Model 113 Stepping 0",
			want: cpu.Signature{Family: 23, Model: 113, Stepping: 0, VendorHint: "AMD"},
		},
		{
			name: "surrounding text",
			raw:  "  Type 0, Family 26, Model 32, Stepping 0 ",
			want: cpu.Signature{Family: 26, Model: 32, Stepping: 0, VendorHint: "AMD"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cpu.ParseSignature(tt.raw, "AMD")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSignatureMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"missing stepping", "Family 25, Model 97"},
		{"missing value", "Family 25, Model 97, Stepping"},
		{"not a number", "Family 25, Model x61, Stepping 1"},
		{"negative", "Family 25, Model -1, Stepping 1"},
		{"lowercase label", "family 25, model 97, stepping 1"},
		{"hex value", "Family 0x19, Model 97, Stepping 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cpu.ParseSignature(tt.raw, "AMD")
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrMalformedSignature))
		})
	}
}

func TestSignatureString(t *testing.T) {
	sig := cpu.Signature{Family: 25, Model: 97, Stepping: 1}
	assert.Equal(t, "Family 25, Model 97, Stepping 1", sig.String())

	parsed, err := cpu.ParseSignature(sig.String(), "")
	require.NoError(t, err)
	assert.Equal(t, sig, parsed)
}
