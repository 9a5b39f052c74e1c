// Package cpu turns raw processor identification data into a canonical
// Classification: architecture label, codename and category.
package cpu

import (
	"fmt"
	"strconv"
	"strings"

	"codeberg.org/mutker/ryzenctl/internal/errors"
)

// Signature is the CPUID family/model/stepping triple plus the vendor string
// it was reported with.
type Signature struct {
	Family     int
	Model      int
	Stepping   int
	VendorHint string
}

func (s Signature) String() string {
	return fmt.Sprintf("Family %d, Model %d, Stepping %d", s.Family, s.Model, s.Stepping)
}

var signatureLabels = [...]string{"Family", "Model", "Stepping"}

// ParseSignature parses strings of the form "Family 25, Model 97, Stepping 1".
// Labels are case-sensitive; each value may carry one trailing comma.
func ParseSignature(raw, vendorHint string) (Signature, error) {
	errFactory := errors.New()
	words := strings.Fields(raw)

	var values [len(signatureLabels)]int
	for i, label := range signatureLabels {
		idx := indexOf(words, label)
		if idx < 0 || idx+1 >= len(words) {
			return Signature{}, errFactory.WithData(errors.ErrMalformedSignature,
				fmt.Sprintf("missing %s in %q", label, raw))
		}

		token := strings.TrimSuffix(words[idx+1], ",")
		n, err := strconv.Atoi(token)
		if err != nil || n < 0 {
			return Signature{}, errFactory.WithData(errors.ErrMalformedSignature,
				fmt.Sprintf("invalid %s value %q in %q", label, token, raw))
		}
		values[i] = n
	}

	return Signature{
		Family:     values[0],
		Model:      values[1],
		Stepping:   values[2],
		VendorHint: vendorHint,
	}, nil
}

func indexOf(words []string, word string) int {
	for i, w := range words {
		if w == word {
			return i
		}
	}

	return -1
}
