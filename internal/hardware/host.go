package hardware

import (
	"context"
	"fmt"
	"strconv"

	"github.com/klauspost/cpuid"
	"github.com/shirou/gopsutil/v3/cpu"
)

// FromHost builds the inventory from the OS CPU information and the CPUID
// instruction. It never needs elevated privileges.
func FromHost(ctx context.Context) (Info, error) {
	info := Info{Source: SourceCPUID}

	var family, model, stepping int
	haveSignature := false

	stats, err := cpu.InfoWithContext(ctx)
	if err == nil && len(stats) > 0 {
		first := stats[0]
		info.ModelName = first.ModelName
		info.Vendor = first.VendorID
		if first.Mhz > 0 {
			info.CurrentSpeed = fmt.Sprintf("%.0f MHz", first.Mhz)
		}

		f, fErr := strconv.Atoi(first.Family)
		m, mErr := strconv.Atoi(first.Model)
		if fErr == nil && mErr == nil {
			family, model, stepping = f, m, int(first.Stepping)
			haveSignature = true
		}
	}

	id := cpuid.CPU
	if info.ModelName == "" {
		info.ModelName = id.BrandName
	}
	if info.Vendor == "" {
		info.Vendor = vendorName(id.VendorID)
	}
	if !haveSignature && id.Family > 0 {
		family, model = id.Family, id.Model
		haveSignature = true
	}
	if id.Hz > 0 {
		info.MaxSpeed = fmt.Sprintf("%d MHz", id.Hz/1_000_000)
	}

	info.CoreCount = id.PhysicalCores
	info.CoreEnabled = id.PhysicalCores
	info.ThreadCount = id.LogicalCores
	if info.ThreadCount == 0 {
		if n, cErr := cpu.CountsWithContext(ctx, true); cErr == nil {
			info.ThreadCount = n
		}
	}

	if info.ModelName == "" || !haveSignature {
		if err != nil {
			return Info{}, err
		}
		return Info{}, fmt.Errorf("no processor identification available")
	}

	info.Signature = fmt.Sprintf("Family %d, Model %d, Stepping %d", family, model, stepping)

	return info, nil
}

func vendorName(v cpuid.Vendor) string {
	switch v {
	case cpuid.AMD:
		return "AuthenticAMD"
	case cpuid.Intel:
		return "GenuineIntel"
	default:
		return ""
	}
}
