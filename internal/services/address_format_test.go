// internal/services/address_format_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tokita/tokita-backend/internal/region"
)

func strPtr(s string) *string {
	return &s
}

func fullDetail() region.Detail {
	return region.Detail{
		VillageName:  strPtr("Sukamaju"),
		DistrictName: strPtr("Cibinong"),
		RegencyName:  strPtr("Bogor"),
		ProvinceName: strPtr("Jawa Barat"),
	}
}

func TestBuildAddressLine(t *testing.T) {
	line := BuildAddressLine(strPtr("Jl. Mawar"), strPtr("03"), strPtr("05"), fullDetail())
	assert.Equal(t, "Jl. Mawar, RT 03 / RW 05, Sukamaju, Cibinong, Bogor, Jawa Barat", line)
}

func TestBuildAddressLineRtOnly(t *testing.T) {
	line := BuildAddressLine(strPtr("Jl. Mawar"), strPtr("03"), nil, fullDetail())
	assert.Equal(t, "Jl. Mawar, RT 03, Sukamaju, Cibinong, Bogor, Jawa Barat", line)
}

func TestBuildAddressLineRwOnly(t *testing.T) {
	line := BuildAddressLine(strPtr("Jl. Mawar"), nil, strPtr("05"), fullDetail())
	assert.Equal(t, "Jl. Mawar, RW 05, Sukamaju, Cibinong, Bogor, Jawa Barat", line)
}

func TestBuildAddressLineWithoutRtRw(t *testing.T) {
	line := BuildAddressLine(strPtr("Jl. Mawar"), nil, nil, fullDetail())
	assert.Equal(t, "Jl. Mawar, Sukamaju, Cibinong, Bogor, Jawa Barat", line)
	assert.NotContains(t, line, ", ,")
}

func TestBuildAddressLinePartialRegion(t *testing.T) {
	// Fallback resolution leaves the district name empty.
	detail := fullDetail()
	detail.DistrictName = nil

	line := BuildAddressLine(strPtr("Jl. Mawar"), strPtr("03"), strPtr("05"), detail)
	assert.Equal(t, "Jl. Mawar, RT 03 / RW 05, Sukamaju, Bogor, Jawa Barat", line)
}

func TestBuildAddressLineEmpty(t *testing.T) {
	assert.Equal(t, "", BuildAddressLine(nil, nil, nil, region.Detail{}))
}

func TestFormatRtRw(t *testing.T) {
	assert.Equal(t, "RT 03 / RW 05", FormatRtRw(strPtr("03"), strPtr("05")))
	assert.Equal(t, "RT 03", FormatRtRw(strPtr("03"), nil))
	assert.Equal(t, "RW 05", FormatRtRw(nil, strPtr("05")))
	assert.Equal(t, "", FormatRtRw(nil, nil))
	assert.Equal(t, "", FormatRtRw(strPtr("  "), strPtr("")))
}

func TestNormalizeOptional(t *testing.T) {
	assert.Nil(t, normalizeOptional(nil))
	assert.Nil(t, normalizeOptional(strPtr("   ")))
	assert.Equal(t, "Jl. Melati", *normalizeOptional(strPtr("  Jl. Melati ")))
}
