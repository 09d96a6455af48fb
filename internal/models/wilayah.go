// internal/models/wilayah.go
package models

// Wilayah is the bundled administrative-region reference table (provinces
// and regencies only). It backs the region resolver's degraded fallback
// path when the upstream region API is unavailable. Codes are stored in
// dotted form ("32", "32.05").
type Wilayah struct {
	Kode string `json:"kode" gorm:"primaryKey;size:20"`
	Nama string `json:"nama" gorm:"size:255;not null"`
}

func (Wilayah) TableName() string {
	return "wilayah_level_1_2"
}
