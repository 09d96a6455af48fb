// internal/region/directory.go
package region

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"github.com/tokita/tokita-backend/internal/models"
)

// ErrUpstream marks a listing failure caused by the region API rather
// than the caller; handlers map it to a gateway error.
var ErrUpstream = errors.New("region upstream unavailable")

// CodeName is one selectable entry in the region picker, using the
// dotted code form the mobile client stores.
type CodeName struct {
	Kode string `json:"kode"`
	Nama string `json:"nama"`
}

// The app currently serves West Java only, anchored on Garut.
const (
	servedProvinceCode = "32"
	servedRegencyCode  = "32.05"
)

// Directory backs the region picker endpoints: the served province and
// regency come from the local wilayah table, districts and villages from
// the upstream API.
type Directory struct {
	db     *gorm.DB
	client *Client
	cache  Cache
}

func NewDirectory(db *gorm.DB, client *Client, cache Cache) *Directory {
	return &Directory{db: db, client: client, cache: cache}
}

func (d *Directory) Provinces(ctx context.Context) ([]CodeName, error) {
	return d.localEntries(ctx, servedProvinceCode)
}

func (d *Directory) Cities(ctx context.Context) ([]CodeName, error) {
	return d.localEntries(ctx, servedRegencyCode)
}

func (d *Directory) localEntries(ctx context.Context, code string) ([]CodeName, error) {
	var rows []models.Wilayah
	if err := d.db.WithContext(ctx).Where("kode = ?", code).Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]CodeName, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, CodeName{Kode: row.Kode, Nama: row.Nama})
	}
	return entries, nil
}

// Districts lists the districts of a regency. The code is normalized to
// the regency width first, so both "32.05" and "3205" work.
func (d *Directory) Districts(ctx context.Context, regencyCode string) ([]CodeName, error) {
	code := NormalizeCode(regencyCode, regencyIDLen)
	return d.listEntries(ctx, "districts:"+code, "districts/"+code+".json", ToDotCode)
}

// Villages lists the villages of a district. Village ids use the four
// segment dotted form.
func (d *Directory) Villages(ctx context.Context, districtCode string) ([]CodeName, error) {
	code := NormalizeCode(districtCode, districtIDLen)
	return d.listEntries(ctx, "villages:"+code, "villages/"+code+".json", ToVillageDotCode)
}

func (d *Directory) listEntries(ctx context.Context, key, path string, format func(string) string) ([]CodeName, error) {
	if raw, ok := d.cache.Get(ctx, key); ok {
		var entries []CodeName
		if err := json.Unmarshal(raw, &entries); err == nil {
			return entries, nil
		}
	}

	places, err := d.client.List(ctx, path)
	if err != nil {
		return nil, ErrUpstream
	}

	entries := make([]CodeName, 0, len(places))
	for _, place := range places {
		entries = append(entries, CodeName{
			Kode: format(place.ID),
			Nama: TitleCase(place.Name),
		})
	}

	if raw, err := json.Marshal(entries); err == nil {
		d.cache.Set(ctx, key, raw, cacheTTL)
	}
	return entries, nil
}
