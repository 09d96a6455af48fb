// internal/region/resolver.go
package region

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/tokita/tokita-backend/internal/models"
)

const cacheTTL = 24 * time.Hour

// Detail is the fully resolved administrative hierarchy for a village id.
// Ids are always derivable, names stay nil when neither the upstream API
// nor the local table knows them.
type Detail struct {
	VillageID    string  `json:"village_id"`
	VillageName  *string `json:"village_name"`
	DistrictID   string  `json:"district_id"`
	DistrictName *string `json:"district_name"`
	RegencyID    string  `json:"regency_id"`
	RegencyName  *string `json:"regency_name"`
	ProvinceID   string  `json:"province_id"`
	ProvinceName *string `json:"province_name"`
}

// LocalLookup finds a place by bare digit code in local storage. Used as
// the fallback tier when the upstream API cannot resolve a village.
type LocalLookup interface {
	Find(ctx context.Context, digits string) (*Place, bool)
}

type wilayahLookup struct {
	db *gorm.DB
}

func NewWilayahLookup(db *gorm.DB) LocalLookup {
	return &wilayahLookup{db: db}
}

func (w *wilayahLookup) Find(ctx context.Context, digits string) (*Place, bool) {
	var row models.Wilayah
	err := w.db.WithContext(ctx).Where("kode = ?", ToDotCode(digits)).First(&row).Error
	if err != nil {
		return nil, false
	}
	return &Place{ID: digits, Name: row.Nama}, true
}

// Resolver turns a village id into a full region hierarchy. It tries the
// upstream API first and degrades to prefix derivation plus the local
// wilayah table. Resolve never fails; at worst names are left nil so an
// address can still be saved.
type Resolver struct {
	client *Client
	cache  Cache
	local  LocalLookup
	log    *logrus.Logger
}

func NewResolver(client *Client, cache Cache, local LocalLookup, log *logrus.Logger) *Resolver {
	return &Resolver{client: client, cache: cache, local: local, log: log}
}

func (r *Resolver) Resolve(ctx context.Context, villageID string) Detail {
	id := DigitsOnly(villageID)
	if id == "" {
		return Detail{}
	}

	village := r.fetch(ctx, "village/"+id+".json")
	if village == nil {
		return r.resolveFromLocal(ctx, id)
	}

	detail := Detail{
		VillageID:   id,
		VillageName: &village.Name,
		DistrictID:  village.DistrictID,
	}

	// An upstream record can omit its parent id; derive it as a prefix of
	// the child id instead of requesting "district/.json".
	if detail.DistrictID == "" {
		detail.DistrictID = prefix(id, districtIDLen)
	}
	if district := r.fetch(ctx, "district/"+detail.DistrictID+".json"); district != nil {
		detail.DistrictID = district.ID
		detail.DistrictName = &district.Name
		detail.RegencyID = district.RegencyID
	}

	if detail.RegencyID == "" {
		detail.RegencyID = prefix(detail.DistrictID, regencyIDLen)
	}
	if regency := r.fetch(ctx, "regency/"+detail.RegencyID+".json"); regency != nil {
		detail.RegencyID = regency.ID
		detail.RegencyName = &regency.Name
		detail.ProvinceID = regency.ProvinceID
	}

	if detail.ProvinceID == "" {
		detail.ProvinceID = prefix(detail.RegencyID, provinceIDLen)
	}
	if province := r.fetch(ctx, "province/"+detail.ProvinceID+".json"); province != nil {
		detail.ProvinceID = province.ID
		detail.ProvinceName = &province.Name
	}

	return detail
}

// resolveFromLocal derives parent ids as prefixes of the village id and
// fills regency/province names from the wilayah table. The table only
// carries the top two levels, so the district name stays nil.
func (r *Resolver) resolveFromLocal(ctx context.Context, id string) Detail {
	detail := Detail{
		VillageID:  id,
		DistrictID: prefix(id, districtIDLen),
		RegencyID:  prefix(id, regencyIDLen),
		ProvinceID: prefix(id, provinceIDLen),
	}

	if place, ok := r.localFind(ctx, detail.RegencyID); ok {
		detail.RegencyName = &place.Name
	}
	if place, ok := r.localFind(ctx, detail.ProvinceID); ok {
		detail.ProvinceName = &place.Name
	}

	return detail
}

// fetch looks up one upstream path through the cache. Failures are logged
// and reported as a miss so resolution can fall through.
func (r *Resolver) fetch(ctx context.Context, path string) *Place {
	key := "region:" + path

	if raw, ok := r.cache.Get(ctx, key); ok {
		var place Place
		if err := json.Unmarshal(raw, &place); err == nil {
			return &place
		}
	}

	place, err := r.client.Get(ctx, path)
	if err != nil {
		r.log.WithError(err).WithField("path", path).Debug("region lookup failed")
		return nil
	}

	if raw, err := json.Marshal(place); err == nil {
		r.cache.Set(ctx, key, raw, cacheTTL)
	}
	return place
}

func (r *Resolver) localFind(ctx context.Context, digits string) (*Place, bool) {
	key := "wilayah:" + digits

	if raw, ok := r.cache.Get(ctx, key); ok {
		var place Place
		if err := json.Unmarshal(raw, &place); err == nil {
			return &place, true
		}
	}

	place, ok := r.local.Find(ctx, digits)
	if !ok {
		return nil, false
	}

	if raw, err := json.Marshal(place); err == nil {
		r.cache.Set(ctx, key, raw, cacheTTL)
	}
	return place, true
}
