// internal/services/address_service.go
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tokita/tokita-backend/internal/models"
	"github.com/tokita/tokita-backend/internal/region"
)

type AddressService struct {
	db       *gorm.DB
	resolver *region.Resolver
}

func NewAddressService(db *gorm.DB, resolver *region.Resolver) *AddressService {
	return &AddressService{db: db, resolver: resolver}
}

type AddressRequest struct {
	Label         string   `json:"label" validate:"required,max=255"`
	RecipientName string   `json:"recipient_name" validate:"required,max=255"`
	PhoneNumber   string   `json:"phone_number" validate:"required,max=20"`
	AddressLine   *string  `json:"address_line"`
	City          *string  `json:"city" validate:"omitempty,max=255"`
	Province      *string  `json:"province" validate:"omitempty,max=255"`
	PostalCode    string   `json:"postal_code" validate:"omitempty,max=20"`
	IsDefault     bool     `json:"is_default"`
	VillageID     *string  `json:"village_id" validate:"omitempty,max=20"`
	StreetName    *string  `json:"street_name" validate:"omitempty,max=255"`
	RT            *string  `json:"rt" validate:"omitempty,max=10"`
	RW            *string  `json:"rw" validate:"omitempty,max=10"`
	Latitude      *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude     *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

// AddressView is the display shape: the stored record plus region names
// resolved at read time. The persisted address_line wins over the
// recomputed one.
type AddressView struct {
	ID            uuid.UUID `json:"id"`
	Label         string    `json:"label"`
	RecipientName string    `json:"recipient_name"`
	PhoneNumber   string    `json:"phone_number"`
	AddressLine   *string   `json:"address_line"`
	City          *string   `json:"city"`
	Province      *string   `json:"province"`
	PostalCode    string    `json:"postal_code"`
	IsDefault     bool      `json:"is_default"`
	VillageID     *string   `json:"village_id"`
	StreetName    *string   `json:"street_name"`
	RT            *string   `json:"rt"`
	RW            *string   `json:"rw"`
	Latitude      *float64  `json:"latitude"`
	Longitude     *float64  `json:"longitude"`
	VillageName   *string   `json:"village_name"`
	DistrictName  *string   `json:"district_name"`
	RegencyName   *string   `json:"regency_name"`
	ProvinceName  *string   `json:"province_name"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FormatRtRw renders the sub-village segment: both parts, one part, or
// empty when neither is present.
func FormatRtRw(rt, rw *string) string {
	r := strings.TrimSpace(deref(rt))
	w := strings.TrimSpace(deref(rw))

	switch {
	case r != "" && w != "":
		return "RT " + r + " / RW " + w
	case r != "":
		return "RT " + r
	case w != "":
		return "RW " + w
	default:
		return ""
	}
}

// BuildAddressLine joins the non-empty address parts with ", ":
// street, RT/RW segment, village, district, regency, province.
func BuildAddressLine(street, rt, rw *string, detail region.Detail) string {
	parts := []string{
		strings.TrimSpace(deref(street)),
		FormatRtRw(rt, rw),
		strings.TrimSpace(deref(detail.VillageName)),
		strings.TrimSpace(deref(detail.DistrictName)),
		strings.TrimSpace(deref(detail.RegencyName)),
		strings.TrimSpace(deref(detail.ProvinceName)),
	}

	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ", ")
}

func (s *AddressService) List(ctx context.Context, userID uuid.UUID) ([]AddressView, error) {
	var addresses []models.Address
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&addresses).Error
	if err != nil {
		return nil, err
	}

	views := make([]AddressView, 0, len(addresses))
	for i := range addresses {
		views = append(views, s.FormatForDisplay(ctx, &addresses[i]))
	}
	return views, nil
}

func (s *AddressService) Get(ctx context.Context, userID, addressID uuid.UUID) (*AddressView, error) {
	address, err := s.ownedAddress(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}
	view := s.FormatForDisplay(ctx, address)
	return &view, nil
}

func (s *AddressService) Create(ctx context.Context, userID uuid.UUID, req *AddressRequest) (*AddressView, error) {
	address := s.fromRequest(userID, req)
	s.applyDerivation(ctx, address)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := unsetOtherDefaults(tx, userID, uuid.Nil); err != nil {
				return err
			}
		}
		return tx.Create(address).Error
	})
	if err != nil {
		return nil, err
	}

	view := s.FormatForDisplay(ctx, address)
	return &view, nil
}

func (s *AddressService) Update(ctx context.Context, userID, addressID uuid.UUID, req *AddressRequest) (*AddressView, error) {
	address, err := s.ownedAddress(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	updated := s.fromRequest(userID, req)
	updated.ID = address.ID
	updated.CreatedAt = address.CreatedAt
	s.applyDerivation(ctx, updated)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if updated.IsDefault {
			if err := unsetOtherDefaults(tx, userID, address.ID); err != nil {
				return err
			}
		}
		return tx.Save(updated).Error
	})
	if err != nil {
		return nil, err
	}

	view := s.FormatForDisplay(ctx, updated)
	return &view, nil
}

func (s *AddressService) SetDefault(ctx context.Context, userID, addressID uuid.UUID) error {
	address, err := s.ownedAddress(ctx, userID, addressID)
	if err != nil {
		return err
	}

	// Unset and set inside one transaction so two concurrent requests
	// cannot leave two defaults. The partial unique index backs this up.
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := unsetOtherDefaults(tx, userID, address.ID); err != nil {
			return err
		}
		return tx.Model(&models.Address{}).
			Where("id = ?", address.ID).
			Update("is_default", true).Error
	})
}

func (s *AddressService) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	address, err := s.ownedAddress(ctx, userID, addressID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(address).Error
}

// FormatForDisplay resolves the region names and recomputes the derived
// fields. A persisted address_line/city/province always wins.
func (s *AddressService) FormatForDisplay(ctx context.Context, address *models.Address) AddressView {
	var detail region.Detail
	if address.VillageID != nil && *address.VillageID != "" {
		detail = s.resolver.Resolve(ctx, *address.VillageID)
	}

	view := AddressView{
		ID:            address.ID,
		Label:         address.Label,
		RecipientName: address.RecipientName,
		PhoneNumber:   address.PhoneNumber,
		AddressLine:   address.AddressLine,
		City:          address.City,
		Province:      address.Province,
		PostalCode:    address.PostalCode,
		IsDefault:     address.IsDefault,
		VillageID:     address.VillageID,
		StreetName:    address.StreetName,
		RT:            address.RT,
		RW:            address.RW,
		Latitude:      address.Latitude,
		Longitude:     address.Longitude,
		VillageName:   detail.VillageName,
		DistrictName:  detail.DistrictName,
		RegencyName:   detail.RegencyName,
		ProvinceName:  detail.ProvinceName,
		CreatedAt:     address.CreatedAt,
		UpdatedAt:     address.UpdatedAt,
	}

	if view.AddressLine == nil || strings.TrimSpace(*view.AddressLine) == "" {
		if line := BuildAddressLine(address.StreetName, address.RT, address.RW, detail); line != "" {
			view.AddressLine = &line
		}
	}
	if view.City == nil && detail.RegencyName != nil {
		view.City = detail.RegencyName
	}
	if view.Province == nil && detail.ProvinceName != nil {
		view.Province = detail.ProvinceName
	}

	return view
}

func (s *AddressService) fromRequest(userID uuid.UUID, req *AddressRequest) *models.Address {
	return &models.Address{
		UserID:        userID,
		Label:         req.Label,
		RecipientName: req.RecipientName,
		PhoneNumber:   req.PhoneNumber,
		AddressLine:   normalizeOptional(req.AddressLine),
		City:          normalizeOptional(req.City),
		Province:      normalizeOptional(req.Province),
		PostalCode:    req.PostalCode,
		IsDefault:     req.IsDefault,
		VillageID:     normalizeOptional(req.VillageID),
		StreetName:    normalizeOptional(req.StreetName),
		RT:            normalizeOptional(req.RT),
		RW:            normalizeOptional(req.RW),
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
	}
}

// applyDerivation fills address_line/city/province from the resolved
// region at write time so the record stays readable without a resolver.
func (s *AddressService) applyDerivation(ctx context.Context, address *models.Address) {
	if address.VillageID == nil || *address.VillageID == "" {
		return
	}

	detail := s.resolver.Resolve(ctx, *address.VillageID)

	if address.AddressLine == nil {
		if line := BuildAddressLine(address.StreetName, address.RT, address.RW, detail); line != "" {
			address.AddressLine = &line
		}
	}
	if address.City == nil && detail.RegencyName != nil {
		address.City = detail.RegencyName
	}
	if address.Province == nil && detail.ProvinceName != nil {
		address.Province = detail.ProvinceName
	}
}

func (s *AddressService) ownedAddress(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	var address models.Address
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", addressID, userID).
		First(&address).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &address, nil
}

func unsetOtherDefaults(tx *gorm.DB, userID, keepID uuid.UUID) error {
	query := tx.Model(&models.Address{}).Where("user_id = ? AND is_default", userID)
	if keepID != uuid.Nil {
		query = query.Where("id != ?", keepID)
	}
	return query.Update("is_default", false).Error
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
