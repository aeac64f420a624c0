package domain

import (
	"strconv"
	"time"
)

type PromoStatus string

const (
	PromoActive  PromoStatus = "ACTIVE"
	PromoPaused  PromoStatus = "PAUSED"
	PromoExpired PromoStatus = "EXPIRED"
)

type PromoField string

const (
	PromoCode        PromoField = "code"
	PromoDescription PromoField = "description"
	PromoDiscount    PromoField = "discount_percent"
	PromoMaxUses     PromoField = "max_uses"
	PromoUsedCount   PromoField = "used_count"
	PromoValidUntil  PromoField = "valid_until"
	PromoStatusField PromoField = "status"
)

var PromoColumns = []PromoField{
	PromoCode, PromoDescription, PromoDiscount, PromoMaxUses,
	PromoUsedCount, PromoValidUntil, PromoStatusField,
}

var PromoSearchKeys = []PromoField{PromoCode, PromoDescription}

// Promo is a discount code row.
type Promo struct {
	ID              string      `json:"id"`
	Code            string      `json:"code"`
	Description     string      `json:"description"`
	DiscountPercent int         `json:"discount_percent"`
	MaxUses         int         `json:"max_uses"`
	UsedCount       int         `json:"used_count"`
	ValidUntil      time.Time   `json:"valid_until"`
	Status          PromoStatus `json:"status"`
}

func (p Promo) RowID() string { return p.ID }

func (p Promo) WithRowID(id string) Promo {
	p.ID = id
	return p
}

func (p Promo) Field(f PromoField) string {
	switch f {
	case PromoCode:
		return p.Code
	case PromoDescription:
		return p.Description
	case PromoDiscount:
		return strconv.Itoa(p.DiscountPercent)
	case PromoMaxUses:
		return strconv.Itoa(p.MaxUses)
	case PromoUsedCount:
		return strconv.Itoa(p.UsedCount)
	case PromoValidUntil:
		return formatTime(p.ValidUntil)
	case PromoStatusField:
		return string(p.Status)
	}
	return ""
}

// Redeemable reports whether the code can still be applied at t.
func (p Promo) Redeemable(t time.Time) bool {
	if p.Status != PromoActive {
		return false
	}
	if p.MaxUses > 0 && p.UsedCount >= p.MaxUses {
		return false
	}
	return p.ValidUntil.IsZero() || t.Before(p.ValidUntil)
}

func ParsePromoField(name string) (PromoField, error) {
	return parseField(name, PromoColumns)
}
