package rules

import (
	"github.com/tirepoint/garage-docs/constants"
	"github.com/tirepoint/garage-docs/internal/entity"
)

// DefaultRules returns the built-in fallback rule set, used when the
// admin-managed rule table is empty (fresh install, offline batch runs).
// Phone and currency shapes follow the Tanzanian formats the business sees
// most; the admin table overrides these per deployment.
func DefaultRules() []entity.PatternRule {
	return []entity.PatternRule{
		{
			Name:         "plate after reference label",
			Field:        constants.FieldPlateNumber,
			Pattern:      `(?:REFERENCE|REF|Reference|Ref|PLATE|Plate|LICENSE|License)[\s#:]*([A-Z]{1,3}[-\s]?\d{2,4}(?:[-\s]?[A-Z]{2,3})?)\b`,
			CaptureGroup: 1,
			Priority:     10,
			Enabled:      true,
		},
		{
			Name:         "standalone plate format",
			Field:        constants.FieldPlateNumber,
			Pattern:      `\b([A-Z]{2,3}[-\s]?\d{2,4}[-\s]?[A-Z]{2,3})\b`,
			CaptureGroup: 1,
			Priority:     20,
			Enabled:      true,
		},
		{
			Name:         "name after customer label",
			Field:        constants.FieldCustomerName,
			Pattern:      `(?:CUSTOMER|NAME)[\s:]*([A-Za-z][A-Za-z .'-]+)`,
			CaptureGroup: 1,
			Priority:     10,
			Enabled:      true,
		},
		{
			Name:         "tanzania phone format",
			Field:        constants.FieldCustomerPhone,
			Pattern:      `(?:PHONE|TEL|MOBILE|CONTACT)[\s:]*(\+?255[-.\s]?\d{3}[-.\s]?\d{3}[-.\s]?\d{3}|0[67]\d{2}[-.\s]?\d{3}[-.\s]?\d{3})`,
			CaptureGroup: 1,
			Priority:     10,
			Enabled:      true,
		},
		{
			Name:         "general phone format",
			Field:        constants.FieldCustomerPhone,
			Pattern:      `(\+?\d{1,3}[-.\s]?\d{3,4}[-.\s]?\d{3,4}[-.\s]?\d{2,4})`,
			CaptureGroup: 1,
			Priority:     20,
			Enabled:      true,
		},
		{
			Name:         "email pattern",
			Field:        constants.FieldCustomerEmail,
			Pattern:      `([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`,
			CaptureGroup: 1,
			Priority:     10,
			Enabled:      true,
		},
		{
			Name:         "address after label",
			Field:        constants.FieldCustomerAddress,
			Pattern:      `(?:ADDRESS|P\.?O\.?\s?BOX)[\s:]*([A-Za-z0-9][A-Za-z0-9 ,./-]+)`,
			CaptureGroup: 1,
			Priority:     10,
			Enabled:      true,
		},
		{
			Name:         "known vehicle make",
			Field:        constants.FieldVehicleMake,
			Pattern:      `\b(TOYOTA|HONDA|FORD|BMW|MERCEDES|AUDI|HYUNDAI|KIA|NISSAN|CHEVROLET|VOLKSWAGEN|MAZDA|LEXUS|JEEP|SUZUKI|ISUZU|MITSUBISHI)\b`,
			CaptureGroup: 1,
			Priority:     10,
			Enabled:      true,
		},
		{
			Name:         "model after label",
			Field:        constants.FieldVehicleModel,
			Pattern:      `MODEL[\s:]*([A-Za-z0-9][A-Za-z0-9 -]*)`,
			CaptureGroup: 1,
			Priority:     10,
			Enabled:      true,
		},
		{
			Name:         "known vehicle type",
			Field:        constants.FieldVehicleType,
			Pattern:      `\b(SEDAN|SUV|PICKUP|TRUCK|VAN|HATCHBACK|MINIBUS|BUS|MOTORCYCLE)\b`,
			CaptureGroup: 1,
			Priority:     10,
			Enabled:      true,
		},
		{
			Name:         "service after label",
			Field:        constants.FieldServiceDescription,
			Pattern:      `(?:SERVICE|DESCRIPTION)[\s:]*([A-Za-z0-9][A-Za-z0-9 ,.-]*)`,
			CaptureGroup: 1,
			Priority:     10,
			Enabled:      true,
		},
		{
			Name:         "service keyword",
			Field:        constants.FieldServiceDescription,
			Pattern:      `\b(ALIGNMENT|BALANCING|ROTATION|PUNCTURE|OIL CHANGE|BRAKE|BATTERY|INSPECTION|DIAGNOSTIC|TYRE|TIRE|WASH|REPAIR|MAINTENANCE)\b`,
			CaptureGroup: 1,
			Priority:     20,
			Enabled:      true,
		},
		{
			Name:         "item after label",
			Field:        constants.FieldItemName,
			Pattern:      `ITEM[\s:]*([A-Za-z0-9][A-Za-z0-9 ,./-]*)`,
			CaptureGroup: 1,
			Priority:     10,
			Enabled:      true,
		},
		{
			Name:         "known tyre brand",
			Field:        constants.FieldBrand,
			Pattern:      `\b(MICHELIN|BRIDGESTONE|PIRELLI|GOODYEAR|DUNLOP|CONTINENTAL|YOKOHAMA|HANKOOK|FIRESTONE|APOLLO)\b`,
			CaptureGroup: 1,
			Priority:     10,
			Enabled:      true,
		},
		{
			Name:         "quantity after label",
			Field:        constants.FieldQuantity,
			Pattern:      `(?:QTY|QUANTITY|COUNT)[\s.:=]*(\d+)`,
			CaptureGroup: 1,
			Priority:     10,
			Enabled:      true,
		},
		{
			Name:         "amount after total label",
			Field:        constants.FieldAmount,
			Pattern:      `(?:TOTAL|AMOUNT|DUE|SUBTOTAL)[\s:]*(?:TSH|TZS|USD|KES|\$)?\.?\s*(-?[\d,]+(?:\.\d{1,2})?)`,
			CaptureGroup: 1,
			Priority:     10,
			Enabled:      true,
		},
		{
			Name:         "bare decimal amount",
			Field:        constants.FieldAmount,
			Pattern:      `(-?[\d,]+\.\d{1,2})\b`,
			CaptureGroup: 1,
			Priority:     100,
			Enabled:      true,
		},
	}
}
