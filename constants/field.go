package constants

// FieldKind is the canonical name of an extractable field category.
type FieldKind string

// Stable values (store these exact strings in DB).
const (
	FieldPlateNumber        FieldKind = "plate_number"
	FieldCustomerName       FieldKind = "customer_name"
	FieldCustomerPhone      FieldKind = "customer_phone"
	FieldCustomerEmail      FieldKind = "customer_email"
	FieldCustomerAddress    FieldKind = "customer_address"
	FieldVehicleMake        FieldKind = "vehicle_make"
	FieldVehicleModel       FieldKind = "vehicle_model"
	FieldVehicleType        FieldKind = "vehicle_type"
	FieldServiceDescription FieldKind = "service_description"
	FieldItemName           FieldKind = "item_name"
	FieldBrand              FieldKind = "brand"
	FieldQuantity           FieldKind = "quantity"
	FieldAmount             FieldKind = "amount"
)

// AllFields lists every known field kind in a stable order.
var AllFields = []FieldKind{
	FieldPlateNumber,
	FieldCustomerName,
	FieldCustomerPhone,
	FieldCustomerEmail,
	FieldCustomerAddress,
	FieldVehicleMake,
	FieldVehicleModel,
	FieldVehicleType,
	FieldServiceDescription,
	FieldItemName,
	FieldBrand,
	FieldQuantity,
	FieldAmount,
}

var knownFields = func() map[FieldKind]struct{} {
	m := make(map[FieldKind]struct{}, len(AllFields))
	for _, f := range AllFields {
		m[f] = struct{}{}
	}
	return m
}()

// IsKnownField reports whether s names a supported field kind.
func IsKnownField(s string) bool {
	_, ok := knownFields[FieldKind(s)]
	return ok
}

// FieldNames returns the field kinds as plain strings, for enum validators.
func FieldNames() []string {
	out := make([]string, len(AllFields))
	for i, f := range AllFields {
		out[i] = string(f)
	}
	return out
}
