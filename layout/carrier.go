package layout

import "github.com/tetratelabs/wazero/api"

// Carrier describes what a scalar holds, independent of where it lives.
type Carrier uint8

const (
	CarrierInvalid Carrier = iota
	CarrierBool
	CarrierChar
	CarrierInt8
	CarrierInt16
	CarrierInt32
	CarrierInt64
	CarrierFloat32
	CarrierFloat64
	CarrierAddress
)

var carrierNames = [...]string{
	CarrierInvalid: "invalid",
	CarrierBool:    "bool",
	CarrierChar:    "char",
	CarrierInt8:    "i8",
	CarrierInt16:   "i16",
	CarrierInt32:   "i32",
	CarrierInt64:   "i64",
	CarrierFloat32: "f32",
	CarrierFloat64: "f64",
	CarrierAddress: "ptr",
}

var carrierSizes = [...]int64{
	CarrierBool:    1,
	CarrierChar:    1,
	CarrierInt8:    1,
	CarrierInt16:   2,
	CarrierInt32:   4,
	CarrierInt64:   8,
	CarrierFloat32: 4,
	CarrierFloat64: 8,
	CarrierAddress: 8,
}

func (c Carrier) String() string {
	if int(c) < len(carrierNames) {
		return carrierNames[c]
	}
	return "unknown"
}

// Size returns the natural byte width of the carrier, 0 if it is not valid.
func (c Carrier) Size() int64 {
	if int(c) < len(carrierSizes) {
		return carrierSizes[c]
	}
	return 0
}

func (c Carrier) Valid() bool {
	return c.Size() > 0
}

// IsIntegral reports integral, boolean and character carriers.
func (c Carrier) IsIntegral() bool {
	switch c {
	case CarrierBool, CarrierChar, CarrierInt8, CarrierInt16, CarrierInt32, CarrierInt64:
		return true
	}
	return false
}

func (c Carrier) IsFloat() bool {
	return c == CarrierFloat32 || c == CarrierFloat64
}

func (c Carrier) IsAddress() bool {
	return c == CarrierAddress
}

// CoreType returns the register-level value type a carrier is moved as.
// Sub-word integers widen to i32 and addresses are 64-bit.
func (c Carrier) CoreType() api.ValueType {
	switch c {
	case CarrierInt64, CarrierAddress:
		return api.ValueTypeI64
	case CarrierFloat32:
		return api.ValueTypeF32
	case CarrierFloat64:
		return api.ValueTypeF64
	default:
		return api.ValueTypeI32
	}
}

// IntegerCarrierFor returns the smallest integral carrier able to hold width
// bytes. Widths above 8 have no carrier.
func IntegerCarrierFor(width int64) Carrier {
	switch {
	case width <= 0:
		return CarrierInvalid
	case width == 1:
		return CarrierInt8
	case width == 2:
		return CarrierInt16
	case width <= 4:
		return CarrierInt32
	case width <= 8:
		return CarrierInt64
	}
	return CarrierInvalid
}

// FloatCarrierFor returns the floating-point carrier of exactly width
// bytes, falling back to IntegerCarrierFor for other widths.
func FloatCarrierFor(width int64) Carrier {
	switch width {
	case 4:
		return CarrierFloat32
	case 8:
		return CarrierFloat64
	}
	return IntegerCarrierFor(width)
}

// ParseCarrier maps a carrier name as printed by String back to a Carrier.
func ParseCarrier(name string) (Carrier, bool) {
	for i, n := range carrierNames {
		if i != int(CarrierInvalid) && n == name {
			return Carrier(i), true
		}
	}
	return CarrierInvalid, false
}
