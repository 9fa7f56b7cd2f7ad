package unit

type AccommodationType string

const (
	TypeHome      AccommodationType = "HOME"
	TypeFlat      AccommodationType = "FLAT"
	TypeApartment AccommodationType = "APARTMENT"
)

func (t AccommodationType) String() string {
	return string(t)
}

func (t AccommodationType) IsValid() bool {
	switch t {
	case TypeHome, TypeFlat, TypeApartment:
		return true
	default:
		return false
	}
}

func AllTypes() []AccommodationType {
	return []AccommodationType{TypeHome, TypeFlat, TypeApartment}
}
