package dogs

import (
	"strings"
	"time"
)

// Availability es el estado de disponibilidad de un perro.
// Solo el motor de reconciliación de adopciones lo modifica después del alta.
// @Enum AVAILABLE, IN_PROCESS, ADOPTED
type Availability string

const (
	AvailabilityAvailable Availability = "AVAILABLE"
	AvailabilityInProcess Availability = "IN_PROCESS"
	AvailabilityAdopted   Availability = "ADOPTED"
)

// ParseAvailability acepta el valor en cualquier capitalización.
// "RESERVED" no es un estado válido: ninguna regla lo produce ni lo consume.
func ParseAvailability(s string) (Availability, bool) {
	a := Availability(strings.ToUpper(strings.TrimSpace(s)))
	switch a {
	case AvailabilityAvailable, AvailabilityInProcess, AvailabilityAdopted:
		return a, true
	default:
		return "", false
	}
}

// Size del perro.
// @Enum small, medium, large
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Sex del perro.
// @Enum male, female
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// Color predominante del pelaje.
type Color string

const (
	ColorBlack  Color = "black"
	ColorWhite  Color = "white"
	ColorBrown  Color = "brown"
	ColorGolden Color = "golden"
	ColorGray   Color = "gray"
	ColorMixed  Color = "mixed"
)

const MaxAgeYears = 30

// Dog representa un perro del albergue.
type Dog struct {
	ID string

	Name        string
	AgeYears    int
	Size        Size
	Sex         Sex
	Color       Color
	Breed       string
	Description string

	Vaccinated   bool
	Sterilized   bool
	WeightKg     *float64
	GoodWithKids bool
	GoodWithDogs bool
	SpecialNeeds string

	Availability Availability
	// Version se incrementa en cada cambio de Availability (compare-and-swap).
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ListFilter filtra el catálogo. Availability vacío = todos los estados.
type ListFilter struct {
	Availability Availability
	Size         Size
	Sex          Sex
	Color        Color
	AgeMin       *int
	AgeMax       *int

	Page     int
	PageSize int
}

// Page es un resultado paginado del catálogo.
type Page struct {
	Items    []Dog
	Total    int
	Page     int
	PageSize int
}

// Stats son los conteos por estado que muestra la portada.
type Stats struct {
	Available int
	InProcess int
	Adopted   int
}

func validSize(s Size) bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	}
	return false
}

func validSex(s Sex) bool {
	return s == SexMale || s == SexFemale
}

func validColor(c Color) bool {
	switch c {
	case ColorBlack, ColorWhite, ColorBrown, ColorGolden, ColorGray, ColorMixed:
		return true
	}
	return false
}
