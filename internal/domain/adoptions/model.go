package adoptions

import (
	"strings"
	"time"
)

// State de una solicitud de adopción. PENDING es el único estado inicial válido.
// @Enum PENDING, IN_REVIEW, APPROVED, REJECTED
type State string

const (
	StatePending  State = "PENDING"
	StateInReview State = "IN_REVIEW"
	StateApproved State = "APPROVED"
	StateRejected State = "REJECTED"
)

func ParseState(s string) (State, bool) {
	st := State(strings.ToUpper(strings.TrimSpace(s)))
	return st, st.Valid()
}

func (s State) Valid() bool {
	switch s {
	case StatePending, StateInReview, StateApproved, StateRejected:
		return true
	}
	return false
}

// Open: la solicitud todavía compite por el perro (PENDING o IN_REVIEW).
func (s State) Open() bool {
	return s == StatePending || s == StateInReview
}

// Active: cuenta para la disponibilidad del perro (abierta o aprobada).
func (s State) Active() bool {
	return s.Open() || s == StateApproved
}

type HousingType string

const (
	HousingHouse     HousingType = "house"
	HousingApartment HousingType = "apartment"
	HousingFarm      HousingType = "farm"
	HousingOther     HousingType = "other"
)

func validHousing(h HousingType) bool {
	switch h {
	case HousingHouse, HousingApartment, HousingFarm, HousingOther:
		return true
	}
	return false
}

// Application es una solicitud de adopción sobre exactamente un perro.
// Los datos del solicitante son payload opaco para el motor.
type Application struct {
	ID    string
	DogID string

	ApplicantName string
	Email         string
	Phone         string
	Address       string
	HousingType   HousingType
	HasYard       bool
	OtherAnimals  string
	PetExperience string
	Motivation    string

	AdminNotes string

	State State

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StateCounts es el agregado por estado de las solicitudes de un perro.
type StateCounts map[State]int

// Open = PENDING + IN_REVIEW.
func (c StateCounts) Open() int {
	return c[StatePending] + c[StateInReview]
}

// Active = PENDING + IN_REVIEW + APPROVED.
func (c StateCounts) Active() int {
	return c.Open() + c[StateApproved]
}
