package history

type EventType string

const (
	EventTypeApplicationSubmitted    EventType = "APPLICATION_SUBMITTED"
	EventTypeApplicationStateChanged EventType = "APPLICATION_STATE_CHANGED"
	EventTypeApplicationAutoRejected EventType = "APPLICATION_AUTO_REJECTED"
	EventTypeDogAvailabilityChanged  EventType = "DOG_AVAILABILITY_CHANGED"
	EventTypeDogRevalidated          EventType = "DOG_REVALIDATED"
)

type ActorType string

const (
	ActorTypeStaff     ActorType = "STAFF"
	ActorTypeApplicant ActorType = "APPLICANT"
	// ActorTypeSystem marca los cambios en cascada del motor de reconciliación.
	ActorTypeSystem ActorType = "SYSTEM"
)

func validEventType(t EventType) bool {
	switch t {
	case EventTypeApplicationSubmitted,
		EventTypeApplicationStateChanged,
		EventTypeApplicationAutoRejected,
		EventTypeDogAvailabilityChanged,
		EventTypeDogRevalidated:
		return true
	}
	return false
}
