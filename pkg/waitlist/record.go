package waitlist

// WaitingRecord is a person awaiting treatment.
type WaitingRecord struct {
	Name string `json:"name"`
}

// TreatedRecord is a person who left the waiting list on TreatmentDate.
type TreatedRecord struct {
	Name          string `json:"name"`
	TreatmentDate Date   `json:"treatment_date"`
}

// Status is the state of a name in the registry.
type Status int

// Status values. StatusUnknown is returned alongside ErrNotFound.
const (
	StatusUnknown Status = iota
	StatusWaiting
	StatusTreated
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusTreated:
		return "treated"
	default:
		return "unknown"
	}
}
