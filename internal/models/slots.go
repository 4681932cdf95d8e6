// internal/models/slots.go
package models

// Slot names shared by the recognizer, the queue wire format and the pipeline.
const (
	SlotLocation       = "Location"
	SlotCuisine        = "Cuisine"
	SlotDiningDate     = "DiningDate"
	SlotDiningTime     = "DiningTime"
	SlotNumberOfPeople = "NumberOfPeople"
	SlotEmail          = "Email"
)

// SlotOrder is the fixed validation precedence and wire attribute order.
var SlotOrder = []string{
	SlotLocation,
	SlotCuisine,
	SlotDiningDate,
	SlotDiningTime,
	SlotNumberOfPeople,
	SlotEmail,
}

// SlotSet maps slot names to optional values. A nil value means unset and
// serializes as JSON null.
type SlotSet map[string]*string

// Get returns the value of a slot, or nil when it is unset.
func (s SlotSet) Get(name string) *string {
	if s == nil {
		return nil
	}
	return s[name]
}

// Clone returns a shallow copy. Values are immutable strings so sharing the
// pointers is fine.
func (s SlotSet) Clone() SlotSet {
	if s == nil {
		return nil
	}
	out := make(SlotSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Clear unsets a slot, keeping the key present.
func (s SlotSet) Clear(name string) {
	if s == nil {
		return
	}
	s[name] = nil
}

// StringPtr is a small helper for building slot sets.
func StringPtr(v string) *string {
	return &v
}

// ValidationResult is the outcome of validating one slot set.
type ValidationResult struct {
	IsValid      bool     `json:"isValid"`
	ViolatedSlot string   `json:"violatedSlot,omitempty"`
	Message      *Message `json:"message,omitempty"`
}
