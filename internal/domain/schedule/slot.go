package schedule

import "errors"

var ErrInvalidSlot = errors.New("slot start must be before end")

// Slot is a half-open interval [Start, End) within a single day.
type Slot struct {
	Start TimeOfDay `json:"start_time"`
	End   TimeOfDay `json:"end_time"`
}

func NewSlot(start, end TimeOfDay) (Slot, error) {
	if !start.Valid() || !end.Valid() || start >= end {
		return Slot{}, ErrInvalidSlot
	}
	return Slot{Start: start, End: end}, nil
}

func ParseSlot(start, end string) (Slot, error) {
	s, err := ParseTimeOfDay(start)
	if err != nil {
		return Slot{}, err
	}
	e, err := ParseTimeOfDay(end)
	if err != nil {
		return Slot{}, err
	}
	return NewSlot(s, e)
}

// Overlaps reports whether two half-open intervals intersect:
// [s1,e1) and [s2,e2) overlap iff s1 < e2 && s2 < e1. Back-to-back
// slots (end == start) do not overlap.
func (s Slot) Overlaps(o Slot) bool {
	return s.Start < o.End && o.Start < s.End
}

func (s Slot) DurationMinutes() int {
	return int(s.End - s.Start)
}

// Within reports whether s falls entirely inside [open, close).
func (s Slot) Within(open, close TimeOfDay) bool {
	return s.Start >= open && s.End <= close
}

func (s Slot) String() string {
	return s.Start.String() + "-" + s.End.String()
}

// SlotsBetween generates the ordered fixed-duration candidate slots covering
// [open, close). Starts advance by exactly duration; a slot whose end would
// pass close is not emitted.
func SlotsBetween(open, close TimeOfDay, durationMinutes int) []Slot {
	if durationMinutes <= 0 || open >= close {
		return nil
	}
	var slots []Slot
	for cur := open; cur.Add(durationMinutes) <= close; cur = cur.Add(durationMinutes) {
		slots = append(slots, Slot{Start: cur, End: cur.Add(durationMinutes)})
	}
	return slots
}
