package appointments

import "time"

// Clinic hours: a morning block and an afternoon block, both half-open,
// stepped in 30-minute slots. 12:00 and 18:00 are closing edges, never
// slot starts.
var clinicBlocks = []struct {
	openHour  int
	closeHour int
}{
	{9, 12},
	{14, 18},
}

// DaySlots returns every slot start time of the given day, in order.
// The day's hours are 09:00-12:00 and 14:00-18:00, yielding 14 slots.
func DaySlots(date time.Time) []time.Time {
	year, month, day := date.Date()
	loc := date.Location()

	var slots []time.Time
	for _, block := range clinicBlocks {
		open := time.Date(year, month, day, block.openHour, 0, 0, 0, loc)
		close := time.Date(year, month, day, block.closeHour, 0, 0, 0, loc)
		for t := open; t.Before(close); t = t.Add(SlotDuration) {
			slots = append(slots, t)
		}
	}
	return slots
}
