package model

// HabitLog is one record of activity for a habit on a calendar day.
// At most one log exists per (HabitID, Date).
type HabitLog struct {
	ID        string   `json:"id"`
	HabitID   string   `json:"habitId"`
	Date      string   `json:"date"`
	Completed *bool    `json:"completed,omitempty"`
	Value     *float64 `json:"value,omitempty"`
}

// LogID derives the primary key of the log for habitID on date.
func LogID(habitID, date string) string {
	return habitID + "-" + date
}

func (l HabitLog) IsCompleted() bool {
	return l.Completed != nil && *l.Completed
}

// ValueOrZero returns the logged value, or 0 when unset.
func (l HabitLog) ValueOrZero() float64 {
	if l.Value == nil {
		return 0
	}
	return *l.Value
}

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}
