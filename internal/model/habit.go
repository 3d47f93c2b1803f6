package model

type HabitType string

const (
	HabitBinary       HabitType = "binary"
	HabitQuantitative HabitType = "quantitative"
)

type HabitStatus string

const (
	HabitActive HabitStatus = "active"
	HabitPaused HabitStatus = "paused"
)

type Habit struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
	CategoryID  string      `json:"categoryId,omitempty"` // legacy single tag
	Color       string      `json:"color"`
	Icon        string      `json:"icon,omitempty"`
	Type        HabitType   `json:"type"`
	Target      *float64    `json:"target,omitempty"`
	Unit        string      `json:"unit,omitempty"`
	CreatedAt   string      `json:"createdAt"`
	Order       *int        `json:"order,omitempty"`
	Status      HabitStatus `json:"status,omitempty"`
	Reminders   *bool       `json:"reminders,omitempty"`
}

func (h Habit) IsQuantitative() bool {
	return h.Type == HabitQuantitative
}

// IsActive treats an unset status as active.
func (h Habit) IsActive() bool {
	return h.Status != HabitPaused
}

// TargetValue returns the target, or 0 when unset.
func (h Habit) TargetValue() float64 {
	if h.Target == nil {
		return 0
	}
	return *h.Target
}
