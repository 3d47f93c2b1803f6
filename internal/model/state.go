package model

type NodesState struct {
	Items   []Habit `json:"items"`
	Loading bool    `json:"loading"`
}

type HabitLogsState struct {
	Items         []HabitLog `json:"items"`
	SelectedRange *DateRange `json:"selectedRange"`
}

type SettingsState struct {
	UserName string `json:"userName"`
}

// State is the aggregate root held by the store. Snapshots are treated as
// immutable: updates build new slices instead of writing through old ones.
type State struct {
	Nodes     NodesState     `json:"nodes"`
	HabitLogs HabitLogsState `json:"habitLogs"`
	Settings  SettingsState  `json:"settings"`
}

func NewState() State {
	return State{
		Nodes:     NodesState{Items: []Habit{}},
		HabitLogs: HabitLogsState{Items: []HabitLog{}},
	}
}

func (s State) Habits() []Habit {
	return s.Nodes.Items
}

func (s State) Logs() []HabitLog {
	return s.HabitLogs.Items
}

// FindHabit returns the index of the habit with id, or -1.
func (s State) FindHabit(id string) int {
	for i, h := range s.Nodes.Items {
		if h.ID == id {
			return i
		}
	}
	return -1
}

func Bool(v bool) *bool { return &v }

func Float(v float64) *float64 { return &v }

func Int(v int) *int { return &v }
