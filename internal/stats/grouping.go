package stats

import (
	"habitflow/internal/datekey"
	"habitflow/internal/model"
)

type DayItem struct {
	Habit   model.Habit     `json:"habit"`
	Log     *model.HabitLog `json:"log,omitempty"`
	Percent int             `json:"percent"`
}

type DayGroup struct {
	DateKey      string    `json:"dateKey"`
	WeekdayLabel string    `json:"weekdayLabel"`
	Items        []DayItem `json:"items"`
}

// GroupByDay breaks r down per day, with one item per habit in input order.
// No habits or an invalid range yields an empty slice.
func GroupByDay(habits []model.Habit, logs []model.HabitLog, r model.DateRange) []DayGroup {
	groups := []DayGroup{}
	if len(habits) == 0 {
		return groups
	}

	idx := indexLogs(logs)
	for key := range datekey.InRange(r) {
		g := DayGroup{
			DateKey:      key,
			WeekdayLabel: datekey.WeekdayLabel(key),
			Items:        make([]DayItem, 0, len(habits)),
		}
		for _, h := range habits {
			item := DayItem{Habit: h}
			log, ok := idx.get(h.ID, key)
			if ok {
				item.Log = &log
			}
			planned, completed := dayUnits(h, log, ok)
			item.Percent = Percent(completed, planned)
			g.Items = append(g.Items, item)
		}
		groups = append(groups, g)
	}
	return groups
}
