// Package transfer reads and writes the user-facing import/export file.
package transfer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"habitflow/internal/model"
)

var ErrInvalidDocument = errors.New("invalid import file")

type HabitsSection struct {
	Items []model.Habit `json:"items"`
}

type LogsSection struct {
	Items []model.HabitLog `json:"items"`
}

// Document is the export file: {habits: {items}, habitLogs: {items}}.
type Document struct {
	Habits    HabitsSection `json:"habits"`
	HabitLogs LogsSection   `json:"habitLogs"`
}

func Build(st model.State) Document {
	doc := Document{
		Habits:    HabitsSection{Items: st.Nodes.Items},
		HabitLogs: LogsSection{Items: st.HabitLogs.Items},
	}
	if doc.Habits.Items == nil {
		doc.Habits.Items = []model.Habit{}
	}
	if doc.HabitLogs.Items == nil {
		doc.HabitLogs.Items = []model.HabitLog{}
	}
	return doc
}

// Parse validates that both items arrays are present and array-typed before
// decoding them. Every failure wraps ErrInvalidDocument.
func Parse(data []byte) (Document, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return Document{}, fmt.Errorf("%w: file is not a JSON object: %v", ErrInvalidDocument, err)
	}

	habitsRaw, err := itemsArray(root, "habits")
	if err != nil {
		return Document{}, err
	}
	logsRaw, err := itemsArray(root, "habitLogs")
	if err != nil {
		return Document{}, err
	}

	var doc Document
	if err := json.Unmarshal(habitsRaw, &doc.Habits.Items); err != nil {
		return Document{}, fmt.Errorf("%w: habits.items: %v", ErrInvalidDocument, err)
	}
	if err := json.Unmarshal(logsRaw, &doc.HabitLogs.Items); err != nil {
		return Document{}, fmt.Errorf("%w: habitLogs.items: %v", ErrInvalidDocument, err)
	}
	for i, l := range doc.HabitLogs.Items {
		if l.ID == "" {
			doc.HabitLogs.Items[i].ID = model.LogID(l.HabitID, l.Date)
		}
	}
	return doc, nil
}

func itemsArray(root map[string]json.RawMessage, section string) (json.RawMessage, error) {
	raw, ok := root[section]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q section", ErrInvalidDocument, section)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil, fmt.Errorf("%w: %q must be an object", ErrInvalidDocument, section)
	}
	items, ok := obj["items"]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s.items", ErrInvalidDocument, section)
	}
	items = bytes.TrimSpace(items)
	if len(items) == 0 || items[0] != '[' {
		return nil, fmt.Errorf("%w: %s.items must be an array", ErrInvalidDocument, section)
	}
	return items, nil
}
