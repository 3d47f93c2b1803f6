package persist

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"

	"habitflow/internal/model"
	"habitflow/pkg/metrics"
)

// CurrentVersion is the schema version Save writes.
const CurrentVersion = 2

const (
	keyVersion    = "version"
	keyNodes      = "nodes"
	keyLegacy     = "habits"
	keyHabitLogs  = "habitLogs"
	keyItems      = "items"
	keyCategoryID = "categoryId"
	keyTags       = "tags"
)

// Shape is a decoded snapshot before it is bound to model.State.
type Shape = map[string]any

// Migration turns the shape of version n-1 into the shape of version n.
type Migration func(Shape) Shape

// migrations is indexed by target version. Missing numbers are skipped.
var migrations = map[int]Migration{
	1: migrateV1,
	2: migrateV2,
}

// ErrInvalidVersion marks a stored version that is not a non-negative whole
// number.
var ErrInvalidVersion = errors.New("invalid snapshot version")

// Migrate walks shape from its stored version up to CurrentVersion, applies
// the legacy key rename and stamps the current version.
func Migrate(shape Shape) (Shape, error) {
	from, err := storedVersion(shape)
	if err != nil {
		return nil, err
	}

	steps := make([]int, 0, len(migrations))
	for v := range migrations {
		if v > from && v <= CurrentVersion {
			steps = append(steps, v)
		}
	}
	slices.Sort(steps)
	for _, v := range steps {
		shape = migrations[v](shape)
		metrics.IncrementMigration(strconv.Itoa(v))
	}

	renameLegacyCollection(shape)
	shape[keyVersion] = CurrentVersion
	return shape, nil
}

// storedVersion reads the version field. A missing or null version is 0 and
// anything newer than CurrentVersion is clamped to it.
func storedVersion(shape Shape) (int, error) {
	switch v := shape[keyVersion].(type) {
	case nil:
		return 0, nil
	case int:
		if v < 0 {
			return 0, fmt.Errorf("%w: %d", ErrInvalidVersion, v)
		}
		return min(v, CurrentVersion), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v != math.Trunc(v) {
			return 0, fmt.Errorf("%w: %v", ErrInvalidVersion, v)
		}
		if v >= CurrentVersion {
			return CurrentVersion, nil
		}
		return int(v), nil
	default:
		return 0, fmt.Errorf("%w: %v", ErrInvalidVersion, v)
	}
}

// migrateV1 folds the legacy categoryId into tags and gives logs without an
// id their derived (habitId, date) key.
func migrateV1(shape Shape) Shape {
	collection := keyNodes
	if _, ok := shape[keyNodes]; !ok {
		collection = keyLegacy
	}
	for _, h := range items(shape, collection) {
		cat, _ := h[keyCategoryID].(string)
		if cat == "" {
			continue
		}
		if tags, ok := h[keyTags].([]any); ok && len(tags) > 0 {
			continue
		}
		h[keyTags] = []any{cat}
	}

	for _, l := range items(shape, keyHabitLogs) {
		if id, _ := l["id"].(string); id != "" {
			continue
		}
		habitID, _ := l["habitId"].(string)
		date, _ := l["date"].(string)
		l["id"] = model.LogID(habitID, date)
	}
	return shape
}

// migrateV2 renames the habits collection to nodes.
func migrateV2(shape Shape) Shape {
	legacy, ok := shape[keyLegacy]
	if !ok {
		return shape
	}
	if _, exists := shape[keyNodes]; !exists {
		shape[keyNodes] = legacy
	}
	delete(shape, keyLegacy)
	return shape
}

func renameLegacyCollection(shape Shape) {
	if _, ok := shape[keyNodes]; ok {
		return
	}
	if legacy, ok := shape[keyLegacy]; ok {
		shape[keyNodes] = legacy
		delete(shape, keyLegacy)
	}
}

// items returns the object elements of shape[collection].items.
func items(shape Shape, collection string) []map[string]any {
	section, ok := shape[collection].(map[string]any)
	if !ok {
		return nil
	}
	list, ok := section[keyItems].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(list))
	for _, it := range list {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
