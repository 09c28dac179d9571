package audit

import (
	"bytes"
	"encoding/json"
	"sort"

	domain "github.com/rylimitless/asamp-backend-go/internal/domain/audit"
)

// diffObjects compares two entity snapshots key by key over their JSON
// representations and returns the fields whose serialized values
// differ. A nil side is treated as an empty object, so creates and
// deletes report every present field.
func diffObjects(before, after any) []domain.FieldChange {
	beforeMap := toJSONMap(before)
	afterMap := toJSONMap(after)

	keys := make(map[string]struct{}, len(beforeMap)+len(afterMap))
	for k := range beforeMap {
		keys[k] = struct{}{}
	}
	for k := range afterMap {
		keys[k] = struct{}{}
	}

	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	var changes []domain.FieldChange
	for _, k := range sorted {
		oldVal, newVal := beforeMap[k], afterMap[k]
		if bytes.Equal(oldVal, newVal) {
			continue
		}
		changes = append(changes, domain.FieldChange{
			Field: k,
			Old:   string(oldVal),
			New:   string(newVal),
		})
	}
	return changes
}

func toJSONMap(v any) map[string]json.RawMessage {
	if v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}
