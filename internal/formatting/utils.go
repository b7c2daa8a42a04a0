package formatting

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultFormatMaxLen is the widest formatter template shown in tables.
const DefaultFormatMaxLen = 60

// minTruncateLen leaves room for one character plus "...".
const minTruncateLen = 4

// PrettyJSON formats any value as indented JSON for human-readable display.
// It handles marshaling errors gracefully by falling back to fmt.Sprintf.
//
// Example:
//
//	data := map[string]interface{}{"name": "test", "value": 42}
//	fmt.Println(formatting.PrettyJSON(data))
//	// Output:
//	// {
//	//   "name": "test",
//	//   "value": 42
//	// }
func PrettyJSON(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// Truncate collapses all whitespace in s to single spaces and shortens the
// result to maxLen runes, ending in "..." when something was cut.
func Truncate(s string, maxLen int) string {
	if maxLen < minTruncateLen {
		maxLen = minTruncateLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}
