package fragment

import (
	"encoding/json"
	"strconv"
)

// FromValue converts a decoded JSON value into a Text fragment. Strings and
// numbers keep their textual form; booleans and null render empty, matching
// how the viewer has always displayed them. Objects and arrays fall back to
// compact JSON.
func FromValue(value any) Text {
	switch v := value.(type) {
	case nil, bool:
		return Text{}
	case string:
		return Text{Value: v}
	case float64:
		return Text{Value: strconv.FormatFloat(v, 'f', -1, 64)}
	case json.Number:
		return Text{Value: v.String()}
	case int:
		return Text{Value: strconv.Itoa(v)}
	case int64:
		return Text{Value: strconv.FormatInt(v, 10)}
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return Text{}
		}
		return Text{Value: string(data)}
	}
}
