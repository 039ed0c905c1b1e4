// Package utils holds small shared helpers for model output handling:
// lenient JSON parsing and markdown cleanup/rendering.
package utils

import (
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// RepairJSON fixes common model output defects: single quotes, unquoted keys,
// trailing commas, unclosed brackets, TRUE/FALSE casing, stray comments.
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("JSON_REPAIR_FAILED: %v", err)
	}
	return repaired, nil
}

// LenientUnmarshal tries progressively more forgiving strategies to decode
// input into target:
//
//  1. standard JSON
//  2. json-repair, then standard JSON
//  3. Hjson (tolerates comments, unquoted keys/strings, missing commas)
//
// Returns an error only when every strategy fails.
func LenientUnmarshal(input string, target interface{}) error {
	if err := json.Unmarshal([]byte(input), target); err == nil {
		return nil
	}

	if repaired, err := RepairJSON(input); err == nil {
		if err := json.Unmarshal([]byte(repaired), target); err == nil {
			return nil
		}
	}

	var loose interface{}
	if err := hjson.Unmarshal([]byte(input), &loose); err == nil {
		if normalized, err := json.Marshal(loose); err == nil {
			if err := json.Unmarshal(normalized, target); err == nil {
				return nil
			}
		}
	}

	return fmt.Errorf("LENIENT_PARSE_FAILED: no strategy could decode input")
}

// ExtractJSONObject returns the first balanced {...} object in s, found by
// brace-depth counting with string/escape awareness. A greedy regex breaks on
// nested braces inside the model's surrounding prose; this does not.
func ExtractJSONObject(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if start >= 0 && inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start >= 0 {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		case '"':
			if start >= 0 {
				inString = true
			}
		}
	}
	return "", false
}
