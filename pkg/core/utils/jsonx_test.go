package utils

import (
	"strings"
	"testing"
)

func TestLenientUnmarshalStandard(t *testing.T) {
	var out map[string]interface{}
	if err := LenientUnmarshal(`{"a": 1, "b": "x"}`, &out); err != nil {
		t.Fatalf("standard JSON failed: %v", err)
	}
	if out["b"] != "x" {
		t.Errorf("b = %v", out["b"])
	}
}

func TestLenientUnmarshalRepairable(t *testing.T) {
	cases := []string{
		`{'a': 1, 'b': 'x'}`,         // single quotes
		`{"a": 1, "b": "x",}`,        // trailing comma
		`{a: 1, b: "x"}`,             // unquoted keys
		`{"a": 1, "b": "x"`,          // unclosed
	}
	for _, input := range cases {
		var out map[string]interface{}
		if err := LenientUnmarshal(input, &out); err != nil {
			t.Errorf("repair failed for %q: %v", input, err)
			continue
		}
		if out["b"] != "x" {
			t.Errorf("for %q: b = %v", input, out["b"])
		}
	}
}

func TestLenientUnmarshalHopeless(t *testing.T) {
	var out map[string]interface{}
	if err := LenientUnmarshal("inte json alls", &out); err == nil {
		t.Error("expected error for non-JSON input")
	}
}

func TestExtractJSONObject(t *testing.T) {
	raw := `Here is the valuation: {"range": {"min": 1, "max": 2}} hope it helps`
	obj, ok := ExtractJSONObject(raw)
	if !ok {
		t.Fatal("no object found")
	}
	if obj != `{"range": {"min": 1, "max": 2}}` {
		t.Errorf("extracted %q", obj)
	}
}

func TestExtractJSONObjectBracesInStrings(t *testing.T) {
	raw := `{"note": "uses { and } inside", "v": 1}`
	obj, ok := ExtractJSONObject(raw)
	if !ok {
		t.Fatal("no object found")
	}
	if obj != raw {
		t.Errorf("extracted %q", obj)
	}
}

func TestExtractJSONObjectEscapedQuote(t *testing.T) {
	raw := `{"quote": "she said \"hej\" {ok}", "v": 2}`
	obj, ok := ExtractJSONObject(raw)
	if !ok {
		t.Fatal("no object found")
	}
	if obj != raw {
		t.Errorf("extracted %q", obj)
	}
}

func TestExtractJSONObjectNone(t *testing.T) {
	if _, ok := ExtractJSONObject("no braces here"); ok {
		t.Error("expected no object")
	}
	if _, ok := ExtractJSONObject(`{"never": "closed"`); ok {
		t.Error("unbalanced object should not match")
	}
}

func TestStripCodeFences(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{`{"a":1}`, `{"a":1}`},
		{"  ```markdown\n# rubrik\n```  ", "# rubrik"},
	}
	for _, c := range cases {
		if got := StripCodeFences(c.in); got != c.want {
			t.Errorf("StripCodeFences(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRenderHTML(t *testing.T) {
	html, err := RenderHTML("# Rubrik\n\n- punkt")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	for _, want := range []string{"<h1", "Rubrik", "<li>punkt</li>"} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q: %s", want, html)
		}
	}
}
