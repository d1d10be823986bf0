package llm

import (
	"encoding/json"
	"reflect"
	"testing"
)

func decodeItems(t *testing.T, raw []byte) []map[string]any {
	t.Helper()
	var out []map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("salvaged bytes are not a valid array: %v", err)
	}
	return out
}

func TestExtractArray(t *testing.T) {
	want := []map[string]any{
		{"name": "Idli", "price": float64(40)},
		{"name": "Dosa", "price": float64(60)},
	}
	body := `[{"name":"Idli","price":40},{"name":"Dosa","price":60}]`

	cases := []struct {
		name  string
		input string
	}{
		{name: "bare array", input: body},
		{name: "leading whitespace", input: "\n\t " + body},
		{name: "fenced", input: "```json\n" + body + "\n```"},
		{name: "fenced no language tag", input: "```\n" + body + "\n```"},
		{name: "wrapped in prose", input: "Here is the menu you asked for:\n" + body + "\nLet me know if you need more."},
		{name: "prose and fences", input: "Sure!\n```json\n" + body + "\n```\nAnything else?"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := ExtractArray(tc.input)
			if raw == nil {
				t.Fatal("expected salvage, got nil")
			}
			if got := decodeItems(t, raw); !reflect.DeepEqual(got, want) {
				t.Fatalf("got %v, want %v", got, want)
			}
		})
	}
}

func TestExtractArrayTruncated(t *testing.T) {
	// token-limit truncation mid-array: the complete elements are recovered
	input := `[{"name":"Idli","price":40},{"name":"Dosa","price":60},`
	raw := ExtractArray(input)
	if raw == nil {
		t.Fatal("expected salvage of truncated array")
	}
	got := decodeItems(t, raw)
	if len(got) != 2 || got[0]["name"] != "Idli" || got[1]["name"] != "Dosa" {
		t.Fatalf("got %v", got)
	}
}

func TestExtractArrayRejectsGarbage(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "plain prose", input: "I could not find any menu items in this text."},
		{name: "object not array", input: `{"name":"Tea"}`},
		{name: "bracket but no json", input: "see [ref] for details"},
		{name: "truncated beyond repair", input: `[{"name":"Te`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if raw := ExtractArray(tc.input); raw != nil {
				t.Fatalf("expected nil, got %s", raw)
			}
		})
	}
}

func TestExtractArrayEquivalentToIsolatedParse(t *testing.T) {
	// arrays embedded in arbitrary prefix/suffix prose decode identically to
	// the array parsed in isolation
	body := `[{"name":"Paneer Tikka","category":"starters","isVeg":true},{"name":"Chicken 65","isVeg":false}]`
	isolated := decodeItems(t, []byte(body))

	for _, wrap := range []string{
		body,
		"prefix text " + body,
		body + " suffix text",
		"a\nb\nc\n" + body + "\nd",
	} {
		raw := ExtractArray(wrap)
		if raw == nil {
			t.Fatalf("no salvage for %q", wrap)
		}
		if got := decodeItems(t, raw); !reflect.DeepEqual(got, isolated) {
			t.Fatalf("wrapped parse differs: %v vs %v", got, isolated)
		}
	}
}

func TestExtractObject(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		wantNil  bool
		wantKeys []string
	}{
		{name: "bare object", input: `{"title":"A","description":"B"}`, wantKeys: []string{"title", "description"}},
		{name: "prose wrapped", input: `Sure: {"title":"A","description":"B"} hope that helps`, wantKeys: []string{"title", "description"}},
		{name: "fenced", input: "```json\n{\"title\":\"A\",\"description\":\"B\"}\n```", wantKeys: []string{"title", "description"}},
		{name: "no object", input: "nothing here", wantNil: true},
		{name: "unbalanced", input: `{"title": "A`, wantNil: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := ExtractObject(tc.input)
			if tc.wantNil {
				if raw != nil {
					t.Fatalf("expected nil, got %s", raw)
				}
				return
			}
			if raw == nil {
				t.Fatal("expected object, got nil")
			}
			var m map[string]any
			if err := json.Unmarshal(raw, &m); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			for _, k := range tc.wantKeys {
				if _, ok := m[k]; !ok {
					t.Fatalf("missing key %q in %v", k, m)
				}
			}
		})
	}
}
