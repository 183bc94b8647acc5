package normalize

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"genroute/internal/domain/entity"
)

func TestParseShape(t *testing.T) {
	tests := []struct {
		name string
		want Shape
	}{
		{"text", ShapeText},
		{"list", ShapeList},
		{"object", ShapeObject},
		{"LIST", ShapeList},
		{"  object  ", ShapeObject},
		{"", ShapeText},
		{"unknown", ShapeText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseShape(tt.name); got != tt.want {
				t.Errorf("ParseShape(%q) = %s, want %s", tt.name, got, tt.want)
			}
		})
	}
}

func TestStrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text untouched",
			in:   "  hello world  ",
			want: "hello world",
		},
		{
			name: "bare fence",
			in:   "```\n[1, 2]\n```",
			want: "[1, 2]",
		},
		{
			name: "json tagged fence",
			in:   "```json\n{\"a\": 1}\n```",
			want: "{\"a\": 1}",
		},
		{
			name: "prose before fence",
			in:   "Here is the result:\n```json\n[\"x\"]\n```",
			want: "[\"x\"]",
		},
		{
			name: "unterminated fence",
			in:   "```json\n{\"a\": 1}",
			want: "{\"a\": 1}",
		},
		{
			name: "single-line json fence",
			in:   "```json{\"a\": 1}```",
			want: "{\"a\": 1}",
		},
		{
			name: "single-line fence with other language tag",
			in:   "```yaml{\"a\": 1}```",
			want: "{\"a\": 1}",
		},
		{
			name: "single-line fence around prose keeps first word",
			in:   "```hello world```",
			want: "hello world",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Strip(tt.in); got != tt.want {
				t.Errorf("Strip(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStrip_Idempotent(t *testing.T) {
	inputs := []string{
		"```json\n[\"a\", \"b\"]\n```",
		"plain text",
		"```\n{\"k\": \"v\"}\n```",
	}
	for _, in := range inputs {
		once := Strip(in)
		if twice := Strip(once); twice != once {
			t.Errorf("Strip not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}

func TestStringList(t *testing.T) {
	got, err := StringList("```json\n[\"alpha\", \"beta\"]\n```")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"alpha", "beta"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestStringList_StringifiesNonStrings(t *testing.T) {
	got, err := StringList("[1, \"two\", true]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"1", "two", "true"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestStringList_Errors(t *testing.T) {
	for _, in := range []string{"not json at all", "{\"a\": 1}", ""} {
		if _, err := StringList(in); err == nil {
			t.Errorf("StringList(%q) expected error", in)
		}
	}
}

func TestObject(t *testing.T) {
	got, err := Object("```json\n{\"action\": \"hold\", \"confidence\": 0.8}\n```")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["action"] != "hold" {
		t.Errorf("action = %v, want hold", got["action"])
	}
	if got["confidence"] != 0.8 {
		t.Errorf("confidence = %v, want 0.8", got["confidence"])
	}
}

func TestObject_Errors(t *testing.T) {
	for _, in := range []string{"[1, 2]", "plain prose", "42"} {
		if _, err := Object(in); err == nil {
			t.Errorf("Object(%q) expected error", in)
		}
	}
}

func TestNormalize_Text(t *testing.T) {
	got, err := Normalize("  an answer  ", ShapeText, "model-2.0-pro")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "an answer" {
		t.Errorf("got %q", got)
	}
}

func TestNormalize_EmptyTextIsMalformed(t *testing.T) {
	_, err := Normalize("   ", ShapeText, "model-2.0-pro")
	if entity.KindOf(err) != entity.KindMalformedResponse {
		t.Errorf("kind = %s, want malformed_response", entity.KindOf(err))
	}

	var cerr *entity.ClassifiedError
	if !errors.As(err, &cerr) {
		t.Fatal("expected ClassifiedError")
	}
	if cerr.Backend != "model-2.0-pro" {
		t.Errorf("backend = %q", cerr.Backend)
	}
}

func TestNormalize_ListShapeMismatchIsMalformed(t *testing.T) {
	_, err := Normalize("just some prose", ShapeList, "model-2.0-flash")
	if entity.KindOf(err) != entity.KindMalformedResponse {
		t.Errorf("kind = %s, want malformed_response", entity.KindOf(err))
	}
}

func TestNormalize_ReturnsStrippedPayload(t *testing.T) {
	got, err := Normalize("```json\n[\"a\"]\n```", ShapeList, "m")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "[\"a\"]" {
		t.Errorf("got %q", got)
	}
}
