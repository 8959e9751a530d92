package entity

import (
	"encoding/json"
	"reflect"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestBodyFromBytes(t *testing.T) {
	if got := BodyFromBytes(nil); got != nil {
		t.Fatalf("BodyFromBytes(nil) = %q, want nil", *got)
	}
	if got := BodyFromBytes([]byte{}); got != nil {
		t.Fatalf("BodyFromBytes(empty) = %q, want nil", *got)
	}
	got := BodyFromBytes([]byte("hello"))
	if got == nil || *got != "hello" {
		t.Fatalf("BodyFromBytes(hello) = %v, want hello", got)
	}
}

func TestClassifyBody(t *testing.T) {
	tests := []struct {
		name string
		body *string
		want any
	}{
		{
			name: "absent body is nil",
			body: nil,
			want: nil,
		},
		{
			name: "empty body is nil",
			body: strPtr(""),
			want: nil,
		},
		{
			name: "json object is decoded",
			body: strPtr(`{"event":"x","attempt":1}`),
			want: map[string]any{"event": "x", "attempt": json.Number("1")},
		},
		{
			name: "json array is decoded",
			body: strPtr(`[1,"two"]`),
			want: []any{json.Number("1"), "two"},
		},
		{
			name: "plain text is returned unchanged",
			body: strPtr("This is plain text content, not JSON"),
			want: "This is plain text content, not JSON",
		},
		{
			name: "trailing garbage is not json",
			body: strPtr(`{"a":1} trailing`),
			want: `{"a":1} trailing`,
		},
		{
			name: "surrounding whitespace is tolerated",
			body: strPtr("  \"quoted\"\n"),
			want: "quoted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyBody(tt.body)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ClassifyBody() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestClassifyBody_NumbersSurviveReencoding(t *testing.T) {
	body := strPtr(`{"amount":1399,"ratio":0.1000000000000000055511151231257827}`)

	encoded, err := json.Marshal(ClassifyBody(body))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"amount":1399,"ratio":0.1000000000000000055511151231257827}`
	if string(encoded) != want {
		t.Fatalf("re-encoded body = %s, want %s", encoded, want)
	}
}
