package telemetry

import (
	"reflect"
	"testing"
)

func TestParseHeadersSkipsMalformedPairs(t *testing.T) {
	got := ParseHeaders("a=1, b=2,malformed, =novalue, c=")
	want := map[string]string{"a": "1", "b": "2", "c": ""}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseHeadersEmptyInput(t *testing.T) {
	got := ParseHeaders("")
	if len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
}
