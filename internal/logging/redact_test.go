package logging

import "testing"

func TestMaskFieldRedactsUnlistedKeys(t *testing.T) {
	attr := MaskField("vtoken_cost", "12345")
	if attr.Value.String() != RedactedValue {
		t.Fatalf("expected redaction, got %q", attr.Value.String())
	}
}

func TestMaskFieldPassesAllowlistedKeys(t *testing.T) {
	attr := MaskField("schedule_id", "0xabc")
	if attr.Value.String() != "0xabc" {
		t.Fatalf("expected passthrough, got %q", attr.Value.String())
	}
}

func TestMaskFieldLeavesEmptyValuesAlone(t *testing.T) {
	attr := MaskField("amount", "")
	if attr.Value.String() != "" {
		t.Fatalf("expected empty string preserved, got %q", attr.Value.String())
	}
}

func TestIsAllowlistedCaseInsensitive(t *testing.T) {
	if !IsAllowlisted("Schedule_ID") {
		t.Fatal("expected case-insensitive allowlist match")
	}
}
