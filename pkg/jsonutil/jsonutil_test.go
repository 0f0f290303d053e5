package jsonutil

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

type timed struct {
	Name    string        `json:"name"`
	Elapsed time.Duration `json:"elapsed"`
}

func TestDurationRoundTrip(t *testing.T) {
	in := timed{Name: "run", Elapsed: 1780 * time.Millisecond}

	data, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), `"elapsed":1780000000`) {
		t.Errorf("duration not encoded as nanoseconds: %s", data)
	}

	var out timed
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestDurationInNestedStruct(t *testing.T) {
	type inner struct {
		Wait time.Duration `json:"wait"`
	}
	type outer struct {
		Runs []inner `json:"runs"`
	}

	data, err := MarshalIndent(outer{Runs: []inner{{Wait: time.Second}}}, "  ")
	if err != nil {
		t.Fatalf("MarshalIndent: %v", err)
	}
	if !Valid(data) {
		t.Fatalf("invalid JSON: %s", data)
	}

	var out outer
	if err := Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.Runs[0].Wait != time.Second {
		t.Errorf("Wait = %v", out.Runs[0].Wait)
	}
}

func TestMarshalWriteCarriesDuration(t *testing.T) {
	var buf bytes.Buffer
	if err := MarshalWrite(&buf, timed{Elapsed: 5 * time.Second}); err != nil {
		t.Fatalf("MarshalWrite: %v", err)
	}

	var out timed
	if err := UnmarshalRead(&buf, &out); err != nil {
		t.Fatalf("UnmarshalRead: %v", err)
	}
	if out.Elapsed != 5*time.Second {
		t.Errorf("Elapsed = %v", out.Elapsed)
	}
}

func TestValid(t *testing.T) {
	if !Valid([]byte(`{"a":1}`)) {
		t.Error("valid JSON rejected")
	}
	if Valid([]byte(`{"a":`)) {
		t.Error("truncated JSON accepted")
	}
}
