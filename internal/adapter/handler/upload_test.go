package handler

import (
	"strings"
	"testing"
)

func TestStripVTT(t *testing.T) {
	raw := strings.Join([]string{
		"WEBVTT",
		"",
		"NOTE generated by recorder",
		"",
		"1",
		"00:00:01.000 --> 00:00:04.000",
		"<v Sarah>Let's start with the quarterly numbers.</v>",
		"",
		"2",
		"00:00:05.000 --> 00:00:09.000",
		"<v Mike>I will finish the payment integration by Friday.</v>",
		"",
		"3",
		"00:00:10.000 --> 00:00:12.000",
		"Plain cue line without a voice tag.",
	}, "\n")

	got := stripVTT(raw)

	want := strings.Join([]string{
		"Sarah: Let's start with the quarterly numbers.",
		"Mike: I will finish the payment integration by Friday.",
		"Plain cue line without a voice tag.",
	}, "\n")

	if got != want {
		t.Errorf("stripVTT mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestStripVTTHourTimings(t *testing.T) {
	raw := "WEBVTT\n\n01:02:03.500 --> 01:02:06.000\nHello there."

	got := stripVTT(raw)
	if got != "Hello there." {
		t.Errorf("expected timing line with hours to be dropped, got %q", got)
	}
}

func TestStripVTTEmptyInput(t *testing.T) {
	if got := stripVTT(""); got != "" {
		t.Errorf("expected empty output for empty input, got %q", got)
	}
}
