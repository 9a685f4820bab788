package segment

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestDecode_MORTScenario(t *testing.T) {
	got := Decode("Hello world\n//////\nHow are you?", "//////")
	want := []string{"Hello world\n", "\nHow are you?"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestDecode_NoSeparator(t *testing.T) {
	got := Decode("single line", "//////")
	if len(got) != 1 || got[0] != "single line" {
		t.Errorf("expected single segment, got %q", got)
	}
}

func TestDecode_EmptyBoundarySegments(t *testing.T) {
	got := Decode("//////middle//////", "//////")
	want := []string{"", "middle", ""}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestDecode_EmptySeparator(t *testing.T) {
	got := Decode("anything", "")
	if len(got) != 1 || got[0] != "anything" {
		t.Errorf("expected single segment for empty separator, got %q", got)
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	texts := []string{
		"Hello world\n//////\nHow are you?",
		"//////leading",
		"trailing//////",
		"////////////",
		"",
		"no separators at all",
		"a//////b//////c",
	}

	for _, text := range texts {
		decoded := Decode(text, "//////")
		encoded := Encode(decoded, "//////")
		if encoded != text {
			t.Errorf("round trip changed text: %q -> %q", text, encoded)
		}
		if !reflect.DeepEqual(Decode(encoded, "//////"), decoded) {
			t.Errorf("re-decode differs for %q", text)
		}
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(3, 3); err != nil {
		t.Errorf("unexpected error for equal counts: %v", err)
	}

	err := Validate(2, 3)
	if err == nil {
		t.Fatal("expected error for mismatched counts")
	}

	var mismatch *MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected *MismatchError, got %T", err)
	}
	if mismatch.Want != 2 || mismatch.Got != 3 {
		t.Errorf("expected Want=2 Got=3, got Want=%d Got=%d", mismatch.Want, mismatch.Got)
	}
}

func TestNormalize_CanonicalForm(t *testing.T) {
	got := Normalize("first\n//////\nsecond", "//////")
	want := "//////\r\nfirst\r\n//////\r\nsecond\r\n"

	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNormalize_StripsBoundarySeparators(t *testing.T) {
	got := Normalize("//////\r\nonly segment\r\n//////", "//////")
	want := "//////\r\nonly segment\r\n"

	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNormalize_CollapsesDoubledSeparators(t *testing.T) {
	got := Normalize("a\r\n////////////\r\nb", "//////")

	if strings.Contains(got, "////////////") {
		t.Errorf("doubled separator survived: %q", got)
	}
	if !strings.Contains(got, "a") || !strings.Contains(got, "b") {
		t.Errorf("segments lost: %q", got)
	}
}

func TestNormalize_Empty(t *testing.T) {
	if got := Normalize("", "//////"); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
	if got := Normalize("//////", "//////"); got != "" {
		t.Errorf("expected empty output for separator-only input, got %q", got)
	}
}

func TestPatternsFor_CompilesOncePerSeparator(t *testing.T) {
	first := patternsFor("//////")
	second := patternsFor("//////")
	if first != second {
		t.Error("expected cached patterns to be reused for the same separator")
	}

	other := patternsFor("|||")
	if other == first {
		t.Error("expected distinct patterns for a different separator")
	}
}

func TestNormalize_DistinctSeparators(t *testing.T) {
	got := Normalize("first|||second", "|||")
	want := "|||\r\nfirst\r\n|||\r\nsecond\r\n"
	if got != want {
		t.Errorf("Normalize with custom separator = %q, want %q", got, want)
	}

	got = Normalize("first\n//////\nsecond", "//////")
	want = "//////\r\nfirst\r\n//////\r\nsecond\r\n"
	if got != want {
		t.Errorf("Normalize after cache reuse = %q, want %q", got, want)
	}
}
