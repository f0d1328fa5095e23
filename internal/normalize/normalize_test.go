package normalize_test

import (
	"testing"

	"kestrel.dev/armjit/internal/normalize"
)

func TestStrip(t *testing.T) {
	test := func(input, expected string) {
		if got := normalize.Strip(input); got != expected {
			t.Fatalf("Strip(%q) = %q, expected %q", input, got, expected)
		}
	}

	test("2 + 3 * 4", "2+3*4")
	test("  add( 7 , mul(3,4) )  ", "add(7,mul(3,4))")
	test("noSpacesHere", "noSpacesHere")
	test("", "")

	t.Run("OnlyASCIISpaceIsStripped", func(t *testing.T) {
		// A tab is not the 0x20 space character and must pass through.
		test("1+\t2", "1+\t2")
	})
}
