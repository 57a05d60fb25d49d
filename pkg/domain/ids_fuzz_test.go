//go:build go1.18

package domain

import (
	"testing"
	"unicode/utf8"
)

// FuzzParseUserID checks that parsing never panics on arbitrary input and
// that every accepted input round-trips through String.
func FuzzParseUserID(f *testing.F) {
	f.Add("")
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("00000000-0000-0000-0000-000000000000")
	f.Add("not-a-uuid")
	f.Add("'; DROP TABLE users;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))
	f.Add("550e8400-e29b-41d4-a716-446655440000\x00suffix")

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseUserID(input)

		if err == nil {
			roundTrip, err2 := ParseUserID(id.String())
			if err2 != nil {
				t.Errorf("valid ID failed round-trip: %v", err2)
			}
			if roundTrip != id {
				t.Error("round-trip changed ID value")
			}
		}

		if !utf8.ValidString(input) && err == nil {
			t.Error("non-UTF8 input was accepted")
		}
	})
}

// FuzzParseAllIDs checks that every ID type applies the same validation.
func FuzzParseAllIDs(f *testing.F) {
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("")
	f.Add("invalid")

	f.Fuzz(func(t *testing.T, input string) {
		_, errUser := ParseUserID(input)
		_, errReset := ParseResetID(input)

		if (errUser == nil) != (errReset == nil) {
			t.Error("inconsistent validation across ID types")
		}
	})
}
