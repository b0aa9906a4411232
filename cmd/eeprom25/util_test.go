package main

import (
	"bytes"
	"testing"
)

func TestPrettyHexIndent(t *testing.T) {
	testCases := []struct {
		name   string
		in     []byte
		prefix string
		space  string
		want   string
	}{
		{"empty", []byte{}, "  ", "", ""},
		{"one", []byte{0x00}, "  ", "", "  00"},
		{"two", []byte{0x00, 0x01}, "  ", "", "  00 01"},
		{"three", []byte{0x00, 0x01, 0x02}, "    ", "", "    00 01 02"},
		{
			"big", bytes.Repeat([]byte{0x00}, 32), "    ", "",
			"    00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00\n" +
				"    00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00",
		},
		{
			"space", bytes.Repeat([]byte{0x00}, 32), "    ", " ",
			"    00 00 00 00 00 00 00 00  00 00 00 00 00 00 00 00\n" +
				"    00 00 00 00 00 00 00 00  00 00 00 00 00 00 00 00",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := prettyHexIndent(tc.in, tc.prefix, tc.space)
			if got != tc.want {
				t.Errorf("want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestFormatMAC(t *testing.T) {
	mac := []byte{0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC}
	want := "12:34:56:78:9A:BC"
	if got := formatMAC(mac); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseAddr(t *testing.T) {
	testCases := []struct {
		in      string
		want    byte
		wantErr bool
	}{
		{"0", 0x00, false},
		{"10", 0x10, false},
		{"0xFA", 0xFA, false},
		{"ff", 0xFF, false},
		{"100", 0, true},
		{"xyz", 0, true},
		{"", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := parseAddr(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("got %#02x, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("got %#02x, want %#02x", got, tc.want)
			}
		})
	}
}
