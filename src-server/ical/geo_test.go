package ical_test

import (
	"errors"
	"testing"

	"calfeed/src-server/ical"
)

func TestParseGeo(t *testing.T) {
	// case: plain latitude/longitude pair
	func() {
		got, err := ical.ParseGeo("41.3;-2.5")
		if err != nil {
			t.Error(err)
		}
		if got.Lat != 41.3 || got.Lon != -2.5 {
			t.Error("unexpected pair", got)
		}
	}()

	// case: the value is unescaped before splitting
	func() {
		got, err := ical.ParseGeo(`41.3\;-2.5`)
		if err != nil {
			t.Error(err)
		}
		if got.Lat != 41.3 || got.Lon != -2.5 {
			t.Error("unexpected pair", got)
		}
	}()

	// case: only the leading numeric prefix of each segment counts
	func() {
		got, err := ical.ParseGeo("41.3 degrees north;-2.5")
		if err != nil {
			t.Error(err)
		}
		if got.Lat != 41.3 {
			t.Error("expected leading prefix parse, got", got.Lat)
		}
	}()

	// case: a segment with no numeric prefix falls back to 0
	func() {
		got, err := ical.ParseGeo("unknown;-2.5")
		if err != nil {
			t.Error(err)
		}
		if got.Lat != 0 || got.Lon != -2.5 {
			t.Error("unexpected pair", got)
		}
	}()

	// case: anything but two segments is ErrGeoFormat
	func() {
		for _, value := range []string{"41.3", "41.3;-2.5;7", ""} {
			if _, err := ical.ParseGeo(value); !errors.Is(err, ical.ErrGeoFormat) {
				t.Error("expected ErrGeoFormat for", value, "got", err)
			}
		}
	}()
}
