package catalog

import (
	"errors"
	"testing"
	"time"

	"github.com/bytedance/sonic"
)

func TestTimestamp_UnmarshalVariants(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
		zero bool
	}{
		{name: "number", in: `1672531200000`, want: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "float", in: `1672531200000.0`, want: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "numeric string", in: `"1672531200000"`, want: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "rfc3339", in: `"2023-02-03T04:05:06Z"`, want: time.Date(2023, 2, 3, 4, 5, 6, 0, time.UTC)},
		{name: "space layout", in: `"2023-02-03 04:05:06"`, want: time.Date(2023, 2, 3, 4, 5, 6, 0, time.UTC)},
		{name: "date only", in: `"2023-02-03"`, want: time.Date(2023, 2, 3, 0, 0, 0, 0, time.UTC)},
		{name: "null", in: `null`, zero: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			if err := ts.UnmarshalJSON([]byte(tt.in)); err != nil {
				t.Fatalf("UnmarshalJSON(%s) returned error: %v", tt.in, err)
			}
			if tt.zero {
				if !ts.IsZero() {
					t.Fatalf("UnmarshalJSON(%s) = %v, want zero", tt.in, ts)
				}
				return
			}
			got, err := ts.Time()
			if err != nil {
				t.Fatalf("Time() returned error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("Time() = %v, want %v", got.UTC(), tt.want)
			}
		})
	}
}

func TestTimestamp_MalformedText(t *testing.T) {
	if _, err := FromText("yesterday").Time(); err == nil {
		t.Fatalf("Time() on malformed text returned nil error")
	}
	if _, err := (Timestamp{}).Time(); !errors.Is(err, ErrNoTimestamp) {
		t.Fatalf("Time() on zero = %v, want ErrNoTimestamp", err)
	}
	if _, err := FromText("  ").Time(); !errors.Is(err, ErrNoTimestamp) {
		t.Fatalf("Time() on blank = %v, want ErrNoTimestamp", err)
	}
}

func TestListResponse_DecodesMixedDates(t *testing.T) {
	var payload ListResponse
	if err := sonic.Unmarshal([]byte(`{"ids":["a","b"],"dates":[5,"2020-01-01"]}`), &payload); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if len(payload.Dates) != 2 || payload.Dates[0].String() != "5" || payload.Dates[1].String() != "2020-01-01" {
		t.Fatalf("dates = %#v", payload.Dates)
	}
}

func TestZip(t *testing.T) {
	entries, err := Zip([]string{"a", "b"}, []Timestamp{FromMillis(1), FromMillis(2)})
	if err != nil {
		t.Fatalf("Zip returned error: %v", err)
	}
	if len(entries) != 2 || entries[1].ID != "b" || entries[1].Timestamp.String() != "2" {
		t.Fatalf("Zip = %#v", entries)
	}

	entries, err = Zip([]string{"a", "b"}, nil)
	if err != nil || len(entries) != 2 || !entries[0].Timestamp.IsZero() {
		t.Fatalf("Zip without stamps = %#v, %v", entries, err)
	}

	if _, err := Zip([]string{"a", "b"}, []Timestamp{FromMillis(1)}); !errors.Is(err, ErrMisaligned) {
		t.Fatalf("Zip mismatch error = %v, want ErrMisaligned", err)
	}

	if ids := IDs(entries); len(ids) != 2 || ids[0] != "a" {
		t.Fatalf("IDs = %v", ids)
	}
}

func TestDetailedInfo_Helpers(t *testing.T) {
	var info DetailedInfo
	if _, ok := info.Created(); ok {
		t.Fatalf("Created() without createdAt reported ok")
	}
	bad := "not a date"
	info.CreatedAt = &bad
	if _, ok := info.Created(); ok {
		t.Fatalf("Created() with malformed createdAt reported ok")
	}
	info.Alt = " alt text "
	if info.DisplayName() != "alt text" {
		t.Fatalf("DisplayName = %q", info.DisplayName())
	}
	info.Name = "IMG_0001.JPG"
	if info.DisplayName() != "IMG_0001.JPG" {
		t.Fatalf("DisplayName = %q", info.DisplayName())
	}
}
