package catalog

import (
	"reflect"
	"testing"
)

func TestResolveLocation(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"district name", "文山", "WSSC"},
		{"trimmed name", "  萬華 ", "WHSC"},
		{"sentinel", "ALL", AllLocations},
		{"code passthrough", "dasc", "DASC"},
		{"unknown falls back", "Gotham", AllLocations},
		{"empty falls back", "", AllLocations},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveLocation(tc.in); got != tc.want {
				t.Fatalf("ResolveLocation(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestAllLocationCodes_ExcludesSentinelInOrder(t *testing.T) {
	want := []string{"WSSC", "XYSC", "ZSSC", "BTSC", "DASC", "DTSC", "NHSC", "SLSC", "SSSC", "WHSC"}
	got := AllLocationCodes()
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("AllLocationCodes() = %v, want %v", got, want)
	}

	// Callers get their own copy.
	got[0] = "XXXX"
	if again := AllLocationCodes(); again[0] != "WSSC" {
		t.Fatalf("AllLocationCodes()[0] = %q after caller mutation, want WSSC", again[0])
	}
}

func TestLocationNames_SentinelFirst(t *testing.T) {
	names := LocationNames()
	if len(names) != 11 {
		t.Fatalf("LocationNames() returned %d names, want 11", len(names))
	}
	if names[0] != AllLocations {
		t.Fatalf("LocationNames()[0] = %q, want %q", names[0], AllLocations)
	}
	if got := LocationName("SLSC"); got != "士林" {
		t.Fatalf("LocationName(SLSC) = %q, want 士林", got)
	}
	if got := LocationName("NOPE"); got != "NOPE" {
		t.Fatalf("LocationName(NOPE) = %q, want NOPE", got)
	}
}

func TestResolveTimeWindow(t *testing.T) {
	cases := []struct {
		bucket string
		want   TimeWindow
		ok     bool
	}{
		{BucketMorning, TimeWindow{"06", "12"}, true},
		{BucketAfternoon, TimeWindow{"12", "18"}, true},
		{BucketEvening, TimeWindow{"18", "22"}, true},
		{BucketAllTime, TimeWindow{}, false},
		{"Midnight", TimeWindow{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.bucket, func(t *testing.T) {
			got, ok := ResolveTimeWindow(tc.bucket)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("ResolveTimeWindow(%q) = %v, %t; want %v, %t", tc.bucket, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestTimeWindowContains_ExclusiveStartInclusiveEnd(t *testing.T) {
	morning := TimeWindow{Start: "06", End: "12"}
	cases := map[string]bool{
		"06": false, // ends at the start bound
		"07": true,
		"10": true,
		"12": true,
		"13": false,
	}
	for hour, want := range cases {
		if got := morning.Contains(hour); got != want {
			t.Fatalf("Contains(%q) = %t, want %t", hour, got, want)
		}
	}

	// A slot ending at 12:00 belongs to Morning but not Afternoon.
	afternoon := TimeWindow{Start: "12", End: "18"}
	if afternoon.Contains("12") {
		t.Fatalf("Afternoon.Contains(12) = true, want false")
	}
}

func TestTimeBucketNames(t *testing.T) {
	want := []string{"All Time", "Morning", "Afternoon", "Evening"}
	if got := TimeBucketNames(); !reflect.DeepEqual(got, want) {
		t.Fatalf("TimeBucketNames() = %v, want %v", got, want)
	}
}
