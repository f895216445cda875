package catalog

// Bucket names shown in the UI and accepted by the -time flag.
const (
	BucketAllTime   = "All Time"
	BucketMorning   = "Morning"
	BucketAfternoon = "Afternoon"
	BucketEvening   = "Evening"
)

// TimeWindow is an hour range using zero-padded two-digit hours.
type TimeWindow struct {
	Start string
	End   string
}

// Contains reports whether a slot ending at endHour belongs to the window.
// The start bound is exclusive and the end bound inclusive, so a slot ending
// exactly at Start is not part of the window. endHour must already be padded
// to two digits.
func (w TimeWindow) Contains(endHour string) bool {
	return w.Start < endHour && endHour <= w.End
}

var bucketNames = []string{BucketAllTime, BucketMorning, BucketAfternoon, BucketEvening}

// "All Time" deliberately has no entry: no window means no filtering.
var timeWindows = map[string]TimeWindow{
	BucketMorning:   {Start: "06", End: "12"},
	BucketAfternoon: {Start: "12", End: "18"},
	BucketEvening:   {Start: "18", End: "22"},
}

// ResolveTimeWindow returns the hour range for a bucket. ok is false for
// "All Time" and for any unrecognized name.
func ResolveTimeWindow(bucket string) (TimeWindow, bool) {
	w, ok := timeWindows[bucket]
	return w, ok
}

// TimeBucketNames returns the bucket names in display order.
func TimeBucketNames() []string {
	return append([]string(nil), bucketNames...)
}
