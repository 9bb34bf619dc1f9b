// Package parse decodes the four semicolon-delimited input files a
// scenario is built from: expanded events, expanded activities, the
// origin-destination matrix, and source delays.
package parse

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/spkg/bom"

	"lintim.dev/ptsim/simerrors"
)

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(bom.NewReader(r))
	cr.Comma = ';'
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	return cr
}

func trimAll(fields []string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = strings.TrimSpace(f)
	}
	return out
}

// RawEvent is one row of the expanded events file: event_id; "type"; ?;
// time; weight; station_id; plus any number of ignored trailing columns.
// Only rows whose Kind is "departure" are indexed for initial passenger
// assignment.
type RawEvent struct {
	ID          int     `csv:"event_id"`
	Kind        string  `csv:"type"`
	Placeholder string  `csv:"placeholder"`
	Time        int     `csv:"time"`
	Weight      float64 `csv:"weight"`
	StationID   int     `csv:"station_id"`
}

// ParseEvents decodes the expanded events file. Trailing columns beyond
// station_id are tolerated and ignored, matching the file format's "…".
func ParseEvents(r io.Reader) ([]RawEvent, error) {
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader { return newReader(in) })
	var events []RawEvent
	if err := gocsv.UnmarshalWithoutHeaders(r, &events); err != nil {
		return nil, simerrors.New(simerrors.InvalidInputFile, "ParseEvents", err)
	}
	return events, nil
}

// RawActivity is one row of the expanded activities file. Exactly 7
// fields are required: activity_id; ?; "type"; tail_event_id;
// head_event_id; lower_bound; weight.
type RawActivity struct {
	ID          int
	Placeholder string
	Type        string
	TailEventID int
	HeadEventID int
	LowerBound  int
	Weight      float64
}

// ParseActivities decodes the expanded activities file. Any row with a
// field count other than 7 fails with InvalidInputFile.
func ParseActivities(r io.Reader) ([]RawActivity, error) {
	cr := newReader(r)
	var out []RawActivity
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, simerrors.New(simerrors.InvalidInputFile, "ParseActivities", err)
		}
		record = trimAll(record)
		if len(record) != 7 {
			return nil, simerrors.Newf(simerrors.InvalidInputFile, "ParseActivities", "activity row has %d fields, want 7: %v", len(record), record)
		}

		id, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, simerrors.New(simerrors.InvalidInputFile, "ParseActivities", err)
		}
		tail, err := strconv.Atoi(record[3])
		if err != nil {
			return nil, simerrors.New(simerrors.InvalidInputFile, "ParseActivities", err)
		}
		head, err := strconv.Atoi(record[4])
		if err != nil {
			return nil, simerrors.New(simerrors.InvalidInputFile, "ParseActivities", err)
		}
		lowerBound, err := strconv.Atoi(record[5])
		if err != nil {
			return nil, simerrors.New(simerrors.InvalidInputFile, "ParseActivities", err)
		}
		weight, err := strconv.ParseFloat(record[6], 64)
		if err != nil {
			return nil, simerrors.New(simerrors.InvalidInputFile, "ParseActivities", err)
		}

		out = append(out, RawActivity{
			ID:          id,
			Placeholder: record[1],
			Type:        record[2],
			TailEventID: tail,
			HeadEventID: head,
			LowerBound:  lowerBound,
			Weight:      weight,
		})
	}
	return out, nil
}

// ODEntry is one row of the origin-destination matrix.
type ODEntry struct {
	Origin      int `csv:"origin"`
	Destination int `csv:"destination"`
	Passengers  int `csv:"passengers"`
}

// ParseOD decodes the OD matrix file.
func ParseOD(r io.Reader) ([]ODEntry, error) {
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader { return newReader(in) })
	var entries []ODEntry
	if err := gocsv.UnmarshalWithoutHeaders(r, &entries); err != nil {
		return nil, simerrors.New(simerrors.InvalidInputFile, "ParseOD", err)
	}
	return entries, nil
}

// ODMatrixSize returns the square matrix dimension implied by the
// largest origin or destination index seen, per the input format's rule
// that the matrix size is inferred rather than stated.
func ODMatrixSize(entries []ODEntry) int {
	max := 0
	for _, e := range entries {
		if e.Origin > max {
			max = e.Origin
		}
		if e.Destination > max {
			max = e.Destination
		}
	}
	return max + 1
}

// DelayEntry is one row of the source delays file: the activity whose
// target event receives the delay, and the delay amount in seconds.
type DelayEntry struct {
	ActivityID   int `csv:"activity_id"`
	DelaySeconds int `csv:"delay_seconds"`
}

// ParseDelays decodes the source delays file.
func ParseDelays(r io.Reader) ([]DelayEntry, error) {
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader { return newReader(in) })
	var entries []DelayEntry
	if err := gocsv.UnmarshalWithoutHeaders(r, &entries); err != nil {
		return nil, simerrors.New(simerrors.InvalidInputFile, "ParseDelays", err)
	}
	return entries, nil
}

// MergeDelaysByTargetEvent resolves the "larger delay wins" rule for
// multiple delay file entries that target the same event, given a
// lookup from activity id to the event id of that activity's target.
func MergeDelaysByTargetEvent(entries []DelayEntry, targetEventOf map[int]int) map[int]int {
	merged := map[int]int{}
	for _, e := range entries {
		eventID, ok := targetEventOf[e.ActivityID]
		if !ok {
			continue
		}
		if existing, ok := merged[eventID]; !ok || e.DelaySeconds > existing {
			merged[eventID] = e.DelaySeconds
		}
	}
	return merged
}
