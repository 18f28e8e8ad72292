// Package model defines the wire-level data shapes shared by every backend
// client, the mergers, and the HTTP façade: directions, log entries, streams,
// and the three response envelopes.
package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Direction governs both the per-backend request and the ordering of a merged stream.
type Direction string

const (
	Forward  Direction = "FORWARD"
	Backward Direction = "BACKWARD"
)

// ParseDirection accepts case-insensitive "forward"/"backward" and defaults to
// Backward for anything else, including the empty string.
func ParseDirection(s string) Direction {
	if strings.EqualFold(s, "forward") {
		return Forward
	}
	return Backward
}

// LogEntry is a single timestamped log line, decoded (int64 nanoseconds).
type LogEntry struct {
	Timestamp int64
	Line      string
}

// wireValue is the [timestamp-as-decimal-string, line] pair used on the wire.
type wireValue [2]string

// Stream is a labelled, ordered sequence of log entries. Identity for merging
// purposes is the exact label map.
type Stream struct {
	Labels map[string]string
	Values []LogEntry
}

// SameLabels reports whether two streams represent the same logical stream.
func (s Stream) SameLabels(other Stream) bool {
	if len(s.Labels) != len(other.Labels) {
		return false
	}
	for k, v := range s.Labels {
		if ov, ok := other.Labels[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the stream so merging never aliases another
// backend's slice.
func (s Stream) Clone() Stream {
	labels := make(map[string]string, len(s.Labels))
	for k, v := range s.Labels {
		labels[k] = v
	}
	values := make([]LogEntry, len(s.Values))
	copy(values, s.Values)
	return Stream{Labels: labels, Values: values}
}

// MarshalJSON renders the stream in the upstream wire shape:
// {"stream": {...labels}, "values": [["169...","line"], ...]}.
func (s Stream) MarshalJSON() ([]byte, error) {
	values := make([]wireValue, len(s.Values))
	for i, v := range s.Values {
		values[i] = wireValue{strconv.FormatInt(v.Timestamp, 10), v.Line}
	}
	return json.Marshal(struct {
		Stream map[string]string `json:"stream"`
		Values []wireValue       `json:"values"`
	}{Stream: s.Labels, Values: values})
}

// UnmarshalJSON parses the upstream wire shape back into a Stream, decoding
// wire timestamps to int64. A malformed timestamp is reported to the caller
// as an error; the HTTP backend client turns it into a Decode failure.
func (s *Stream) UnmarshalJSON(data []byte) error {
	var raw struct {
		Stream map[string]string `json:"stream"`
		Values []wireValue       `json:"values"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	values := make([]LogEntry, len(raw.Values))
	for i, v := range raw.Values {
		ts, err := strconv.ParseInt(v[0], 10, 64)
		if err != nil {
			return fmt.Errorf("stream value %d: invalid timestamp %q: %w", i, v[0], err)
		}
		values[i] = LogEntry{Timestamp: ts, Line: v[1]}
	}
	s.Labels = raw.Stream
	s.Values = values
	return nil
}

// Vector is the instant-query sample shape, passed through unmodified when encountered.
type Vector struct {
	Metric map[string]string `json:"metric"`
	Value  [2]any            `json:"value"`
}

// ResultType discriminates the QueryResponse payload.
type ResultType string

const (
	ResultStreams ResultType = "streams"
	ResultVector  ResultType = "vector"
)

// QueryData is the {resultType, result} body of a QueryResponse.
type QueryData struct {
	ResultType ResultType
	Streams    []Stream
	Vectors    []Vector
}

func (d QueryData) MarshalJSON() ([]byte, error) {
	switch d.ResultType {
	case ResultVector:
		return json.Marshal(struct {
			ResultType ResultType `json:"resultType"`
			Result     []Vector   `json:"result"`
		}{ResultType: d.ResultType, Result: d.Vectors})
	default:
		return json.Marshal(struct {
			ResultType ResultType `json:"resultType"`
			Result     []Stream   `json:"result"`
		}{ResultType: ResultStreams, Result: d.Streams})
	}
}

func (d *QueryData) UnmarshalJSON(data []byte) error {
	var probe struct {
		ResultType ResultType      `json:"resultType"`
		Result     json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	d.ResultType = probe.ResultType
	switch probe.ResultType {
	case ResultVector:
		return json.Unmarshal(probe.Result, &d.Vectors)
	default:
		d.ResultType = ResultStreams
		return json.Unmarshal(probe.Result, &d.Streams)
	}
}

// QueryResponse is the envelope returned by query and query_range.
type QueryResponse struct {
	Status string    `json:"status"`
	Data   QueryData `json:"data"`
}

// NewStreamsResponse builds a successful streams-shaped response.
func NewStreamsResponse(streams []Stream) QueryResponse {
	return QueryResponse{Status: "success", Data: QueryData{ResultType: ResultStreams, Streams: streams}}
}

// LabelResponse is the envelope returned by labels and label_values.
type LabelResponse struct {
	Status string   `json:"status"`
	Data   []string `json:"data,omitempty"`
}

// SeriesResponse is the envelope returned by series.
type SeriesResponse struct {
	Status string              `json:"status"`
	Data   []map[string]string `json:"data"`
}
