package merge

import (
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"lokifederation/internal/executor"
	"lokifederation/internal/model"
	"lokifederation/pkg/clienterr"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func stream(labels map[string]string, values []model.LogEntry) model.Stream {
	return model.Stream{Labels: labels, Values: values}
}

func TestStreams_SingletonIdentity(t *testing.T) {
	labels := map[string]string{"app": "gateway"}
	resp := model.NewStreamsResponse([]model.Stream{stream(labels, entries(2, "b", 1, "a"))})

	outcomes := []executor.Outcome[model.QueryResponse]{{Label: "shard-a", Value: resp}}

	got, err := Streams(discardLogger(), outcomes, model.Backward)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got.Data.Streams, resp.Data.Streams) {
		t.Errorf("Streams() = %+v, want %+v", got.Data.Streams, resp.Data.Streams)
	}
}

func TestStreams_MergesSameLabelStreamsAcrossBackends(t *testing.T) {
	labels := map[string]string{"app": "gateway"}
	respA := model.NewStreamsResponse([]model.Stream{stream(labels, entries(4, "d", 2, "b", 1, "a"))})
	respB := model.NewStreamsResponse([]model.Stream{stream(labels, entries(4, "d", 3, "c", 1, "a"))})

	outcomes := []executor.Outcome[model.QueryResponse]{
		{Label: "shard-a", Value: respA},
		{Label: "shard-b", Value: respB},
	}

	got, err := Streams(discardLogger(), outcomes, model.Backward)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Data.Streams) != 1 {
		t.Fatalf("expected exactly one merged stream, got %d", len(got.Data.Streams))
	}
	want := entries(4, "d", 3, "c", 2, "b", 1, "a")
	if !reflect.DeepEqual(got.Data.Streams[0].Values, want) {
		t.Errorf("merged values = %v, want %v", got.Data.Streams[0].Values, want)
	}
}

func TestStreams_DistinctLabelsStayDistinctStreams(t *testing.T) {
	respA := model.NewStreamsResponse([]model.Stream{stream(map[string]string{"app": "a"}, entries(1, "x"))})
	respB := model.NewStreamsResponse([]model.Stream{stream(map[string]string{"app": "b"}, entries(1, "y"))})

	outcomes := []executor.Outcome[model.QueryResponse]{
		{Label: "shard-a", Value: respA},
		{Label: "shard-b", Value: respB},
	}

	got, err := Streams(discardLogger(), outcomes, model.Backward)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Data.Streams) != 2 {
		t.Errorf("expected 2 distinct streams, got %d", len(got.Data.Streams))
	}
}

func TestStreams_PartialFailureRobustness(t *testing.T) {
	labels := map[string]string{"app": "gateway"}
	respA := model.NewStreamsResponse([]model.Stream{stream(labels, entries(2, "b"))})

	outcomes := []executor.Outcome[model.QueryResponse]{
		{Label: "shard-a", Value: respA},
		{Label: "shard-b", Err: clienterr.New(clienterr.Transport, "dial failed")},
	}

	got, err := Streams(discardLogger(), outcomes, model.Backward)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	onlyGood, err := Streams(discardLogger(), []executor.Outcome[model.QueryResponse]{{Label: "shard-a", Value: respA}}, model.Backward)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(got, onlyGood) {
		t.Errorf("federating N backends with K successes should equal federating just the K: got %+v, want %+v", got, onlyGood)
	}
}

func TestStreams_DecodeErrorPropagates(t *testing.T) {
	outcomes := []executor.Outcome[model.QueryResponse]{
		{Label: "shard-a", Err: clienterr.Wrap(errors.New("bad int"), clienterr.Decode, "malformed timestamp")},
	}

	_, err := Streams(discardLogger(), outcomes, model.Backward)
	if err == nil {
		t.Fatal("expected a decode error to propagate, got nil")
	}
	if !clienterr.Is(err, clienterr.Decode) {
		t.Errorf("expected a Decode-kind error, got %v", err)
	}
}
