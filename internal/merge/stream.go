package merge

import (
	"log/slog"

	"lokifederation/internal/executor"
	"lokifederation/internal/model"
	"lokifederation/pkg/clienterr"
)

// Streams implements the Log Stream Merger (§4.D): it folds every successful
// backend QueryResponse into a single streams-shaped response, direction-aware
// interleaving values for streams that share a label set. A Decode error on
// an otherwise-successful response propagates to the caller; any other
// per-backend error is logged at warn and dropped.
func Streams(log *slog.Logger, outcomes []executor.Outcome[model.QueryResponse], direction model.Direction) (model.QueryResponse, error) {
	merged := make([]model.Stream, 0)

	for _, outcome := range outcomes {
		if outcome.Err != nil {
			if clienterr.Is(outcome.Err, clienterr.Decode) {
				// A structurally bad response indicates a real upstream bug;
				// per §7 this must not be masked behind the best-effort union.
				return model.QueryResponse{}, outcome.Err
			}
			log.Warn("backend query failed, dropping from federated result",
				"backend", outcome.Label, "error", outcome.Err)
			continue
		}
		if outcome.Value.Data.ResultType == model.ResultVector {
			// Vectors pass through unmerged; the spec has no fold rule for
			// them beyond "unchanged if encountered". Surface the first one.
			return outcome.Value, nil
		}
		for _, s := range outcome.Value.Data.Streams {
			idx := findStream(merged, s)
			if idx < 0 {
				merged = append(merged, s.Clone())
				continue
			}
			merged[idx].Values = Aggregate(merged[idx].Values, s.Values, direction)
		}
	}

	return model.NewStreamsResponse(merged), nil
}

func findStream(streams []model.Stream, target model.Stream) int {
	for i, s := range streams {
		if s.SameLabels(target) {
			return i
		}
	}
	return -1
}

// DecodeError wraps a stream-value decode failure (malformed wire timestamp)
// as the Decode-kind error the facade must propagate as a 500, per §7.
func DecodeError(cause error) *clienterr.Error {
	return clienterr.Wrap(cause, clienterr.Decode, "malformed log entry in upstream response")
}
