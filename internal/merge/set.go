package merge

import (
	"log/slog"
	"maps"

	"lokifederation/internal/executor"
	"lokifederation/internal/model"
)

// Labels implements the Set Merger's labels/label_values fold (§4.E): union
// of each successful response's data as a set, duplicates discarded. Errors
// are logged and skipped; Data stays nil if nothing succeeded.
func Labels(log *slog.Logger, outcomes []executor.Outcome[model.LabelResponse]) model.LabelResponse {
	seen := make(map[string]struct{})
	var any bool

	for _, outcome := range outcomes {
		if outcome.Err != nil {
			log.Warn("backend labels call failed, dropping from federated result",
				"backend", outcome.Label, "error", outcome.Err)
			continue
		}
		any = true
		for _, v := range outcome.Value.Data {
			seen[v] = struct{}{}
		}
	}

	if !any {
		return model.LabelResponse{Status: "success"}
	}
	data := make([]string, 0, len(seen))
	for v := range maps.Keys(seen) {
		data = append(data, v)
	}
	return model.LabelResponse{Status: "success", Data: data}
}

// Series implements the Set Merger's series fold (§4.E): iterate in backend
// order, appending each label map iff no previously-retained element is an
// exact structural match. First-seen order is preserved.
func Series(log *slog.Logger, outcomes []executor.Outcome[model.SeriesResponse]) model.SeriesResponse {
	result := make([]map[string]string, 0)

	for _, outcome := range outcomes {
		if outcome.Err != nil {
			log.Warn("backend series call failed, dropping from federated result",
				"backend", outcome.Label, "error", outcome.Err)
			continue
		}
		for _, m := range outcome.Value.Data {
			if !containsLabelSet(result, m) {
				result = append(result, m)
			}
		}
	}

	return model.SeriesResponse{Status: "success", Data: result}
}

func containsLabelSet(sets []map[string]string, target map[string]string) bool {
	for _, s := range sets {
		if maps.Equal(s, target) {
			return true
		}
	}
	return false
}
