package httpapi

import (
	"net/http"
	"net/url"

	"github.com/goccy/go-json"

	"lokifederation/internal/backend"
	"lokifederation/internal/model"
)

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := parseInt32Ptr(q, "limit")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	ts, err := parseInt64Ptr(q, "time")
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	resp, err := s.facade.Query(r.Context(), backend.QueryOptions{
		Selector:  q.Get("query"),
		Limit:     limit,
		Time:      ts,
		Direction: model.ParseDirection(q.Get("direction")),
	})
	if err != nil {
		writeInternalError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleQueryRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := parseInt32Ptr(q, "limit")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	start, err := parseInt64Ptr(q, "start")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	end, err := parseInt64Ptr(q, "end")
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	var startVal, endVal int64
	if start != nil {
		startVal = *start
	}
	if end != nil {
		endVal = *end
	}

	resp, err := s.facade.QueryRange(r.Context(), backend.QueryRangeOptions{
		Selector:  q.Get("query"),
		Start:     startVal,
		End:       endVal,
		Limit:     limit,
		Direction: model.ParseDirection(q.Get("direction")),
		Step:      q.Get("step"),
		Interval:  q.Get("interval"),
	})
	if err != nil {
		writeInternalError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLabels(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := parseInt64Ptr(q, "start")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	end, err := parseInt64Ptr(q, "end")
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	resp, err := s.facade.Labels(r.Context(), backend.LabelsOptions{Start: start, End: end})
	if err != nil {
		writeInternalError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLabelValues(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := parseInt64Ptr(q, "start")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	end, err := parseInt64Ptr(q, "end")
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	resp, err := s.facade.LabelValues(r.Context(), backend.LabelValuesOptions{
		Label: r.PathValue("label"),
		Start: start,
		End:   end,
	})
	if err != nil {
		writeInternalError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	var q url.Values
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			writeBadRequest(w, err)
			return
		}
		q = r.PostForm
	} else {
		q = r.URL.Query()
	}

	start, err := parseInt64Ptr(q, "start")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	end, err := parseInt64Ptr(q, "end")
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	resp, err := s.facade.Series(r.Context(), backend.SeriesOptions{
		Matches: q["match[]"],
		Start:   start,
		End:     end,
	})
	if err != nil {
		writeInternalError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"error": "Internal Server Error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeBadRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}
