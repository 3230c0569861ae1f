package web

import (
	"errors"
	"net/http"
	"strconv"

	"tethysbook/internal/db"
	"tethysbook/internal/options"
)

type OptionView struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Value   string `json:"value"`
	Default string `json:"default"`
	Min     *int   `json:"min,omitempty"`
	Max     *int   `json:"max,omitempty"`
}

func (h *Handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	opts := h.player.Options().List()
	out := make([]OptionView, 0, len(opts))
	for _, o := range opts {
		v := OptionView{Name: o.Name, Type: string(o.Type), Value: o.Value, Default: o.Default}
		if o.Type == options.Spin {
			lo, hi := o.Min, o.Max
			v.Min, v.Max = &lo, &hi
		}
		out = append(out, v)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleOptionSet(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	err := h.player.Options().Set(r.PostFormValue("name"), r.PostFormValue("value"))
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, options.ErrUnknownOption):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func (h *Handler) handleProbes(w http.ResponseWriter, r *http.Request) {
	if h.probes == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rows, err := h.probes.RecentProbes(r.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("list probes failed")
		writeError(w, http.StatusInternalServerError, "list probes failed")
		return
	}
	if rows == nil {
		rows = []db.ProbeRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}
