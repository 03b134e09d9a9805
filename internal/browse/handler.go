package browse

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rpattn/sfs/internal/domain"
	"github.com/rpattn/sfs/internal/export"
)

// pageNotFoundResponse points the client back at the first page.
type pageNotFoundResponse struct {
	Message     string `json:"message"`
	Status      string `json:"status"`
	AlertStatus string `json:"alert_status"`
	Page        int    `json:"page"`
	RequestPath string `json:"request_path"`
}

// ServeHTTP answers GET requests with the browse result as JSON, or as a file
// when format names an export format.
func (v *View) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	format, err := export.ParseFormat(query.Get(ParamFormat))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := v.Browse(r.Context(), ParseParams(query))
	if err != nil {
		v.handleError(w, r, err)
		return
	}

	if format == export.FormatJSON {
		writeJSON(w, http.StatusOK, res)
		return
	}

	table := export.Table{Name: v.cfg.Name, Columns: v.cfg.ExportColumns, Rows: res.Rows}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(v.cfg.Name, res.Page, format)))
	if err := export.Write(w, format, table); err != nil {
		v.deps.Logger.Error("failed to write export", "format", format, "error", err)
	}
}

func (v *View) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var missing *domain.PageNotFoundError
	if errors.As(err, &missing) {
		args := r.URL.Query()
		args.Set(ParamPage, "1")
		writeJSON(w, http.StatusOK, pageNotFoundResponse{
			Message:     fmt.Sprintf("Invalid Page: Page %s does not exist. You will be redirected back to page %d.", missing.Page, 1),
			Status:      "failed",
			AlertStatus: "alert-info",
			Page:        1,
			RequestPath: r.URL.Path + "?" + args.Encode(),
		})
		return
	}

	if !invalidRequest(err) {
		v.deps.Logger.Error("browse failed", "path", r.URL.RequestURI(), "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if v.deps.OnError != nil {
		v.deps.OnError(r, err)
	}
	v.deps.Logger.Error("incorrect filter name or value", "path", r.URL.RequestURI(), "error", err)

	// Without a query string the clean path is the request itself.
	if r.URL.RawQuery == "" {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, r.URL.Path, http.StatusFound)
}

// invalidRequest reports errors caused by the request parameters rather than
// the store.
func invalidRequest(err error) bool {
	for _, target := range []error{
		domain.ErrInvalidFilterValue,
		domain.ErrUnsupportedRangeType,
		domain.ErrInvalidBoundDirection,
		domain.ErrQueryConstruction,
		domain.ErrNoDefaultSort,
		domain.ErrDependencyResolution,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
