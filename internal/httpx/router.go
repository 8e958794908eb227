package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/AngelCh415/funnel-report/internal/ingest"
	"github.com/AngelCh415/funnel-report/internal/metrics"
	"github.com/AngelCh415/funnel-report/internal/models"
	"github.com/AngelCh415/funnel-report/internal/render"
	"github.com/AngelCh415/funnel-report/internal/store"
	"github.com/AngelCh415/funnel-report/internal/telemetry"
	"github.com/AngelCh415/funnel-report/internal/utils"
)

const maxBody = 1 << 20

const xlsxType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func NewRouter(log *slog.Logger, st *store.MemoryStore, eng *metrics.Engine, tm *telemetry.Metrics) http.Handler {
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))
	mux.Use(tm.Instrument)
	mux.Use(middleware.Recoverer)

	// los gráficos usan un subconjunto de una región; no deben tocar el gauge de regiones
	charts := metrics.NewEngine(log, nil)

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	mux.Method(http.MethodGet, "/metrics", tm.Handler())

	// entrada de la sesión
	mux.Get("/input", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, st.Get())
	})

	mux.Put("/input", func(w http.ResponseWriter, r *http.Request) {
		cur := st.Get().Dataset
		ds, err := ingest.DecodeDataset(http.MaxBytesReader(w, r.Body, maxBody), cur)
		if err != nil {
			writeErr(w, log, err)
			return
		}
		writeJSON(w, st.Replace(ds))
	})

	mux.Put("/input/cost-per-lead", func(w http.ResponseWriter, r *http.Request) {
		c, err := ingest.DecodeCost(http.MaxBytesReader(w, r.Body, maxBody))
		if err != nil {
			writeErr(w, log, err)
			return
		}
		writeJSON(w, st.SetCostPerLead(c))
	})

	mux.Put("/input/regions/{region}", func(w http.ResponseWriter, r *http.Request) {
		name, err := pathParam(r, "region")
		if err != nil {
			http.Error(w, "bad region", 400)
			return
		}
		counts, reasons, err := ingest.DecodeRegionUpdate(http.MaxBytesReader(w, r.Body, maxBody))
		if err != nil {
			writeErr(w, log, err)
			return
		}
		snap, err := st.UpdateRegion(name, counts, reasons)
		if err != nil {
			writeErr(w, log, err)
			return
		}
		writeJSON(w, snap)
	})

	mux.Post("/input/reset", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, st.Reset())
	})

	// cada GET recalcula desde el snapshot actual
	report := func() models.Report { return eng.Report(st.Get().Dataset) }

	mux.Get("/report", func(w http.ResponseWriter, r *http.Request) { writeJSON(w, report()) })
	mux.Get("/report/summary", func(w http.ResponseWriter, r *http.Request) { writeJSON(w, report().Summary) })
	mux.Get("/report/funnel", func(w http.ResponseWriter, r *http.Request) { writeJSON(w, report().Funnels) })
	mux.Get("/report/costs", func(w http.ResponseWriter, r *http.Request) { writeJSON(w, report().Costs) })
	mux.Get("/report/reasons", func(w http.ResponseWriter, r *http.Request) { writeJSON(w, report().Reasons) })
	mux.Get("/report/totals", func(w http.ResponseWriter, r *http.Request) { writeJSON(w, report().Totals) })

	mux.Get("/report.xlsx", func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := render.Workbook(&buf, report()); err != nil {
			writeErr(w, log, err)
			return
		}
		tm.Exported("xlsx")
		w.Header().Set("Content-Type", xlsxType)
		w.Header().Set("Content-Disposition", `attachment; filename="funnel-report.xlsx"`)
		w.Write(buf.Bytes())
	})

	// {file} toma el segmento completo; el nombre de la región puede contener puntos
	mux.Get("/charts/{kind}/{file}", func(w http.ResponseWriter, r *http.Request) {
		kind, ok := render.ParseChartKind(chi.URLParam(r, "kind"))
		if !ok {
			http.Error(w, "unknown chart kind", 404)
			return
		}
		file, err := pathParam(r, "file")
		if err != nil {
			http.Error(w, "bad region", 400)
			return
		}
		name, ok := strings.CutSuffix(file, ".png")
		if !ok {
			http.NotFound(w, r)
			return
		}
		ds, err := st.Subset(name)
		if err != nil {
			writeErr(w, log, err)
			return
		}
		rep := charts.Report(ds)
		var buf bytes.Buffer
		if err := render.Chart(&buf, kind, rep); err != nil {
			writeErr(w, log, err)
			return
		}
		tm.Exported("png")
		w.Header().Set("Content-Type", "image/png")
		w.Write(buf.Bytes())
	})

	return mux
}

// pathParam decodifica el parámetro solo si chi enrutó sobre RawPath;
// con RawPath vacío el valor ya viene decodificado.
func pathParam(r *http.Request, key string) (string, error) {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v, nil
	}
	return url.PathUnescape(v)
}

func writeErr(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, ingest.ErrInvalid):
		http.Error(w, err.Error(), 400)
	case errors.Is(err, store.ErrUnknownRegion):
		http.Error(w, err.Error(), 404)
	case errors.Is(err, render.ErrNothingToDraw):
		http.Error(w, err.Error(), 422)
	default:
		log.Error("request failed", slog.String("err", err.Error()))
		http.Error(w, "internal error", 500)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
