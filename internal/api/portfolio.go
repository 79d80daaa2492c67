package api

import (
	"bytes"
	"math"
	"net/http"
	"strconv"
	"time"

	"adam-dashboard/internal/chart"
	"adam-dashboard/internal/domain"
	"adam-dashboard/internal/observability"
	"adam-dashboard/internal/portfolio"
	"adam-dashboard/internal/reporting"
)

const (
	maxChartSide = 4096
	minChartSide = 32
)

func (s *Server) rangeParam(r *http.Request) (domain.Range, error) {
	return domain.ParseRange(r.URL.Query().Get("range"))
}

func floatParam(r *http.Request, name string, def float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, badRequest("%s must be a finite number", name)
	}
	return v, nil
}

// viewport reads w, h and dpr query parameters.
func (s *Server) viewport(r *http.Request) (chart.Viewport, error) {
	w, err := floatParam(r, "w", float64(s.deps.Chart.DefaultWidth))
	if err != nil {
		return chart.Viewport{}, err
	}
	h, err := floatParam(r, "h", float64(s.deps.Chart.DefaultHeight))
	if err != nil {
		return chart.Viewport{}, err
	}
	dpr, err := floatParam(r, "dpr", 1)
	if err != nil {
		return chart.Viewport{}, err
	}
	if w < minChartSide || w > maxChartSide || h < minChartSide || h > maxChartSide {
		return chart.Viewport{}, badRequest("w and h must be within [%d, %d]", minChartSide, maxChartSide)
	}
	return chart.Viewport{Width: w, Height: h, DevicePixelRatio: dpr}, nil
}

func (s *Server) theme(r *http.Request) (chart.Theme, error) {
	name := r.URL.Query().Get("theme")
	if name == "" {
		name = s.deps.Chart.Theme
	}
	th, err := chart.ThemeByName(name)
	if err != nil {
		return chart.Theme{}, badRequest("%v", err)
	}
	return th, nil
}

func (s *Server) series(r *http.Request) (*portfolio.SeriesResult, error) {
	rng, err := s.rangeParam(r)
	if err != nil {
		return nil, err
	}
	return s.deps.Portfolio.SeriesFor(r.Context(), s.deps.Portfolio.PortfolioID(), rng)
}

// GET /api/portfolio/series: equity series with summary.
func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	res, err := s.series(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, res)
}

// GET /api/portfolio/summary: summary statistics only.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	res, err := s.series(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, res.Summary)
}

// GET /api/portfolio/chart.png: raster chart.
func (s *Server) handleChartPNG(w http.ResponseWriter, r *http.Request) {
	s.renderChart(w, r, "png")
}

// GET /api/portfolio/chart.svg: vector chart.
func (s *Server) handleChartSVG(w http.ResponseWriter, r *http.Request) {
	s.renderChart(w, r, "svg")
}

func (s *Server) renderChart(w http.ResponseWriter, r *http.Request, format string) {
	start := time.Now()
	vp, err := s.viewport(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	th, err := s.theme(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.series(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := chart.Options{Theme: th, Format: s.format}
	var (
		buf         bytes.Buffer
		contentType string
	)
	switch format {
	case "png":
		surf := chart.NewRasterSurface(vp, s.deps.Chart.MaxDPR)
		chart.Render(surf, res.Points, res.Range, vp, opts)
		err = surf.Encode(&buf)
		contentType = surf.ContentType()
	default:
		var surf *chart.SVGSurface
		surf, err = chart.NewSVGSurface(vp)
		if err == nil {
			chart.Render(surf, res.Points, res.Range, vp, opts)
			err = surf.Encode(&buf)
			contentType = surf.ContentType()
		}
	}
	observability.RecordRender(format, time.Since(start), err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	if res.Demo {
		w.Header().Set("X-Demo-Data", "true")
	}
	w.Write(buf.Bytes())
}

// GET /api/portfolio/hit: tooltip for a pointer position.
func (s *Server) handleHit(w http.ResponseWriter, r *http.Request) {
	vp, err := s.viewport(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !r.URL.Query().Has("mx") || !r.URL.Query().Has("my") {
		s.writeError(w, r, badRequest("mx and my are required"))
		return
	}
	mx, err := floatParam(r, "mx", 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	my, err := floatParam(r, "my", 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.series(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	tip := chart.HitTest(res.Points, res.Range, vp, mx, my, s.format)
	observability.RecordHitTest()
	if !tip.Visible {
		s.writeJSON(w, map[string]bool{"visible": false})
		return
	}
	s.writeJSON(w, tip)
}

// GET /api/portfolio/holdings: marked positions.
func (s *Server) handleHoldings(w http.ResponseWriter, r *http.Request) {
	book, err := s.deps.Portfolio.Holdings(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, book)
}

// GET /api/portfolio/report.md: markdown report.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if s.deps.Reports == nil {
		s.writeError(w, r, errNotConfigured("reports"))
		return
	}
	rep, err := s.deps.Reports.Generate(r.Context(), s.deps.Portfolio.PortfolioID())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(reporting.RenderMarkdown(rep)))
}

// GET /api/portfolio/series.csv: series export.
func (s *Server) handleSeriesCSV(w http.ResponseWriter, r *http.Request) {
	res, err := s.series(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := reporting.WriteSeriesCSV(&buf, res.Points); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="equity-`+res.Range.String()+`.csv"`)
	w.Write(buf.Bytes())
}

// GET /api/market/series: upstream price history.
func (s *Server) handleMarketSeries(w http.ResponseWriter, r *http.Request) {
	if s.deps.Market == nil {
		s.writeError(w, r, errNotConfigured("market data"))
		return
	}
	rng, err := s.rangeParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	coin := r.URL.Query().Get("coin")
	if coin == "" {
		coin = s.deps.DefaultCoin
	}
	if coin == "" {
		s.writeError(w, r, badRequest("coin is required"))
		return
	}
	pts, err := s.deps.Market.FetchSeries(r.Context(), coin, rng)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, map[string]interface{}{
		"coin":   coin,
		"range":  rng,
		"points": pts,
	})
}
