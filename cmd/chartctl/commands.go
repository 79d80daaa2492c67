package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"adam-dashboard/internal/chart"
	"adam-dashboard/internal/domain"
	"adam-dashboard/internal/series"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "chartctl",
		Short:        "Render and inspect equity series",
		SilenceUsage: true,
	}
	root.AddCommand(newRenderCmd(), newResampleCmd(), newSummaryCmd(), newDemoCmd())
	return root
}

func newRenderCmd() *cobra.Command {
	var (
		in, out, rng, format, theme, tz string
		width, height, dpr, maxDPR      float64
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a series to PNG or SVG",
		Long: `Render draws a series the way the dashboard does. Without --in a
demo series ending now is rendered.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := domain.ParseRange(rng)
			if err != nil {
				return err
			}
			th, err := chart.ThemeByName(theme)
			if err != nil {
				return err
			}
			loc, err := time.LoadLocation(tz)
			if err != nil {
				return fmt.Errorf("timezone: %w", err)
			}

			var data domain.Series
			if in == "" {
				src := r
				if r == domain.Range1H {
					src = domain.Range24H
				}
				data = series.Demo(src, time.Now(), series.DefaultDemo)
			} else if data, err = readSeries(cmd.InOrStdin(), in); err != nil {
				return err
			}
			if r == domain.Range1H {
				data = series.SynthesizeLastHour(data)
			}

			vp := chart.Viewport{Width: width, Height: height, DevicePixelRatio: dpr}
			opts := chart.Options{Theme: th, Format: chart.Formatter{Loc: loc}}

			w, closeFn, err := openOutput(cmd.OutOrStdout(), out)
			if err != nil {
				return err
			}
			defer closeFn()

			switch strings.ToLower(format) {
			case "png":
				surf := chart.NewRasterSurface(vp, maxDPR)
				chart.Render(surf, data, r, vp, opts)
				return surf.Encode(w)
			case "svg":
				surf, err := chart.NewSVGSurface(vp)
				if err != nil {
					return err
				}
				chart.Render(surf, data, r, vp, opts)
				return surf.Encode(w)
			default:
				return fmt.Errorf("invalid format: %s (must be png or svg)", format)
			}
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "Input JSON series (- for stdin)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&rng, "range", "24H", "Range: 1H, 24H, 7D, 30D, ALL")
	cmd.Flags().StringVar(&format, "format", "png", "Output format: png or svg")
	cmd.Flags().StringVar(&theme, "theme", "classic", "Theme: classic or hud")
	cmd.Flags().StringVar(&tz, "tz", "UTC", "Time zone for axis labels")
	cmd.Flags().Float64Var(&width, "width", 800, "Width in CSS pixels")
	cmd.Flags().Float64Var(&height, "height", 320, "Height in CSS pixels")
	cmd.Flags().Float64Var(&dpr, "dpr", 1, "Device pixel ratio")
	cmd.Flags().Float64Var(&maxDPR, "max-dpr", chart.DefaultMaxDevicePixelRatio, "Upper bound on device pixel ratio")
	return cmd
}

func newResampleCmd() *cobra.Command {
	var in string
	var pretty bool
	cmd := &cobra.Command{
		Use:   "resample",
		Short: "Resample a series to 61 one-minute points ending at its last sample",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := readSeries(cmd.InOrStdin(), in)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), series.SynthesizeLastHour(data), pretty)
		},
	}
	cmd.Flags().StringVar(&in, "in", "-", "Input JSON series (- for stdin)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	return cmd
}

func newSummaryCmd() *cobra.Command {
	var in string
	var pretty bool
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print start, end and change of a series",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := readSeries(cmd.InOrStdin(), in)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), series.BuildSummary(data), pretty)
		},
	}
	cmd.Flags().StringVar(&in, "in", "-", "Input JSON series (- for stdin)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	return cmd
}

func newDemoCmd() *cobra.Command {
	var (
		rng         string
		base, trend float64
		end         int64
		pretty      bool
	)
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Generate the placeholder demo series",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := domain.ParseRange(rng)
			if err != nil {
				return err
			}
			at := time.Now()
			if end > 0 {
				at = time.Unix(end, 0)
			}
			data := series.Demo(r, at, series.DemoParams{Base: base, Trend: trend})
			return writeJSON(cmd.OutOrStdout(), data, pretty)
		},
	}
	cmd.Flags().StringVar(&rng, "range", "24H", "Range: 1H, 24H, 7D, 30D, ALL")
	cmd.Flags().Float64Var(&base, "base", series.DefaultDemo.Base, "Starting level")
	cmd.Flags().Float64Var(&trend, "trend", series.DefaultDemo.Trend, "Total drift across the series")
	cmd.Flags().Int64Var(&end, "end", 0, "Last timestamp in Unix seconds (default: now)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	return cmd
}

// readSeries decodes a JSON array of {time, value} from path or stdin.
func readSeries(stdin io.Reader, path string) (domain.Series, error) {
	var r io.Reader = stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var data domain.Series
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode series: %w", err)
	}
	return data, nil
}

func openOutput(stdout io.Writer, path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to write output: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
