package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"geni-palette/internal/adjust"
	"geni-palette/internal/colorspace"
	"geni-palette/internal/export"
	"geni-palette/internal/model"
)

func newAdjustCmd() *cobra.Command {
	var ctl = model.NeutralControl()
	cmd := &cobra.Command{
		Use:   "adjust <hex>...",
		Short: "Apply brightness, saturation and warmth to colors",
		Long: `Apply the 0-100 control sliders to one or more #RRGGBB colors.
50 leaves a channel untouched.

Examples:
  genictl adjust "#336699" --brightness 70
  genictl adjust "#336699" "#CC3300" --warmth 80 --saturation 30`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, v := range []float64{ctl.Brightness, ctl.Saturation, ctl.Warmth} {
				if v < 0 || v > 100 {
					return fmt.Errorf("control values must be between 0 and 100, got %g", v)
				}
			}
			for _, hex := range args {
				if !colorspace.IsHex(hex) {
					return fmt.Errorf("invalid color %q, expected #RRGGBB", hex)
				}
			}
			out := cmd.OutOrStdout()
			for i, adjusted := range adjust.ApplyAll(args, ctl) {
				if _, err := fmt.Fprintf(out, "%s\t%s\n", strings.ToUpper(args[i]), adjusted); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().Float64VarP(&ctl.Brightness, "brightness", "b", adjust.Neutral, "Brightness 0-100")
	cmd.Flags().Float64VarP(&ctl.Saturation, "saturation", "s", adjust.Neutral, "Saturation 0-100")
	cmd.Flags().Float64VarP(&ctl.Warmth, "warmth", "w", adjust.Neutral, "Warmth 0-100")
	return cmd
}

// parseColorArg reads "#RRGGBB" or "#RRGGBB=Name".
func parseColorArg(i int, arg string) model.ColorItem {
	hex, name, ok := strings.Cut(arg, "=")
	if !ok || strings.TrimSpace(name) == "" {
		name = fmt.Sprintf("color %d", i+1)
	}
	return model.ColorItem{Color: strings.TrimSpace(hex), Name: strings.TrimSpace(name)}
}

func newExportCmd() *cobra.Command {
	var (
		style  string
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export <hex[=name]>...",
		Short: "Export colors as CSS, Tailwind config or a PNG card",
		Long: `Export colors as code or as a PNG swatch card.

Examples:
  genictl export "#1E3A5F=Deep Harbor" "#F2A541=Buoy Orange" --style tailwind4
  genictl export "#1E3A5F" "#F2A541" --style css --format RGB
  genictl export "#1E3A5F=Deep Harbor" "#F2A541=Buoy Orange" --style png -o harbor.png`,
		Args: cobra.RangeArgs(1, model.MaxColorCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			colors := make([]model.ColorItem, 0, len(args))
			for i, arg := range args {
				colors = append(colors, parseColorArg(i, arg))
			}

			if export.Style(style) == export.StylePNG {
				if output == "" {
					return errors.New("--output is required for png export")
				}
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				if err := export.WritePNG(f, colors, export.DefaultPNGOptions()); err != nil {
					f.Close()
					return err
				}
				return f.Close()
			}

			code, err := export.Code(export.Style(style), colors, export.Format(strings.ToUpper(format)))
			if err != nil {
				return err
			}
			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			_, err = io.WriteString(w, code+"\n")
			return err
		},
	}
	cmd.Flags().StringVar(&style, "style", string(export.StyleCSS), "Export style: css, tailwind3, tailwind4 or png")
	cmd.Flags().StringVar(&format, "format", string(export.FormatHex), "Color format for code styles: HEX or RGB")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	return cmd
}
