package main

import (
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"geni-palette/internal/config"
	"geni-palette/internal/harmony"
	"geni-palette/internal/logger"
	"geni-palette/internal/model"
	"geni-palette/internal/service"
)

func newPaletteService(cmd *cobra.Command, verbose bool) (*service.PaletteService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	level := slog.LevelError
	if verbose {
		level = logger.ParseLevel(cfg.LogLevel)
	}
	log := logger.New(logger.Config{Writer: cmd.ErrOrStderr(), Format: "text", Level: level})

	client, err := service.NewChatClient(cfg)
	if err != nil {
		return nil, err
	}
	return service.NewPaletteService(service.NewChatSource(client), log, service.WithAttempts(cfg.GenerateAttempts)), nil
}

func newGenerateCmd() *cobra.Command {
	var (
		harmonyName string
		count       int
		verbose     bool
	)
	cmd := &cobra.Command{
		Use:   "generate <theme>",
		Short: "Generate a palette for a theme",
		Long: `Generate a palette for a mood, theme or concept and print it as JSON.

Examples:
  genictl generate "rainy tokyo night" --harmony triadic
  genictl generate "desert sunset" --harmony analogous --count 6`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := harmony.Parse(harmonyName)
			if err != nil {
				return err
			}
			svc, err := newPaletteService(cmd, verbose)
			if err != nil {
				return err
			}
			prompt := strings.Join(args, " ")
			p, err := svc.Generate(cmd.Context(), service.GenerateInput{
				Prompt:     prompt,
				Harmony:    h,
				ColorCount: count,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), service.ToResponse(prompt, h, p))
		},
	}
	cmd.Flags().StringVar(&harmonyName, "harmony", string(model.HarmonyAnalogous), "Harmony type")
	cmd.Flags().IntVarP(&count, "count", "n", model.DefaultColorCount, "Number of colors (3-8)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log provider attempts to stderr")
	return cmd
}

func newNameCmd() *cobra.Command {
	var (
		harmonyName string
		color       string
		avoid       []string
	)
	cmd := &cobra.Command{
		Use:   "name <rationale>",
		Short: "Suggest a fresh two-word name for a palette or a color",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := service.NameInput{
				Kind:           service.NamePalette,
				Rationale:      strings.Join(args, " "),
				GeneratedNames: avoid,
			}
			if color != "" {
				in.Kind = service.NameColor
				in.Color = color
			} else {
				h, err := harmony.Parse(harmonyName)
				if err != nil {
					return err
				}
				in.Harmony = h
			}
			svc, err := newPaletteService(cmd, false)
			if err != nil {
				return err
			}
			name, err := svc.RegenerateName(cmd.Context(), in)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), name+"\n")
			return err
		},
	}
	cmd.Flags().StringVar(&harmonyName, "harmony", string(model.HarmonyAnalogous), "Harmony type of the palette")
	cmd.Flags().StringVar(&color, "color", "", "Name a single #RRGGBB color instead of a palette")
	cmd.Flags().StringSliceVar(&avoid, "avoid", nil, "Names that must not be returned")
	return cmd
}

func newHarmoniesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "harmonies",
		Short: "List the supported harmony types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, r := range harmony.All() {
				if _, err := io.WriteString(out, string(r.Type)+"\t"+r.Label+"\n"); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
