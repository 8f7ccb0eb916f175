package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soaringjerry/fairway/internal/services"
	"github.com/soaringjerry/fairway/internal/utils"
)

func newCardCmd() *cobra.Command {
	var (
		code    string
		lang    string
		out     string
		fontDir string
	)
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Render a result share card to a PNG file",
		RunE: func(cmd *cobra.Command, args []string) error {
			code = strings.ToUpper(strings.TrimSpace(code))
			if code == "" {
				return fmt.Errorf("--type is required")
			}
			if lang != "en" {
				lang = utils.DefaultLocale
			}
			renderer, err := services.NewCardRenderer(fontDir, nil)
			if err != nil {
				return err
			}
			if _, known := services.MetaFor(code, lang); !known {
				fmt.Fprintf(cmd.ErrOrStderr(), "unknown type %s, using fallback text\n", code)
			}
			card := renderer.CardFor(code, lang)
			png, err := renderer.RenderPNG(cmd.Context(), card)
			if err != nil {
				return err
			}
			if out == "" {
				out = card.Type + ".png"
			}
			if err := os.WriteFile(out, png, 0o644); err != nil {
				return fmt.Errorf("write card: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, len(png))
			return nil
		},
	}
	cmd.Flags().StringVar(&code, "type", "", "four-letter result type, e.g. ENTJ")
	cmd.Flags().StringVar(&lang, "lang", utils.DefaultLocale, "card language (ko or en)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default <TYPE>.png)")
	cmd.Flags().StringVar(&fontDir, "font-dir", os.Getenv("FAIRWAY_CARD_FONT_DIR"), "directory holding regular.ttf and bold.ttf")
	return cmd
}
