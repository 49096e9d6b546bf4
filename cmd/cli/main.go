package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"movilidad/adapters/excel"
	"movilidad/app"
	"movilidad/internal"
	"movilidad/internal/config"
	"movilidad/internal/container"
	"movilidad/internal/grouping"
	"movilidad/internal/testkit"
)

var (
	assetSource string
	asJSON      bool
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "movilidad-cli",
		Short: "Social mobility questionnaire, cluster matching and class prediction",
	}
	rootCmd.PersistentFlags().StringVar(&assetSource, "source", "", "asset source override (files, sql, synthetic)")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "print JSON instead of text")

	rootCmd.AddCommand(
		newTargetsCmd(),
		newQuestionsCmd(),
		newMatchCmd(),
		newExplainCmd(),
		newPredictCmd(),
		newSeedCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if assetSource != "" {
		os.Setenv("ASSET_SOURCE", assetSource)
	}
	return config.Load()
}

func newContainer(ctx context.Context) (*container.Container, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return container.New(ctx, cfg, internal.NewDefaultLogger())
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTargetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List mobility targets with precomputed tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := newContainer(ctx)
			if err != nil {
				return err
			}
			defer c.Shutdown(ctx)

			targets, err := c.MatchService.Targets(ctx)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(targets)
			}
			for _, t := range targets {
				fmt.Printf("%-32s %s\n", t.ID, t.Label)
			}
			return nil
		},
	}
}

func newQuestionsCmd() *cobra.Command {
	var targetID string

	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Show the questionnaire of a target",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := newContainer(ctx)
			if err != nil {
				return err
			}
			defer c.Shutdown(ctx)

			questions, err := c.MatchService.Questionnaire(ctx, targetID)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(questions)
			}
			for _, q := range questions {
				fmt.Printf("%s: %s\n", q.Variable, q.Description)
				for _, o := range q.Options {
					fmt.Printf("    %s\n", o.Display())
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&targetID, "target", "", "target id")
	cmd.MarkFlagRequired("target")
	return cmd
}

type runFlags struct {
	target  string
	answers []string
	k       int
}

func (f *runFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.target, "target", "", "target id")
	cmd.Flags().StringArrayVar(&f.answers, "answer", nil, "answer as variable=code (repeatable)")
	cmd.Flags().IntVar(&f.k, "k", 0, "number of neighbors (default NEIGHBORS_DEFAULT)")
	cmd.MarkFlagRequired("target")
}

func (f *runFlags) request() (app.RunRequest, error) {
	responses, err := parsePairs(f.answers)
	if err != nil {
		return app.RunRequest{}, err
	}
	return app.RunRequest{Target: f.target, Responses: responses, K: f.k}, nil
}

// parsePairs splits "var=value" arguments
func parsePairs(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("expected variable=value, got %q", p)
		}
		out[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return out, nil
}

func newMatchCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match answers against the clustered records",
		Long: `Match a set of answers and print the grouped cluster descriptions.

Example: movilidad-cli match --target OBJ_subieron --answer p05=2 --answer p86=40 --k 20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			c, err := newContainer(ctx)
			if err != nil {
				return err
			}
			defer c.Shutdown(ctx)

			result, err := c.MatchService.Run(ctx, req)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(result)
			}
			fmt.Printf("%s (%s)\n\n", result.TargetLabel, result.Match.Status)
			fmt.Println(grouping.RenderText(result.Groups))
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}

func newExplainCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Match answers and ask the LLM to explain the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			c, err := newContainer(ctx)
			if err != nil {
				return err
			}
			defer c.Shutdown(ctx)

			result, err := c.MatchService.Run(ctx, req)
			if err != nil {
				return err
			}
			explanation := c.MatchService.Explain(ctx, result, nil)
			if asJSON {
				return printJSON(map[string]interface{}{"explanation": explanation, "groups": result.Groups})
			}
			fmt.Println(explanation)
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}

func newPredictCmd() *cobra.Command {
	var features []string

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the socioeconomic class from the household checklist",
		Long: `Predict the class. Unlisted checklist items count as absent.

Example: movilidad-cli predict --feature p126d=1 --feature p131=1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs, err := parsePairs(features)
			if err != nil {
				return err
			}
			values := make(map[string]float64, len(pairs))
			for k, v := range pairs {
				f, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return fmt.Errorf("feature %s: %w", k, err)
				}
				values[k] = f
			}

			ctx := cmd.Context()
			c, err := newContainer(ctx)
			if err != nil {
				return err
			}
			defer c.Shutdown(ctx)

			pred, err := c.ClassService.Predict(ctx, values)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(pred)
			}
			for _, s := range pred.Classes {
				fmt.Printf("%-12s %6.2f%%\n", s.Label, s.Probability*100)
			}
			fmt.Printf("\nPredicción: %s\n", pred.Best.Label)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&features, "feature", nil, "checklist item as variable=0|1 (repeatable)")
	return cmd
}

func newSeedCmd() *cobra.Command {
	gen := testkit.DefaultHouseholdConfig()

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write synthetic assets and a class model to the configured files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			files := excel.FilesFromConfig(cfg.Assets)
			if err := testkit.WriteAssets(cmd.Context(), gen, files, cfg.Assets.ModelFile); err != nil {
				return err
			}
			fmt.Printf("Wrote synthetic assets under %s and model %s\n", cfg.Assets.DataDir, cfg.Assets.ModelFile)
			return nil
		},
	}
	cmd.Flags().IntVar(&gen.Households, "households", gen.Households, "number of households")
	cmd.Flags().IntVar(&gen.Clusters, "clusters", gen.Clusters, "clusters per target")
	cmd.Flags().Int64Var(&gen.Seed, "seed", gen.Seed, "random seed")
	return cmd
}
