package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/benefit-lab/uctakeup/internal/features"
	"github.com/benefit-lab/uctakeup/internal/resample"
	"github.com/benefit-lab/uctakeup/internal/scenario"
	"github.com/benefit-lab/uctakeup/internal/store"
	"github.com/benefit-lab/uctakeup/internal/tune"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Run the full pipeline: load, reshape, recode, tune, persist",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := zap.L()

		tables, err := scenario.Load(ctx, cfg.Input.Dir, cfg.Input.Prefix)
		if err != nil {
			return err
		}

		persons, err := scenario.Merge(tables)
		if err != nil {
			return err
		}

		children := features.ChildCounts(persons)
		recoded, err := features.Recode(persons, children)
		if err != nil {
			return err
		}
		rows := features.BuildModelTable(recoded)

		plan, err := resample.New(rows, resample.Options{
			Seed:          cfg.Sampling.Seed,
			TrainFraction: cfg.Sampling.TrainFraction,
			Repeats:       cfg.Sampling.MCRepeats,
			ValFraction:   cfg.Sampling.MCValFraction,
			Folds:         cfg.Sampling.Folds,
		})
		if err != nil {
			return err
		}

		result, err := tune.Run(ctx, rows, plan, tune.Options{
			Workers: cfg.Tuning.Workers,
			Trees:   cfg.Tuning.Trees,
		})
		if err != nil {
			return err
		}

		st, err := store.NewSQLite(cfg.Output.ArtifactPath)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		cfgEcho, err := yaml.Marshal(cfg)
		if err != nil {
			return eris.Wrap(err, "marshal config echo")
		}
		if err := st.SaveResult(ctx, result, string(cfgEcho)); err != nil {
			return err
		}

		log.Info("tuning artifact written",
			zap.String("run_id", result.RunID),
			zap.String("path", cfg.Output.ArtifactPath),
			zap.Int("scores", len(result.Scores)),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(trainCmd)
}
