// Package main provides fitctl, the operator CLI for the calorie model and
// the metabolic formulas.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"fitpro/tracker/internal/app"
	"fitpro/tracker/internal/config"
	"fitpro/tracker/internal/domain"
	"fitpro/tracker/internal/estimator"
	"fitpro/tracker/internal/formula"
	"fitpro/tracker/internal/logging"
	"fitpro/tracker/internal/storage"

	"github.com/spf13/cobra"
)

var (
	configDir string

	trainForce bool

	estimateTrain bool
	duration      int
	heartRate     int
	bodyTemp      float64

	urlExpires  time.Duration
	datasetName string
	gender      string
)

var profile = domain.DefaultProfile()

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "fitctl",
		Short:        "Fitness tracker operator tool",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configDir, "config", ".", "directory holding config.yaml")

	rootCmd.AddCommand(newTrainCmd())
	rootCmd.AddCommand(newEstimateCmd())
	rootCmd.AddCommand(newNeedsCmd())
	rootCmd.AddCommand(newModelURLCmd())
	rootCmd.AddCommand(newDatasetURLCmd())
	return rootCmd
}

func loadFiles(ctx context.Context) (config.Config, storage.FileStorage, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return cfg, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logging.Setup(cfg.Log)
	files, err := app.OpenFileStorage(ctx, cfg)
	if err != nil {
		return cfg, nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Driver, err)
	}
	return cfg, files, nil
}

func addProfileFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&profile.Age, "age", profile.Age, "age in years")
	cmd.Flags().StringVar(&gender, "gender", string(profile.Gender), "Male or Female")
	cmd.Flags().Float64Var(&profile.HeightCm, "height", profile.HeightCm, "height in cm")
	cmd.Flags().Float64Var(&profile.WeightKg, "weight", profile.WeightKg, "weight in kg")
}

func newTrainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the calorie model from the stored datasets and persist it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, files, err := loadFiles(ctx)
			if err != nil {
				return err
			}
			cfg.Estimator.TrainIfMissing = true
			est := app.NewEstimator(cfg.Estimator, files, nil)
			if trainForce {
				if err := est.Reset(ctx); err != nil {
					return fmt.Errorf("failed to remove old model: %w", err)
				}
			}
			if err := est.Init(ctx); err != nil {
				return err
			}
			model, err := estimator.LoadModel(ctx, files, cfg.Estimator.ModelKey)
			if err != nil {
				return err
			}
			printModel(cmd.OutOrStdout(), cfg.Estimator.ModelKey, model)
			return nil
		},
	}
	cmd.Flags().BoolVar(&trainForce, "force", false, "discard an existing model and retrain")
	return cmd
}

func printModel(w io.Writer, key string, m *estimator.LinearModel) {
	fmt.Fprintf(w, "model %s: %d samples, trained %s\n", key, m.Samples, m.TrainedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "  %-12s %10.4f\n", "intercept", m.Intercept)
	for i, name := range m.Features {
		fmt.Fprintf(w, "  %-12s %10.4f\n", name, m.Coefficients[i])
	}
}

func newEstimateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate calories burned by one workout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile.Gender = domain.Gender(gender)
			w := domain.WorkoutEntry{
				Date:            domain.FormatDate(time.Now()),
				Type:            domain.WorkoutOther,
				DurationMinutes: duration,
				HeartRate:       heartRate,
				BodyTemp:        bodyTemp,
			}
			if err := w.Validate(); err != nil {
				return err
			}
			if err := profile.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			cfg, files, err := loadFiles(ctx)
			if err != nil {
				return err
			}
			cfg.Estimator.TrainIfMissing = estimateTrain
			est := app.NewEstimator(cfg.Estimator, files, nil)
			if err := est.Init(ctx); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "model unavailable: %v\n", err)
			}

			result := est.Estimate(estimator.Features{
				Age:         float64(profile.Age),
				BMI:         formula.BMI(profile.HeightCm, profile.WeightKg),
				DurationMin: float64(duration),
				HeartRate:   float64(heartRate),
				BodyTemp:    bodyTemp,
				IsMale:      profile.IsMale(),
			})
			fmt.Fprintf(cmd.OutOrStdout(), "%.2f kcal (%s)\n", formula.Round(result.Calories, 2), result.Source)
			return nil
		},
	}
	addProfileFlags(cmd)
	cmd.Flags().IntVar(&duration, "duration", 30, "workout duration in minutes")
	cmd.Flags().IntVar(&heartRate, "heart-rate", 120, "average heart rate in bpm")
	cmd.Flags().Float64Var(&bodyTemp, "body-temp", 39.0, "body temperature in C")
	cmd.Flags().BoolVar(&estimateTrain, "train", false, "train the model when no artifact exists")
	return cmd
}

func newNeedsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "needs",
		Short: "Print BMI, BMR and daily nutrition targets for a profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile.Gender = domain.Gender(gender)
			if err := profile.Validate(); err != nil {
				return err
			}
			printNeeds(cmd.OutOrStdout(), profile)
			return nil
		},
	}
	addProfileFlags(cmd)
	cmd.Flags().StringVar(&profile.ActivityLevel, "activity", profile.ActivityLevel, "Sedentary, Light, Moderate, Active or Very Active")
	cmd.Flags().StringVar(&profile.WeightGoal, "goal", profile.WeightGoal, "Lose Weight, Maintain Weight or Gain Weight")
	cmd.Flags().StringSliceVar(&profile.FitnessGoals, "fitness-goal", profile.FitnessGoals, "fitness goals, repeatable")
	return cmd
}

func printNeeds(w io.Writer, p domain.UserProfile) {
	bmi := formula.BMI(p.HeightCm, p.WeightKg)
	ideal := formula.IdealWeightRange(p.HeightCm)
	needs := formula.DailyCalorieNeeds(p)
	fmt.Fprintf(w, "BMI:             %.1f (%s)\n", bmi, formula.BMICategory(bmi))
	fmt.Fprintf(w, "ideal weight:    %.1f - %.1f kg\n", ideal.MinKg, ideal.MaxKg)
	fmt.Fprintf(w, "BMR:             %.0f kcal\n", formula.BMR(p.WeightKg, p.HeightCm, p.Age, p.Gender))
	fmt.Fprintf(w, "maintenance:     %.0f kcal (P %.0fg / C %.0fg / F %.0fg)\n", needs.Calories, needs.ProteinG, needs.CarbsG, needs.FatG)
	fmt.Fprintf(w, "target calories: %.0f kcal\n", formula.TargetCalories(needs.Calories, p.WeightGoal))
	fmt.Fprintf(w, "protein target:  %.0f g\n", formula.ProteinTarget(p.WeightKg, p.FitnessGoals))
	fmt.Fprintf(w, "water target:    %.1f l\n", formula.WaterTarget(p.WeightKg))
}

func newModelURLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model-url",
		Short: "Print a temporary download URL for the model artifact",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, files, err := loadFiles(ctx)
			if err != nil {
				return err
			}
			url, err := files.GeneratePresignedDownloadURL(ctx, cfg.Estimator.ModelKey, urlExpires)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
	cmd.Flags().DurationVar(&urlExpires, "expires", storage.DefaultPresignedURLExpiry, "URL lifetime")
	return cmd
}

func newDatasetURLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset-upload-url",
		Short: "Print a temporary upload URL for a training dataset (exercise or calories)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, files, err := loadFiles(ctx)
			if err != nil {
				return err
			}
			var key string
			switch datasetName {
			case "exercise":
				key = cfg.Estimator.ExerciseKey
			case "calories":
				key = cfg.Estimator.CaloriesKey
			default:
				return fmt.Errorf("unknown dataset %q, want exercise or calories", datasetName)
			}
			url, err := files.GeneratePresignedUploadURL(ctx, key, storage.ContentTypeCSV, urlExpires)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
	cmd.Flags().StringVar(&datasetName, "dataset", "exercise", "exercise or calories")
	cmd.Flags().DurationVar(&urlExpires, "expires", storage.DefaultPresignedURLExpiry, "URL lifetime")
	return cmd
}
