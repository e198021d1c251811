package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"mingus-outlook/internal/domain"
	"mingus-outlook/internal/repository"
)

type seedFile struct {
	Users []seedUser `yaml:"users"`
}

type seedUser struct {
	ID                 string        `yaml:"id"`
	Email              string        `yaml:"email"`
	FirstName          string        `yaml:"first_name"`
	City               string        `yaml:"city"`
	State              string        `yaml:"state"`
	RelationshipStatus string        `yaml:"relationship_status"`
	Tier               string        `yaml:"tier"`
	LastActiveDaysAgo  *int          `yaml:"last_active_days_ago"`
	Activity           *seedActivity `yaml:"activity"`
}

type seedActivity struct {
	MoodScore         int `yaml:"mood_score"`
	ExerciseMinutes   int `yaml:"exercise_minutes"`
	MeditationMinutes int `yaml:"meditation_minutes"`
	FinancialScore    int `yaml:"financial_score"`
	WellnessScore     int `yaml:"wellness_score"`
	RelationshipScore int `yaml:"relationship_score"`
	CareerScore       int `yaml:"career_score"`
	StreakCount       int `yaml:"streak_count"`
}

// seedStore es el subconjunto de SQLiteStore que usa el seed.
type seedStore interface {
	UpsertProfile(ctx context.Context, p domain.UserProfile) error
	UpsertActivity(ctx context.Context, a domain.ActivitySnapshot) error
}

func init() {
	var file, dbPath string
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo profiles and activity into the SQLite store",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadSeedFile(file)
			if err != nil {
				return err
			}
			store, err := repository.NewSQLiteStore(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := applySeed(cmd.Context(), store, f, time.Now().UTC())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users into %s\n", n, dbPath)
			return nil
		},
	}
	seedCmd.Flags().StringVarP(&file, "file", "f", "", "Seed YAML file (required)")
	seedCmd.Flags().StringVar(&dbPath, "sqlite", envOr("SQLITE_PATH", "data/outlook.db"), "SQLite database path")
	_ = seedCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(seedCmd)
}

func loadSeedFile(path string) (seedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return seedFile{}, fmt.Errorf("read seed file: %w", err)
	}
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return seedFile{}, fmt.Errorf("parse seed file: %w", err)
	}
	if len(f.Users) == 0 {
		return seedFile{}, fmt.Errorf("seed file %s has no users", path)
	}
	return f, nil
}

func applySeed(ctx context.Context, store seedStore, f seedFile, now time.Time) (int, error) {
	for i, u := range f.Users {
		id := strings.TrimSpace(u.ID)
		if id == "" {
			return i, fmt.Errorf("seed user #%d: missing id", i+1)
		}
		profile := domain.UserProfile{
			ID:                 id,
			Email:              u.Email,
			FirstName:          u.FirstName,
			Location:           domain.Location{City: u.City, State: u.State},
			RelationshipStatus: domain.RelationshipStatus(u.RelationshipStatus),
			Tier:               domain.Tier(u.Tier).Normalize(),
			SignupAt:           now,
		}
		if u.LastActiveDaysAgo != nil {
			t := now.AddDate(0, 0, -*u.LastActiveDaysAgo)
			profile.LastActiveAt = &t
		}
		if err := store.UpsertProfile(ctx, profile); err != nil {
			return i, fmt.Errorf("seed user %s: %w", id, err)
		}
		if u.Activity == nil {
			continue
		}
		a := u.Activity
		snapshot := domain.ActivitySnapshot{
			UserID:            id,
			MoodScore:         a.MoodScore,
			ExerciseMinutes:   a.ExerciseMinutes,
			MeditationMinutes: a.MeditationMinutes,
			FinancialScore:    a.FinancialScore,
			WellnessScore:     a.WellnessScore,
			RelationshipScore: a.RelationshipScore,
			CareerScore:       a.CareerScore,
			StreakCount:       a.StreakCount,
			LastActiveDate:    now,
		}
		if profile.LastActiveAt != nil {
			snapshot.LastActiveDate = *profile.LastActiveAt
		}
		if err := store.UpsertActivity(ctx, snapshot); err != nil {
			return i, fmt.Errorf("seed activity %s: %w", id, err)
		}
	}
	return len(f.Users), nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
