package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/materialsmc/mcdrive/internal/audit"
	"github.com/materialsmc/mcdrive/internal/config"
	"github.com/materialsmc/mcdrive/internal/orchestrator"
	"github.com/materialsmc/mcdrive/internal/store"
	"github.com/materialsmc/mcdrive/internal/structure"
	"github.com/materialsmc/mcdrive/internal/workdir"
	"github.com/spf13/cobra"
)

var (
	flagWorkers    int
	flagSteps      int
	flagTemp       float64
	flagPSwapMetal int
	flagPSwapInter int
	flagPExchMetal int
	flagPExchInter int
	flagSeed       int64
	flagDB         string
)

var runCmd = &cobra.Command{
	Use:   "run INPUT_STRUCTURE",
	Short: "Run the Monte Carlo orchestration loop",
	Long: `Loads the input structure, seeds the working directory, and runs the
orchestration loop: candidates are dispatched to idle fast worker
slots and refined results are drained from the report inbox until the
step budget is exhausted.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVar(&flagWorkers, "workers", 4, "Number of fast worker slots")
	runCmd.Flags().IntVar(&flagSteps, "steps", 1000, "Number of MC trial steps")
	runCmd.Flags().Float64Var(&flagTemp, "temp", 0.001, "Metropolis temperature factor")
	runCmd.Flags().IntVar(&flagPSwapMetal, "p-swap-metal", 70, "Weight of the swap-metal move")
	runCmd.Flags().IntVar(&flagPSwapInter, "p-swap-inter", 30, "Weight of the swap-interstitial move")
	runCmd.Flags().IntVar(&flagPExchMetal, "p-exch-metal", 0, "Weight of the exchange-metal move")
	runCmd.Flags().IntVar(&flagPExchInter, "p-exch-inter", 0, "Weight of the exchange-interstitial move")
	runCmd.Flags().Int64Var(&flagSeed, "seed", 0, "RNG seed, 0 means time-based")
	runCmd.Flags().StringVar(&flagDB, "db", "", "Path to the run ledger database")
}

// buildConfig layers CLI flags over environment defaults.
func buildConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return config.Config{}, err
	}
	set := cmd.Flags().Changed
	if set("workers") {
		cfg.Workers = flagWorkers
	}
	if set("steps") {
		cfg.Steps = flagSteps
	}
	if set("temp") {
		cfg.Temperature = flagTemp
	}
	if set("p-swap-metal") {
		cfg.PSwapMetal = flagPSwapMetal
	}
	if set("p-swap-inter") {
		cfg.PSwapInter = flagPSwapInter
	}
	if set("p-exch-metal") {
		cfg.PExchMetal = flagPExchMetal
	}
	if set("p-exch-inter") {
		cfg.PExchInter = flagPExchInter
	}
	if set("seed") {
		cfg.Seed = flagSeed
	}
	if set("db") {
		cfg.DBPath = flagDB
	}
	return cfg, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	// The shuffle stream is independent of the proposal stream.
	shuffleRng := rand.New(rand.NewSource(seed + 1))

	input := args[0]
	struc, err := structure.Load(input)
	if err != nil {
		return err
	}
	if struc.ShuffleRequested {
		log.Printf("Shuffling atomic coordinates as requested by %s", input)
		struc.Shuffle(shuffleRng)
	}

	layout := workdir.Layout{Root: workRoot}
	if err := layout.EnsureDirs(); err != nil {
		return err
	}
	// The input structure becomes the MC seed for the first candidates.
	if err := struc.WriteSaveFile(layout.SavePath()); err != nil {
		return err
	}

	runLog, err := audit.Open(layout.LogPath())
	if err != nil {
		return err
	}
	defer runLog.Close()

	dbPath := cfg.DBPath
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(workRoot, dbPath)
	}
	ledger, err := store.New(dbPath)
	if err != nil {
		return err
	}
	defer ledger.Close()

	run, err := ledger.CreateRun(input, cfg.Workers, cfg.Steps, cfg.Temperature, seed)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("Starting MC run %s: workers=%d steps=%d temp=%g seed=%d",
		run.ID, cfg.Workers, cfg.Steps, cfg.Temperature, seed)

	orch := orchestrator.New(cfg, layout, runLog, ledger, run.ID, rng)
	state := orch.Run(ctx)

	if err := ledger.FinishRun(run.ID, state.Steps, state.Accepts); err != nil {
		log.Printf("Warning: cannot finalize ledger run: %v", err)
	}

	fmt.Printf("MC finished: steps=%d accepted=%d\n", state.Steps, state.Accepts)
	return nil
}
