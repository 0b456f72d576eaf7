package cli

import (
	"context"

	"github.com/bitrise-io/go-utils/log"

	"apkpatcher/internal/patch"
	"apkpatcher/internal/pipeline"
)

// CLIResult is the outcome of one pipeline run.
type CLIResult struct {
	ExitCode int
	State    pipeline.Stage
	History  []pipeline.StepRecord
}

// Execute runs the full pipeline for a canonical invocation with the
// default production layout rooted at inv.WorkDir.
func Execute(ctx context.Context, inv Invocation) (CLIResult, error) {
	return ExecuteWithConfig(ctx, inv, patch.DefaultConfig(inv.WorkDir))
}

// ExecuteWithConfig runs the pipeline with an explicit configuration.
// Tests use it to point tool installs and outputs at temporary
// directories.
//
// The stages hand results to each other only as path strings; everything
// else flows through the filesystem under cfg.WorkDir.
func ExecuteWithConfig(ctx context.Context, inv Invocation, cfg patch.Config) (CLIResult, error) {
	p := patch.New(cfg)

	var (
		keystorePath        string
		baseDir, splitDir   string
		basePath, splitPath string
	)

	pl, err := pipeline.New(
		pipeline.Step{Stage: pipeline.StageSetup, Name: "set up environment", Run: func(ctx context.Context) error {
			var err error
			keystorePath, err = p.SetupEnvironment(ctx, inv.KeystoreURL)
			return err
		}},
		pipeline.Step{Stage: pipeline.StageFetching, Name: "fetch and decompile APKs", Run: func(ctx context.Context) error {
			var err error
			baseDir, splitDir, err = p.FetchAndDecompile(ctx, inv.BaseAPKURL, inv.SplitAPKURL)
			return err
		}},
		pipeline.Step{Stage: pipeline.StageSubstituting, Name: "substitute native library", Run: func(ctx context.Context) error {
			return p.SubstituteNativeLib(ctx, inv.LibMainURL, splitDir)
		}},
		pipeline.Step{Stage: pipeline.StageRecompiling, Name: "recompile APKs", Run: func(ctx context.Context) error {
			var err error
			basePath, splitPath, err = p.Recompile(ctx, baseDir, splitDir)
			return err
		}},
		pipeline.Step{Stage: pipeline.StageSigning, Name: "sign APKs", Run: func(ctx context.Context) error {
			return p.Sign(ctx, keystorePath, basePath, splitPath)
		}},
		pipeline.Step{Stage: pipeline.StageFinalizing, Name: "finalize APKs", Run: func(ctx context.Context) error {
			return p.Finalize(ctx)
		}},
		pipeline.Step{Stage: pipeline.StageBundling, Name: "build bundle", Run: func(ctx context.Context) error {
			return p.Bundle()
		}},
	)
	if err != nil {
		return CLIResult{ExitCode: ExitPipelineFailure}, err
	}

	if err := pl.Run(ctx); err != nil {
		log.Errorf("An error occurred: %s", err)
		return CLIResult{ExitCode: ExitPipelineFailure, State: pl.State(), History: pl.History()}, err
	}

	log.Donef("Process complete: the patched bundle is ready")
	return CLIResult{ExitCode: ExitSuccess, State: pl.State(), History: pl.History()}, nil
}
