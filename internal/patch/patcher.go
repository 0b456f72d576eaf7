// Package patch implements the stages of the APK patching pipeline:
// environment setup, fetch and decompile, native library substitution,
// recompile, sign, finalize, bundle.
//
// Stages communicate exclusively through the filesystem under
// Config.WorkDir; the only in-memory handoff is path strings. Every stage
// fails fast on the first error and performs no cleanup — intermediate
// artifacts stay on disk for inspection.
package patch

import (
	"context"

	"apkpatcher/internal/apk"
	"apkpatcher/internal/run"
)

// ArtifactFetcher downloads a URL to a local path. Satisfied by
// run.Fetcher.
type ArtifactFetcher interface {
	Fetch(ctx context.Context, url, dest string) error
}

// Patcher holds the pipeline's collaborators. Fields are exported so
// tests can swap in stub runners, fetchers and naming strategies.
type Patcher struct {
	Config  Config
	Runner  apk.CommandRunner
	Fetcher ArtifactFetcher
	Tool    *apk.Tool
	Signer  *apk.Signer
}

// New wires a Patcher with the real runner, fetcher and tool wrappers, all
// rooted at cfg.WorkDir.
func New(cfg Config) *Patcher {
	runner := &run.Runner{Dir: cfg.WorkDir}
	return &Patcher{
		Config:  cfg,
		Runner:  runner,
		Fetcher: &run.Fetcher{},
		Tool:    &apk.Tool{Exe: cfg.ApktoolName, Runner: runner},
		Signer:  &apk.Signer{JarPath: cfg.SignerJarName, Runner: runner},
	}
}
