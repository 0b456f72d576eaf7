// Package apk wraps the external Android packaging tools: the
// decompiler/recompiler (apktool) and the signer (uber-apk-signer), plus
// read-only manifest inspection of APK files.
//
// The tools' on-disk conventions (decode directory names, signed output
// suffixes) are external contracts this code does not control; they are
// modeled as NamingStrategy values so stub tools with different
// conventions stay testable.
package apk

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// CommandRunner executes one external command synchronously. Satisfied by
// run.Runner.
type CommandRunner interface {
	Run(ctx context.Context, desc, name string, args ...string) error
}

// NamingStrategy maps a tool input name to the output name the tool is
// expected to produce.
type NamingStrategy func(string) string

// DefaultDecodeDir reproduces apktool's convention: the decode directory
// is the input's base name without its extension, in the working
// directory.
func DefaultDecodeDir(apkPath string) string {
	base := filepath.Base(apkPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Tool invokes the decompiler.
type Tool struct {
	// Exe is the tool binary name or path. Defaults to "apktool".
	Exe string

	Runner CommandRunner

	// DecodeDirFor predicts where a decode lands. Defaults to
	// DefaultDecodeDir.
	DecodeDirFor NamingStrategy
}

func (t *Tool) exe() string {
	if t.Exe == "" {
		return "apktool"
	}
	return t.Exe
}

// Decode runs the tool's decode subcommand on apkPath and returns the
// directory the tool is expected to have produced. The directory name is
// computed, not observed; a tool with a different convention needs a
// matching DecodeDirFor.
func (t *Tool) Decode(ctx context.Context, apkPath string) (string, error) {
	desc := fmt.Sprintf("decompile %s", apkPath)
	if err := t.Runner.Run(ctx, desc, t.exe(), "d", apkPath); err != nil {
		return "", err
	}
	dirFor := t.DecodeDirFor
	if dirFor == nil {
		dirFor = DefaultDecodeDir
	}
	return dirFor(apkPath), nil
}

// Build runs the tool's build subcommand on dir, writing the repackaged
// APK to outPath.
func (t *Tool) Build(ctx context.Context, dir, outPath string) error {
	desc := fmt.Sprintf("recompile %s", dir)
	return t.Runner.Run(ctx, desc, t.exe(), "b", dir, "-o", outPath)
}
