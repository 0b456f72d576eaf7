package cli_test

import (
	"archive/zip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	icl "apkpatcher/internal/cli"
	"apkpatcher/internal/patch"
	"apkpatcher/internal/pipeline"
)

// The end-to-end tests run the whole pipeline against stub tools and mock
// HTTP endpoints: sudo and wget always succeed, apktool creates/packs
// plausible trees, and java emulates the signer's -aligned-signed output
// convention.

const sudoStub = `exit 0`

const wgetStub = `out=""
prev=""
for a in "$@"; do
  if [ "$prev" = "-O" ]; then out="$a"; fi
  prev="$a"
done
[ -n "$out" ] || exit 1
echo "stub-download" > "$out"
`

// apktoolStub decodes an APK into <name>/ with a native lib tree, and
// builds a directory back into the -o target. A marker file named
// .fail_decode_<apk> forces the matching decode to exit nonzero.
const apktoolStub = `cmd="$1"; shift
case "$cmd" in
  d)
    apk="$1"
    if [ -e ".fail_decode_$apk" ]; then
      echo "decode error: $apk" >&2
      exit 1
    fi
    dir="${apk%.apk}"
    mkdir -p "$dir/lib/arm64-v8a"
    echo "original-native-lib" > "$dir/lib/arm64-v8a/libmain.so"
    ;;
  b)
    dir="$1"
    out="$3"
    echo "recompiled:$dir" > "$out"
    ;;
  *)
    echo "unknown subcommand: $cmd" >&2
    exit 2
    ;;
esac
`

const javaStub = `apks=""
prev=""
for a in "$@"; do
  if [ "$prev" = "--apks" ]; then apks="$a"; fi
  prev="$a"
done
[ -n "$apks" ] || exit 1
base="${apks%.apk}"
cp "$apks" "$base-aligned-signed.apk"
`

func writeStub(t *testing.T, dir, name, script string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"+script), 0o755))
}

func stubTools(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	stubDir := t.TempDir()
	writeStub(t, stubDir, "sudo", sudoStub)
	writeStub(t, stubDir, "wget", wgetStub)
	writeStub(t, stubDir, "apktool", apktoolStub)
	writeStub(t, stubDir, "java", javaStub)
	t.Setenv("PATH", stubDir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func artifactServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for path, body := range map[string]string{
		"/base.apk":       "base-apk-bytes",
		"/split.apk":      "split-apk-bytes",
		"/libmain.so":     "patched-native-lib",
		"/debug.keystore": "keystore-bytes",
	} {
		body := body
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testInvocation(srvURL, workDir string) icl.Invocation {
	return icl.Invocation{
		BaseAPKURL:  srvURL + "/base.apk",
		SplitAPKURL: srvURL + "/split.apk",
		LibMainURL:  srvURL + "/libmain.so",
		KeystoreURL: srvURL + "/debug.keystore",
		WorkDir:     workDir,
	}
}

func testConfig(workDir string) patch.Config {
	cfg := patch.DefaultConfig(workDir)
	cfg.BinDir = filepath.Join(workDir, "bin")
	return cfg
}

func archiveEntries(t *testing.T, path string) map[string]string {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	entries := map[string]string{}
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		entries[f.Name] = string(b)
	}
	return entries
}

func TestEndToEnd_Success(t *testing.T) {
	stubTools(t)
	srv := artifactServer(t)
	workDir := t.TempDir()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result, err := icl.ExecuteWithConfig(ctx, testInvocation(srv.URL, workDir), testConfig(workDir))
	require.NoError(t, err)
	assert.Equal(t, icl.ExitSuccess, result.ExitCode)
	assert.Equal(t, pipeline.StageDone, result.State)

	// Canonical final outputs.
	base, err := os.ReadFile(filepath.Join(workDir, "final", "base.apk"))
	require.NoError(t, err)
	assert.Equal(t, "recompiled:base\n", string(base))

	split, err := os.ReadFile(filepath.Join(workDir, "final", "config.arm64_v8a.apk"))
	require.NoError(t, err)
	assert.Equal(t, "recompiled:split\n", string(split))

	// The original native lib was backed up and replaced before the
	// split tree was recompiled.
	backup, err := os.ReadFile(filepath.Join(workDir, "split", "lib", "arm64-v8a", "libmain_orig.so"))
	require.NoError(t, err)
	assert.Equal(t, "original-native-lib\n", string(backup))

	replaced, err := os.ReadFile(filepath.Join(workDir, "split", "lib", "arm64-v8a", "libmain.so"))
	require.NoError(t, err)
	assert.Equal(t, "patched-native-lib", string(replaced))

	// The bundle holds exactly the final directory's contents.
	entries := archiveEntries(t, filepath.Join(workDir, "patched.xapk"))
	assert.Equal(t, map[string]string{
		"base.apk":             "recompiled:base\n",
		"config.arm64_v8a.apk": "recompiled:split\n",
	}, entries)
}

func TestEndToEnd_SecondDecompileFailure(t *testing.T) {
	stubTools(t)
	srv := artifactServer(t)
	workDir := t.TempDir()

	// Force the split decode (the second apktool d invocation) to fail.
	require.NoError(t, os.WriteFile(filepath.Join(workDir, ".fail_decode_split.apk"), nil, 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result, err := icl.ExecuteWithConfig(ctx, testInvocation(srv.URL, workDir), testConfig(workDir))
	require.Error(t, err)
	assert.Equal(t, icl.ExitPipelineFailure, result.ExitCode)
	assert.Equal(t, pipeline.StageFailed, result.State)

	// No final outputs and no archive may exist after an aborted run.
	_, statErr := os.Stat(filepath.Join(workDir, "final"))
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(filepath.Join(workDir, "patched.xapk"))
	assert.True(t, os.IsNotExist(statErr))

	// The base decode before the failure still ran; nothing after did.
	_, statErr = os.Stat(filepath.Join(workDir, "base"))
	assert.NoError(t, statErr)
	_, statErr = os.Stat(filepath.Join(workDir, "base_recompiled.apk"))
	assert.True(t, os.IsNotExist(statErr))
}
