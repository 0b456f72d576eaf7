package apk

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Keystore holds the signing credential: the keystore file plus the
// parameters the signer needs to open it.
type Keystore struct {
	Path      string
	Alias     string
	StorePass string
	KeyPass   string
}

// DefaultSignedName reproduces uber-apk-signer's convention: the signed
// output is the input name with "-aligned-signed" inserted before the
// extension.
func DefaultSignedName(apkPath string) string {
	ext := filepath.Ext(apkPath)
	return strings.TrimSuffix(apkPath, ext) + "-aligned-signed" + ext
}

// Signer invokes the signing tool, a Java jar.
type Signer struct {
	// JavaExe is the Java runtime binary. Defaults to "java".
	JavaExe string

	// JarPath is the signer jar location.
	JarPath string

	Runner CommandRunner

	// SignedNameFor predicts the signer's output name for an input APK.
	// Defaults to DefaultSignedName.
	SignedNameFor NamingStrategy
}

func (s *Signer) java() string {
	if s.JavaExe == "" {
		return "java"
	}
	return s.JavaExe
}

// Sign aligns and signs apkPath in place next to the input, using the
// tool's own output naming. The credential parameters are passed as
// literal command arguments.
func (s *Signer) Sign(ctx context.Context, apkPath string, ks Keystore) error {
	desc := fmt.Sprintf("sign %s", apkPath)
	return s.Runner.Run(ctx, desc, s.java(),
		"-jar", s.JarPath,
		"--apks", apkPath,
		"--ks", ks.Path,
		"--ksAlias", ks.Alias,
		"--ksPass", ks.StorePass,
		"--ksKeyPass", ks.KeyPass,
	)
}

// SignedName returns the expected signer output for apkPath.
func (s *Signer) SignedName(apkPath string) string {
	if s.SignedNameFor != nil {
		return s.SignedNameFor(apkPath)
	}
	return DefaultSignedName(apkPath)
}
