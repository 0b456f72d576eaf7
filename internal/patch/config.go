package patch

import "path/filepath"

// Tool provisioning sources. These are external projects' published
// artifacts; the setup stage downloads them as-is.
const (
	defaultApktoolURL    = "https://raw.githubusercontent.com/iBotPeaches/Apktool/master/scripts/linux/apktool"
	defaultApktoolJarURL = "https://bitbucket.org/iBotPeaches/apktool/downloads/apktool_2.9.3.jar"
	defaultSignerJarURL  = "https://github.com/patrickfav/uber-apk-signer/releases/download/v1.3.0/uber-apk-signer-1.3.0.jar"
)

// Config carries every path and name the pipeline touches. All relative
// paths are resolved against WorkDir, so a test can point the whole
// pipeline at a temporary directory.
type Config struct {
	// WorkDir is the directory all commands run in and all relative paths
	// resolve against.
	WorkDir string

	// BinDir is where the decompiler launcher and jar are installed.
	BinDir string

	// JavaPackage is the runtime package installed for the signer.
	JavaPackage string

	// Tool download sources and local names.
	ApktoolURL     string
	ApktoolJarURL  string
	SignerJarURL   string
	ApktoolName    string
	ApktoolJarName string
	SignerJarName  string

	// KeystoreName is the local file the signing credential is fetched to.
	KeystoreName string

	// Local names for the two downloaded packages.
	BaseAPKName  string
	SplitAPKName string

	// NativeLibDir is the architecture subdirectory inside a decompiled
	// tree; NativeLibName the library replaced there; NativeLibBackupName
	// what the original is renamed to.
	NativeLibDir        string
	NativeLibName       string
	NativeLibBackupName string

	// OutputDir receives the recompiled (and then signed) packages.
	OutputDir           string
	RecompiledBaseName  string
	RecompiledSplitName string

	// FinalDir receives the signed packages under their canonical names.
	FinalDir       string
	FinalBaseName  string
	FinalSplitName string

	// ArchiveName is the distributable bundle written in WorkDir.
	ArchiveName string

	// Signing credential parameters, passed literally to the signer.
	KeystoreAlias   string
	KeystorePass    string
	KeystoreKeyPass string
}

// DefaultConfig returns the production layout rooted at workDir.
func DefaultConfig(workDir string) Config {
	return Config{
		WorkDir: workDir,
		BinDir:  "/usr/local/bin",

		JavaPackage: "openjdk-8-jre-headless",

		ApktoolURL:     defaultApktoolURL,
		ApktoolJarURL:  defaultApktoolJarURL,
		SignerJarURL:   defaultSignerJarURL,
		ApktoolName:    "apktool",
		ApktoolJarName: "apktool.jar",
		SignerJarName:  "uber-apk-signer.jar",

		KeystoreName: "debug.keystore",

		BaseAPKName:  "base.apk",
		SplitAPKName: "split.apk",

		NativeLibDir:        filepath.Join("lib", "arm64-v8a"),
		NativeLibName:       "libmain.so",
		NativeLibBackupName: "libmain_orig.so",

		OutputDir:           ".",
		RecompiledBaseName:  "base_recompiled.apk",
		RecompiledSplitName: "split_recompiled.apk",

		FinalDir:       "final",
		FinalBaseName:  "base.apk",
		FinalSplitName: "config.arm64_v8a.apk",

		ArchiveName: "patched.xapk",

		KeystoreAlias:   "androiddebugkey",
		KeystorePass:    "android",
		KeystoreKeyPass: "android",
	}
}

// abs resolves a WorkDir-relative path. Absolute paths pass through.
func (c Config) abs(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(c.WorkDir, rel)
}
