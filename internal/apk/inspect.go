package apk

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/avast/apkparser"
)

type manifest struct {
	XMLName     xml.Name `xml:"manifest"`
	Package     string   `xml:"package,attr"`
	VersionName string   `xml:"versionName,attr"`
}

// Info is the subset of AndroidManifest.xml the patcher reports about a
// fetched APK.
type Info struct {
	Package     string
	VersionName string
}

// Inspect parses the binary AndroidManifest.xml inside apkPath. It is
// advisory: callers log the result and must tolerate errors, since the
// pipeline never depends on manifest contents.
func Inspect(apkPath string) (*Info, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "\t")

	zipErr, resErr, manErr := apkparser.ParseApk(apkPath, enc)
	if zipErr != nil {
		return nil, fmt.Errorf("failed to unzip the APK: %s", zipErr)
	}
	if resErr != nil {
		return nil, fmt.Errorf("failed to parse resources: %s", resErr)
	}
	if manErr != nil {
		return nil, fmt.Errorf("failed to parse AndroidManifest.xml: %s", manErr)
	}

	var m manifest
	if err := xml.Unmarshal(buf.Bytes(), &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal AndroidManifest.xml: %s", err)
	}

	return &Info{Package: m.Package, VersionName: m.VersionName}, nil
}
