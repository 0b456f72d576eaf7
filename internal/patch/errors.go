package patch

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential marks a signing attempt without a keystore file
	// on disk.
	ErrMissingCredential = errors.New("keystore not found")

	// ErrMissingSignedArtifact marks an expected signer output that never
	// appeared.
	ErrMissingSignedArtifact = errors.New("missing signed artifact")
)

// MissingArtifactError names the specific signer output that is absent.
type MissingArtifactError struct {
	Path string
}

func (e *MissingArtifactError) Error() string {
	return fmt.Sprintf("missing signed artifact %s: check the signer's output naming", e.Path)
}

func (e *MissingArtifactError) Unwrap() error { return ErrMissingSignedArtifact }
