package mp3probe

import (
	"github.com/simonhull/mp3probe/internal/types"
)

// ErrNoAudioFrames reports that no two consecutive valid MPEG frames
// were found in the audio region. It is always wrapped in a
// FormatError; match it with errors.Is.
var ErrNoAudioFrames = types.ErrNoAudioFrames

// ContractError is an alias to types.ContractError.
// Re-exporting from internal/types so callers never import internal packages.
type ContractError = types.ContractError

// IOError is an alias to types.IOError.
// Re-exporting from internal/types so callers never import internal packages.
type IOError = types.IOError

// FormatError is an alias to types.FormatError.
// Re-exporting from internal/types so callers never import internal packages.
type FormatError = types.FormatError

// ResourceError is an alias to types.ResourceError.
// Re-exporting from internal/types so callers never import internal packages.
type ResourceError = types.ResourceError

// OutOfBoundsError is an alias to types.OutOfBoundsError.
// Re-exporting from internal/types so callers never import internal packages.
type OutOfBoundsError = types.OutOfBoundsError
