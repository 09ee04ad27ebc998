package mp3probe

import (
	"github.com/simonhull/mp3probe/internal/types"
)

// StreamInfo is an alias to types.StreamInfo.
// Re-exporting from internal/types so callers never import internal packages.
type StreamInfo = types.StreamInfo
