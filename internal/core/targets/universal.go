package targets

import "github.com/datascrub/datascrub/internal/core"

func init() {
	// Plain CSV: headers pass through as-is.
	core.RegisterTarget(core.ExportTarget{
		Key:   "universal",
		Label: "Universal CSV",
	})
}
