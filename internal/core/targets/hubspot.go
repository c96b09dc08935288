package targets

import "github.com/datascrub/datascrub/internal/core"

func init() {
	// HubSpot has no header mapping rules yet; headers pass through
	// unchanged. Placeholder marks the gap for hosts to surface.
	// TODO: map headers to HubSpot import property names once the
	// property list is settled.
	core.RegisterTarget(core.ExportTarget{
		Key:         "hubspot",
		Label:       "HubSpot Import",
		Placeholder: true,
	})
}
