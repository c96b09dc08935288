package targets

import (
	"strings"

	"github.com/datascrub/datascrub/internal/core"
)

func init() {
	core.RegisterTarget(core.ExportTarget{
		Key:    "salesforce",
		Label:  "Salesforce Compatible",
		Rename: snakeCaseHeader,
	})
}

// snakeCaseHeader lower-cases a header and replaces spaces with
// underscores: "First Name" -> "first_name".
func snakeCaseHeader(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}
