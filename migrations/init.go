package migrations

import (
	"io/fs"

	swagdesk "github.com/goliatone/go-swagdesk"
)

func init() {
	coreFS, err := fs.Sub(swagdesk.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return
	}
	Register(coreFS)
}
