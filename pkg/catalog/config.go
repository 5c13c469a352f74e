package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/levenlabs/go-lflag"

	"github.com/solaris-sizer/solaris/pkg/log"
)

// Configured returns the catalog selected by flags. The embedded catalog is
// used unless --catalog-file is set. The returned pointer is filled in when
// lflag.Configure runs; a catalog that fails to load aborts startup.
func Configured() *Catalog {
	path := lflag.String("catalog-file", "", "Optional YAML file replacing the embedded equipment catalog")

	c := &Catalog{}
	lflag.Do(func() {
		ctx := context.Background()
		loaded := Default()
		if *path != "" {
			var err error
			loaded, err = Load(*path)
			if err != nil {
				panic(fmt.Sprintf("catalog load failed: %v", err))
			}
		}
		*c = *loaded
		log.Ctx(ctx).InfoContext(ctx, "catalog loaded",
			slog.String("source", sourceName(*path)),
			slog.Int("inverters", len(c.inverters)),
			slog.Int("batteries", len(c.batteries)),
		)
	})
	return c
}

func sourceName(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}
