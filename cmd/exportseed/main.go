// Command exportseed serializes stored events back into the default-catalog
// format, substituting host email/name for the host reference so the file
// stays portable across store instances.
//
// Usage:
//
//	exportseed
//	exportseed -seed-only
//	exportseed -out seed/default_events.json -force
package main

import (
	"context"
	"flag"

	"orbit.events/configs/configsapp"
	"orbit.events/configs/configsdatabase"
	"orbit.events/configs/configslog"
	"orbit.events/pkg/catalog"
	"orbit.events/repositories"

	"go.uber.org/zap"
)

func main() {
	configslog.InitLogger()
	defer configslog.SyncLogger()

	seedOnly := flag.Bool("seed-only", false, "export only seed-tagged events")
	out := flag.String("out", catalog.DefaultSeedFile, "output file")
	force := flag.Bool("force", false, "overwrite the output file if it exists")
	flag.Parse()

	configsapp.Load()
	configsdatabase.InitDB()
	defer configsdatabase.CloseDB()

	repo := repositories.NewEventRepository()
	events, err := repo.FindAllWithHost(context.Background(), *seedOnly)
	if err != nil {
		configslog.Log.Fatal("events could not be read", zap.Error(err))
	}

	templates := catalog.FromEvents(events)
	written, err := catalog.Write(*out, templates, *force)
	if err != nil {
		configslog.Log.Fatal("catalog could not be written", zap.String("out", *out), zap.Error(err))
	}

	if written != *out {
		configslog.SLog.Infof("File existed; wrote snapshot instead -> %s", written)
	} else {
		configslog.SLog.Infof("Exported %d events -> %s", len(templates), written)
	}
}
