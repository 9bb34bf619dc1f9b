package main

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"lintim.dev/ptsim"
	"lintim.dev/ptsim/config"
	"lintim.dev/ptsim/parse"
	"lintim.dev/ptsim/storage"
)

const (
	eventsFileName     = "Events-expanded.giv"
	activitiesFileName = "Activities-expanded.giv"
	odFileName         = "OD.giv"
	delaysFileName     = "Delays.giv"
)

var (
	useCache bool
	cacheDB  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a delay-propagation simulation and print its result row",
	RunE:  run,
}

func init() {
	runCmd.Flags().BoolVar(&useCache, "cache", false, "Cache the parsed scenario in a SQLite database keyed by content hash")
	runCmd.Flags().StringVar(&cacheDB, "cache-db", "ptsim-cache.db", "SQLite database file used when --cache is set")
}

func loadScenario(dataFolder string) (*storage.Scenario, error) {
	eventsPath := filepath.Join(dataFolder, eventsFileName)
	activitiesPath := filepath.Join(dataFolder, activitiesFileName)
	odPath := filepath.Join(dataFolder, odFileName)
	delaysPath := filepath.Join(dataFolder, delaysFileName)

	eventsRaw, err := os.ReadFile(eventsPath)
	if err != nil {
		return nil, err
	}
	activitiesRaw, err := os.ReadFile(activitiesPath)
	if err != nil {
		return nil, err
	}
	odRaw, err := os.ReadFile(odPath)
	if err != nil {
		return nil, err
	}
	delaysRaw, err := os.ReadFile(delaysPath)
	if err != nil {
		return nil, err
	}

	var store storage.Store
	if useCache {
		s, err := storage.NewSQLiteStore(cacheDB)
		if err != nil {
			return nil, err
		}
		store = s
	}

	hash := storage.HashContent(eventsRaw, activitiesRaw, odRaw, delaysRaw)
	if store != nil {
		if cached, ok, err := store.Get(hash); err == nil && ok {
			return cached, nil
		}
	}

	events, err := parse.ParseEvents(bytes.NewReader(eventsRaw))
	if err != nil {
		return nil, err
	}
	activities, err := parse.ParseActivities(bytes.NewReader(activitiesRaw))
	if err != nil {
		return nil, err
	}
	od, err := parse.ParseOD(bytes.NewReader(odRaw))
	if err != nil {
		return nil, err
	}
	delays, err := parse.ParseDelays(bytes.NewReader(delaysRaw))
	if err != nil {
		return nil, err
	}

	scenario := &storage.Scenario{Events: events, Activities: activities, OD: od, Delays: delays}
	if store != nil {
		if err := store.Put(hash, scenario); err != nil {
			return nil, err
		}
	}
	return scenario, nil
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	scenario, err := loadScenario(cfg.DataFolderLocation)
	if err != nil {
		return err
	}

	sim, err := ptsim.Build(scenario, cfg)
	if err != nil {
		return err
	}
	if err := sim.Run(); err != nil {
		return err
	}

	ev := ptsim.Evaluate(sim)
	return ev.WriteResultRow(os.Stdout, cfg)
}
