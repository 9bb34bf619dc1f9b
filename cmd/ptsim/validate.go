package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lintim.dev/ptsim/config"
	"lintim.dev/ptsim/network"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Parse a scenario and report structural problems without simulating",
	RunE:  validate,
}

func validate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	scenario, err := loadScenario(cfg.DataFolderLocation)
	if err != nil {
		return err
	}

	ean := network.New()
	problems := 0

	stationTimeSeen := map[[2]int]int{}
	for _, re := range scenario.Events {
		key := [2]int{re.StationID, re.Time}
		stationTimeSeen[key]++
		if stationTimeSeen[key] > 1 {
			fmt.Printf("event %d: (station %d, time %d) is not unique\n", re.ID, re.StationID, re.Time)
			problems++
			continue
		}
		if _, err := ean.NewEvent(network.EventID(re.ID), re.StationID, re.Time, re.Weight); err != nil {
			fmt.Printf("event %d: %v\n", re.ID, err)
			problems++
		}
	}

	for _, ra := range scenario.Activities {
		if ra.LowerBound < 0 {
			fmt.Printf("activity %d: negative lower bound %d\n", ra.ID, ra.LowerBound)
			problems++
		}
		typ, ok := network.ParseActivityType(ra.Type)
		if !ok {
			fmt.Printf("activity %d: unknown type %q\n", ra.ID, ra.Type)
			problems++
			continue
		}
		src, srcOK := ean.Event(network.EventID(ra.TailEventID))
		tgt, tgtOK := ean.Event(network.EventID(ra.HeadEventID))
		if !srcOK {
			fmt.Printf("activity %d: dangling tail event %d\n", ra.ID, ra.TailEventID)
			problems++
		}
		if !tgtOK {
			fmt.Printf("activity %d: dangling head event %d\n", ra.ID, ra.HeadEventID)
			problems++
		}
		if !srcOK || !tgtOK {
			continue
		}
		if _, err := ean.NewActivity(network.ActivityID(ra.ID), typ, ra.LowerBound, ra.Weight, src, tgt); err != nil {
			fmt.Printf("activity %d: %v\n", ra.ID, err)
			problems++
		}
	}

	if err := ean.CheckInvariants(); err != nil {
		fmt.Printf("invariant check: %v\n", err)
		problems++
	}

	if problems == 0 {
		fmt.Println("scenario is structurally valid")
		return nil
	}

	fmt.Printf("%d problem(s) found\n", problems)
	os.Exit(1)
	return nil
}
