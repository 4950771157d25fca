package main

// #region imports
import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fatori-v/fi-controller/internal/store"
)

// #endregion

// #region stats

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := store.NewStore(cfg.ResultsDBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	if flagStatsCampaign != "" {
		outcomes, err := st.CampaignOutcomes(flagStatsCampaign)
		if err != nil {
			return err
		}
		if len(outcomes) == 0 {
			fmt.Printf("no injections recorded for campaign %s\n", flagStatsCampaign)
			return nil
		}
		fmt.Printf("%-20s %-8s %8s %10s\n", "MODULE", "KIND", "TOTAL", "SUCCESSES")
		for _, o := range outcomes {
			fmt.Printf("%-20s %-8s %8d %10d\n", o.ModuleName, o.Kind, o.Total, o.Successes)
		}
		return nil
	}

	recs, err := st.ListCampaigns(flagStatsLimit)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("no campaigns recorded")
		return nil
	}
	fmt.Printf("%-36s %-10s %-10s %-10s %8s %8s  %s\n",
		"CAMPAIGN", "BOARD", "AREA", "TIME", "TOTAL", "OK", "TERMINATION")
	for _, r := range recs {
		fmt.Printf("%-36s %-10s %-10s %-10s %8d %8d  %s (%s)\n",
			r.CampaignID, r.BoardName, r.AreaProfile, r.TimeProfile,
			r.Total, r.Successes, r.Termination, r.StartedAt.Local().Format(time.DateTime))
	}
	return nil
}

// #endregion
