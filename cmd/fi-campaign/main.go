// fi-campaign drives fault-injection campaigns against an FPGA design:
// it builds a target pool from the system dictionary, schedules injections
// with a time profile, and records outcomes in the results database.
package main

import (
	"log"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("[CAMPAIGN] %v", err)
	}
}
