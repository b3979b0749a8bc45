// Command lshdedup invokes the near-duplicate clustering core the way
// a cloud function runtime would: it reads an invocation payload,
// downloads the input CSV, runs the pipeline, uploads the output CSV,
// and notifies a downstream callback endpoint with the result
// envelope. How the payload actually arrives, how the process is
// scheduled, and wall-clock enforcement belong to the surrounding
// runtime; this command plays its role for local invocation and
// testing.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var payloadPath string

var rootCmd = &cobra.Command{
	Use:   "lshdedup",
	Short: "Near-duplicate text clustering via MinHash + LSH",
	Long: `lshdedup clusters near-duplicate text records using MinHash
signatures and banded Locality-Sensitive Hashing.

It downloads a CSV of (id, text) records from object storage, clusters
records whose token-set Jaccard similarity crosses a configured
threshold, uploads a CSV of (record_id, cluster_id) pairs, and
notifies a downstream callback endpoint with the outcome.`,
	RunE: runDedup,
}

func init() {
	rootCmd.Flags().StringVar(&payloadPath, "payload", "", "path to the JSON invocation payload (DedupConfig); defaults to stdin")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
