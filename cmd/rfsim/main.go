// rfsim is the command-line interface to the coverage-map pipeline.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
