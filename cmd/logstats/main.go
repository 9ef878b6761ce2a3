// Command logstats is a sample analysis front-end: it walks a
// directory of tracelog files, opens each one, and aggregates POSIX
// I/O statistics across the whole set. It is illustrative only, not
// part of the core codec.
package main

import "github.com/hpcio/tracelog/cmd/logstats/cmd"

func main() {
	cmd.Execute()
}
