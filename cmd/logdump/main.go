package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"gitlab.com/parlabs/workpool-go/pkg/logging"
)

// logdump rewrites a JSON log produced by a run into human readable form.
func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: logdump logfile.json")
		return
	}

	filename := flag.Args()[0]
	file, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot open file\n", filename)
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	decoder := logging.NewDecoder(os.Stdout)
	for scanner.Scan() {
		decoder.Write([]byte(scanner.Text()))
	}
}
