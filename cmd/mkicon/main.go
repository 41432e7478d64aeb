// mkicon writes the medtime capsule icon as a PNG, for packaging.
// Usage: go run ./cmd/mkicon [-size N] <output.png>
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Mavwarf/medtime/internal/icon"
)

func main() {
	size := flag.Int("size", 256, "icon width and height in pixels")
	flag.Parse()
	if flag.NArg() < 1 || *size <= 0 {
		fmt.Fprintf(os.Stderr, "Usage: mkicon [-size N] <output.png>\n")
		os.Exit(1)
	}
	if err := os.WriteFile(flag.Arg(0), icon.PNG(*size), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
