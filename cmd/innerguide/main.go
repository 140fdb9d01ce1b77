// innerguide is a mental-wellness companion: mood-aware activity
// suggestions, a supportive chat and helpline information.
package main

import (
	"os"

	"github.com/PabloGalante/innerguide/cmd/innerguide/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
