// PeptideListToXML - Peptide search result export tool
package main

import (
	"fmt"
	"os"

	"github.com/PNNL-Comp-Mass-Spec/PeptideListToXML/cmd/peptidelisttoxml/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
