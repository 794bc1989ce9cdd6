package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/tiancaiamao/numbench"
	"github.com/tiancaiamao/numbench/internal/store"
	"github.com/tiancaiamao/numbench/internal/telemetry"
)

func main() {
	dataDir := pflag.String("data", "data", "directory to patch")
	patchDir := pflag.String("patch", "patch", "directory holding partial reports")
	pflag.Parse()
	telemetry.InitLogger(false)

	if err := patch(*dataDir, *patchDir, os.Stdout); err != nil {
		telemetry.LogError("patch failed", err)
		os.Exit(1)
	}
}

// patch merges every report in patchDir into the report of the same family
// and library in dataDir, or moves it there when dataDir has none.
func patch(dataDir, patchDir string, out io.Writer) error {
	origin, err := numbench.LoadDataDir(dataDir)
	if err != nil {
		return err
	}
	patches, err := numbench.LoadDataDir(patchDir)
	if err != nil {
		return err
	}

	for _, p := range patches {
		patched := false
		for _, o := range origin {
			if p.Family == o.Family && p.Library == o.Library {
				if err := patchReport(p, o, dataDir, out); err != nil {
					return err
				}
				patched = true
			}
		}

		if !patched {
			if err := moveReport(p, dataDir, patchDir); err != nil {
				return err
			}
		}
	}
	return nil
}

func moveReport(from *numbench.Report, dataDir, patchDir string) error {
	fileName := numbench.FileName(from.Family, from.Library)
	return os.Rename(filepath.Join(patchDir, fileName), filepath.Join(dataDir, fileName))
}

func patchReport(from, to *numbench.Report, dataDir string, out io.Writer) error {
	skipped, err := store.Merge(to, from)
	if err != nil {
		return fmt.Errorf("%s: %w", numbench.FileName(from.Family, from.Library), err)
	}
	for _, label := range skipped {
		fmt.Fprintf(out, "skip duplicated row %s in %s\n", label, numbench.FileName(from.Family, from.Library))
	}
	_, err = numbench.WriteReportFile(dataDir, to)
	return err
}
