package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/ekklesia/appicon"
	"github.com/ekklesia/appicon/utils"
)

const helpBanner = `
┌─┐┌─┐┌─┐┬┌─┐┌─┐┌┐┌
├─┤├─┘├─┘││  │ ││││
┴ ┴┴  ┴  ┴└─┘└─┘┘└┘

Launcher icon generator from SVG sources.
    Version: %s

`

// pipeName is the file name that indicates stdin is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	source       = flag.String("in", appicon.DefaultNames.Source, "Source SVG file, directory, URL or - for stdin")
	destination  = flag.String("out", "", "Destination directory (defaults to the source directory)")
	size         = flag.Int("size", appicon.DefaultSize, "Icon size in pixels")
	background   = flag.String("bg", "", "Flatten the full icon onto this hex color (e.g. #ffffff)")
	backgroundOp = flag.String("bg-op", "", "Composition of the artwork with the background (src_over, dst_in, xor, ...)")
	inset        = flag.Int("inset", 0, "Foreground padding in percent on each side")
	sizes        = flag.String("sizes", "", "Extra icon sizes or presets (android, ios, web), comma separated")
	monochrome   = flag.Bool("monochrome", false, "Generate the monochrome layer of themed icons")
	favicon      = flag.Bool("favicon", false, "Generate a favicon.ico")
	faviconSize  = flag.Int("favicon-size", appicon.DefaultFaviconSize, "Favicon size in pixels")
	stretch      = flag.Bool("stretch", false, "Ignore the aspect ratio of the SVG viewBox")
	configPath   = flag.String("config", "", "YAML configuration file")
	workers      = flag.Int("conc", runtime.NumCPU(), "Number of files to process concurrently")
	version      = flag.Bool("version", false, "Show the version")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, helpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *version {
		fmt.Printf("appicon version: %s\n", Version)
		return
	}
	if !utils.IsTerminal(os.Stderr) {
		utils.NoColor = true
	}

	proc := &appicon.Processor{
		Size:         *size,
		Background:   *background,
		BackgroundOp: *backgroundOp,
		Inset:        *inset,
		Monochrome:   *monochrome,
		Favicon:      *favicon,
		FaviconSize:  *faviconSize,
		Stretch:      *stretch,
	}
	if *sizes != "" {
		list, err := appicon.ParseSizes(*sizes)
		if err != nil {
			log.Fatal(utils.DecorateText(err.Error(), utils.ErrorMessage))
		}
		proc.Sizes = list
	}

	op := &appicon.Ops{
		Src:      *source,
		Dst:      *destination,
		PipeName: pipeName,
		Workers:  *workers,
		Names:    appicon.DefaultNames,
	}

	if *configPath != "" {
		cfg, err := appicon.LoadConfig(*configPath)
		if err != nil {
			log.Fatal(utils.DecorateText(err.Error(), utils.ErrorMessage))
		}
		set := make(map[string]bool)
		flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
		cfg.Apply(proc, op, func(name string) bool { return set[name] })
	}

	fmt.Fprintf(os.Stderr, "Converting %s to PNG...\n", op.Src)

	if err := proc.Execute(op); err != nil {
		if appicon.IsSourceError(err) {
			appicon.PrintGuidance(os.Stderr, err)
			os.Exit(1)
		}
		log.Fatalf("%s\n\t%s",
			utils.DecorateText("Error generating the icons:", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
	}
	appicon.PrintNextSteps(os.Stderr)
}
