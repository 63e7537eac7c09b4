/*
Package appicon generates the raster launcher icon assets of a mobile application
from a single SVG source. The SVG is rendered into a 1024x1024 PNG full icon and a
transparency aware foreground layer used by adaptive launcher icons, ready to be
picked up by flutter_launcher_icons.

The package provides a command line interface, supporting various flags for the
additional assets (background flattening, foreground inset, density presets, favicon).
To check the supported commands type:

	$ appicon --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"fmt"
		"os"

		"github.com/ekklesia/appicon"
	)

	func main() {
		p := &appicon.Processor{Size: 1024}

		f, _ := os.Open("assets/images/app_icon.svg")
		defer f.Close()

		if _, err := p.Process(f, "assets/images", appicon.DefaultNames); err != nil {
			fmt.Printf("Error generating the icons: %s", err.Error())
		}
	}
*/
package appicon
