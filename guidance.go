package appicon

import (
	"fmt"
	"io"

	"github.com/ekklesia/appicon/utils"
)

// alternatives lists the manual ways of producing the icons when the source cannot be rendered.
var alternatives = []string{
	"Use an online generator: https://www.appicon.co",
	"Export the SVG file to a 1024x1024 PNG from an image editor",
	"See the instructions in: assets/images/CRIAR_ICONE.md",
}

// nextSteps are the flutter commands installing the generated icons into the platform projects.
var nextSteps = []string{
	"flutter pub get",
	"flutter pub run flutter_launcher_icons",
}

// PrintGuidance explains how to obtain the icons when the SVG source could not be rendered.
func PrintGuidance(w io.Writer, err error) {
	fmt.Fprintf(w, "❌ %s\n", utils.DecorateText("Unable to render the icon source.", utils.ErrorMessage))
	if err != nil {
		fmt.Fprintf(w, "\tReason: %v\n", err)
	}
	fmt.Fprintln(w, "Make sure the SVG file exists and is a valid SVG document.")
	fmt.Fprintln(w, "\nOr use one of the options:")
	for i, alt := range alternatives {
		fmt.Fprintf(w, "%d. %s\n", i+1, alt)
	}
}

// PrintNextSteps shows the commands to run once the icons have been generated.
func PrintNextSteps(w io.Writer) {
	fmt.Fprintf(w, "\n✅ %s\n", utils.DecorateText("Icons generated successfully!", utils.SuccessMessage))
	fmt.Fprintf(w, "Now run: %s\n", utils.DecorateText(nextSteps[0], utils.StatusMessage))
	fmt.Fprintf(w, "Then run: %s\n", utils.DecorateText(nextSteps[1], utils.StatusMessage))
}
