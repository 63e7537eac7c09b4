package appicon

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/ekklesia/appicon/utils"
	"golang.org/x/term"
)

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

// ErrSourceUnavailable is returned when the icon source could not be located or read.
var ErrSourceUnavailable = errors.New("the icon source is not available")

// Ops holds the source and destination of an icon generation run.
type Ops struct {
	// Src is an SVG file, a directory of SVG files, an URL or the pipe name.
	Src string
	// Dst is the output directory. It defaults to the directory of the source.
	Dst      string
	PipeName string
	Workers  int
	Names    Names
	// Out receives the status messages, os.Stderr if nil.
	Out io.Writer
}

// result holds the relevant information about the generation process of a single icon.
type result struct {
	path string
	res  *Result
	err  error
}

// Execute runs the icon generation over the source described by op.
// A directory source is processed concurrently, every other source in the calling goroutine.
func (p *Processor) Execute(op *Ops) error {
	if op.Out == nil {
		op.Out = os.Stderr
	}
	op.Names = op.Names.withDefaults()

	if err := p.Validate(); err != nil {
		return err
	}
	if p.Spinner == nil {
		p.Spinner = utils.NewSpinner(op.Out, fmt.Sprintf("%s %s",
			utils.DecorateText("⚡ APPICON", utils.StatusMessage),
			utils.DecorateText("⇢ rendering the launcher icon...", utils.DefaultMessage),
		), time.Millisecond*80)
	}

	// Capture CTRL-C signal and restores back the cursor visibility.
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	stop := make(chan struct{})
	defer func() {
		signal.Stop(signalChan)
		close(stop)
	}()
	go func() {
		select {
		case <-signalChan:
			p.Spinner.RestoreCursor()
			os.Exit(1)
		case <-stop:
		}
	}()

	now := time.Now()
	if err := op.dispatch(p); err != nil {
		return err
	}
	fmt.Fprintf(op.Out, "\nExecution time: %s\n",
		utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))

	return nil
}

// dispatch selects the processing mode based on the source type.
func (op *Ops) dispatch(p *Processor) error {
	// Check if the source path is a local image or URL.
	if utils.IsValidUrl(op.Src) {
		src, err := utils.DownloadFile(op.Src)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		}
		defer os.Remove(src.Name())
		defer src.Close()

		_, err = op.process(p, src, op.dstOr("."), op.Names, true)
		return err
	}

	// Check if the source is a pipe name or a regular file.
	if op.Src == op.PipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New("`-` should be used with a pipe for stdin")
		}
		_, err := op.process(p, os.Stdin, op.dstOr("."), op.Names, true)
		return err
	}

	fs, err := os.Stat(op.Src)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	switch mode := fs.Mode(); {
	case mode.IsDir():
		return op.batch(p, op.dstOr(op.Src))
	case mode.IsRegular() || mode&os.ModeNamedPipe != 0:
		src, err := os.Open(op.Src)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		}
		defer src.Close()

		_, err = op.process(p, src, op.dstOr(filepath.Dir(op.Src)), op.Names, true)
		return err
	default:
		return fmt.Errorf("%w: %s is not a regular file", ErrSourceUnavailable, op.Src)
	}
}

// batch processes recursively the SVG files found in the source directory
// with a bounded number of workers.
func (op *Ops) batch(p *Processor, dest string) error {
	var wg sync.WaitGroup

	if err := os.MkdirAll(dest, 0755); err != nil {
		return fmt.Errorf("unable to create the destination directory: %w", err)
	}

	// Limit the concurrently running workers to maxWorkers.
	workers := op.Workers
	if workers <= 0 || workers > maxWorkers {
		workers = runtime.NumCPU()
	}

	ch := make(chan result)
	done := make(chan struct{})
	defer close(done)

	paths, errc := walkDir(done, op.Src, []string{".svg"})

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			op.consumer(p, dest, ch, done, paths)
		}()
	}

	// Close the channel after the values are consumed.
	go func() {
		defer close(ch)
		wg.Wait()
	}()

	var total, failed int
	for res := range ch {
		total++
		if res.err != nil {
			failed++
		}
		op.printOpStatus(res.path, res.res, res.err)
	}

	if err := <-errc; err != nil {
		return fmt.Errorf("unable to walk the source directory: %w", err)
	}
	if total == 0 {
		return fmt.Errorf("%w: no SVG files found in %s", ErrSourceUnavailable, op.Src)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d icons could not be generated", failed, total)
	}
	return nil
}

// consumer reads the path names from the paths channel and generates the icons of each source.
func (op *Ops) consumer(
	p *Processor,
	dest string,
	res chan<- result,
	done <-chan struct{},
	paths <-chan string,
) {
	for src := range paths {
		r := result{path: src}

		f, err := os.Open(src)
		if err != nil {
			r.err = err
		} else {
			r.res, r.err = op.process(p, f, op.mirrorDir(dest, src), NamesFor(src), false)
			f.Close()
		}

		select {
		case <-done:
			return
		case res <- r:
		}
	}
}

// process generates the icons of a single source and reports the outcome.
// The progress indicator is only used when a single icon is processed.
func (op *Ops) process(p *Processor, r io.Reader, dir string, names Names, single bool) (*Result, error) {
	if !single {
		return p.Process(r, dir, names)
	}

	p.Spinner.Start()
	res, err := p.Process(r, dir, names)
	if err != nil {
		p.Spinner.StopMsg = fmt.Sprintf("%s %s %s",
			utils.DecorateText("⚡ APPICON", utils.StatusMessage),
			utils.DecorateText("generating the icon failed...", utils.DefaultMessage),
			utils.DecorateText("✘", utils.ErrorMessage),
		)
		p.Spinner.Stop()
		return nil, err
	}

	p.Spinner.StopMsg = fmt.Sprintf("%s %s %s",
		utils.DecorateText("⚡ APPICON", utils.StatusMessage),
		utils.DecorateText("⇢", utils.DefaultMessage),
		utils.DecorateText("the icons have been generated successfully ✔", utils.SuccessMessage),
	)
	p.Spinner.Stop()
	op.printOpStatus(names.Source, res, nil)

	return res, nil
}

// printOpStatus displays the relevant information about the generated assets.
func (op *Ops) printOpStatus(src string, res *Result, err error) {
	if err != nil {
		fmt.Fprintf(op.Out, "%s %s\n",
			utils.DecorateText(fmt.Sprintf("Error generating the icons of %s:", src), utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
		return
	}
	for _, path := range res.Paths() {
		fmt.Fprintf(op.Out, "✅ Created: %s\n", utils.DecorateText(path, utils.SuccessMessage))
	}
}

// mirrorDir returns the output directory of src, recreating its location
// relative to the source directory under dest. Icons sharing a file name
// in different subdirectories are kept apart this way.
func (op *Ops) mirrorDir(dest, src string) string {
	rel, err := filepath.Rel(op.Src, filepath.Dir(src))
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return dest
	}
	return filepath.Join(dest, rel)
}

func (op *Ops) dstOr(def string) string {
	if op.Dst != "" {
		return op.Dst
	}
	return def
}

// walkDir starts a new goroutine to walk the specified directory tree
// in recursive manner and sends the path of each supported file to a new channel.
// It finishes in case the done channel is getting closed.
func walkDir(
	done <-chan struct{},
	src string,
	srcExts []string,
) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		// Close the paths channel after Walk returns.
		defer close(pathChan)

		errChan <- filepath.Walk(src, func(path string, f os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !f.Mode().IsRegular() {
				return nil
			}
			if !isValidExtension(filepath.Ext(f.Name()), srcExts) {
				return nil
			}

			select {
			case <-done:
				return errors.New("directory walk cancelled")
			case pathChan <- path:
			}
			return nil
		})
	}()
	return pathChan, errChan
}

// isValidExtension checks for the supported extensions.
func isValidExtension(ext string, extensions []string) bool {
	for _, ex := range extensions {
		if strings.EqualFold(ex, ext) {
			return true
		}
	}
	return false
}
