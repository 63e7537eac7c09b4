package utils

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// DownloadFile downloads the vector image from the internet and saves it into a temporary file.
// The caller is responsible for removing the file once it has been processed.
func DownloadFile(uri string) (*os.File, error) {
	res, err := http.Get(uri)
	if err != nil {
		return nil, fmt.Errorf("unable to download image file from URI: %s: %w", uri, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unable to download image file from URI: %s, status %v", uri, res.Status)
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read response body: %w", err)
	}

	if !IsSVG(data) {
		return nil, fmt.Errorf("the downloaded file is not a valid SVG image")
	}

	tmpfile, err := os.CreateTemp("", "appicon-*.svg")
	if err != nil {
		return nil, fmt.Errorf("unable to create temporary file: %w", err)
	}

	// Copy the image data into the temporary file.
	if _, err := io.Copy(tmpfile, bytes.NewReader(data)); err != nil {
		tmpfile.Close()
		os.Remove(tmpfile.Name())
		return nil, fmt.Errorf("unable to copy the source URI into the destination file: %w", err)
	}
	if _, err := tmpfile.Seek(0, io.SeekStart); err != nil {
		tmpfile.Close()
		os.Remove(tmpfile.Name())
		return nil, err
	}

	return tmpfile, nil
}

// IsValidUrl tests a string to determine if it is a well-structured url or not.
func IsValidUrl(uri string) bool {
	if _, err := url.ParseRequestURI(uri); err != nil {
		return false
	}

	u, err := url.Parse(uri)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}

	return true
}

// IsSVG reports whether data looks like an SVG document. The MIME sniffer of net/http
// reports SVG files as plain text or XML, so the root element has to be looked up by hand.
// The whole document is searched, since editors may emit long prologues before it.
func IsSVG(data []byte) bool {
	ctype := http.DetectContentType(data)
	if !strings.HasPrefix(ctype, "text/") && !strings.Contains(ctype, "svg") {
		return false
	}
	return bytes.Contains(bytes.ToLower(data), []byte("<svg"))
}
