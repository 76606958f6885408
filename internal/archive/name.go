// Package archive implements the grisbi archive format: a gzip-compressed
// tar stream named <target>-YYYY-MM-DD-HHMMSS.tar.gz.age. The encryption
// layer on top of the stream lives in the crypt package.
package archive

import (
	"regexp"
	"time"
)

// Suffix is the extension shared by all grisbi archives.
const Suffix = ".tar.gz.age"

// timeLayout is the timestamp embedded in archive filenames, local time.
const timeLayout = "2006-01-02-150405"

// namePattern matches the fixed-width timestamp immediately before the
// suffix. Anything else is not a grisbi archive name.
var namePattern = regexp.MustCompile(`-(\d{4}-\d{2}-\d{2}-\d{6})\.tar\.gz\.age$`)

// Filename returns the archive filename for a target name and capture time.
func Filename(name string, t time.Time) string {
	return name + "-" + t.Format(timeLayout) + Suffix
}

// ParseFilename extracts the capture time embedded in an archive filename,
// interpreted in local time to match Filename. ok is false when the name
// does not carry a valid timestamp; callers skip such files, never fail.
func ParseFilename(filename string) (t time.Time, ok bool) {
	m := namePattern.FindStringSubmatch(filename)
	if m == nil {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(timeLayout, m[1], time.Local)
	if err != nil {
		// Matched the shape but not a real instant, e.g. month 13.
		return time.Time{}, false
	}
	return t, true
}
