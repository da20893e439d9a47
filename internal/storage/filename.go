package storage

import (
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

	windowsDeviceNames = deviceNames()

	// device names only need escaping where the filesystem reserves them
	onWindows = runtime.GOOS == "windows"
)

func deviceNames() map[string]bool {
	names := map[string]bool{"CON": true, "PRN": true, "AUX": true, "NUL": true}
	for i := 0; i <= 9; i++ {
		names["COM"+strconv.Itoa(i)] = true
		names["LPT"+strconv.Itoa(i)] = true
	}
	return names
}

// SecureFilename reduces name to a flat ASCII filename that is safe to join
// onto the upload directory. It can return "" when nothing usable is left.
func SecureFilename(name string) string {
	var ascii strings.Builder
	for _, r := range norm.NFKD.String(name) {
		if r < 0x80 {
			ascii.WriteRune(r)
		}
	}

	name = strings.NewReplacer("/", " ", `\`, " ").Replace(ascii.String())
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")

	if onWindows && name != "" && windowsDeviceNames[strings.ToUpper(strings.SplitN(name, ".", 2)[0])] {
		name = "_" + name
	}

	return name
}
