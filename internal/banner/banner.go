/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

/*
Package banner provides the startup banner for the SQLFront tools.

The ASCII art logo is embedded at compile time with the go:embed
directive, so the binaries have no runtime file dependencies. ANSI
color codes are applied only when the caller asks for them (callers
gate on TTY detection).
*/
package banner

import (
	_ "embed" // Required for the //go:embed directive
	"fmt"
	"io"
	"runtime"
	"strings"
)

// Version is the SQLFront release version.
const Version = "1.2.0"

//go:embed banner.txt
var banner string

const (
	colorCyan  = "\033[36m"
	colorDim   = "\033[2m"
	colorReset = "\033[0m"
)

// Fprint writes the banner and version line to w. When color is true,
// ANSI escape codes are applied.
func Fprint(w io.Writer, color bool) {
	logo := strings.TrimRight(banner, "\n")
	info := fmt.Sprintf("SQLFront v%s - SQL lexer, parser & semantic analyzer (%s, %s/%s)",
		Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)

	if color {
		fmt.Fprintln(w, colorCyan+logo+colorReset)
		fmt.Fprintln(w, colorDim+info+colorReset)
	} else {
		fmt.Fprintln(w, logo)
		fmt.Fprintln(w, info)
	}
	fmt.Fprintln(w)
}
