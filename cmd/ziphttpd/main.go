// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command ziphttpd serves the contents of a ZIP archive over HTTP/1.1.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	err := newRootCmd(os.Stdout).ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
