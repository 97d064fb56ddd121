// Command resolvectl runs the matcher, alias table and payee normalizer
// offline, without the bookkeeping system or the HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/erp/resolver/internal/domain/shared"
)

func main() {
	if err := newRootCmd(shared.SystemClock).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
