// Copyright (C) 2025 The jparse authors. All Rights Reserved.

package main

import (
	"fmt"
	"io"
	"time"

	"fortio.org/safecast"
	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var statPrinter = message.NewPrinter(language.English)

func printStats(w io.Writer, res *fileResult) {
	size, _ := safecast.Conv[uint64](res.size) // file sizes are nonnegative
	fmt.Fprintf(w, "File size: %s\n", humanize.Bytes(size))
	fmt.Fprintf(w, "Tokens: %s\n", statPrinter.Sprintf("%d", res.tokenCount))
	fmt.Fprintln(w, "Time spent:")
	fmt.Fprintf(w, "  lexing  %.1f ms\n", toMillis(res.lexTime))
	fmt.Fprintf(w, "  parsing %.1f ms\n", toMillis(res.parseTime))
	fmt.Fprintf(w, "  total   %.1f ms\n", toMillis(res.lexTime+res.parseTime))
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
