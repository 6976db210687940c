// Copyright (C) 2025 The jparse authors. All Rights Reserved.

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"jparse"
)

// scanPass re-drives a fresh scanner over the input, counting tokens and
// optionally serializing them to the side file.  Parsing is a separate pass,
// so the dump never alters parse semantics; on large inputs this extra pass
// is simply slow.
func (r *fileResult) scanPass(set runSettings) error {
	f, err := os.Open(r.path)
	if err != nil {
		return err
	}
	defer f.Close()

	// The interface must stay untyped nil in count-only mode; assigning a nil
	// *bufio.Writer would defeat the nil check in dumpTokens.
	var w io.Writer
	var bw *bufio.Writer
	if set.tokens {
		out, err := os.Create(tokensFileName(r.path, set.singleFile))
		if err != nil {
			return err
		}
		defer out.Close()
		bw = bufio.NewWriter(out)
		w = bw
	}

	sc := jparse.NewScanner(f)
	start := time.Now()
	n, err := dumpTokens(w, sc)
	r.lexTime = time.Since(start)
	r.tokenCount = n

	if bw != nil {
		if ferr := bw.Flush(); ferr != nil && err == nil {
			err = ferr
		}
	}
	return err
}

// tokensFileName returns "tokens.txt" for the single-input case; with several
// inputs each dump is named after its source file so the dumps do not collide.
func tokensFileName(path string, single bool) string {
	if single {
		return "tokens.txt"
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "-tokens.txt"
}

// dumpTokens drives sc to the end of its input, writing one line per token
// when w is non-nil.  String tokens are written with their decoded payload,
// numbers with their raw text.  It reports the number of tokens seen; a
// lexical error truncates the dump and is returned after an error line.
func dumpTokens(w io.Writer, sc *jparse.Scanner) (int64, error) {
	var n int64
	for {
		err := sc.Next()
		if err == io.EOF {
			if w != nil {
				fmt.Fprintf(w, "%5d: eof at %v [%d]\n", n+1, sc.Location().First, sc.Span().Pos)
			}
			return n, nil
		} else if err != nil {
			if w != nil {
				fmt.Fprintf(w, "error: %v\n", err)
			}
			return n, err
		}
		n++
		if w == nil {
			continue
		}

		loc := sc.Location()
		fmt.Fprintf(w, "%5d: %-9s", n, sc.Token())
		switch sc.Token() {
		case jparse.String:
			fmt.Fprintf(w, " %q", sc.Unescape())
		case jparse.Integer, jparse.Number:
			fmt.Fprintf(w, " %s", sc.Text())
		}
		fmt.Fprintf(w, " at %v [%d..%d]\n", loc.First, loc.Pos, loc.End)
	}
}
