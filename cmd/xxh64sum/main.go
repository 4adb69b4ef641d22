// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command xxh64sum prints xxh64 checksums of files.
//
// Usage:
//
//	xxh64sum [--seed N] [--quiet] [FILE...]
//	xxh64sum [--seed N] --string TEXT...
//
// With no FILE, or when FILE is -, standard input is read. Each line of
// output has the form "<16 hex digits>  <name>".
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/pflag"

	"code.hybscloud.com/rtcore/xxh64"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	seed    uint64
	quiet   bool
	strings bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options
	fs := pflag.NewFlagSet("xxh64sum", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Uint64Var(&opts.seed, "seed", 0, "hash seed")
	fs.BoolVarP(&opts.quiet, "quiet", "q", false, "print only the checksum")
	fs.BoolVarP(&opts.strings, "string", "s", false, "hash the arguments themselves instead of files")
	fs.AddGoFlagSet(flag.CommandLine)
	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}
	defer glog.Flush()

	w := bufio.NewWriter(stdout)
	defer w.Flush()

	names := fs.Args()
	if opts.strings {
		for _, s := range names {
			emit(w, opts, xxh64.Sum64String(s, opts.seed), fmt.Sprintf("%q", s))
		}
		return 0
	}

	if len(names) == 0 {
		names = []string{"-"}
	}
	status := 0
	d := xxh64.NewWithSeed(opts.seed)
	for _, name := range names {
		d.Reset()
		if err := digestFile(d, name, stdin); err != nil {
			glog.Warningf("xxh64sum: %s: %v", name, err)
			fmt.Fprintf(stderr, "xxh64sum: %s: %v\n", name, err)
			status = 1
			continue
		}
		emit(w, opts, d.Sum64(), name)
	}
	return status
}

func digestFile(d *xxh64.Digest, name string, stdin io.Reader) error {
	if name == "-" {
		_, err := io.Copy(d, stdin)
		return err
	}
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(d, f)
	return err
}

func emit(w io.Writer, opts options, sum uint64, name string) {
	if opts.quiet {
		fmt.Fprintf(w, "%016x\n", sum)
		return
	}
	fmt.Fprintf(w, "%016x  %s\n", sum, name)
}
