package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xyproto/env/v2"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/nativecall/abi"
	"github.com/wippyai/nativecall/arranger"
	"github.com/wippyai/nativecall/sigfile"
)

func main() {
	var (
		sigFile     = flag.String("f", "", "Path to signature file (YAML)")
		abiName     = flag.String("abi", env.Str("NATIVECALL_ABI"), "ABI variant: linux, macos, windows or all (default: file abi, then host)")
		funcName    = flag.String("func", "", "Only show this function")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", env.Bool("NATIVECALL_DEBUG"), "Log arrangement decisions")
		plain       = flag.Bool("plain", env.Str("NO_COLOR") != "", "Disable styling")
	)
	flag.Parse()

	if *sigFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: arrange -f <signatures.yaml> [-abi linux|macos|windows|all] [-func name]")
		fmt.Fprintln(os.Stderr, "       arrange -f <signatures.yaml> -i  (interactive mode)")
		os.Exit(1)
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = logger.Sync() }()
		arranger.SetLogger(logger)
	}

	module, err := loadModule(*sigFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	variants, err := selectVariants(*abiName, module)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *interactive {
		if err := runInteractive(*sigFile, module, variants[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	color := !*plain && term.IsTerminal(int(os.Stdout.Fd()))
	if err := run(os.Stdout, newStyles(color), module, variants, *funcName); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadModule(path string) (*sigfile.Module, error) {
	f, err := sigfile.Load(path)
	if err != nil {
		return nil, err
	}
	return f.Resolve()
}

// selectVariants resolves the -abi flag. An empty name falls back to the
// file's abi and then to the host variant.
func selectVariants(name string, m *sigfile.Module) ([]abi.Variant, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "all":
		return abi.Variants(), nil
	case "":
		return []abi.Variant{m.Variant(abi.NativeVariant())}, nil
	}
	v, err := abi.ParseVariant(name)
	if err != nil {
		return nil, err
	}
	return []abi.Variant{v}, nil
}

// run prints every selected function for every variant. Failed
// arrangements are printed inline and reported once at the end.
func run(w io.Writer, st styles, m *sigfile.Module, variants []abi.Variant, funcName string) error {
	fns := m.Functions
	if funcName != "" {
		fn, ok := m.Function(funcName)
		if !ok {
			return fmt.Errorf("function %q not found", funcName)
		}
		fns = []sigfile.Function{fn}
	}

	failed := 0
	for _, v := range variants {
		fmt.Fprintf(w, "%s\n\n", st.title.Render("AAPCS64 "+v.String()))
		for _, fn := range fns {
			a := arrangeFunction(fn, v)
			if a.err != nil {
				failed++
			}
			fmt.Fprintln(w, render(st, a))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d arrangement(s) failed", failed)
	}
	return nil
}
