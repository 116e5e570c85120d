package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/nativecall"
	"github.com/wippyai/nativecall/abi"
	"github.com/wippyai/nativecall/arranger"
	"github.com/wippyai/nativecall/binding"
	"github.com/wippyai/nativecall/sigfile"
)

type styles struct {
	title    lipgloss.Style
	fn       lipgloss.Style
	typ      lipgloss.Style
	class    lipgloss.Style
	storage  lipgloss.Style
	selected lipgloss.Style
	err      lipgloss.Style
	help     lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{plain, plain, plain, plain, plain, plain, plain, plain}
	}
	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
		fn:      lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98")),
		typ:     lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		class:   lipgloss.NewStyle().Foreground(lipgloss.Color("#F0E68C")),
		storage: lipgloss.NewStyle().Foreground(lipgloss.Color("#90EE90")),
		selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")),
		err:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		help: lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
	}
}

// arrangement is one function arranged for one variant.
type arrangement struct {
	err     error
	seq     *binding.CallingSequence
	name    string
	sig     arranger.Signature
	variant abi.Variant
	upcall  bool
}

func arrangeFunction(fn sigfile.Function, v abi.Variant) arrangement {
	a := arrangement{name: fn.Name, sig: fn.Signature, variant: v, upcall: fn.Upcall}
	if fn.Upcall {
		a.seq, a.err = nativecall.ArrangeUpcall(v, fn.Signature)
	} else {
		a.seq, a.err = nativecall.Arrange(v, fn.Signature)
	}
	return a
}

func pad(s string, n int) string {
	return fmt.Sprintf("%-*s", n, s)
}

func render(st styles, a arrangement) string {
	var b strings.Builder

	dir := "downcall"
	if a.upcall {
		dir = "upcall"
	}
	fmt.Fprintf(&b, "%s %s  %s\n", st.fn.Render(a.name), st.typ.Render(a.sig.Key()),
		st.help.Render(fmt.Sprintf("[%s %s]", a.variant, dir)))

	if a.err != nil {
		b.WriteString("  ")
		b.WriteString(st.err.Render(a.err.Error()))
		b.WriteByte('\n')
		return b.String()
	}

	seq := a.seq
	first := 0
	if seq.InMemoryReturn() {
		writeLine(&b, st, "ret ptr", "*"+seq.ReturnLayout().String(), "indirect", seq.ArgumentBindings(0))
		first = 1
	}
	for i := first; i < seq.NumArguments(); i++ {
		arg := seq.Argument(i)
		class, _ := arranger.Classify(arg.Layout)
		writeLine(&b, st, fmt.Sprintf("arg %d", i-first), arg.Layout.String(), class.String(), arg.Bindings)
	}
	if ret, ok := seq.Return(); ok {
		class, _ := arranger.Classify(seq.ReturnLayout())
		writeLine(&b, st, "ret", seq.ReturnLayout().String(), class.String(), ret)
	}

	fmt.Fprintf(&b, "  %s stack %d bytes, in-memory return %v\n",
		st.help.Render("└"), seq.StackSize(), seq.InMemoryReturn())
	return b.String()
}

func writeLine(b *strings.Builder, st styles, label, typ, class string, bs []binding.Binding) {
	fmt.Fprintf(b, "  %s %s %s %s\n",
		pad(label, 8),
		st.typ.Render(pad(typ, 22)),
		st.class.Render(pad(class, 16)),
		st.storage.Render(strings.Join(moves(bs), " ")))

	steps := make([]string, len(bs))
	for i, bind := range bs {
		steps[i] = bind.String()
	}
	fmt.Fprintf(b, "  %s %s\n", pad("", 8), st.help.Render(strings.Join(steps, ", ")))
}

// moves lists the native locations a recipe touches with the value type
// each one is moved as.
func moves(bs []binding.Binding) []string {
	var out []string
	for _, bind := range bs {
		switch bind := bind.(type) {
		case binding.VMStore:
			out = append(out, bind.Storage.String()+":"+api.ValueTypeName(bind.Carrier.CoreType()))
		case binding.VMLoad:
			out = append(out, bind.Storage.String()+":"+api.ValueTypeName(bind.Carrier.CoreType()))
		}
	}
	return out
}
