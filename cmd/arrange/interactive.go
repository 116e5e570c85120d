package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/nativecall/abi"
	"github.com/wippyai/nativecall/sigfile"
)

type modelState int

const (
	stateSelectFunc modelState = iota
	stateEditVariadic
)

// variadicOverride replaces a function's variadic start while exploring.
type variadicOverride struct {
	first    int
	variadic bool
}

type interactiveModel struct {
	err       error
	module    *sigfile.Module
	overrides map[string]variadicOverride
	filename  string
	input     textinput.Model
	st        styles
	selected  int
	variant   abi.Variant
	state     modelState
}

func newInteractiveModel(filename string, m *sigfile.Module, v abi.Variant) *interactiveModel {
	ti := textinput.New()
	ti.Prompt = "first variadic index: "
	ti.Placeholder = "n, or - for fixed arity"
	ti.Width = 30
	ti.CharLimit = 4

	return &interactiveModel{
		module:    m,
		overrides: make(map[string]variadicOverride),
		filename:  filename,
		input:     ti,
		st:        newStyles(true),
		variant:   v,
		state:     stateSelectFunc,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.state == stateEditVariadic {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.state == stateEditVariadic {
		switch key.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.state = stateSelectFunc
			m.input.Blur()
			m.err = nil
			return m, nil
		case "enter":
			m.applyVariadic(m.input.Value())
			if m.err == nil {
				m.state = stateSelectFunc
				m.input.Blur()
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}

	case "down", "j":
		if m.selected < len(m.module.Functions)-1 {
			m.selected++
		}

	case "tab":
		vs := abi.Variants()
		m.variant = vs[(int(m.variant)+1)%len(vs)]

	case "shift+tab":
		vs := abi.Variants()
		m.variant = vs[(int(m.variant)+len(vs)-1)%len(vs)]

	case "v":
		if len(m.module.Functions) > 0 {
			m.input.SetValue("")
			m.input.Focus()
			m.state = stateEditVariadic
			return m, textinput.Blink
		}

	case "r":
		if fn, ok := m.current(); ok {
			delete(m.overrides, fn.Name)
		}
	}
	return m, nil
}

// applyVariadic parses the edited index: a number sets the variadic start,
// "-" makes the function fixed-arity and an empty value drops the override.
func (m *interactiveModel) applyVariadic(value string) {
	fn, ok := m.current()
	if !ok {
		return
	}
	value = strings.TrimSpace(value)
	switch value {
	case "":
		delete(m.overrides, fn.Name)
	case "-":
		m.overrides[fn.Name] = variadicOverride{}
	default:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 || n > len(fn.Signature.Params) {
			m.err = fmt.Errorf("index must be between 0 and %d", len(fn.Signature.Params))
			return
		}
		m.overrides[fn.Name] = variadicOverride{first: n, variadic: true}
	}
	m.err = nil
}

// current returns the selected function with any override applied.
func (m *interactiveModel) current() (sigfile.Function, bool) {
	if m.selected >= len(m.module.Functions) {
		return sigfile.Function{}, false
	}
	fn := m.module.Functions[m.selected]
	if o, ok := m.overrides[fn.Name]; ok {
		fn.Signature.Variadic = o.variadic
		fn.Signature.FirstVariadic = o.first
	}
	return fn, true
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(m.st.title.Render("AAPCS64 Arranger"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("  ")
	b.WriteString(m.st.selected.Render(" " + m.variant.String() + " "))
	b.WriteString("\n\n")

	if len(m.module.Functions) == 0 {
		b.WriteString("No functions declared.\n\n")
		b.WriteString(m.st.help.Render("q quit"))
		return b.String()
	}

	for i, fn := range m.module.Functions {
		line := fn.Name
		if _, ok := m.overrides[fn.Name]; ok {
			line += " *"
		}
		if i == m.selected {
			b.WriteString(m.st.selected.Render("> " + line))
		} else {
			b.WriteString("  " + m.st.fn.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if fn, ok := m.current(); ok {
		b.WriteString(render(m.st, arrangeFunction(fn, m.variant)))
	}
	b.WriteString("\n")

	switch m.state {
	case stateEditVariadic:
		b.WriteString(m.input.View())
		b.WriteString("\n")
		if m.err != nil {
			b.WriteString(m.st.err.Render(m.err.Error()))
			b.WriteString("\n")
		}
		b.WriteString(m.st.help.Render("enter apply • esc cancel"))
	default:
		b.WriteString(m.st.help.Render("↑/↓ select • tab abi • v variadic index • r reset • q quit"))
	}
	return b.String()
}

func runInteractive(filename string, m *sigfile.Module, v abi.Variant) error {
	p := tea.NewProgram(newInteractiveModel(filename, m, v), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
