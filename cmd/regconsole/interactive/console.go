// Package interactive provides the interactive command-line interface
// of regconsole.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/vitolink/regconsole/pkg/editor"
	"github.com/vitolink/regconsole/pkg/regapi"
)

// Console runs editor commands typed by an operator.
type Console struct {
	editor *editor.Editor
	api    regapi.API
	out    io.Writer
	styles styles
	rl     *readline.Instance
}

// New creates a console reading from the terminal.
func New(ed *editor.Editor, api regapi.API) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "reg> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	c := NewWithWriter(ed, api, rl.Stdout())
	c.rl = rl
	return c, nil
}

// NewWithWriter creates a console that writes to out. Commands are fed
// through Execute.
func NewWithWriter(ed *editor.Editor, api regapi.API, out io.Writer) *Console {
	return &Console{
		editor: ed,
		api:    api,
		out:    out,
		styles: newStyles(out),
	}
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (c *Console) Stdout() io.Writer {
	return c.out
}

// Run starts the interactive command loop.
func (c *Console) Run(ctx context.Context) {
	defer c.rl.Close()

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		c.rl.SetPrompt(c.prompt())
		line, err := c.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.out, "Exiting...")
			return
		}

		if !c.Execute(ctx, line) {
			fmt.Fprintln(c.out, "Exiting...")
			return
		}
	}
}

// prompt shows the active register.
func (c *Console) prompt() string {
	s := c.editor.Snapshot()
	if s.Name != "" {
		return fmt.Sprintf("reg %s> ", s.Name)
	}
	return fmt.Sprintf("reg %s> ", s.Address)
}

// Execute runs one command line. It returns false when the console should
// exit.
func (c *Console) Execute(ctx context.Context, line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return true
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		c.printHelp()

	case "list", "ls":
		c.cmdList()

	case "select", "sel":
		c.cmdSelect(ctx, args)

	case "addr", "address", "a":
		c.cmdAddress(args)

	case "size":
		c.cmdSize(args)

	case "hex", "x":
		c.cmdHex(args)

	case "uint", "u":
		c.cmdUnsigned(args)

	case "refresh", "read", "r":
		c.cmdRefresh(ctx)

	case "set", "write", "w":
		c.cmdSet(ctx, args)

	case "show", "s":
		c.cmdShow()

	case "scan":
		c.cmdScan(ctx, args)

	case "quit", "exit", "q":
		return false

	default:
		fmt.Fprintf(c.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, `
Register Console Commands:
  Selection:
    list                   - List catalog registers
    select <index|name>    - Select a catalog register and read it
    addr <0xNNNN>          - Change address (no read)
    size <1-8>             - Change size in bytes (no read)

  Value:
    hex <data>             - Edit raw hex data (device byte order)
    uint <value>           - Edit unsigned value (decimal or 0x hex)
    refresh                - Read the register
    set [hex]              - Write the current (or given) hex data
    show                   - Show the editor state

  Tools:
    scan <from..to> [size] - Read a range of addresses

  General:
    help                   - Show this help
    quit                   - Exit console`)
}

func completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("help"),
		readline.PcItem("list"),
		readline.PcItem("select"),
		readline.PcItem("addr"),
		readline.PcItem("size"),
		readline.PcItem("hex"),
		readline.PcItem("uint"),
		readline.PcItem("refresh"),
		readline.PcItem("set"),
		readline.PcItem("show"),
		readline.PcItem("scan"),
		readline.PcItem("quit"),
	)
}
