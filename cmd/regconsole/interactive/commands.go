package interactive

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vitolink/regconsole/pkg/editor"
	"github.com/vitolink/regconsole/pkg/regapi"
	"github.com/vitolink/regconsole/pkg/register"
)

// cmdList handles the list command.
func (c *Console) cmdList() {
	catalog := c.editor.Catalog()
	if len(catalog) == 0 {
		fmt.Fprintln(c.out, "Catalog is empty")
		return
	}

	selected := c.editor.Snapshot().Selected
	for i, d := range catalog {
		marker := " "
		if i == selected {
			marker = "*"
		}
		fmt.Fprintf(c.out, "%s %2d  %-16s %s  %d byte(s)  %s\n",
			marker, i,
			c.styles.name.Render(d.Name),
			c.styles.address.Render(d.Address),
			d.Size,
			c.styles.dim.Render(string(d.Transform)))
	}
}

// cmdSelect handles the select command. The argument is a catalog index or
// a register name, which may contain spaces.
func (c *Console) cmdSelect(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(c.out, "Usage: select <index|name>")
		return
	}

	index, err := strconv.Atoi(args[0])
	if err != nil || len(args) > 1 {
		name := strings.Join(args, " ")
		_, i, ok := c.editor.Catalog().Lookup(name)
		if !ok {
			c.printError(fmt.Errorf("%w: %q", register.ErrNoSuchEntry, name))
			return
		}
		index = i
	}

	c.report(c.editor.SelectIndex(ctx, index))
}

// cmdAddress handles the addr command.
func (c *Console) cmdAddress(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: addr <0xNNNN>")
		return
	}
	if err := c.editor.EditAddress(args[0]); err != nil {
		c.printError(err)
		return
	}
	c.cmdShow()
}

// cmdSize handles the size command.
func (c *Console) cmdSize(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: size <1-8>")
		return
	}
	if err := c.editor.EditSize(args[0]); err != nil {
		c.printError(err)
		return
	}
	c.cmdShow()
}

// cmdHex handles the hex command.
func (c *Console) cmdHex(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: hex <data>")
		return
	}
	if err := c.editor.EditHex(args[0]); err != nil {
		c.printError(err)
		return
	}
	c.cmdShow()
}

// cmdUnsigned handles the uint command.
func (c *Console) cmdUnsigned(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: uint <value>")
		return
	}
	if err := c.editor.EditUnsigned(args[0]); err != nil {
		c.printError(err)
		return
	}
	c.cmdShow()
}

// cmdRefresh handles the refresh command.
func (c *Console) cmdRefresh(ctx context.Context) {
	c.report(c.editor.Refresh(ctx))
}

// cmdSet handles the set command. An argument is applied as hex data
// before writing.
func (c *Console) cmdSet(ctx context.Context, args []string) {
	if len(args) > 1 {
		fmt.Fprintln(c.out, "Usage: set [hex]")
		return
	}
	if len(args) == 1 {
		if err := c.editor.EditHex(args[0]); err != nil {
			c.printError(err)
			return
		}
	}
	c.report(c.editor.Submit(ctx))
}

// cmdShow handles the show command.
func (c *Console) cmdShow() {
	s := c.editor.Snapshot()

	title := s.Address
	if s.Name != "" {
		title = s.Name + " " + s.Address
	}
	fmt.Fprintf(c.out, "%s  size %d  %s\n",
		c.styles.name.Render(title), s.Size, c.styles.state.Render(string(s.State)))

	if s.HasValue() {
		line := fmt.Sprintf("  hex %s  uint %s",
			c.styles.value.Render(s.HexText()), c.styles.value.Render(s.UnsignedText()))
		if s.Reading != "" {
			line += "  " + c.styles.reading.Render(s.Reading)
		}
		fmt.Fprintln(c.out, line)
	} else {
		fmt.Fprintln(c.out, c.styles.dim.Render("  no value"))
	}

	if s.Err != "" {
		fmt.Fprintln(c.out, "  "+c.styles.err.Render(s.Err))
	}
}

// cmdScan handles the scan command.
func (c *Console) cmdScan(ctx context.Context, args []string) {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(c.out, "Usage: scan <from..to> [size]")
		return
	}

	from, to, err := regapi.ParseRange(args[0])
	if err != nil {
		c.printError(err)
		return
	}
	size := 1
	if len(args) == 2 {
		if size, err = register.ParseSize(args[1]); err != nil {
			c.printError(err)
			return
		}
	}

	var ok, failed int
	err = regapi.Scan(ctx, c.api, from, to, size, func(r regapi.ScanResult) {
		if r.Err != nil {
			failed++
			return
		}
		ok++
		line := fmt.Sprintf("%s  %s", c.styles.address.Render(r.Address), c.styles.value.Render(r.Data))
		if v, err := register.HexToUnsigned(r.Data); err == nil {
			line += fmt.Sprintf("  %d", v)
		}
		fmt.Fprintln(c.out, line)
	})
	if err != nil {
		c.printError(err)
	}
	fmt.Fprintf(c.out, "%d read, %d failed\n", ok, failed)
}

// report prints the editor state after a read or write.
func (c *Console) report(err error) {
	switch {
	case err == nil:
		c.cmdShow()
	case errors.Is(err, editor.ErrNoData), errors.Is(err, register.ErrNoSuchEntry):
		c.printError(err)
	default:
		// The editor keeps the error; show it with the last good value.
		c.cmdShow()
	}
}

func (c *Console) printError(err error) {
	fmt.Fprintln(c.out, c.styles.err.Render("Error: "+err.Error()))
}
