package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vitolink/regconsole/pkg/editor"
	"github.com/vitolink/regconsole/pkg/regapi"
	"github.com/vitolink/regconsole/pkg/register"
)

var errUsage = errors.New("usage")

// target resolves a catalog name or an address. A size of 0 keeps the
// catalog size, or the default size for plain addresses.
func target(catalog register.Catalog, arg string, size int) (register.Descriptor, error) {
	d, _, ok := catalog.Lookup(arg)
	if !ok {
		addr, err := register.ParseAddress(arg)
		if err != nil {
			return register.Descriptor{}, err
		}
		d, ok = catalog.FindAddress(addr)
		if !ok {
			d = register.Descriptor{Address: addr, Name: addr, Size: regapi.DefaultSize}
		}
	}
	if size > 0 {
		d.Size = size
	}
	return d, nil
}

// runList prints the catalog as tab separated lines.
func runList(out io.Writer, catalog register.Catalog) error {
	for i, d := range catalog {
		fmt.Fprintf(out, "%d\t%s\t%s\t%d\t%s\n", i, d.Address, d.Name, d.Size, d.Transform)
	}
	return nil
}

// runRead handles: read <address|name> [size]
func runRead(ctx context.Context, out io.Writer, ed *editor.Editor, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("%w: read <address|name> [size]", errUsage)
	}
	size := 0
	if len(args) == 2 {
		var err error
		if size, err = register.ParseSize(args[1]); err != nil {
			return err
		}
	}

	d, err := target(ed.Catalog(), args[0], size)
	if err != nil {
		return err
	}
	if err := ed.Select(ctx, d); err != nil {
		return err
	}
	printValue(out, ed.Snapshot())
	return nil
}

// runWrite handles: write <address|name> <hex>
func runWrite(ctx context.Context, out io.Writer, ed *editor.Editor, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: write <address|name> <hex>", errUsage)
	}
	data, err := register.ParseHexData(args[1])
	if err != nil {
		return err
	}

	d, err := target(ed.Catalog(), args[0], len(data)/2)
	if err != nil {
		return err
	}
	if err := ed.EditAddress(d.Address); err != nil {
		return err
	}
	if err := ed.EditSize(strconv.Itoa(d.Size)); err != nil {
		return err
	}
	if err := ed.EditHex(data); err != nil {
		return err
	}
	if err := ed.Submit(ctx); err != nil {
		return err
	}
	printValue(out, ed.Snapshot())
	return nil
}

// runScan handles: scan <from..to> [size]
func runScan(ctx context.Context, out io.Writer, api regapi.API, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("%w: scan <from..to> [size]", errUsage)
	}
	from, to, err := regapi.ParseRange(args[0])
	if err != nil {
		return err
	}
	size := 1
	if len(args) == 2 {
		if size, err = register.ParseSize(args[1]); err != nil {
			return err
		}
	}

	return regapi.Scan(ctx, api, from, to, size, func(r regapi.ScanResult) {
		if r.Err != nil {
			return
		}
		fmt.Fprintf(out, "%s\t%s\n", r.Address, r.Data)
	})
}

// printValue prints "address hex unsigned [reading]" separated by tabs.
func printValue(out io.Writer, s editor.Snapshot) {
	fields := []string{s.Address, s.HexText(), s.UnsignedText()}
	if s.Reading != "" {
		fields = append(fields, s.Reading)
	}
	fmt.Fprintln(out, strings.Join(fields, "\t"))
}
