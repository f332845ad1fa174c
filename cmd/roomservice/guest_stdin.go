package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"roomservice/order"
)

// stdinGuest collects remediation choices from a terminal session.
type stdinGuest struct {
	in  *bufio.Scanner
	out io.Writer
}

func newStdinGuest(in io.Reader, out io.Writer) *stdinGuest {
	return &stdinGuest{in: bufio.NewScanner(in), out: out}
}

// Choose prints the offered options and reads a 1-based pick. Blank or
// unparseable input takes the first option.
func (g *stdinGuest) Choose(ctx context.Context, item order.LineItem, v order.Violation, opts []order.RemediationOption) (order.RemediationOption, error) {
	if len(opts) == 0 {
		return order.RemediationOption{}, fmt.Errorf("no options offered for %q", item.Name)
	}

	fmt.Fprintf(g.out, "\nProblem with %d x %s: %s\n", item.Quantity, item.Name, v.Detail)
	for i, opt := range opts {
		fmt.Fprintf(g.out, "  %d) %s\n", i+1, opt.Rationale)
	}
	fmt.Fprintf(g.out, "Pick an option [1-%d]: ", len(opts))

	if !g.in.Scan() {
		if err := g.in.Err(); err != nil {
			return order.RemediationOption{}, err
		}
		return order.RemediationOption{}, io.EOF
	}

	n, err := strconv.Atoi(strings.TrimSpace(g.in.Text()))
	if err != nil || n < 1 || n > len(opts) {
		n = 1
	}
	return opts[n-1], nil
}

// Room prompts for a replacement room number.
func (g *stdinGuest) Room(ctx context.Context, current string, v order.Violation) (string, error) {
	fmt.Fprintf(g.out, "\nRoom %q was rejected: %s\nEnter room number: ", current, v.Detail)

	if !g.in.Scan() {
		if err := g.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(g.in.Text()), nil
}
