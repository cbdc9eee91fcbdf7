// Copyright (c) 2025 BVK Chaitanya

// Package cli implements minimal command-line parsing on top of the
// standard library's flag.FlagSets.
//
// Commands can be grouped into subcommands of arbitrary depth. Flags
// defined by ancestor commands stay visible to their descendants.
// Special top-level commands "help", "flags" and "commands" are added
// for documentation, collected through optional interfaces: commands
// can implement `interface{ Synopsis() string }` for a one-line
// description and `interface{ CommandHelp() string }` for longer
// documentation.
//
// # EXAMPLE
//
//	type listCmd struct {
//		cmdutil.ClientFlags
//	}
//
//	func (c *listCmd) Command() (*flag.FlagSet, cli.CmdFunc) {
//		fset := flag.NewFlagSet("list", flag.ContinueOnError)
//		c.ClientFlags.SetFlags(fset)
//		return fset, cli.CmdFunc(c.run)
//	}
//
//	func (c *listCmd) run(ctx context.Context, args []string) error {
//		...
//		return nil
//	}
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"
)

// CmdFunc is the execution function of a resolved command.
type CmdFunc func(ctx context.Context, args []string) error

// Command is the interface all commands and command groups implement.
type Command interface {
	// Command returns the command's flags and execution function. The
	// returned flag set must be non-nil and carry the command name.
	// Groups return a nil CmdFunc.
	Command() (*flag.FlagSet, CmdFunc)
}

// CommandGroup nests a collection of commands under a parent name.
func CommandGroup(name, synopsis string, cmds ...Command) Command {
	return &group{
		flags:    flag.NewFlagSet(name, flag.ContinueOnError),
		synopsis: synopsis,
		subcmds:  cmds,
	}
}

// Run resolves the best command for the given arguments and executes
// it. Flags from flag.CommandLine and every group on the way to the
// resolved command are processed as well.
func Run(ctx context.Context, cmds []Command, args []string) error {
	if cmds == nil {
		return os.ErrInvalid
	}
	root := group{
		flags:   flag.CommandLine,
		subcmds: cmds,
	}
	return root.run(ctx, args)
}

type group struct {
	flags    *flag.FlagSet
	synopsis string
	subcmds  []Command

	specialCmd string
}

var specialCmds = []string{"help", "flags", "commands"}

// Command implements the Command interface.
func (g *group) Command() (*flag.FlagSet, CmdFunc) {
	return g.flags, nil
}

func (g *group) run(ctx context.Context, args []string) error {
	cmdpath, rest, err := g.resolve(args)
	if err != nil {
		return err
	}

	switch g.specialCmd {
	case "help":
		return g.printHelp(os.Stderr, cmdpath)
	case "flags":
		return g.printFlags(os.Stderr, cmdpath)
	case "commands":
		return g.printCommands(os.Stderr, cmdpath)
	}

	_, fun := cmdpath[len(cmdpath)-1].Command()
	if fun == nil {
		return g.printHelp(os.Stderr, cmdpath)
	}
	return fun(ctx, rest)
}

// resolve walks the arguments, descending into subcommands and setting
// flags on any flag set along the resolved command path.
func (g *group) resolve(args []string) ([]Command, []string, error) {
	type boolFlag interface {
		flag.Value
		IsBoolFlag() bool
	}

	cmdMap := make(map[string]Command)
	prepCmdMap := func(cmds []Command) {
		m := make(map[string]Command)
		for _, c := range cmds {
			fs, _ := c.Command()
			m[fs.Name()] = c
		}
		cmdMap = m
	}
	prepCmdMap(g.subcmds)

	fspath := []*flag.FlagSet{flag.CommandLine}
	lookup := func(s string) (*flag.Flag, bool) {
		for i := len(fspath) - 1; i >= 0; i-- {
			if f := fspath[i].Lookup(s); f != nil {
				return f, true
			}
		}
		return nil, false
	}

	var i int
	cmdpath := []Command{g}
	for i = 0; i < len(args); i++ {
		s := args[i]

		// "--" stops subcommand and flag resolution.
		if s == "--" {
			i++
			break
		}

		if len(s) < 2 || s[0] != '-' {
			// Non-flag argument goes to the last subcommand.
			if len(cmdMap) == 0 {
				break
			}

			subcmd, ok := cmdMap[s]
			if !ok {
				if len(cmdpath) == 1 && slices.Contains(specialCmds, s) {
					g.specialCmd = s
					continue
				}
				return nil, nil, fmt.Errorf("command not defined: %s", s)
			}
			cmdpath = append(cmdpath, subcmd)

			if sg, ok := subcmd.(*group); ok {
				prepCmdMap(sg.subcmds)
				continue
			}

			// A leaf command ends subcommand processing; its flags
			// still resolve below.
			prepCmdMap(nil)
			fs, _ := subcmd.Command()
			fspath = append(fspath, fs)
			continue
		}

		// Strip the '-' or '--' prefix and split off any '=value'.
		name := s[1:]
		if s[1] == '-' {
			name = s[2:]
		}
		if len(name) == 0 || name[0] == '-' || name[0] == '=' {
			return nil, nil, fmt.Errorf("bad flag syntax: %s", s)
		}
		name, value, hasValue := strings.Cut(name, "=")

		fv, ok := lookup(name)
		if !ok {
			return nil, nil, fmt.Errorf("flag provided but not defined: -%s", name)
		}

		// Boolean flags do not need an argument.
		if bf, ok := fv.Value.(boolFlag); ok && bf.IsBoolFlag() {
			if !hasValue {
				value = "true"
			}
			if err := bf.Set(value); err != nil {
				return nil, nil, fmt.Errorf("invalid boolean value %q for -%s: %w", value, name, err)
			}
			continue
		}

		// Other flags take a value, possibly from the next argument.
		if !hasValue && i+1 < len(args) {
			hasValue = true
			value = args[i+1]
			i++
		}
		if !hasValue {
			return nil, nil, fmt.Errorf("flag needs an argument: -%s", name)
		}
		if err := fv.Value.Set(value); err != nil {
			return nil, nil, fmt.Errorf("invalid value %q for flag -%s: %w", value, name, err)
		}
	}

	return cmdpath, args[i:], nil
}
