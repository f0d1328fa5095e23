package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/teris-io/cli"

	"kestrel.dev/armjit"
	"kestrel.dev/armjit/internal/armsim"
	"kestrel.dev/armjit/pkg/hostdef"
)

var Description = strings.ReplaceAll(`
The armjit command compiles a single arithmetic expression to a stream of
32-bit ARM (A32) instruction words and prints them as a numbered list of hex words.
Names the expression references are resolved against a host symbol
definition file (see pkg/hostdef); pass --run to additionally interpret the
emitted code and print the value it evaluates to.
`, "\n", " ")

var ArmJit = cli.New(Description).
	WithArg(cli.NewArg("expression", "The arithmetic expression to compile")).
	WithArg(cli.NewArg("symbols", "Host symbol definition file resolving the expression's externs")).
	WithOption(cli.NewOption("run", "Interprets the emitted code and prints its result").
		WithType(cli.TypeBool)).
	WithAction(Handler)

func Handler(args []string, options map[string]string) int {
	symbolsFile, err := os.Open(args[1])
	if err != nil {
		fmt.Printf("ERROR: Unable to open symbols file: %s\n", err)
		return -1
	}
	defer symbolsFile.Close()

	syms, host, err := hostdef.Parse(symbolsFile)
	if err != nil {
		fmt.Printf("ERROR: Unable to parse symbols file: %s\n", err)
		return -1
	}

	out := make([]uint32, 256)
	n, err := armjit.Compile(args[0], syms, out)
	if err != nil {
		fmt.Printf("ERROR: Unable to compile expression: %s\n", err)
		return -1
	}
	words := out[:n]

	for i, w := range words {
		fmt.Printf("%04d: %#08x\n", i, w)
	}

	if _, run := options["run"]; run {
		result, err := armsim.Run(words, armsim.NewHost(host))
		if err != nil {
			fmt.Printf("ERROR: Unable to run emitted code: %s\n", err)
			return -1
		}
		fmt.Printf("= %d\n", result)
	}

	return 0
}

func main() { os.Exit(ArmJit.Run(os.Args, os.Stdout)) }
