// Command nvc is the ahead-of-time compiler driver: it reads one source
// file, runs it through the lex -> parse -> typecheck -> codegen pipeline,
// and writes the resulting NASM text to the output path.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/repr"
	"github.com/grailbio/base/log"

	"github.com/nvlang/nvc/ast"
	"github.com/nvlang/nvc/codegen"
	"github.com/nvlang/nvc/lexer"
	"github.com/nvlang/nvc/parser"
	"github.com/nvlang/nvc/token"
	"github.com/nvlang/nvc/typecheck"
)

func main() {
	dumpTokens := flag.Bool("dump-tokens", false, "print the lexed token stream before compiling")
	dumpAST := flag.Bool("dump-ast", false, "print the parsed AST before type checking")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s <input_file> <output_file>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <input_file> <output_file>\n", filepath.Base(os.Args[0]))
		os.Exit(1)
	}
	inputPath, outputPath := args[0], args[1]

	source, err := os.ReadFile(inputPath)
	if err != nil {
		log.Printf("cannot read %s: %v", inputPath, err)
		os.Exit(1)
	}

	prog, err := compile(string(source), *dumpTokens, *dumpAST)
	if err != nil {
		reportFatal(err)
		os.Exit(1)
	}

	asm, err := codegen.Generate(prog)
	if err != nil {
		reportFatal(err)
		os.Exit(1)
	}

	if err := os.WriteFile(outputPath, []byte(asm), 0o644); err != nil {
		log.Printf("cannot write %s: %v", outputPath, err)
		os.Exit(1)
	}
}

// compile runs the lex -> parse -> typecheck stages and returns the
// checked AST. Token/AST dumps, when requested, run after a successful
// parse and never affect the exit code or the compiled output.
func compile(source string, dumpTokens, dumpAST bool) (*ast.Program, error) {
	var opts []parser.Option
	if dumpTokens {
		opts = append(opts, parser.WithTokenTrace())
	}

	p := parser.New(lexer.New(source)).WithOptions(opts...)
	prog, err := p.ParseProgram()
	if err != nil {
		return nil, err
	}

	if dumpTokens {
		for _, tok := range p.TokenTrace() {
			fmt.Fprintf(os.Stderr, "%s %s\n", tok.Pos, tok.Kind)
		}
	}
	if dumpAST {
		repr.Println(prog)
	}

	if err := typecheck.Check(prog); err != nil {
		return nil, err
	}
	return prog, nil
}

// reportFatal prints a pipeline error with its source position, when one
// is attached, via the shared fatal-abort logger.
func reportFatal(err error) {
	if f, ok := err.(*token.Fatal); ok && !f.Pos.IsZero() {
		log.Printf("%s: %s at %s", f.Stage, f.Msg, f.Pos)
		return
	}
	log.Printf("%v", err)
}
