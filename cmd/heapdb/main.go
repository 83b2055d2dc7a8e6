// Command heapdb is an interactive shell over the engine and sql packages,
// mirroring the REPL convention every fork in the course lineage declares
// in its go.mod even though none of them checked a main.go into the pack.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/chzyer/readline"

	"heapdb/engine"
	"heapdb/sql"
)

func main() {
	catalogFile := flag.String("catalog", "catalog.txt", "path to the catalog file")
	rootDir := flag.String("dir", ".", "directory holding the catalog and table files")
	bufPoolSize := flag.Int("bufpages", 0, "buffer pool capacity in pages (0 = default)")
	flag.Parse()

	bp, err := engine.NewBufferPool(*bufPoolSize)
	if err != nil {
		log.Fatalf("heapdb: %v", err)
	}

	catalog := engine.NewCatalog(*catalogFile, bp, *rootDir)
	if err := catalog.ParseCatalogFile(); err != nil {
		log.Fatalf("heapdb: loading catalog: %v", err)
	}

	ctx := engine.NewContext(catalog, bp)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "heapdb> ",
		HistoryFile:     "/tmp/heapdb_history.tmp",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		log.Fatalf("heapdb: %v", err)
	}
	defer rl.Close()

	fmt.Println("heapdb REPL -- type SQL statements, or .exit to quit")
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == ".exit" || line == ".quit" {
			return
		}
		runStatement(ctx, line)
	}
}

func runStatement(ctx *engine.Context, stmt string) {
	tid := engine.NewTID()
	ctx.BP.BeginTransaction(tid)

	op, err := sql.Translate(ctx, tid, stmt)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if op == nil {
		ctx.BP.CommitTransaction(tid)
		fmt.Println("ok")
		return
	}

	iter, err := op.Iterator(tid)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	printTupleDesc(op.Descriptor())
	n := 0
	for {
		t, err := iter()
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		if t == nil {
			break
		}
		printTuple(t)
		n++
	}
	ctx.BP.CommitTransaction(tid)
	fmt.Printf("(%d row(s))\n", n)
}

func printTupleDesc(desc *engine.TupleDesc) {
	names := make([]string, len(desc.Fields))
	for i, f := range desc.Fields {
		names[i] = f.Fname
	}
	fmt.Println(strings.Join(names, "\t"))
}

func printTuple(t *engine.Tuple) {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		switch v := f.(type) {
		case engine.IntField:
			parts[i] = fmt.Sprintf("%d", v.Value)
		case engine.StringField:
			parts[i] = v.Value
		default:
			parts[i] = fmt.Sprintf("%v", f)
		}
	}
	fmt.Println(strings.Join(parts, "\t"))
}
