// Package bughunter provides an embedded Go client for the bug-hunter
// documentation retrieval and code analysis pipeline, without running the
// HTTP server.
//
// The client wires the retrieval planner, the documentation index driver
// and the completion provider in-process:
//
//	client, _ := bughunter.New(ctx,
//	    bughunter.WithOpenAI(os.Getenv("OPENAI_API_KEY"), "gpt-4o-mini"),
//	    bughunter.WithLocalIndex("", "corpus.jsonl"),
//	)
//	defer client.Close()
//
//	result := client.Retrieve(ctx, code, bughunter.BugReport{
//	    BugsFound: []bughunter.Bug{{BugType: "memory_leak", Description: "..."}},
//	})
//	fmt.Println(result.SynthesizedContext)
//
// Custom completion providers and index backends plug in through the
// Generator and Searcher interfaces:
//
//	client, _ := bughunter.New(ctx,
//	    bughunter.WithGenerator(myProvider),
//	    bughunter.WithSearcher(myIndex),
//	)
package bughunter
