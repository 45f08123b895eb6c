// Package compiler drives one anybuf build: it reads the configured
// schema sources with the parser, then renders the resolved tree with
// every configured code generator.
//
// Each run gets a compile ID that tags its log lines. When a metrics
// collector is supplied the run also records compile, diagnostic and
// output metrics.
//
//	c := compiler.New(cfg, logger, collector)
//	res, err := c.Compile(ctx, compiler.Request{})
//	if err != nil {
//	    for _, line := range res.DiagnosticStrings() {
//	        fmt.Println(line)
//	    }
//	}
package compiler
